package main

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/driquet/ezinit/internal/editor"
	"github.com/driquet/ezinit/internal/engine"
	"github.com/driquet/ezinit/internal/greeting"
	"github.com/driquet/ezinit/internal/placeholder"
	"github.com/driquet/ezinit/internal/template"
	"github.com/spf13/cobra"
)

// completeTemplateArgs completes "<lang> <path>" arguments from the
// embedded catalog, which needs no runtime.
func completeTemplateArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	catalog, err := template.LoadCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	switch len(args) {
	case 0:
		var langs []string
		for _, lang := range catalog.Languages() {
			langs = append(langs, string(lang))
		}
		return langs, cobra.ShellCompDirectiveNoFileComp
	case 1:
		lang, err := template.ParseLanguage(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		t, _ := catalog.Get(lang)
		return t.Paths(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func (a *app) newCommand() *cobra.Command {
	var (
		lang   string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Generate a new project",
		Long: `Generate a new project from a built-in template.

The project name is the display name embedded in the greeting. The lowercase
identifier derived from it names the include directory, the C++ namespace and
the Python package, and its uppercase form is used in header guards.

When the language or the project name is missing and the terminal is
interactive, you will be asked for it. Existing files are never overwritten
without confirmation unless --force is given.`,
		Example: `  # Generate a C++ project in ./my_demo
  ezinit new "My Demo" --lang cxx

  # Pick the template interactively
  ezinit new

  # Generate into a specific directory, overwriting existing files
  ezinit new demo --lang c --output /tmp/demo --force`,
		Args:     cobra.MaximumNArgs(1),
		PreRunE:  a.setupRuntime,
		PostRunE: a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.GenerateOptions{
				OutputDir:   output,
				Force:       force,
				Interactive: a.interactive(),
			}
			if len(args) == 1 {
				opts.ProjectName = args[0]
			}
			if lang != "" {
				l, err := template.ParseLanguage(lang)
				if err != nil {
					return err
				}
				opts.Language = l
			}

			result, err := a.engine.Generate(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %s project %q in %s\n",
				template.Language(result.Project.Language).DisplayName(), result.Project.Name, result.Project.Path)
			for _, f := range result.Files {
				rel, err := filepath.Rel(result.Project.Path, f)
				if err != nil {
					rel = f
				}
				fmt.Fprintf(out, "  %s\n", filepath.ToSlash(rel))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Template language: c, cxx or python.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory. Defaults to the project identifier.")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files without asking.")
	cmd.Flags().StringVar(&a.ui, "ui", "", "Specify UI: 'terminal', 'fuzzy' or 'rofi'. Overrides config.")

	_ = cmd.RegisterFlagCompletionFunc("lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeTemplateArgs(cmd, nil, toComplete)
	})

	return cmd
}

func (a *app) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect the built-in templates.",
	}

	listCmd := &cobra.Command{
		Use:      "list",
		Short:    "List the templates",
		Args:     cobra.NoArgs,
		PreRunE:  a.setupRuntime,
		PostRunE: a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LANGUAGE\tNAME\tUSED\tOVERRIDES\tDESCRIPTION")
			for _, lang := range a.engine.Languages() {
				t, _ := a.engine.Get(lang)
				overrides, err := a.engine.Overrides(lang)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", lang, lang.DisplayName(), t.Count, len(overrides), t.Description)
			}
			return w.Flush()
		},
	}

	var (
		name   string
		raw    bool
		toClip bool
	)
	showCmd := &cobra.Command{
		Use:   "show <lang> <path>",
		Short: "Print a template file",
		Long: `Print a template file rendered for a project name.

With --raw, the file is printed as stored, placeholder tokens included.
With --clipboard, the content is copied to the clipboard instead.`,
		Example: `  ezinit template show cxx src/hello.cpp --name demo
  ezinit template show c include/__NAME__/hello.h --raw`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTemplateArgs,
		PreRunE:           a.setupRuntime,
		PostRunE:          a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := template.ParseLanguage(args[0])
			if err != nil {
				return err
			}

			var content string
			if raw {
				content, err = a.engine.TemplateFile(lang, args[1])
			} else {
				var f template.File
				f, err = a.engine.RenderFile(lang, args[1], name)
				content = f.Content
			}
			if err != nil {
				return err
			}

			if toClip {
				if err := clipboard.WriteAll(content); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s copied to clipboard.\n", args[1])
				return nil
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		},
	}
	showCmd.Flags().StringVarP(&name, "name", "n", "demo", "Project name used for rendering.")
	showCmd.Flags().BoolVar(&raw, "raw", false, "Print the template without substitution.")
	showCmd.Flags().BoolVarP(&toClip, "clipboard", "c", false, "Copy the content to the clipboard.")

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func (a *app) overrideCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Customize template files.",
		Long: `Overrides replace the content of a built-in template file for every
project generated afterwards. They may use the same placeholder tokens:
__NAME__, __NAME_UPPER__ and ${PROJECT_NAME}.`,
	}

	setCmd := &cobra.Command{
		Use:   "set <lang> <path> [content]",
		Short: "Override a template file",
		Long: `Override a template file.

If no content is provided, your editor opens with the current content of the
file. The override is saved when you close the editor.

The editor priority is: config file > VISUAL env var > EDITOR env var > system
default.`,
		Example: `  # Edit the C++ source template
  ezinit override set cxx src/hello.cpp

  # Replace the C test with inline content
  ezinit override set c tests/test_hello.c "int main(void) { return 0; }"`,
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: completeTemplateArgs,
		PreRunE:           a.setupRuntime,
		PostRunE:          a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := template.ParseLanguage(args[0])
			if err != nil {
				return err
			}

			if len(args) == 3 {
				return a.engine.SetOverride(lang, args[1], args[2])
			}

			current, err := a.engine.TemplateFile(lang, args[1])
			if err != nil {
				return err
			}
			content, err := editor.Edit(a.config.Editor, current, "ezinit_*"+path.Ext(args[1]))
			if err != nil {
				return err
			}
			if content == current {
				fmt.Fprintln(cmd.ErrOrStderr(), "No change.")
				return nil
			}
			return a.engine.SetOverride(lang, args[1], content)
		},
	}

	delCmd := &cobra.Command{
		Use:               "del <lang> <path>",
		Short:             "Restore the built-in content of a template file",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTemplateArgs,
		PreRunE:           a.setupRuntime,
		PostRunE:          a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := template.ParseLanguage(args[0])
			if err != nil {
				return err
			}
			return a.engine.DeleteOverride(lang, args[1])
		},
	}

	listCmd := &cobra.Command{
		Use:               "list [lang]",
		Short:             "List overridden template files",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTemplateArgs,
		PreRunE:           a.setupRuntime,
		PostRunE:          a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := a.engine.Languages()
			if len(args) == 1 {
				lang, err := template.ParseLanguage(args[0])
				if err != nil {
					return err
				}
				langs = []template.Language{lang}
			}

			for _, lang := range langs {
				overrides, err := a.engine.Overrides(lang)
				if err != nil {
					return err
				}
				paths := make([]string, 0, len(overrides))
				for p := range overrides {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", lang, p)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(setCmd, delCmd, listCmd)
	return cmd
}

func (a *app) greetCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "greet <lang>",
		Short: "Print the greeting a generated project prints",
		Example: `  ezinit greet cxx --name demo
  # Hello from demo!
  # This is a C++ project template.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := template.ParseLanguage(args[0])
			if err != nil {
				return err
			}

			values, err := placeholder.NewValues(name)
			if err != nil {
				return err
			}

			return greeting.Print(cmd.OutOrStdout(), greeting.Message(lang.DisplayName(), values[placeholder.ProjectName]))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "demo", "Project name.")

	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:      "history",
		Short:    "List the generated projects, newest first",
		Args:     cobra.NoArgs,
		PreRunE:  a.setupRuntime,
		PostRunE: a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.engine.History()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No project generated yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tLANGUAGE\tNAME\tPATH")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.CreatedAt.Format("2006-01-02 15:04"), p.Language, p.Name, p.Path)
			}
			return w.Flush()
		},
	}
}
