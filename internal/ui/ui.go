// Package ui provides the user interface implementations for ezinit.
// It includes a fuzzy finder UI, a terminal UI and a Rofi UI.
package ui

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/driquet/ezinit/internal/template"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// ErrUserAborted is returned when the user cancels an input/selection operation.
var ErrUserAborted = huh.ErrUserAborted

// UI defines the interface for user interactions.
type UI interface {
	// SelectTemplate asks the user to choose a template.
	// It returns the language of the selected template.
	SelectTemplate(templates map[template.Language]*template.Template) (template.Language, error)

	// Select asks the user to choose among a list of possible choices.
	Select(prompt string, choices []string) (string, error)

	// Prompt expects an answer from the user.
	Prompt(prompt string) (string, error)
}

// sortByUsage returns the templates, most used first. Ties are broken by
// language so the order is stable.
func sortByUsage(templates map[template.Language]*template.Template) []*template.Template {
	sorted := make([]*template.Template, 0, len(templates))
	for _, t := range templates {
		sorted = append(sorted, t)
	}
	slices.SortFunc(sorted, func(a, b *template.Template) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
	return sorted
}

// preview describes a template for the preview panes.
func preview(t *template.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n", t.Language.DisplayName())
	fmt.Fprintf(&b, "Used %d times\n\n", t.Count)
	fmt.Fprintf(&b, "%s\n\nFiles:\n", t.Description)
	for _, p := range t.Paths() {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	return b.String()
}

// FuzzyConfig holds the configuration for the Fuzzy UI.
type FuzzyConfig struct{}

// Fuzzy implements the UI interface using a fuzzy finder for selections.
type Fuzzy struct {
	config FuzzyConfig

	// Prompts are read from in and written to out.
	in  io.Reader
	out io.Writer
}

// NewFuzzy creates a new Fuzzy UI instance with the given configuration.
func NewFuzzy(config FuzzyConfig) UI {
	return &Fuzzy{
		config: config,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SelectTemplate lets the user pick a template with a fuzzy finder, most
// used first, with a preview of the template files.
func (u *Fuzzy) SelectTemplate(templates map[template.Language]*template.Template) (template.Language, error) {
	sorted := sortByUsage(templates)

	idx, err := fuzzyfinder.Find(
		sorted,
		func(i int) string {
			return fmt.Sprintf("%5d %s", sorted[i].Count, sorted[i].Language)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(sorted[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrUserAborted
		}
		return "", fmt.Errorf("failed to find template: %w", err)
	}

	return sorted[idx].Language, nil
}

// Select lets the user pick one of choices with a fuzzy finder.
func (u *Fuzzy) Select(prompt string, choices []string) (string, error) {
	idx, err := fuzzyfinder.Find(
		choices,
		func(i int) string {
			return choices[i]
		},
		fuzzyfinder.WithPromptString(prompt+"> "),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrUserAborted
		}
		return "", fmt.Errorf("failed to select choice: %w", err)
	}
	return choices[idx], nil
}

// Prompt reads a line of text from standard input.
func (u *Fuzzy) Prompt(prompt string) (string, error) {
	reader := bufio.NewReader(u.in)
	fmt.Fprintf(u.out, "%s> ", prompt)
	input, err := reader.ReadString('\n')
	// The last line of piped input may lack its newline.
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// TerminalUI implements the UI interface using Bubble Tea and Huh
type TerminalUI struct{}

// NewTerminalUI creates a new TerminalUI instance
func NewTerminalUI() *TerminalUI {
	return &TerminalUI{}
}

// Select uses huh.Form for simple selection
func (t *TerminalUI) Select(prompt string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices available")
	}

	var selected string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(prompt).
				Options(huh.NewOptions(choices...)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}

	return selected, nil
}

// Prompt uses huh.Form for text input
func (t *TerminalUI) Prompt(prompt string) (string, error) {
	var input string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(prompt).
				Value(&input),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	return input, nil
}
