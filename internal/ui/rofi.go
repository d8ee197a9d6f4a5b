package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/driquet/ezinit/internal/template"
)

// RofiConfig holds configuration specific to the Rofi user interface.
type RofiConfig struct {
	// Path is the command or path to the Rofi executable.
	Path string `toml:"path"`
	// Theme specifies the Rofi theme to use. If empty, Rofi's default theme is used.
	Theme string `toml:"theme,omitempty"`
	// SelectArgs are extra arguments to pass to Rofi when used for selections.
	SelectArgs []string `toml:"select_args,omitempty"`
	// InputArgs are extra arguments to pass to Rofi when used for free-form text input.
	InputArgs []string `toml:"input_args,omitempty"`
}

// RofiUI implements the UI interface using Rofi for user interactions.
type RofiUI struct {
	config RofiConfig
}

// NewRofiUI creates a new RofiUI instance with the given Rofi configuration.
func NewRofiUI(config RofiConfig) UI {
	return &RofiUI{config: config}
}

// runRofi executes a Rofi command with the given arguments and input string.
// It returns the selected string or an error.
func (u *RofiUI) runRofi(prompt string, input string, args []string) (string, error) {
	cmdArgs := []string{"-dmenu"}
	if prompt != "" {
		cmdArgs = append(cmdArgs, "-p", prompt)
	}

	if u.config.Theme != "" {
		cmdArgs = append(cmdArgs, "-theme", u.config.Theme)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(u.config.Path, cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Rofi exits with status 1 on Esc. Codes 10 to 13 are custom keybindings.
		var exitError *exec.ExitError
		if errors.As(err, &exitError) && exitError.ExitCode() == 1 {
			return "", ErrUserAborted
		}
		return "", fmt.Errorf("rofi command failed: %w\nStderr: %s", err, stderr.String())
	}

	selected := strings.TrimSpace(stdout.String())
	// Empty output is only a cancellation when there was something to select.
	if selected == "" && input != "" {
		return "", ErrUserAborted
	}

	return selected, nil
}

// SelectTemplate implements the UI interface method for selecting a template using Rofi.
func (u *RofiUI) SelectTemplate(templates map[template.Language]*template.Template) (template.Language, error) {
	var rofiInput strings.Builder
	for _, t := range sortByUsage(templates) {
		fmt.Fprintf(&rofiInput, "%5d %s\n", t.Count, t.Language)
	}

	selected, err := u.runRofi("Select Template", rofiInput.String(), u.config.SelectArgs)
	if err != nil {
		return "", err
	}

	// Remove the usage count prefix from the selected display string.
	parts := strings.Fields(selected)
	if len(parts) != 2 {
		return "", fmt.Errorf("incorrect format for the rofi selection %q", selected)
	}

	lang := template.Language(parts[1])
	if _, found := templates[lang]; !found {
		return "", fmt.Errorf("selected template %q not found in original list", selected)
	}

	return lang, nil
}

// Select implements the UI interface method for selecting from a list of choices using Rofi.
func (u *RofiUI) Select(prompt string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices provided for selection")
	}
	return u.runRofi(prompt, strings.Join(choices, "\n"), u.config.SelectArgs)
}

// Prompt implements the UI interface method for prompting the user for input using Rofi.
// An empty answer is valid input; Esc returns ErrUserAborted.
func (u *RofiUI) Prompt(prompt string) (string, error) {
	return u.runRofi(prompt, "", u.config.InputArgs)
}
