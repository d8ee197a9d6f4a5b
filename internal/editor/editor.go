// Package editor opens content in the user's text editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/mattn/go-shellwords"
)

// DefaultEditor returns the user's preferred editor.
func DefaultEditor(editor string) string {
	if editor != "" {
		return editor
	}

	// Check environment variables in order of preference
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Platform-specific defaults
	switch runtime.GOOS {
	case "windows":
		return "notepad"
	default:
		return "nano"
	}
}

// Edit opens initialContent in editor and returns the saved content.
// pattern is passed to os.CreateTemp, so its suffix picks the syntax
// highlighting of most editors.
func Edit(editor, initialContent, pattern string) (string, error) {
	filename, err := createTempFile(initialContent, pattern)
	if err != nil {
		return "", err
	}
	defer os.Remove(filename)

	if err := openEditor(editor, filename); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// createTempFile creates a temporary file with initial content
func createTempFile(initialContent, pattern string) (string, error) {
	if pattern == "" {
		pattern = "ezinit_*.txt"
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if initialContent != "" {
		if _, err := f.WriteString(initialContent); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}

	return f.Name(), nil
}

// openEditor opens the specified file in the user's default editor
func openEditor(editor, filename string) error {
	cmd, err := editorCommand(DefaultEditor(editor), filename)
	if err != nil {
		return err
	}

	// Connect editor to terminal
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// editorCommand builds the command editing filename. editor may carry
// arguments and shell quoting, as in EDITOR="code --wait".
func editorCommand(editor, filename string) (*exec.Cmd, error) {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/c", editor, filename), nil
	}

	args, err := shellwords.Parse(editor)
	if err != nil {
		return nil, fmt.Errorf("invalid editor command %q: %w", editor, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("invalid editor command %q: no program", editor)
	}

	return exec.Command(args[0], append(args[1:], filename)...), nil
}
