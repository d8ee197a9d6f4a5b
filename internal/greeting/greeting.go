// Package greeting implements the greeting every starter project exposes.
package greeting

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Marker is the text every greeting starts with.
const Marker = "Hello from"

// ErrMissingGreeting is returned by Verify when a text lacks an expected part
// of the greeting.
var ErrMissingGreeting = errors.New("greeting not found")

// Message returns the greeting of a project written in the language named
// display.
func Message(display, project string) string {
	return fmt.Sprintf("%s %s!\nThis is a %s project template.", Marker, project, display)
}

// Print writes msg followed by a single newline to w.
func Print(w io.Writer, msg string) error {
	_, err := io.WriteString(w, msg+"\n")
	return err
}

// Verify checks that text contains both "Hello from" and "<display> project".
func Verify(text, display string) error {
	for _, part := range []string{Marker, display + " project"} {
		if !strings.Contains(text, part) {
			return fmt.Errorf("%w: expected %q", ErrMissingGreeting, part)
		}
	}
	return nil
}
