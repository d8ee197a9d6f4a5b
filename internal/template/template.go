// Package template holds the starter-project templates embedded in ezinit.
package template

import (
	"errors"
	"fmt"
	"strings"
)

// Language identifies a template variant.
type Language string

const (
	C      Language = "c"
	CXX    Language = "cxx"
	Python Language = "python"
)

// ErrUnknownLanguage is returned when a language name matches no template.
var ErrUnknownLanguage = errors.New("unknown language")

var displayNames = map[Language]string{
	C:      "C",
	CXX:    "C++",
	Python: "Python",
}

// DisplayName returns the human-readable language name, as it appears in
// the greeting ("C++ project").
func (l Language) DisplayName() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return string(l)
}

// ParseLanguage maps user input to a Language. Common aliases are accepted.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return C, nil
	case "cxx", "c++", "cpp":
		return CXX, nil
	case "python", "py":
		return Python, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownLanguage, s)
}

// File is a single template file. Path is slash-separated and relative to
// the project root; both Path and Content may contain placeholder tokens.
type File struct {
	Path    string
	Content string
}

// Template represents a starter project for one language.
type Template struct {
	// Language is the unique identifier of the template.
	Language Language
	// Description is shown in the selection UIs.
	Description string
	// Source is the path of the file defining the greeting.
	Source string
	// Files are sorted by path.
	Files []File
	// Count is the number of projects generated from this template.
	Count int
}

// File returns the template file at path.
func (t *Template) File(path string) (File, bool) {
	for _, f := range t.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// Paths returns the file paths of the template.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for _, f := range t.Files {
		paths = append(paths, f.Path)
	}
	return paths
}
