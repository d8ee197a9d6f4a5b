// Package placeholder substitutes the tokens found in template paths and
// contents.
package placeholder

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Token is a textual marker replaced at generation time.
type Token string

const (
	// Name is the lowercase project identifier (namespace, include directory).
	Name Token = "__NAME__"
	// NameUpper is the uppercase identifier used in header guards.
	NameUpper Token = "__NAME_UPPER__"
	// ProjectName is the display name embedded in the greeting.
	ProjectName Token = "${PROJECT_NAME}"
)

// canonical is also the match priority: __NAME_UPPER__ wins over __NAME__
// at the same offset.
var canonical = []Token{NameUpper, Name, ProjectName}

var (
	// Any ${UPPER_CASE} marker is placeholder syntax, known or not. The
	// __X__ form is limited to the known tokens since C predefines macros
	// such as __FILE__ and __STDC_VERSION__.
	tokenRe      = regexp.MustCompile(`__NAME_UPPER__|__NAME__|\$\{[A-Z][A-Z0-9_]*\}`)
	identifierRe = regexp.MustCompile(`[^a-z0-9_]+`)
)

// ErrInvalidProjectName is returned when no valid substitution can be
// derived from a project name.
var ErrInvalidProjectName = errors.New("invalid project name")

// Values maps each token to its replacement.
type Values map[Token]string

// NewValues derives the token values from a project display name.
func NewValues(project string) (Values, error) {
	display := strings.TrimSpace(project)
	if display == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidProjectName)
	}

	// The display name ends up inside a string literal.
	if strings.ContainsAny(display, "\"\\\r\n") {
		return nil, fmt.Errorf("%w: %q contains a quote, backslash or line break", ErrInvalidProjectName, display)
	}

	id, err := Identifier(display)
	if err != nil {
		return nil, err
	}

	return Values{
		Name:        id,
		NameUpper:   cases.Upper(language.Und).String(id),
		ProjectName: display,
	}, nil
}

// Identifier turns a display name into a lowercase identifier usable as a
// C++ namespace, include directory or Python package.
func Identifier(display string) (string, error) {
	id := identifierRe.ReplaceAllString(strings.ToLower(display), "_")
	id = strings.Trim(id, "_")

	switch {
	case id == "":
		return "", fmt.Errorf("%w: %q has no identifier characters", ErrInvalidProjectName, display)
	case id[0] >= '0' && id[0] <= '9':
		return "", fmt.Errorf("%w: identifier %q starts with a digit", ErrInvalidProjectName, id)
	case reserved[id]:
		return "", fmt.Errorf("%w: identifier %q is a reserved word", ErrInvalidProjectName, id)
	}

	return id, nil
}

// Apply replaces every token of text in a single pass. Replacement values
// are not scanned again.
func (v Values) Apply(text string) string {
	var oldnew []string
	for _, tok := range canonical {
		if value, ok := v[tok]; ok {
			oldnew = append(oldnew, string(tok), value)
		}
	}
	if len(oldnew) == 0 {
		return text
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}

// Missing returns the tokens of text that have no value, unknown
// ${...} markers included.
func (v Values) Missing(text string) []Token {
	var missing []Token
	for _, tok := range Tokens(text) {
		if _, ok := v[tok]; !ok {
			missing = append(missing, tok)
		}
	}
	return missing
}

// Tokens returns the distinct tokens occurring in text: the known ones in
// canonical order, then unknown ${...} markers sorted.
func Tokens(text string) []Token {
	seen := make(map[Token]bool)
	for _, m := range tokenRe.FindAllString(text, -1) {
		seen[Token(m)] = true
	}

	var tokens []Token
	for _, tok := range canonical {
		if seen[tok] {
			tokens = append(tokens, tok)
			delete(seen, tok)
		}
	}
	return append(tokens, slices.Sorted(maps.Keys(seen))...)
}

// Unknown returns the ${...} markers of text that are not tokens.
func Unknown(text string) []Token {
	var unknown []Token
	for _, tok := range Tokens(text) {
		if !slices.Contains(canonical, tok) {
			unknown = append(unknown, tok)
		}
	}
	return unknown
}

// reserved holds the identifiers that cannot name a generated project:
// they are keywords in one of the target languages, or would break the
// generated code.
var reserved = words(
	// C23
	"alignas", "alignof", "auto", "bool", "break", "case", "char", "const",
	"constexpr", "continue", "default", "do", "double", "else", "enum",
	"extern", "false", "float", "for", "goto", "if", "inline", "int", "long",
	"nullptr", "register", "restrict", "return", "short", "signed", "sizeof",
	"static", "static_assert", "struct", "switch", "thread_local", "true",
	"typedef", "typeof", "typeof_unqual", "union", "unsigned", "void",
	"volatile", "while",

	// C++20, alternative tokens included
	"and", "and_eq", "asm", "bitand", "bitor", "catch", "char8_t", "char16_t",
	"char32_t", "class", "co_await", "co_return", "co_yield", "compl",
	"concept", "const_cast", "consteval", "constinit", "decltype", "delete",
	"dynamic_cast", "explicit", "export", "friend", "mutable", "namespace",
	"new", "noexcept", "not", "not_eq", "operator", "or", "or_eq", "private",
	"protected", "public", "reinterpret_cast", "requires", "static_cast",
	"template", "this", "throw", "try", "typeid", "typename", "using",
	"virtual", "wchar_t", "xor", "xor_eq",

	// Python
	"as", "assert", "async", "await", "def", "del", "elif", "except",
	"finally", "from", "global", "import", "in", "is", "lambda", "none",
	"nonlocal", "pass", "raise", "with", "yield",

	// The C++ namespace shares the global scope with std and the test's
	// main. errno is a macro, and gnu++ mode predefines linux, unix and
	// i386 as 1. A test_main package is shadowed by the Python test module.
	"std", "main", "errno", "linux", "unix", "i386", "test_main",
)

func words(list ...string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}
