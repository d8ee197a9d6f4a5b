package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValues(t *testing.T) {
	for name, test := range map[string]struct {
		project  string
		expected Values
	}{
		"simple": {
			project: "demo",
			expected: Values{
				Name:        "demo",
				NameUpper:   "DEMO",
				ProjectName: "demo",
			},
		},
		"display name": {
			project: "  My Demo-App ",
			expected: Values{
				Name:        "my_demo_app",
				NameUpper:   "MY_DEMO_APP",
				ProjectName: "My Demo-App",
			},
		},
		"underscores kept": {
			project: "__hello_world__",
			expected: Values{
				Name:        "hello_world",
				NameUpper:   "HELLO_WORLD",
				ProjectName: "__hello_world__",
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := NewValues(test.project)
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestNewValues_Invalid(t *testing.T) {
	for name, project := range map[string]string{
		"empty":           "",
		"blank":           "   ",
		"quote":           `say "hi"`,
		"backslash":       `a\b`,
		"newline":         "a\nb",
		"no letters":      "---",
		"leading digit":   "1st",
		"c keyword":       "int",
		"c23 keyword":     "typeof",
		"cxx keyword":     "Namespace",
		"py keyword":      "lambda",
		"nullptr":         "nullptr",
		"explicit":        "explicit",
		"constexpr":       "constexpr",
		"mutable":         "mutable",
		"noexcept":        "noexcept",
		"decltype":        "decltype",
		"static_cast":     "static_cast",
		"thread_local":    "thread_local",
		"char16_t":        "char16_t",
		"concept":         "concept",
		"requires":        "requires",
		"co_await":        "co_await",
		"export":          "export",
		"xor":             "xor",
		"bitand":          "bitand",
		"bitor":           "bitor",
		"compl":           "compl",
		"and_eq":          "and_eq",
		"or_eq":           "or_eq",
		"xor_eq":          "xor_eq",
		"not_eq":          "not_eq",
		"spaced keyword":  " Static Cast ",
		"std namespace":   "std",
		"main function":   "Main",
		"errno macro":     "errno",
		"gnu macro":       "linux",
		"test module":     "test-main",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewValues(project)
			require.ErrorIs(t, err, ErrInvalidProjectName)
		})
	}
}

func TestApply(t *testing.T) {
	values, err := NewValues("demo")
	require.NoError(t, err)

	for name, test := range map[string]struct {
		text     string
		expected string
	}{
		"no token": {
			text:     "int main(void) { return 0; }",
			expected: "int main(void) { return 0; }",
		},
		"header guard": {
			text:     "#ifndef __NAME_UPPER___HELLO_H\n#define __NAME_UPPER___HELLO_H",
			expected: "#ifndef DEMO_HELLO_H\n#define DEMO_HELLO_H",
		},
		"namespace": {
			text:     "namespace __NAME__ {\n} // namespace __NAME__",
			expected: "namespace demo {\n} // namespace demo",
		},
		"path": {
			text:     "include/__NAME__/hello.hpp",
			expected: "include/demo/hello.hpp",
		},
		"greeting": {
			text:     `return "Hello from ${PROJECT_NAME}!\nThis is a C++ project template.";`,
			expected: `return "Hello from demo!\nThis is a C++ project template.";`,
		},
		"adjacent tokens": {
			text:     "__NAME____NAME_UPPER__",
			expected: "demoDEMO",
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, values.Apply(test.text))
		})
	}
}

func TestApply_NotRecursive(t *testing.T) {
	values, err := NewValues("${PROJECT_NAME} __NAME__")
	require.NoError(t, err)
	assert.Equal(t, "project_name___name", values[Name])

	got := values.Apply("Hello from ${PROJECT_NAME}!")
	assert.Equal(t, "Hello from ${PROJECT_NAME} __NAME__!", got)
}

func TestApply_PartialValues(t *testing.T) {
	values := Values{Name: "demo"}
	assert.Equal(t, "demo ${PROJECT_NAME}", values.Apply("__NAME__ ${PROJECT_NAME}"))
	assert.Equal(t, "x", Values{}.Apply("x"))
}

func TestTokens(t *testing.T) {
	assert.Empty(t, Tokens("plain text"))
	assert.Equal(t, []Token{NameUpper}, Tokens("#ifndef __NAME_UPPER___HELLO_H"))
	assert.Equal(t,
		[]Token{NameUpper, Name, ProjectName},
		Tokens("${PROJECT_NAME} __NAME__ __NAME_UPPER__ __NAME__"),
	)
}

func TestTokens_Unknown(t *testing.T) {
	assert.Equal(t,
		[]Token{Name, "${AUTHOR}", "${PROJECT}"},
		Tokens("${PROJECT} by ${AUTHOR} in __NAME__, ${AUTHOR} again"),
	)

	// C predefined macros and lowercase shell-like variables are left alone.
	assert.Empty(t, Tokens(`printf("%s:%d", __FILE__, __LINE__); // ${home}`))
}

func TestUnknown(t *testing.T) {
	assert.Empty(t, Unknown("__NAME__ __NAME_UPPER__ ${PROJECT_NAME}"))
	assert.Equal(t, []Token{"${PROJECT_NAM}"}, Unknown("Hello from ${PROJECT_NAM}!"))
}

func TestMissing(t *testing.T) {
	values := Values{Name: "demo"}
	assert.Equal(t, []Token{NameUpper, ProjectName}, values.Missing("__NAME_UPPER__ __NAME__ ${PROJECT_NAME}"))
	assert.Empty(t, values.Missing("__NAME__"))

	full, err := NewValues("demo")
	require.NoError(t, err)
	assert.Equal(t, []Token{"${VERSION}"}, full.Missing("${PROJECT_NAME} ${VERSION}"))
}

func TestIdentifier(t *testing.T) {
	id, err := Identifier("Hello, World!")
	require.NoError(t, err)
	assert.Equal(t, "hello_world", id)

	_, err = Identifier("42")
	require.ErrorIs(t, err, ErrInvalidProjectName)
}
