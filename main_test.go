package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/driquet/ezinit/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes ezinit with a private configuration directory and returns
// its standard output.
func run(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()

	a := newApp()
	a.interactive = func() bool { return false }

	cmd := a.rootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configDir}, args...))

	err := cmd.Execute()
	require.NoError(t, a.tearDownRuntime(nil, nil))

	return stdout.String(), err
}

func TestGreet(t *testing.T) {
	out, err := run(t, t.TempDir(), "greet", "c++", "--name", "demo")
	require.NoError(t, err)
	assert.Equal(t, "Hello from demo!\nThis is a C++ project template.\n", out)

	out, err = run(t, t.TempDir(), "greet", "c", "--name", "demo")
	require.NoError(t, err)
	assert.Equal(t, "Hello from demo!\nThis is a C project template.\n", out)

	_, err = run(t, t.TempDir(), "greet", "rust")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	configDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "demo")

	out, err := run(t, configDir, "new", "demo", "--lang", "c", "--output", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, `Generated C project "demo"`)
	assert.Contains(t, out, "  include/demo/hello.h\n  src/hello.c\n  tests/test_hello.c\n")

	header, err := os.ReadFile(filepath.Join(outDir, "include", "demo", "hello.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#ifndef DEMO_HELLO_H")

	t.Run("existing files", func(t *testing.T) {
		_, err := run(t, configDir, "new", "demo", "--lang", "c", "--output", outDir)
		require.ErrorIs(t, err, engine.ErrFileExists)

		_, err = run(t, configDir, "new", "demo", "--lang", "c", "--output", outDir, "--force")
		require.NoError(t, err)
	})

	t.Run("history", func(t *testing.T) {
		out, err := run(t, configDir, "history")
		require.NoError(t, err)
		assert.Contains(t, out, "CREATED")
		assert.Contains(t, out, outDir)
	})

	t.Run("usage count", func(t *testing.T) {
		out, err := run(t, configDir, "template", "list")
		require.NoError(t, err)
		assert.Regexp(t, `(?m)^c\s+C\s+2\s+0\s+`, out)
		assert.Regexp(t, `(?m)^cxx\s+C\+\+\s+0\s+0\s+`, out)
	})
}

func TestNew_MissingArguments(t *testing.T) {
	_, err := run(t, t.TempDir(), "new", "--output", t.TempDir())
	require.ErrorIs(t, err, engine.ErrNotInteractive)

	_, err = run(t, t.TempDir(), "new", "demo", "--lang", "fortran")
	require.Error(t, err)
}

func TestTemplateShow(t *testing.T) {
	configDir := t.TempDir()

	out, err := run(t, configDir, "template", "show", "cxx", "src/hello.cpp", "--name", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `return "Hello from demo!\nThis is a C++ project template.";`)
	assert.Contains(t, out, "namespace demo {")

	out, err = run(t, configDir, "template", "show", "cxx", "src/hello.cpp", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "namespace __NAME__ {")

	_, err = run(t, configDir, "template", "show", "cxx", "src/nope.cpp")
	require.ErrorIs(t, err, engine.ErrFileUnknown)
}

func TestOverride(t *testing.T) {
	configDir := t.TempDir()

	_, err := run(t, configDir, "override", "set", "c", "tests/test_hello.c", "// tests for ${PROJECT_NAME}\n")
	require.NoError(t, err)

	out, err := run(t, configDir, "override", "list")
	require.NoError(t, err)
	assert.Equal(t, "c\ttests/test_hello.c\n", out)

	out, err = run(t, configDir, "template", "show", "c", "tests/test_hello.c", "--name", "demo")
	require.NoError(t, err)
	assert.Equal(t, "// tests for demo\n", out)

	_, err = run(t, configDir, "override", "del", "c", "tests/test_hello.c")
	require.NoError(t, err)

	out, err = run(t, configDir, "override", "list", "c")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, configDir, "override", "del", "c", "tests/test_hello.c")
	require.ErrorIs(t, err, engine.ErrOverrideUnknown)
}

func TestCompleteTemplateArgs(t *testing.T) {
	langs, _ := completeTemplateArgs(nil, nil, "")
	assert.Equal(t, []string{"c", "cxx", "python"}, langs)

	paths, _ := completeTemplateArgs(nil, []string{"c++"}, "")
	assert.Equal(t, []string{"include/__NAME__/hello.hpp", "src/hello.cpp", "tests/test_hello.cpp"}, paths)

	none, _ := completeTemplateArgs(nil, []string{"go"}, "")
	assert.Empty(t, none)
}
