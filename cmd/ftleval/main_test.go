package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestList(t *testing.T) {
	out, err := runCLI(t, "-list")
	require.NoError(t, err)
	assert.Equal(t, []string{"arithmetic", "conditional", "invoice"}, strings.Fields(out))
}

func TestBuiltinWithCheck(t *testing.T) {
	out, err := runCLI(t, "-builtin", "invoice", "-check")
	require.NoError(t, err)
	assert.Equal(t, "Total: 1,249,500 (member price, saved 500)\n", out)
}

func TestDumpAndFold(t *testing.T) {
	out, err := runCLI(t, "-builtin", "arithmetic", "-fold", "-dump", "-canonical", "-check")
	require.NoError(t, err)
	assert.Contains(t, out, "(...) = 3", "the literal group is folded")
	assert.Contains(t, out, "${100 - (a - b)}")
	assert.True(t, strings.HasSuffix(out, "grouped=88 scaled=51\n"))
}

func TestMultipleDataModels(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "few.yaml")
	starPath := filepath.Join(dir, "many.star")
	require.NoError(t, os.WriteFile(yamlPath, []byte("count: 0\n"), 0o644))
	require.NoError(t, os.WriteFile(starPath, []byte("set_variable(\"count\", 6 * 7)\n"), 0o644))

	out, err := runCLI(t, "-builtin", "conditional", "-data", yamlPath, "-data", starPath, "-jobs", "1")
	require.NoError(t, err)
	assert.Equal(t,
		"--- "+yamlPath+"\nstock: sold out (even)\n"+
			"--- "+starPath+"\nstock: plenty (even)\n",
		out)
}

func TestStarlarkModelSeesInlineData(t *testing.T) {
	star := filepath.Join(t.TempDir(), "more.star")
	require.NoError(t, os.WriteFile(star, []byte("set_variable(\"quantity\", quantity * 2)\n"), 0o644))

	out, err := runCLI(t, "-builtin", "invoice", "-data", star)
	require.NoError(t, err)
	assert.Equal(t, "Total: 2,499,500 (member price, saved 500)\n", out)
}

func TestOverrides(t *testing.T) {
	out, err := runCLI(t, "-builtin", "conditional", "-set", "count=count * 5", "-set", "count=count - 20")
	require.NoError(t, err)
	assert.Equal(t, "stock: sold out (even)\n", out)

	_, err = runCLI(t, "-builtin", "conditional", "-set", "count")
	assert.Error(t, err)
}

func TestSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arithmetic_engine: starlark\nlocale: de-DE\n"), 0o644))

	out, err := runCLI(t, "-builtin", "arithmetic", "-config", path)
	require.NoError(t, err)
	assert.Equal(t, "difference=12 product=85 quotient=3,4 remainder=2 grouped=88 scaled=51\n", out)
}

func TestCheckMismatch(t *testing.T) {
	data := filepath.Join(t.TempDir(), "d.yaml")
	require.NoError(t, os.WriteFile(data, []byte("count: 11\n"), 0o644))

	_, err := runCLI(t, "-builtin", "conditional", "-data", data, "-check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plenty")
}

func TestRenderFailure(t *testing.T) {
	data := filepath.Join(t.TempDir(), "d.yaml")
	require.NoError(t, os.WriteFile(data, []byte("a: 1\nb: 0\n"), 0o644))

	_, err := runCLI(t, "-builtin", "arithmetic", "-data", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
	assert.Contains(t, err.Error(), "failed at: ${a / b}")
}

func TestFlagErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"-builtin", "arithmetic", "-fixture", "x.yaml"},
		{"-builtin", "arithmetic", "-jobs", "0"},
		{"-builtin", "arithmetic", "-data", "a.yaml", "-data", "a.yaml"},
		{"-builtin", "nope"},
		{"-builtin", "arithmetic", "-data", "model.json"},
	}
	for _, args := range cases {
		_, err := runCLI(t, args...)
		assert.Error(t, err, "%v", args)
	}
}
