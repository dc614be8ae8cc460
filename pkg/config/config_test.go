package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"github.com/neurodesk/ftlcore/pkg/starlark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefaults(t *testing.T) {
	s := Default()
	assert.Equal(t, "conservative", s.ArithmeticEngine)
	assert.Equal(t, "en-US", s.Locale)
	assert.Equal(t, slog.LevelWarn, s.Level())
	assert.False(t, s.Fold)

	empty, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, s, empty)
}

func TestLoadOverridesDefaults(t *testing.T) {
	s, err := Load(strings.NewReader("arithmetic_engine: starlark\nlog_level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "starlark", s.ArithmeticEngine)
	assert.Equal(t, "en-US", s.Locale, "unset fields keep their default")
	assert.Equal(t, slog.LevelDebug, s.Level())

	engine, err := s.Engine()
	require.NoError(t, err)
	assert.Equal(t, starlark.Engine{}, engine)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "engine: float\n",
		"unknown engine": "arithmetic_engine: bignum\n",
		"bad level":      "log_level: loud\n",
		"bad locale":     "locale: not a locale\n",
		"empty locale":   "locale: \"\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestTemplateOptions(t *testing.T) {
	s := Default()
	s.ArithmeticEngine = "float"
	s.Locale = "de-DE"

	opts, err := s.TemplateOptions()
	require.NoError(t, err)
	tpl := ftl.NewTemplate("cfg", opts...)
	assert.Equal(t, ftl.FloatEngine{}, tpl.ArithmeticEngine())
	assert.Equal(t, language.MustParse("de-DE"), tpl.Locale())

	b := tpl.Builder()
	tpl.SetRoot(b.Interpolation(b.Arithmetic(b.Int(2469134), b.Int(2), ftl.OpDivide)))

	var out bytes.Buffer
	require.NoError(t, tpl.Render(&out, nil))
	assert.Equal(t, "1.234.567", out.String())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fold: true\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, s.Fold)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	s := Default()
	logger := s.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=1")
}
