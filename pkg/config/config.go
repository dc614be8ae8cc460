package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"github.com/neurodesk/ftlcore/pkg/starlark"
	v "github.com/neurodesk/ftlcore/pkg/validator"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Settings control how templates are evaluated and rendered.
type Settings struct {
	ArithmeticEngine string `yaml:"arithmetic_engine,omitempty"`
	Locale           string `yaml:"locale,omitempty"`
	LogLevel         string `yaml:"log_level,omitempty"`
	// Fold precomputes literal subtrees before the first render.
	Fold bool `yaml:"fold,omitempty"`
}

var engines = map[string]ftl.ArithmeticEngine{
	"conservative": ftl.ConservativeEngine{},
	"float":        ftl.FloatEngine{},
	"starlark":     starlark.Engine{},
}

var logLevels = []string{"debug", "info", "warn", "error"}

// EngineNames lists the accepted arithmetic_engine values.
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s Settings) Validate() error {
	return v.All(
		v.NotEmpty(s.ArithmeticEngine, "arithmetic_engine"),
		v.MatchesAllowed(s.ArithmeticEngine, EngineNames(), "arithmetic_engine"),
		v.MatchesAllowed(strings.ToLower(s.LogLevel), logLevels, "log_level"),
		validLocale(s.Locale),
	)
}

func validLocale(locale string) error {
	if err := v.NotEmpty(locale, "locale"); err != nil {
		return err
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("locale %q: %w", locale, err)
	}
	return nil
}

// Engine returns the configured numeric engine.
func (s Settings) Engine() (ftl.ArithmeticEngine, error) {
	e, ok := engines[s.ArithmeticEngine]
	if !ok {
		return nil, fmt.Errorf("unknown arithmetic engine %q", s.ArithmeticEngine)
	}
	return e, nil
}

// TemplateOptions translates the settings into template options.
func (s Settings) TemplateOptions() ([]ftl.TemplateOption, error) {
	engine, err := s.Engine()
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale: %w", err)
	}
	return []ftl.TemplateOption{
		ftl.WithTemplateEngine(engine),
		ftl.WithLocale(tag),
	}, nil
}

// Level returns the slog level named by log_level.
func (s Settings) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// NewLogger returns a text logger writing to w at the configured level.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.Level()}))
}

//go:embed defaults.yaml
var defaultsYAML []byte

var defaults Settings

// Default returns the built-in settings.
func Default() Settings { return defaults }

// Load decodes settings from r on top of the defaults. An empty document
// yields the defaults.
func Load(r io.Reader) (Settings, error) {
	s := defaults
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// LoadFile loads settings from path.
func LoadFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("opening settings: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func init() {
	dec := yaml.NewDecoder(strings.NewReader(string(defaultsYAML)))
	dec.KnownFields(true)
	if err := dec.Decode(&defaults); err != nil {
		panic(fmt.Errorf("failed to decode default settings: %w", err))
	}
	if err := defaults.Validate(); err != nil {
		panic(fmt.Errorf("invalid default settings: %w", err))
	}
}
