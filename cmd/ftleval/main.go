package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurodesk/ftlcore/pkg/config"
	"github.com/neurodesk/ftlcore/pkg/fixture"
	"github.com/neurodesk/ftlcore/pkg/ftl"
	"github.com/neurodesk/ftlcore/pkg/starlark"
	v "github.com/neurodesk/ftlcore/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type options struct {
	configPath  string
	fixturePath string
	builtin     string
	dataPaths   []string
	overrides   []string
	list        bool
	dump        bool
	canonical   bool
	fold        bool
	check       bool
	jobs        int
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("ftleval", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "Path to a settings yaml file")
	fs.StringVar(&o.fixturePath, "fixture", "", "Path to a template tree fixture")
	fs.StringVar(&o.builtin, "builtin", "", "Name of an embedded fixture")
	fs.Func("data", "Data model file (.yaml, .yml or .star); may be repeated", func(s string) error {
		o.dataPaths = append(o.dataPaths, s)
		return nil
	})
	fs.Func("set", "Override a data model variable with a Starlark expression, name=expr; may be repeated", func(s string) error {
		o.overrides = append(o.overrides, s)
		return nil
	})
	fs.BoolVar(&o.list, "list", false, "List embedded fixtures and exit")
	fs.BoolVar(&o.dump, "dump", false, "Print the tree structure before rendering")
	fs.BoolVar(&o.canonical, "canonical", false, "Print the canonical form before rendering")
	fs.BoolVar(&o.fold, "fold", false, "Precompute literal subtrees before rendering")
	fs.BoolVar(&o.check, "check", false, "Compare the output with the fixture's expected output")
	fs.IntVar(&o.jobs, "jobs", 4, "Maximum number of concurrent renders")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.list {
		return o, nil
	}
	if (o.fixturePath == "") == (o.builtin == "") {
		return nil, fmt.Errorf("exactly one of -fixture and -builtin is required")
	}
	if o.jobs < 1 {
		return nil, fmt.Errorf("-jobs must be at least 1")
	}
	if err := v.NoDuplicates(o.dataPaths, "-data"); err != nil {
		return nil, err
	}
	return o, nil
}

func loadSettings(path string) (config.Settings, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func loadFixture(o *options) (*fixture.File, error) {
	if o.builtin != "" {
		return fixture.Builtin(o.builtin)
	}
	return fixture.Load(o.fixturePath)
}

// loadData reads one data model. Starlark models start from base, the
// fixture's inline data.
func loadData(path string, base ftl.Context, logger *slog.Logger) (ftl.Context, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".star":
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return starlark.LoadDataModel(path, src, base, logger)
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return fixture.LoadData(f)
	default:
		return nil, fmt.Errorf("unsupported data model %s", path)
	}
}

type model struct {
	name string
	data ftl.Context
}

func loadModels(o *options, f *fixture.File, logger *slog.Logger) ([]model, error) {
	var models []model
	if len(o.dataPaths) == 0 {
		models = []model{{name: "inline", data: f.Context()}}
	}
	for _, p := range o.dataPaths {
		data, err := loadData(p, f.Context(), logger)
		if err != nil {
			return nil, fmt.Errorf("loading data %s: %w", p, err)
		}
		models = append(models, model{name: p, data: data})
	}
	if len(o.overrides) == 0 {
		return models, nil
	}
	for i, m := range models {
		data, err := starlark.ApplyOverrides(m.data, o.overrides, logger)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.name, err)
		}
		models[i].data = data
	}
	return models, nil
}

// renderAll renders tpl once per model, at most jobs at a time. Results keep
// the order of models.
func renderAll(ctx context.Context, tpl *ftl.Template, models []model, jobs int, logger *slog.Logger) ([]string, error) {
	out := make([]string, len(models))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, m := range models {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf strings.Builder
			if err := tpl.Render(&buf, m.data, ftl.WithLogger(logger.With("model", m.name))); err != nil {
				return fmt.Errorf("model %s: %w", m.name, err)
			}
			out[i] = buf.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.list {
		for _, name := range fixture.BuiltinNames() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	settings, err := loadSettings(o.configPath)
	if err != nil {
		return err
	}
	logger := settings.NewLogger(stderr)

	f, err := loadFixture(o)
	if err != nil {
		return err
	}
	opts, err := settings.TemplateOptions()
	if err != nil {
		return err
	}
	tpl, err := f.Template(opts...)
	if err != nil {
		return err
	}
	if o.fold || settings.Fold {
		tpl.SetRoot(ftl.Fold(tpl.Root()))
		logger.Debug("folded constants", "template", tpl.Name)
	}

	if o.dump {
		fmt.Fprint(stdout, ftl.Pretty(tpl.Root()))
	}
	if o.canonical {
		fmt.Fprintln(stdout, tpl.Root().CanonicalForm())
	}

	models, err := loadModels(o, f, logger)
	if err != nil {
		return err
	}
	results, err := renderAll(context.Background(), tpl, models, o.jobs, logger)
	if err != nil {
		return err
	}

	var mismatches []error
	for i, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(stdout, "--- %s\n", models[i].name)
		}
		fmt.Fprintln(stdout, res)
		if o.check && f.Expect != nil && res != *f.Expect {
			mismatches = append(mismatches, fmt.Errorf("%s: got %q, want %q", models[i].name, res, *f.Expect))
		}
	}
	if o.check && f.Expect == nil {
		logger.Warn("fixture has no expected output", "fixture", f.Name)
	}
	logger.Info("rendered", "template", tpl.Name, "models", len(models))
	return errors.Join(mismatches...)
}

func appMain() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func main() {
	if err := appMain(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
