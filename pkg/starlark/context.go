package starlark

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	v "github.com/neurodesk/ftlcore/pkg/validator"
	"go.starlark.net/starlark"
)

// VariableSink receives the variables a Starlark script defines through
// set_variable.
type VariableSink interface {
	Set(name string, v ftl.Value)
}

// ContextSink collects variables into a data model.
type ContextSink ftl.Context

func (c ContextSink) Set(name string, v ftl.Value) { c[name] = v }

// NewEvaluatorWithSink creates a Starlark evaluator whose set_variable
// builtin writes into sink.
func NewEvaluatorWithSink(sink VariableSink, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		thread:   &starlark.Thread{Name: threadName},
		builtins: CreateBuiltins(sink, logger),
		globals:  make(starlark.StringDict),
	}
}

func setVariableBuiltin(sink VariableSink) *starlark.Builtin {
	return starlark.NewBuiltin("set_variable", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var value starlark.Value
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &name, &value); err != nil {
			return starlark.None, err
		}
		if name == "" {
			return starlark.None, fmt.Errorf("%s: empty variable name", fn.Name())
		}
		sink.Set(name, ConvertFromStarlark(value))
		return starlark.None, nil
	})
}

// LoadDataModel executes a Starlark script and returns the data model it
// defines. The script sees base as predeclared globals; the result is base
// plus every exported top-level global plus whatever the script passed to
// set_variable. Explicit set_variable calls win over globals.
func LoadDataModel(filename string, src any, base ftl.Context, logger *slog.Logger) (ftl.Context, error) {
	explicit := ContextSink{}
	e := NewEvaluatorWithSink(explicit, logger)
	e.LoadContext(base)
	if _, err := e.ExecFile(filename, src); err != nil {
		return nil, fmt.Errorf("loading data model %s: %w", filename, err)
	}
	ctx := e.ExportContext()
	for k, val := range explicit {
		ctx[k] = val
	}
	return ctx, nil
}

// ApplyOverrides evaluates each "name=expression" assignment as a Starlark
// expression over ctx and returns a copy of ctx with the results bound.
// Later assignments see the results of earlier ones. ctx is not modified.
func ApplyOverrides(ctx ftl.Context, assignments []string, logger *slog.Logger) (ftl.Context, error) {
	e := NewEvaluatorWithSink(nil, logger)
	e.LoadContext(ctx)
	out := make(ftl.Context, len(ctx)+len(assignments))
	for k, val := range ctx {
		out[k] = val
	}
	for _, a := range assignments {
		name, expr, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok {
			return nil, fmt.Errorf("override %q: expected name=expression", a)
		}
		if err := v.IsIdentifier(name, "override name"); err != nil {
			return nil, err
		}
		val, err := e.Eval(strings.TrimSpace(expr))
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", name, err)
		}
		out[name] = val
		e.SetGlobal(name, val)
	}
	return out, nil
}
