package starlark

import (
	"fmt"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"go.starlark.net/starlark"
)

const threadName = "ftlcore"

// Evaluator provides Starlark evaluation with values exchanged in the
// template value model
type Evaluator struct {
	thread   *starlark.Thread
	builtins starlark.StringDict
	globals  starlark.StringDict
}

// NewEvaluator creates a new Starlark evaluator
func NewEvaluator() *Evaluator {
	return NewEvaluatorWithSink(nil, nil)
}

// SetGlobal sets a global variable in the Starlark environment
func (e *Evaluator) SetGlobal(name string, value ftl.Value) {
	e.globals[name] = ConvertToStarlark(value)
}

func (e *Evaluator) predeclared() starlark.StringDict {
	predeclared := make(starlark.StringDict, len(e.builtins)+len(e.globals))
	for k, v := range e.builtins {
		predeclared[k] = v
	}
	for k, v := range e.globals {
		predeclared[k] = v
	}
	return predeclared
}

// Eval evaluates a Starlark expression and returns the result as a template Value
func (e *Evaluator) Eval(expr string) (ftl.Value, error) {
	val, err := starlark.Eval(e.thread, "<eval>", expr, e.predeclared())
	if err != nil {
		return nil, fmt.Errorf("starlark evaluation error: %w", err)
	}
	return ConvertFromStarlark(val), nil
}

// ExecFile executes a Starlark file and returns the globals it defined
func (e *Evaluator) ExecFile(filename string, src any) (starlark.StringDict, error) {
	globals, err := starlark.ExecFile(e.thread, filename, src, e.predeclared())
	if err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}

	for k, v := range globals {
		e.globals[k] = v
	}
	return globals, nil
}

// LoadContext loads variables from a data model into the Starlark globals
func (e *Evaluator) LoadContext(ctx ftl.Context) {
	for key, value := range ctx {
		e.SetGlobal(key, value)
	}
}

// ExportContext exports current Starlark globals to a data model. Builtins,
// functions and names starting with an underscore are skipped.
func (e *Evaluator) ExportContext() ftl.Context {
	ctx := make(ftl.Context)
	for key, value := range e.globals {
		if !e.isExportable(key, value) {
			continue
		}
		ctx[key] = ConvertFromStarlark(value)
	}
	return ctx
}

func (e *Evaluator) isExportable(key string, value starlark.Value) bool {
	if key == "" || key[0] == '_' {
		return false
	}
	if _, ok := e.builtins[key]; ok {
		return false
	}
	_, callable := value.(starlark.Callable)
	return !callable
}
