package ftl

import (
	"io"
	"log/slog"

	"golang.org/x/text/message"
)

// Env is the per-render evaluation context. It holds every piece of mutable
// state a render touches; nodes never keep any. An Env must not be shared
// between concurrent renders.
type Env struct {
	tpl     *Template
	engine  ArithmeticEngine
	data    Context
	scope   *scope
	out     io.Writer
	printer *message.Printer
	logger  *slog.Logger

	stack       []Statement
	failedStack []string

	// engineOverridden disables precomputed constants, which were computed
	// with the template engine.
	engineOverridden bool
}

type scope struct {
	vars   Context
	parent *scope
}

type EnvOption func(*Env)

// WithEngine overrides the template's numeric engine for one render.
// Constants cached by Fold are ignored for that render and recomputed with e.
func WithEngine(e ArithmeticEngine) EnvOption {
	return func(env *Env) {
		env.engine = e
		env.engineOverridden = e != nil
	}
}

func WithLogger(l *slog.Logger) EnvOption {
	return func(env *Env) { env.logger = l }
}

// NewEnv creates a render context. tpl may be nil, in which case the
// default engine and locale apply. data is only read; variables set during
// the render live in scopes owned by the Env.
func NewEnv(tpl *Template, w io.Writer, data Context, opts ...EnvOption) *Env {
	env := &Env{
		tpl:    tpl,
		data:   data,
		scope:  &scope{vars: Context{}},
		out:    w,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(env)
	}
	if env.engine == nil {
		env.engine = tpl.ArithmeticEngine()
	}
	if env.out == nil {
		env.out = io.Discard
	}
	locale := defaultLocale
	if tpl != nil {
		locale = tpl.Locale()
	}
	env.printer = message.NewPrinter(locale)
	return env
}

func (e *Env) ArithmeticEngine() ArithmeticEngine { return e.engine }

func (e *Env) Template() *Template { return e.tpl }

func (e *Env) Logger() *slog.Logger { return e.logger }

// Printer formats values for output according to the template locale.
func (e *Env) Printer() *message.Printer { return e.printer }

// Lookup resolves name from the innermost scope outwards, then in the data
// model.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e.scope; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	v, ok := e.data[name]
	return v, ok
}

// Set binds name in the innermost scope.
func (e *Env) Set(name string, v Value) {
	e.scope.vars[name] = v
}

func (e *Env) PushScope() {
	e.scope = &scope{vars: Context{}, parent: e.scope}
}

// PopScope drops the innermost scope. The render's root scope is never
// popped.
func (e *Env) PopScope() {
	if e.scope.parent != nil {
		e.scope = e.scope.parent
	}
}

func (e *Env) Write(s string) error {
	_, err := io.WriteString(e.out, s)
	return err
}

// Visit executes s as a child of the current instruction.
func (e *Env) Visit(s Statement) error {
	e.stack = append(e.stack, s)
	err := s.Accept(e)
	e.recordFailure(err)
	e.stack = e.stack[:len(e.stack)-1]
	return err
}

// VisitHidingParent executes s in place of the current instruction, so
// that s appears as a direct child of the current instruction's parent.
func (e *Env) VisitHidingParent(s Statement) error {
	if len(e.stack) == 0 {
		return e.Visit(s)
	}
	top := len(e.stack) - 1
	parent := e.stack[top]
	e.stack[top] = s
	err := s.Accept(e)
	e.recordFailure(err)
	e.stack[top] = parent
	return err
}

// InstructionStack describes the statements being executed, innermost
// first.
func (e *Env) InstructionStack() []string {
	out := make([]string, 0, len(e.stack))
	for i := len(e.stack) - 1; i >= 0; i-- {
		out = append(out, e.stack[i].Description())
	}
	return out
}

// recordFailure snapshots the stack at the innermost failing instruction.
func (e *Env) recordFailure(err error) {
	if err != nil && e.failedStack == nil {
		e.failedStack = e.InstructionStack()
	}
}
