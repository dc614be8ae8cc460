package ftl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange is matched by every *IndexError.
	ErrIndexOutOfRange = errors.New("parameter index out of range")
	// ErrDivisionByZero is returned by the built-in engines.
	ErrDivisionByZero = errors.New("division by zero")
)

// Position is a 1-based source position. The zero Position means unknown.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is implemented by every error raised while evaluating or
// introspecting nodes.
type Error interface {
	error
	Pos() Position
	Kind() string // "Type", "Internal", "Index", "Arithmetic", "Undefined"
	Unwrap() error
}

// TypeError reports an operand that did not evaluate to the expected kind.
type TypeError struct {
	Position
	Expr     string
	Expected Kind
	Actual   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %s: expected %s, but %q evaluated to %s",
		e.Position, e.Expected, e.Expr, e.Actual)
}
func (e *TypeError) Pos() Position { return e.Position }
func (e *TypeError) Kind() string  { return "Type" }
func (e *TypeError) Unwrap() error { return nil }

// InternalError reports a malformed tree: an operator or kind tag outside
// its enumeration reached evaluation.
type InternalError struct {
	Position
	Node string
	Msg  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error at %s in %s: %s", e.Position, e.Node, e.Msg)
}
func (e *InternalError) Pos() Position { return e.Position }
func (e *InternalError) Kind() string  { return "Internal" }
func (e *InternalError) Unwrap() error { return nil }

// IndexError reports an introspection index outside [0, Count).
type IndexError struct {
	Position
	Node  string
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: parameter index %d out of range [0, %d)", e.Node, e.Index, e.Count)
}
func (e *IndexError) Pos() Position        { return e.Position }
func (e *IndexError) Kind() string         { return "Index" }
func (e *IndexError) Unwrap() error        { return nil }
func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// ArithmeticError wraps a failure reported by the numeric engine.
type ArithmeticError struct {
	Position
	Expr  string
	Op    Operator
	Cause error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error at %s evaluating %q: %v", e.Position, e.Expr, e.Cause)
}
func (e *ArithmeticError) Pos() Position { return e.Position }
func (e *ArithmeticError) Kind() string  { return "Arithmetic" }
func (e *ArithmeticError) Unwrap() error { return e.Cause }

// UndefinedError reports a reference to a variable missing from every scope.
type UndefinedError struct {
	Position
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined variable at %s: %s", e.Position, e.Name)
}
func (e *UndefinedError) Pos() Position { return e.Position }
func (e *UndefinedError) Kind() string  { return "Undefined" }
func (e *UndefinedError) Unwrap() error { return nil }

// RenderError is returned by Template.Render. It records the instruction
// stack active when the failure happened, innermost first.
type RenderError struct {
	Template string
	Stack    []string
	Err      error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rendering %s: %v", e.Template, e.Err)
	for _, s := range e.Stack {
		b.WriteString("\n\t- failed at: ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *RenderError) Unwrap() error { return e.Err }
