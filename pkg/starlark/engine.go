package starlark

import (
	"fmt"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Engine is an ftl.ArithmeticEngine with Starlark number semantics:
// arbitrary-precision intermediate ints, "/" always yielding a float, and
// modulo taking the sign of the divisor. Results outside int64 come back as
// floats.
type Engine struct{}

var _ ftl.ArithmeticEngine = Engine{}

func (Engine) Add(a, b ftl.Number) (ftl.Number, error)      { return binary(syntax.PLUS, a, b) }
func (Engine) Subtract(a, b ftl.Number) (ftl.Number, error) { return binary(syntax.MINUS, a, b) }
func (Engine) Multiply(a, b ftl.Number) (ftl.Number, error) { return binary(syntax.STAR, a, b) }
func (Engine) Divide(a, b ftl.Number) (ftl.Number, error)   { return binary(syntax.SLASH, a, b) }
func (Engine) Modulus(a, b ftl.Number) (ftl.Number, error)  { return binary(syntax.PERCENT, a, b) }

func binary(op syntax.Token, a, b ftl.Number) (ftl.Number, error) {
	if (op == syntax.SLASH || op == syntax.PERCENT) && b.Float64() == 0 {
		return nil, ftl.ErrDivisionByZero
	}
	res, err := starlark.Binary(op, ConvertToStarlark(a), ConvertToStarlark(b))
	if err != nil {
		return nil, fmt.Errorf("starlark %s: %w", op, err)
	}
	return toNumber(res)
}
