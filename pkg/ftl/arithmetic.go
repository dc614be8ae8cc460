package ftl

import (
	"fmt"
	"strconv"
)

// Operator selects the operation of an ArithmeticExpression. Addition is
// not one of them: "+" also concatenates strings and has its own node kind.
type Operator int

const (
	OpSubtract Operator = iota
	OpMultiply
	OpDivide
	OpModulo
)

var operatorSymbols = [...]string{
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
	OpModulo:   "%",
}

func (op Operator) valid() bool { return op >= 0 && int(op) < len(operatorSymbols) }

// Symbol returns the source symbol of op.
func (op Operator) Symbol() string {
	if !op.valid() {
		return "<invalid operator " + strconv.Itoa(int(op)) + ">"
	}
	return operatorSymbols[op]
}

func (op Operator) String() string { return op.Symbol() }

// ParseOperator maps a source symbol to its Operator.
func ParseOperator(sym string) (Operator, bool) {
	for i, s := range operatorSymbols {
		if s == sym {
			return Operator(i), true
		}
	}
	return 0, false
}

// ArithmeticExpression combines two numeric operands through the numeric
// engine.
type ArithmeticExpression struct {
	exprBase
	left  Expression
	right Expression
	op    Operator
}

func NewArithmeticExpression(left, right Expression, op Operator) *ArithmeticExpression {
	return &ArithmeticExpression{left: left, right: right, op: op}
}

func (a *ArithmeticExpression) Left() Expression   { return a.left }
func (a *ArithmeticExpression) Right() Expression  { return a.right }
func (a *ArithmeticExpression) Operator() Operator { return a.op }

// Eval evaluates both operands, left first, and applies the operator. With
// a nil env the template default engine is used.
func (a *ArithmeticExpression) Eval(env *Env) (Value, error) {
	l, err := EvalToNumber(a.left, env)
	if err != nil {
		return nil, err
	}
	r, err := EvalToNumber(a.right, env)
	if err != nil {
		return nil, err
	}
	engine := a.engine()
	if env != nil {
		engine = env.ArithmeticEngine()
	}

	var res Number
	switch a.op {
	case OpSubtract:
		res, err = engine.Subtract(l, r)
	case OpMultiply:
		res, err = engine.Multiply(l, r)
	case OpDivide:
		res, err = engine.Divide(l, r)
	case OpModulo:
		res, err = engine.Modulus(l, r)
	default:
		return nil, &InternalError{
			Position: a.pos,
			Node:     a.CanonicalForm(),
			Msg:      fmt.Sprintf("unknown arithmetic operator %d", int(a.op)),
		}
	}
	if err != nil {
		return nil, &ArithmeticError{Position: a.pos, Expr: a.CanonicalForm(), Op: a.op, Cause: err}
	}
	return res, nil
}

func (a *ArithmeticExpression) CanonicalForm() string {
	return a.left.CanonicalForm() + " " + a.op.Symbol() + " " + a.right.CanonicalForm()
}

func (a *ArithmeticExpression) TypeSymbol() string { return a.op.Symbol() }

func (a *ArithmeticExpression) IsLiteral() bool {
	return a.constant != nil || (a.left.IsLiteral() && a.right.IsLiteral())
}

func (a *ArithmeticExpression) Params() []Param {
	return []Param{
		{Role: RoleLeftOperand, Value: a.left},
		{Role: RoleRightOperand, Value: a.right},
		{Role: RoleSubtype, Value: a.op},
	}
}

func (a *ArithmeticExpression) WithConstant(v Value) Expression {
	c := *a
	c.constant = v
	return &c
}

func (a *ArithmeticExpression) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(a, func() Node {
		c := *a
		c.left = cloneExpr(a.left, name, repl, s)
		c.right = cloneExpr(a.right, name, repl, s)
		return &c
	})
}
