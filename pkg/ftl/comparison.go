package ftl

import (
	"fmt"
	"strconv"
)

// CompareOp selects the relation tested by a ComparisonExpression.
type CompareOp int

const (
	CmpEqual CompareOp = iota
	CmpNotEqual
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

// compareSymbols spells the greater-than relations gt and gte: a bare ">"
// would close the enclosing directive tag.
var compareSymbols = [...]string{
	CmpEqual:        "==",
	CmpNotEqual:     "!=",
	CmpLess:         "<",
	CmpLessEqual:    "<=",
	CmpGreater:      "gt",
	CmpGreaterEqual: "gte",
}

var compareAliases = map[string]CompareOp{
	">":  CmpGreater,
	">=": CmpGreaterEqual,
}

func (op CompareOp) valid() bool { return op >= 0 && int(op) < len(compareSymbols) }

func (op CompareOp) Symbol() string {
	if !op.valid() {
		return "<invalid comparison " + strconv.Itoa(int(op)) + ">"
	}
	return compareSymbols[op]
}

func (op CompareOp) String() string { return op.Symbol() }

// ParseCompareOp maps a source symbol to its CompareOp. ">" and ">=" are
// accepted for gt and gte.
func ParseCompareOp(sym string) (CompareOp, bool) {
	for i, s := range compareSymbols {
		if s == sym {
			return CompareOp(i), true
		}
	}
	op, ok := compareAliases[sym]
	return op, ok
}

// ComparisonExpression compares two operands. Equality accepts any pair of
// values of the same kind; ordering requires numbers or strings.
type ComparisonExpression struct {
	exprBase
	left  Expression
	right Expression
	op    CompareOp
}

func NewComparisonExpression(left, right Expression, op CompareOp) *ComparisonExpression {
	return &ComparisonExpression{left: left, right: right, op: op}
}

func (c *ComparisonExpression) Eval(env *Env) (Value, error) {
	if !c.op.valid() {
		return nil, &InternalError{Position: c.pos, Node: c.CanonicalForm(), Msg: fmt.Sprintf("unknown comparison operator %d", int(c.op))}
	}
	l, err := eval(c.left, env)
	if err != nil {
		return nil, err
	}
	r, err := eval(c.right, env)
	if err != nil {
		return nil, err
	}
	if kindOf(l) != kindOf(r) {
		return nil, &TypeError{Position: c.right.Pos(), Expr: c.right.CanonicalForm(), Expected: kindOf(l), Actual: kindOf(r)}
	}

	var cmp int
	switch lv := l.(type) {
	case Number:
		cmp = compareNumbers(lv, r.(Number))
	case StringValue:
		switch rv := r.(StringValue); {
		case lv < rv:
			cmp = -1
		case lv > rv:
			cmp = 1
		}
	case BoolValue:
		if c.op != CmpEqual && c.op != CmpNotEqual {
			return nil, &TypeError{Position: c.left.Pos(), Expr: c.left.CanonicalForm(), Expected: KindNumber, Actual: KindBoolean}
		}
		if lv != r.(BoolValue) {
			cmp = 1
		}
	default:
		return nil, &TypeError{Position: c.left.Pos(), Expr: c.left.CanonicalForm(), Expected: KindNumber, Actual: kindOf(l)}
	}

	switch c.op {
	case CmpEqual:
		return BoolValue(cmp == 0), nil
	case CmpNotEqual:
		return BoolValue(cmp != 0), nil
	case CmpLess:
		return BoolValue(cmp < 0), nil
	case CmpLessEqual:
		return BoolValue(cmp <= 0), nil
	case CmpGreater:
		return BoolValue(cmp > 0), nil
	default:
		return BoolValue(cmp >= 0), nil
	}
}

func compareNumbers(a, b Number) int {
	if x, y, ok := ints(a, b); ok {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	x, y := a.Float64(), b.Float64()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (c *ComparisonExpression) CanonicalForm() string {
	return c.left.CanonicalForm() + " " + c.op.Symbol() + " " + c.right.CanonicalForm()
}

func (c *ComparisonExpression) TypeSymbol() string { return c.op.Symbol() }

func (c *ComparisonExpression) IsLiteral() bool {
	return c.constant != nil || (c.left.IsLiteral() && c.right.IsLiteral())
}

func (c *ComparisonExpression) Params() []Param {
	return []Param{
		{Role: RoleLeftOperand, Value: c.left},
		{Role: RoleRightOperand, Value: c.right},
		{Role: RoleSubtype, Value: c.op},
	}
}

func (c *ComparisonExpression) WithConstant(v Value) Expression {
	cc := *c
	cc.constant = v
	return &cc
}

func (c *ComparisonExpression) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(c, func() Node {
		cc := *c
		cc.left = cloneExpr(c.left, name, repl, s)
		cc.right = cloneExpr(c.right, name, repl, s)
		return &cc
	})
}
