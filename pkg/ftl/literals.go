package ftl

import "strconv"

// NumberLiteral is a numeric constant in the source.
type NumberLiteral struct {
	exprBase
	value Number
}

func NewNumberLiteral(v Number) *NumberLiteral {
	return &NumberLiteral{exprBase: exprBase{constant: v}, value: v}
}

func (n *NumberLiteral) Value() Number                 { return n.value }
func (n *NumberLiteral) Eval(*Env) (Value, error)      { return n.value, nil }
func (n *NumberLiteral) CanonicalForm() string         { return n.value.String() }
func (n *NumberLiteral) TypeSymbol() string            { return n.value.String() }
func (n *NumberLiteral) IsLiteral() bool               { return true }
func (n *NumberLiteral) Params() []Param               { return nil }
func (n *NumberLiteral) WithConstant(Value) Expression { return n }

func (n *NumberLiteral) CloneWithIdentifierReplaced(_ string, _ Expression, s *CloneState) Node {
	return s.clone(n, func() Node {
		c := *n
		return &c
	})
}

// BooleanLiteral is true or false in the source.
type BooleanLiteral struct {
	exprBase
	value bool
}

func NewBooleanLiteral(v bool) *BooleanLiteral {
	return &BooleanLiteral{exprBase: exprBase{constant: BoolValue(v)}, value: v}
}

func (b *BooleanLiteral) Eval(*Env) (Value, error)      { return BoolValue(b.value), nil }
func (b *BooleanLiteral) CanonicalForm() string         { return strconv.FormatBool(b.value) }
func (b *BooleanLiteral) TypeSymbol() string            { return strconv.FormatBool(b.value) }
func (b *BooleanLiteral) IsLiteral() bool               { return true }
func (b *BooleanLiteral) Params() []Param               { return nil }
func (b *BooleanLiteral) WithConstant(Value) Expression { return b }

func (b *BooleanLiteral) CloneWithIdentifierReplaced(_ string, _ Expression, s *CloneState) Node {
	return s.clone(b, func() Node {
		c := *b
		return &c
	})
}

// StringLiteral is a quoted string constant in the source.
type StringLiteral struct {
	exprBase
	value string
}

func NewStringLiteral(v string) *StringLiteral {
	return &StringLiteral{exprBase: exprBase{constant: StringValue(v)}, value: v}
}

func (l *StringLiteral) Eval(*Env) (Value, error)      { return StringValue(l.value), nil }
func (l *StringLiteral) CanonicalForm() string         { return strconv.Quote(l.value) }
func (l *StringLiteral) TypeSymbol() string            { return strconv.Quote(l.value) }
func (l *StringLiteral) IsLiteral() bool               { return true }
func (l *StringLiteral) Params() []Param               { return nil }
func (l *StringLiteral) WithConstant(Value) Expression { return l }

func (l *StringLiteral) CloneWithIdentifierReplaced(_ string, _ Expression, s *CloneState) Node {
	return s.clone(l, func() Node {
		c := *l
		return &c
	})
}

// Identifier is a reference to a variable. It is the only node kind that an
// identifier-substitution clone replaces.
type Identifier struct {
	exprBase
	name string
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{name: name}
}

func (id *Identifier) Name() string { return id.name }

func (id *Identifier) Eval(env *Env) (Value, error) {
	if id.constant != nil {
		return id.constant, nil
	}
	if env == nil {
		return nil, &UndefinedError{Position: id.pos, Name: id.name}
	}
	v, ok := env.Lookup(id.name)
	if !ok {
		env.Logger().Debug("undefined variable", "name", id.name, "pos", id.pos.String())
		return nil, &UndefinedError{Position: id.pos, Name: id.name}
	}
	return v, nil
}

func (id *Identifier) CanonicalForm() string { return id.name }
func (id *Identifier) TypeSymbol() string    { return id.name }
func (id *Identifier) IsLiteral() bool       { return id.constant != nil }
func (id *Identifier) Params() []Param       { return nil }

func (id *Identifier) WithConstant(v Value) Expression {
	c := *id
	c.constant = v
	return &c
}

func (id *Identifier) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	if id.name == name && repl != nil {
		return freshReplacement(repl)
	}
	return s.clone(id, func() Node {
		c := *id
		return &c
	})
}

// ParentheticalExpression keeps explicit grouping so that canonical forms of
// nested operators re-parse to the same tree.
type ParentheticalExpression struct {
	exprBase
	inner Expression
}

func NewParentheticalExpression(inner Expression) *ParentheticalExpression {
	return &ParentheticalExpression{inner: inner}
}

func (p *ParentheticalExpression) Inner() Expression { return p.inner }

func (p *ParentheticalExpression) Eval(env *Env) (Value, error) { return eval(p.inner, env) }

func (p *ParentheticalExpression) CanonicalForm() string { return "(" + p.inner.CanonicalForm() + ")" }
func (p *ParentheticalExpression) TypeSymbol() string    { return "(...)" }

func (p *ParentheticalExpression) IsLiteral() bool {
	return p.constant != nil || p.inner.IsLiteral()
}

func (p *ParentheticalExpression) Params() []Param {
	return []Param{{Role: RoleOperand, Value: p.inner}}
}

func (p *ParentheticalExpression) WithConstant(v Value) Expression {
	c := *p
	c.constant = v
	return &c
}

func (p *ParentheticalExpression) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(p, func() Node {
		c := *p
		c.inner = cloneExpr(p.inner, name, repl, s)
		return &c
	})
}
