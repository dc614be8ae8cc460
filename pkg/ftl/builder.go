package ftl

// Builder is the node factory used by parsers and decoders. It attaches the
// owning template and the current source position to every node it makes.
// Children are taken as already built; no syntax is re-validated.
type Builder struct {
	tpl *Template
	pos Position
}

// At returns a builder stamping nodes with the given position.
func (b Builder) At(line, column int) Builder {
	b.pos = Position{Line: line, Column: column}
	return b
}

func (b Builder) base() nodeBase { return nodeBase{pos: b.pos, tpl: b.tpl} }

func (b Builder) Number(v Number) *NumberLiteral {
	n := NewNumberLiteral(v)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Int(v int64) *NumberLiteral { return b.Number(IntValue(v)) }

func (b Builder) Float(v float64) *NumberLiteral { return b.Number(FloatValue(v)) }

func (b Builder) Bool(v bool) *BooleanLiteral {
	n := NewBooleanLiteral(v)
	n.nodeBase = b.base()
	return n
}

func (b Builder) String(v string) *StringLiteral {
	n := NewStringLiteral(v)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Identifier(name string) *Identifier {
	n := NewIdentifier(name)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Arithmetic(left, right Expression, op Operator) *ArithmeticExpression {
	n := NewArithmeticExpression(left, right, op)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Paren(inner Expression) *ParentheticalExpression {
	n := NewParentheticalExpression(inner)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Compare(left, right Expression, op CompareOp) *ComparisonExpression {
	n := NewComparisonExpression(left, right, op)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Conditional(kind ConditionalKind, cond Expression, nested Statement, standalone bool) (*ConditionalBlock, error) {
	n, err := NewConditionalBlock(kind, cond, nested, standalone)
	if err != nil {
		return nil, err
	}
	n.nodeBase = b.base()
	return n, nil
}

// If builds a standalone #if.
func (b Builder) If(cond Expression, nested Statement) (*ConditionalBlock, error) {
	return b.Conditional(KindIf, cond, nested, true)
}

func (b Builder) IfChain(branches ...*ConditionalBlock) (*IfBlock, error) {
	n, err := NewIfBlock(branches...)
	if err != nil {
		return nil, err
	}
	n.nodeBase = b.base()
	return n, nil
}

func (b Builder) Text(s string) *TextBlock {
	n := NewTextBlock(s)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Interpolation(e Expression) *Interpolation {
	n := NewInterpolation(e)
	n.nodeBase = b.base()
	return n
}

func (b Builder) Mixed(items ...Statement) *MixedContent {
	n := NewMixedContent(items...)
	n.nodeBase = b.base()
	return n
}
