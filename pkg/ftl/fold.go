package ftl

import "log/slog"

// Fold returns a copy of n in which every literal expression carries its
// precomputed constant. Literal subtrees are evaluated without a render
// context, using the template default engine; when that fails the subtree is
// kept unfolded and the error is surfaced again at render time. Only
// expressions implementing ConstantHolder are folded. Cached constants are
// ignored by renders that override the engine with WithEngine. n itself is
// never modified.
func Fold[T Node](n T) T {
	return fold(n).(T)
}

func fold(n Node) Node {
	if e, ok := n.(ConstantHolder); ok && e.IsLiteral() {
		if e.Constant() != nil {
			return copyNode(e)
		}
		v, err := e.Eval(nil)
		if err != nil {
			slog.Debug("constant folding failed", "expr", e.CanonicalForm(), "pos", e.Pos().String(), "error", err)
			return copyNode(e)
		}
		return copyNode(e).(ConstantHolder).WithConstant(v)
	}

	switch t := n.(type) {
	case *ArithmeticExpression:
		c := *t
		c.left = fold(t.left).(Expression)
		c.right = fold(t.right).(Expression)
		return &c
	case *ComparisonExpression:
		c := *t
		c.left = fold(t.left).(Expression)
		c.right = fold(t.right).(Expression)
		return &c
	case *ParentheticalExpression:
		c := *t
		c.inner = fold(t.inner).(Expression)
		return &c
	case *Interpolation:
		c := *t
		c.expr = fold(t.expr).(Expression)
		return &c
	case *ConditionalBlock:
		c := *t
		if t.condition != nil {
			c.condition = fold(t.condition).(Expression)
		}
		if t.nested != nil {
			c.nested = fold(t.nested).(Statement)
		}
		return &c
	case *IfBlock:
		c := *t
		c.branches = make([]*ConditionalBlock, len(t.branches))
		for i, b := range t.branches {
			c.branches[i] = fold(b).(*ConditionalBlock)
		}
		return &c
	case *MixedContent:
		c := *t
		c.items = make([]Statement, len(t.items))
		for i, it := range t.items {
			c.items[i] = fold(it).(Statement)
		}
		return &c
	}
	return copyNode(n)
}

// copyNode clones n without substituting anything.
func copyNode(n Node) Node {
	return n.CloneWithIdentifierReplaced("", nil, nil)
}
