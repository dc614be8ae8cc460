package ftl

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/number"
)

// maxFractionDigits bounds the fraction digits printed for non-integral
// numbers.
const maxFractionDigits = 3

// TextBlock is static template text, written verbatim.
type TextBlock struct {
	nodeBase
	text string
}

func NewTextBlock(text string) *TextBlock { return &TextBlock{text: text} }

func (t *TextBlock) Accept(env *Env) error { return env.Write(t.text) }

func (t *TextBlock) CanonicalForm() string { return t.text }
func (t *TextBlock) TypeSymbol() string    { return "#text" }
func (t *TextBlock) IsLiteral() bool       { return false }
func (t *TextBlock) Children() []Statement { return nil }

func (t *TextBlock) Description() string {
	const maxLen = 20
	s := t.text
	if r := []rune(s); len(r) > maxLen {
		s = string(r[:maxLen]) + "..."
	}
	return fmt.Sprintf("text %q", s)
}

func (t *TextBlock) Params() []Param {
	return []Param{{Role: RoleContent, Value: t.text}}
}

func (t *TextBlock) CloneWithIdentifierReplaced(_ string, _ Expression, s *CloneState) Node {
	return s.clone(t, func() Node {
		c := *t
		return &c
	})
}

// Interpolation prints the value of an expression: ${expr}. Numbers are
// formatted for the template locale.
type Interpolation struct {
	nodeBase
	expr Expression
}

func NewInterpolation(expr Expression) *Interpolation { return &Interpolation{expr: expr} }

func (i *Interpolation) Expression() Expression { return i.expr }

func (i *Interpolation) Accept(env *Env) error {
	v, err := eval(i.expr, env)
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case IntValue:
		return env.Write(env.Printer().Sprint(number.Decimal(int64(t))))
	case FloatValue:
		return env.Write(env.Printer().Sprint(number.Decimal(float64(t), number.MaxFractionDigits(maxFractionDigits))))
	case StringValue, BoolValue:
		return env.Write(t.String())
	default:
		return &TypeError{Position: i.expr.Pos(), Expr: i.expr.CanonicalForm(), Expected: KindString, Actual: kindOf(v)}
	}
}

func (i *Interpolation) CanonicalForm() string { return "${" + i.expr.CanonicalForm() + "}" }
func (i *Interpolation) Description() string   { return i.CanonicalForm() }
func (i *Interpolation) TypeSymbol() string    { return "${...}" }
func (i *Interpolation) IsLiteral() bool       { return false }
func (i *Interpolation) Children() []Statement { return nil }

func (i *Interpolation) Params() []Param {
	return []Param{{Role: RoleContent, Value: i.expr}}
}

func (i *Interpolation) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(i, func() Node {
		c := *i
		c.expr = cloneExpr(i.expr, name, repl, s)
		return &c
	})
}

// MixedContent is a sequence of statements executed in order.
type MixedContent struct {
	nodeBase
	items []Statement
}

func NewMixedContent(items ...Statement) *MixedContent {
	return &MixedContent{items: append([]Statement(nil), items...)}
}

// Accept visits each item hiding this node, so the items behave as direct
// children of the enclosing instruction.
func (m *MixedContent) Accept(env *Env) error {
	for _, it := range m.items {
		if err := env.VisitHidingParent(it); err != nil {
			return err
		}
	}
	return nil
}

func (m *MixedContent) CanonicalForm() string {
	var b strings.Builder
	for _, it := range m.items {
		b.WriteString(it.CanonicalForm())
	}
	return b.String()
}

func (m *MixedContent) Description() string   { return "mixed content" }
func (m *MixedContent) TypeSymbol() string    { return "#mixed_content" }
func (m *MixedContent) IsLiteral() bool       { return false }
func (m *MixedContent) Params() []Param       { return nil }
func (m *MixedContent) Children() []Statement { return append([]Statement(nil), m.items...) }

func (m *MixedContent) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(m, func() Node {
		c := *m
		c.items = make([]Statement, len(m.items))
		for i, it := range m.items {
			c.items[i] = cloneStmt(it, name, repl, s)
		}
		return &c
	})
}

// IfBlock is an #if with #elseif and #else siblings. It runs the first
// branch whose condition holds.
type IfBlock struct {
	nodeBase
	branches []*ConditionalBlock
}

// NewIfBlock checks the chain shape: a leading non-standalone #if, any
// number of #elseif, and at most one trailing #else.
func NewIfBlock(branches ...*ConditionalBlock) (*IfBlock, error) {
	if len(branches) == 0 {
		return nil, errors.New("if block needs at least one branch")
	}
	for i, b := range branches {
		switch {
		case b.standalone:
			return nil, fmt.Errorf("branch %d: standalone #if inside an if block", i)
		case i == 0 && b.kind != KindIf:
			return nil, fmt.Errorf("branch 0: expected #if, got %s", b.kind.Symbol())
		case i > 0 && b.kind == KindIf:
			return nil, fmt.Errorf("branch %d: #if after the first branch", i)
		case b.kind == KindElse && i != len(branches)-1:
			return nil, fmt.Errorf("branch %d: #else must be last", i)
		}
	}
	return &IfBlock{branches: append([]*ConditionalBlock(nil), branches...)}, nil
}

func (f *IfBlock) Branches() []*ConditionalBlock {
	return append([]*ConditionalBlock(nil), f.branches...)
}

func (f *IfBlock) Accept(env *Env) error {
	for _, b := range f.branches {
		ok, err := b.holds(env)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if b.nested != nil {
			return env.VisitHidingParent(b.nested)
		}
		return nil
	}
	return nil
}

func (f *IfBlock) CanonicalForm() string {
	var b strings.Builder
	for _, br := range f.branches {
		b.WriteString(br.CanonicalForm())
	}
	b.WriteString("</#if>")
	return b.String()
}

func (f *IfBlock) Description() string { return "#if-#elseif-#else-container" }
func (f *IfBlock) TypeSymbol() string  { return "#if-#elseif-#else-container" }
func (f *IfBlock) IsLiteral() bool     { return false }
func (f *IfBlock) Params() []Param     { return nil }

func (f *IfBlock) Children() []Statement {
	out := make([]Statement, len(f.branches))
	for i, b := range f.branches {
		out[i] = b
	}
	return out
}

func (f *IfBlock) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(f, func() Node {
		c := *f
		c.branches = make([]*ConditionalBlock, len(f.branches))
		for i, b := range f.branches {
			c.branches[i] = b.CloneWithIdentifierReplaced(name, repl, s).(*ConditionalBlock)
		}
		return &c
	})
}
