package ftl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ConditionalKind is the subtype of a ConditionalBlock.
type ConditionalKind int

const (
	KindIf ConditionalKind = iota
	KindElse
	KindElseIf
)

var conditionalSymbols = [...]string{
	KindIf:     "#if",
	KindElse:   "#else",
	KindElseIf: "#elseif",
}

func (k ConditionalKind) valid() bool { return k >= 0 && int(k) < len(conditionalSymbols) }

func (k ConditionalKind) Symbol() string {
	if !k.valid() {
		return "#<invalid conditional kind " + strconv.Itoa(int(k)) + ">"
	}
	return conditionalSymbols[k]
}

func (k ConditionalKind) String() string { return k.Symbol() }

var (
	errElseWithCondition    = errors.New("#else cannot have a condition")
	errMissingCondition     = errors.New("#if and #elseif require a condition")
	errStandaloneNotIf      = errors.New("only #if can stand alone")
	errUnknownConditionKind = errors.New("unknown conditional kind")
)

// ConditionalBlock is one #if, #elseif or #else branch. A standalone #if has
// no sibling branches and renders its own closing tag; branches that belong
// to a chain live inside an IfBlock.
type ConditionalBlock struct {
	nodeBase
	condition  Expression
	nested     Statement
	kind       ConditionalKind
	standalone bool
}

// NewConditionalBlock validates the kind/condition combination. nested may
// be nil for an empty branch.
func NewConditionalBlock(kind ConditionalKind, condition Expression, nested Statement, standalone bool) (*ConditionalBlock, error) {
	switch {
	case !kind.valid():
		return nil, fmt.Errorf("%w: %d", errUnknownConditionKind, int(kind))
	case kind == KindElse && condition != nil:
		return nil, errElseWithCondition
	case kind != KindElse && condition == nil:
		return nil, errMissingCondition
	case standalone && kind != KindIf:
		return nil, errStandaloneNotIf
	}
	return &ConditionalBlock{condition: condition, nested: nested, kind: kind, standalone: standalone}, nil
}

// NewIf returns a standalone #if.
func NewIf(condition Expression, nested Statement) (*ConditionalBlock, error) {
	return NewConditionalBlock(KindIf, condition, nested, true)
}

// NewBranch returns the #if head of an IfBlock chain.
func NewBranch(condition Expression, nested Statement) (*ConditionalBlock, error) {
	return NewConditionalBlock(KindIf, condition, nested, false)
}

func NewElseIf(condition Expression, nested Statement) (*ConditionalBlock, error) {
	return NewConditionalBlock(KindElseIf, condition, nested, false)
}

func NewElse(nested Statement) *ConditionalBlock {
	return &ConditionalBlock{nested: nested, kind: KindElse}
}

func (c *ConditionalBlock) Condition() Expression { return c.condition }
func (c *ConditionalBlock) Nested() Statement     { return c.nested }
func (c *ConditionalBlock) Kind() ConditionalKind { return c.kind }
func (c *ConditionalBlock) Standalone() bool      { return c.standalone }

// Accept runs the nested statement when the branch applies. A false
// condition produces no effect; trying the next branch is up to IfBlock.
func (c *ConditionalBlock) Accept(env *Env) error {
	ok, err := c.holds(env)
	if err != nil || !ok {
		return err
	}
	if c.nested != nil {
		return env.VisitHidingParent(c.nested)
	}
	return nil
}

func (c *ConditionalBlock) holds(env *Env) (bool, error) {
	switch c.kind {
	case KindElse:
		return true, nil
	case KindIf, KindElseIf:
		if c.condition == nil {
			return false, &InternalError{Position: c.pos, Node: c.kind.Symbol(), Msg: errMissingCondition.Error()}
		}
		return EvalToBoolean(c.condition, env)
	default:
		return false, &InternalError{Position: c.pos, Node: c.kind.Symbol(), Msg: errUnknownConditionKind.Error()}
	}
}

func (c *ConditionalBlock) dump(canonical bool) string {
	var b strings.Builder
	if canonical {
		b.WriteByte('<')
	}
	b.WriteString(c.TypeSymbol())
	if c.condition != nil {
		b.WriteByte(' ')
		b.WriteString(c.condition.CanonicalForm())
	}
	if canonical {
		b.WriteByte('>')
		if c.nested != nil {
			b.WriteString(c.nested.CanonicalForm())
		}
		if c.standalone {
			b.WriteString("</#if>")
		}
	}
	return b.String()
}

func (c *ConditionalBlock) CanonicalForm() string { return c.dump(true) }
func (c *ConditionalBlock) Description() string   { return c.dump(false) }
func (c *ConditionalBlock) TypeSymbol() string    { return c.kind.Symbol() }

// IsLiteral is always false: statements produce effects, not values.
func (c *ConditionalBlock) IsLiteral() bool { return false }

func (c *ConditionalBlock) Params() []Param {
	var cond any
	if c.condition != nil {
		cond = c.condition
	}
	return []Param{
		{Role: RoleCondition, Value: cond},
		{Role: RoleSubtype, Value: c.kind},
	}
}

func (c *ConditionalBlock) Children() []Statement {
	if c.nested == nil {
		return nil
	}
	return []Statement{c.nested}
}

func (c *ConditionalBlock) CloneWithIdentifierReplaced(name string, repl Expression, s *CloneState) Node {
	return s.clone(c, func() Node {
		cc := *c
		cc.condition = cloneExpr(c.condition, name, repl, s)
		cc.nested = cloneStmt(c.nested, name, repl, s)
		return &cc
	})
}
