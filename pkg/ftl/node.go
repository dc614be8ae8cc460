package ftl

import "strconv"

// Node is any AST node of a parsed template. Nodes are immutable once
// constructed and may be shared by any number of concurrent renders.
type Node interface {
	// CanonicalForm reconstructs source-equivalent syntax. Re-parsing it
	// yields a structurally equivalent tree.
	CanonicalForm() string
	// TypeSymbol is a short label used in diagnostics and dumps.
	TypeSymbol() string
	// Params describes the node's fixed structural parameters in order.
	Params() []Param
	// IsLiteral reports whether the value is known without a render
	// context. It never evaluates anything.
	IsLiteral() bool
	// CloneWithIdentifierReplaced returns an independent copy of the
	// subtree in which every reference to name is replaced by a fresh
	// clone of replacement.
	CloneWithIdentifierReplaced(name string, replacement Expression, state *CloneState) Node
	Pos() Position
}

// Expression is a value-producing node.
type Expression interface {
	Node
	// Eval computes the node value. A nil env is allowed and selects the
	// template's default numeric engine; such evaluation only succeeds for
	// literal subtrees.
	Eval(env *Env) (Value, error)
	// Constant is the precomputed value, or nil when none was computed.
	Constant() Value
}

// ConstantHolder is an expression that can carry a constant precomputed by
// Fold. Expressions that do not implement it are never folded.
type ConstantHolder interface {
	Expression
	// WithConstant returns a copy of the expression caching v.
	WithConstant(v Value) Expression
}

// Statement is an effect-producing node.
type Statement interface {
	Node
	Accept(env *Env) error
	// Description is the display form used in instruction stacks.
	Description() string
	// Children lists nested statements, which are not parameters.
	Children() []Statement
}

// Role tags what a structural parameter represents.
type Role int

const (
	RoleLeftOperand Role = iota
	RoleRightOperand
	RoleSubtype
	RoleCondition
	RoleContent
	RoleOperand
)

var roleNames = [...]string{
	RoleLeftOperand:  "left-hand operand",
	RoleRightOperand: "right-hand operand",
	RoleSubtype:      "AST-node subtype",
	RoleCondition:    "condition",
	RoleContent:      "content",
	RoleOperand:      "operand",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "Role(" + strconv.Itoa(int(r)) + ")"
	}
	return roleNames[r]
}

// Param is one structural parameter: a child Node or an auxiliary literal
// such as an Operator, together with its Role.
type Param struct {
	Role  Role
	Value any
}

// ParameterCount returns the number of structural parameters of n.
func ParameterCount(n Node) int { return len(n.Params()) }

// ParameterValue returns the idx-th parameter value of n.
func ParameterValue(n Node, idx int) (any, error) {
	p, err := paramAt(n, idx)
	if err != nil {
		return nil, err
	}
	return p.Value, nil
}

// ParameterRole returns the role of the idx-th parameter of n.
func ParameterRole(n Node, idx int) (Role, error) {
	p, err := paramAt(n, idx)
	if err != nil {
		return 0, err
	}
	return p.Role, nil
}

func paramAt(n Node, idx int) (Param, error) {
	params := n.Params()
	if idx < 0 || idx >= len(params) {
		return Param{}, &IndexError{Position: n.Pos(), Node: n.TypeSymbol(), Index: idx, Count: len(params)}
	}
	return params[idx], nil
}

// nodeBase carries what every node kind shares: its source position and the
// template it was built for.
type nodeBase struct {
	pos Position
	tpl *Template
}

func (b nodeBase) Pos() Position { return b.pos }

// engine resolves the numeric engine for context-free evaluation.
func (b nodeBase) engine() ArithmeticEngine {
	if b.tpl != nil {
		return b.tpl.ArithmeticEngine()
	}
	return DefaultEngine
}

// exprBase adds the optional precomputed constant of expressions.
type exprBase struct {
	nodeBase
	constant Value
}

func (b exprBase) Constant() Value { return b.constant }

// eval evaluates e, short-circuiting on a precomputed constant unless the
// render overrides the engine the constant was computed with.
func eval(e Expression, env *Env) (Value, error) {
	if c := e.Constant(); c != nil && (env == nil || !env.engineOverridden) {
		return c, nil
	}
	return e.Eval(env)
}

// EvalToNumber evaluates e and requires a numeric result.
func EvalToNumber(e Expression, env *Env) (Number, error) {
	v, err := eval(e, env)
	if err != nil {
		return nil, err
	}
	n, ok := v.(Number)
	if !ok {
		return nil, &TypeError{Position: e.Pos(), Expr: e.CanonicalForm(), Expected: KindNumber, Actual: kindOf(v)}
	}
	return n, nil
}

// EvalToBoolean evaluates e and requires a boolean result.
func EvalToBoolean(e Expression, env *Env) (bool, error) {
	v, err := eval(e, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(BoolValue)
	if !ok {
		return false, &TypeError{Position: e.Pos(), Expr: e.CanonicalForm(), Expected: KindBoolean, Actual: kindOf(v)}
	}
	return bool(b), nil
}
