package ftl_test

import (
	"bytes"
	"testing"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfExpression is half of its operand: half(x).
type halfExpression struct {
	operand ftl.Expression
}

var _ ftl.Expression = (*halfExpression)(nil)

func (h *halfExpression) Eval(env *ftl.Env) (ftl.Value, error) {
	n, err := ftl.EvalToNumber(h.operand, env)
	if err != nil {
		return nil, err
	}
	engine := ftl.DefaultEngine
	if env != nil {
		engine = env.ArithmeticEngine()
	}
	v, err := engine.Divide(n, ftl.IntValue(2))
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (h *halfExpression) Constant() ftl.Value   { return nil }
func (h *halfExpression) CanonicalForm() string { return "half(" + h.operand.CanonicalForm() + ")" }
func (h *halfExpression) TypeSymbol() string    { return "half" }
func (h *halfExpression) IsLiteral() bool       { return h.operand.IsLiteral() }
func (h *halfExpression) Pos() ftl.Position     { return ftl.Position{} }
func (h *halfExpression) Params() []ftl.Param   { return []ftl.Param{{Role: ftl.RoleOperand, Value: h.operand}} }

func (h *halfExpression) CloneWithIdentifierReplaced(name string, repl ftl.Expression, s *ftl.CloneState) ftl.Node {
	return &halfExpression{operand: h.operand.CloneWithIdentifierReplaced(name, repl, s).(ftl.Expression)}
}

func TestNodeKindFromAnotherPackage(t *testing.T) {
	tpl := ftl.NewTemplate("external")
	b := tpl.Builder()
	tpl.SetRoot(b.Interpolation(b.Arithmetic(&halfExpression{operand: b.Identifier("n")}, b.Int(1), ftl.OpSubtract)))

	var out bytes.Buffer
	require.NoError(t, tpl.Render(&out, ftl.Context{"n": ftl.IntValue(10)}))
	assert.Equal(t, "4", out.String())
	assert.Equal(t, "${half(n) - 1}", tpl.Root().CanonicalForm())

	cloned := ftl.ReplaceIdentifier(tpl.Root(), "n", b.Int(6))
	assert.Equal(t, "${half(6) - 1}", cloned.CanonicalForm())
	assert.Equal(t, "${half(n) - 1}", tpl.Root().CanonicalForm())

	folded := ftl.Fold(b.Arithmetic(&halfExpression{operand: b.Int(8)}, b.Int(1), ftl.OpSubtract))
	assert.Equal(t, ftl.IntValue(3), folded.Constant())
	assert.Nil(t, folded.Left().Constant(), "kinds without WithConstant are not folded themselves")
}
