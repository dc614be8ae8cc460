package fixture

import (
	"fmt"

	"github.com/neurodesk/ftlcore/pkg/ftl"
)

// buildBody returns nil for an empty body, the statement itself for a
// single one, and mixed content otherwise.
func buildBody(b ftl.Builder, body []Stmt) (ftl.Statement, error) {
	items := make([]ftl.Statement, 0, len(body))
	for _, s := range body {
		st, err := buildStmt(b, s)
		if err != nil {
			return nil, err
		}
		items = append(items, st)
	}
	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return items[0], nil
	}
	if len(body) > 0 {
		b = b.At(body[0].Line, body[0].Column)
	}
	return b.Mixed(items...), nil
}

func buildStmt(b ftl.Builder, s Stmt) (ftl.Statement, error) {
	at := b.At(s.Line, s.Column)
	switch {
	case s.Text != nil:
		return at.Text(*s.Text), nil
	case s.Print != nil:
		e, err := buildExpr(b, s.Print)
		if err != nil {
			return nil, err
		}
		return at.Interpolation(e), nil
	case len(s.If) > 0:
		st, err := buildIf(b, s.If)
		return st, s.wrap(err)
	}
	return nil, s.wrap(fmt.Errorf("empty statement"))
}

// buildIf makes a standalone #if for a single conditional branch and an
// if-block chain otherwise.
func buildIf(b ftl.Builder, branches []Branch) (ftl.Statement, error) {
	standalone := len(branches) == 1 && !branches[0].Else
	blocks := make([]*ftl.ConditionalBlock, 0, len(branches))
	for i, br := range branches {
		nested, err := buildBody(b, br.Body)
		if err != nil {
			return nil, err
		}
		var cond ftl.Expression
		if br.When != nil {
			if cond, err = buildExpr(b, br.When); err != nil {
				return nil, err
			}
		}
		kind := ftl.KindElseIf
		switch {
		case br.Else:
			kind = ftl.KindElse
		case i == 0:
			kind = ftl.KindIf
		}
		block, err := b.At(br.Line, br.Column).Conditional(kind, cond, nested, standalone)
		if err != nil {
			return nil, br.wrap(err)
		}
		if standalone {
			return block, nil
		}
		blocks = append(blocks, block)
	}
	return b.At(branches[0].Line, branches[0].Column).IfChain(blocks...)
}

func buildExpr(b ftl.Builder, e *Expr) (ftl.Expression, error) {
	at := b.At(e.Line, e.Column)
	switch {
	case e.Number != nil:
		n, err := parseNumber(*e.Number)
		if err != nil {
			return nil, e.wrap(err)
		}
		return at.Number(n), nil
	case e.Bool != nil:
		return at.Bool(*e.Bool), nil
	case e.String != nil:
		return at.String(*e.String), nil
	case e.Var != nil:
		return at.Identifier(*e.Var), nil
	case e.Paren != nil:
		inner, err := buildExpr(b, e.Paren)
		if err != nil {
			return nil, err
		}
		return at.Paren(inner), nil
	case e.Op != "":
		left, err := buildExpr(b, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildExpr(b, e.Right)
		if err != nil {
			return nil, err
		}
		if op, ok := ftl.ParseOperator(e.Op); ok {
			prec := arithmeticPrecedence(op)
			return at.Arithmetic(group(b, prec, left, false), group(b, prec, right, true), op), nil
		}
		if op, ok := ftl.ParseCompareOp(e.Op); ok {
			return at.Compare(group(b, comparisonPrecedence, left, false), group(b, comparisonPrecedence, right, true), op), nil
		}
		return nil, e.wrap(fmt.Errorf("unknown operator %q", e.Op))
	}
	return nil, e.wrap(fmt.Errorf("empty expression"))
}

const (
	comparisonPrecedence = iota + 1
	additivePrecedence
	multiplicativePrecedence
	primaryPrecedence
)

func arithmeticPrecedence(op ftl.Operator) int {
	if op == ftl.OpSubtract {
		return additivePrecedence
	}
	return multiplicativePrecedence
}

func precedence(e ftl.Expression) int {
	switch t := e.(type) {
	case *ftl.ComparisonExpression:
		return comparisonPrecedence
	case *ftl.ArithmeticExpression:
		return arithmeticPrecedence(t.Operator())
	}
	return primaryPrecedence
}

// group wraps operand e of an operator with precedence parent in parentheses
// when the canonical form would otherwise re-parse with another grouping.
// Operators associate to the left, and comparisons do not chain.
func group(b ftl.Builder, parent int, e ftl.Expression, right bool) ftl.Expression {
	p := precedence(e)
	if p < parent || (p == parent && (right || p == comparisonPrecedence)) {
		return b.At(e.Pos().Line, e.Pos().Column).Paren(e)
	}
	return e
}
