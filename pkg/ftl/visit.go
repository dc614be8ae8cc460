package ftl

import (
	"bytes"
	"fmt"
)

// Visitor is called for every node reached by Walk.
type Visitor interface {
	Visit(n Node) error
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(n Node) error

func (f VisitorFunc) Visit(n Node) error { return f(n) }

// Walk traverses n depth-first: parameter children in order, then nested
// statements. It knows nothing about concrete node kinds.
func Walk(v Visitor, n Node) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	for _, p := range n.Params() {
		if c, ok := p.Value.(Node); ok {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	}
	if s, ok := n.(Statement); ok {
		for _, c := range s.Children() {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Inspect calls f for every node under n; returning false skips the node's
// descendants.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, p := range n.Params() {
		if c, ok := p.Value.(Node); ok {
			Inspect(c, f)
		}
	}
	if s, ok := n.(Statement); ok {
		for _, c := range s.Children() {
			Inspect(c, f)
		}
	}
}

// Pretty returns a line-oriented dump of the tree rooted at n, listing each
// node's type symbol and its parameters with their roles.
func Pretty(n Node) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, "", n)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, label string, n Node) {
	ind := func(k int) {
		for i := 0; i < k; i++ {
			buf.WriteByte(' ')
		}
	}
	ind(indent)
	if label != "" {
		fmt.Fprintf(buf, "%s: ", label)
	}
	fmt.Fprintf(buf, "%s", n.TypeSymbol())
	if e, ok := n.(Expression); ok && e.Constant() != nil && !isLiteralKind(n) {
		fmt.Fprintf(buf, " = %s", e.Constant())
	}
	buf.WriteByte('\n')
	for _, p := range n.Params() {
		switch v := p.Value.(type) {
		case Node:
			ppNode(buf, indent+2, p.Role.String(), v)
		case nil:
			ind(indent + 2)
			fmt.Fprintf(buf, "%s: <none>\n", p.Role)
		default:
			ind(indent + 2)
			fmt.Fprintf(buf, "%s: %v\n", p.Role, v)
		}
	}
	if s, ok := n.(Statement); ok {
		for _, c := range s.Children() {
			ppNode(buf, indent+2, "", c)
		}
	}
}

func isLiteralKind(n Node) bool {
	switch n.(type) {
	case *NumberLiteral, *BooleanLiteral, *StringLiteral:
		return true
	}
	return false
}
