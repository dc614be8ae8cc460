package fixture

import (
	"errors"
	"fmt"

	v "github.com/neurodesk/ftlcore/pkg/validator"

	"gopkg.in/yaml.v3"
)

// Error locates a fixture problem in the YAML source.
type Error struct {
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// pos is the YAML position a fixture element was decoded from.
type pos struct {
	Line   int
	Column int
}

// wrap attaches the position to err unless a nested element already did.
func (p pos) wrap(err error) error {
	var located *Error
	if err == nil || p.Line == 0 || errors.As(err, &located) {
		return err
	}
	return &Error{Line: p.Line, Column: p.Column, Err: err}
}

func checkKeys(n *yaml.Node, description string, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return &Error{Line: n.Line, Column: n.Column, Err: fmt.Errorf("%s must be a mapping", description)}
	}
	for i := 0; i < len(n.Content); i += 2 {
		key := n.Content[i]
		if err := v.MatchesAllowed(key.Value, allowed, description+" field"); err != nil {
			return &Error{Line: key.Line, Column: key.Column, Err: err}
		}
	}
	return nil
}

// UnmarshalYAML accepts a mapping, or a plain string as shorthand for text.
func (s *Stmt) UnmarshalYAML(n *yaml.Node) error {
	s.pos = pos{Line: n.Line, Column: n.Column}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" {
		text := n.Value
		s.Text = &text
		return nil
	}
	if err := checkKeys(n, "statement", "text", "print", "if"); err != nil {
		return err
	}
	type plain Stmt
	p := plain{pos: s.pos}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = Stmt(p)
	return nil
}

func (b *Branch) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, "branch", "when", "else", "body"); err != nil {
		return err
	}
	type plain Branch
	p := plain{pos: pos{Line: n.Line, Column: n.Column}}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*b = Branch(p)
	return nil
}

// UnmarshalYAML accepts a mapping or a scalar shorthand: numbers and
// booleans become literals, any other plain scalar a variable reference.
func (e *Expr) UnmarshalYAML(n *yaml.Node) error {
	e.pos = pos{Line: n.Line, Column: n.Column}
	if n.Kind == yaml.ScalarNode {
		value := n.Value
		switch n.ShortTag() {
		case "!!int", "!!float":
			e.Number = &value
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return err
			}
			e.Bool = &b
		default:
			e.Var = &value
		}
		return nil
	}
	if err := checkKeys(n, "expression", "number", "bool", "string", "var", "paren", "op", "left", "right"); err != nil {
		return err
	}
	type plain Expr
	p := plain{pos: e.pos}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*e = Expr(p)
	return nil
}
