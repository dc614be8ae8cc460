// Package fixture describes template trees in YAML and builds them through
// the ftl node factory. It is how tools and tests obtain trees without a
// template parser.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	v "github.com/neurodesk/ftlcore/pkg/validator"

	"gopkg.in/yaml.v3"
)

// File is one fixture document.
type File struct {
	Name string         `yaml:"name"`
	Root []Stmt         `yaml:"root"`
	Data map[string]any `yaml:"data,omitempty"`
	// Expect is the output the tree renders against Data, when given.
	Expect *string `yaml:"expect,omitempty"`
}

func (f *File) Validate() error {
	return v.All(
		v.NotEmpty(f.Name, "name"),
		v.Each(f.Root),
		v.MapDict(f.Data, func(key string, _ any) error {
			return v.IsIdentifier(key, "data key")
		}, "data"),
	)
}

// Context returns the inline data model.
func (f *File) Context() ftl.Context {
	return ftl.NewContextFromAny(f.Data)
}

// Template builds the tree into a new template configured with opts.
func (f *File) Template(opts ...ftl.TemplateOption) (*ftl.Template, error) {
	tpl := ftl.NewTemplate(f.Name, opts...)
	root, err := buildBody(tpl.Builder(), f.Root)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", f.Name, err)
	}
	if root == nil {
		root = tpl.Builder().Mixed()
	}
	tpl.SetRoot(root)
	return tpl, nil
}

// Stmt is a statement: exactly one of text, print or if.
type Stmt struct {
	Text  *string  `yaml:"text,omitempty"`
	Print *Expr    `yaml:"print,omitempty"`
	If    []Branch `yaml:"if,omitempty"`

	pos `yaml:"-"`
}

func (s Stmt) Validate() error {
	err := v.All(
		v.ExactlyOne(map[string]bool{
			"text":  s.Text != nil,
			"print": s.Print != nil,
			"if":    len(s.If) > 0,
		}, "statement"),
		validExpr(s.Print),
		v.Each(s.If),
		validBranches(s.If),
	)
	return s.wrap(err)
}

// Branch is one arm of an if: a condition, or else: true for the last arm.
type Branch struct {
	When *Expr  `yaml:"when,omitempty"`
	Else bool   `yaml:"else,omitempty"`
	Body []Stmt `yaml:"body,omitempty"`

	pos `yaml:"-"`
}

func (b Branch) Validate() error {
	err := v.All(
		v.ExactlyOne(map[string]bool{"when": b.When != nil, "else": b.Else}, "branch"),
		validExpr(b.When),
		v.Each(b.Body),
	)
	return b.wrap(err)
}

func validBranches(branches []Branch) error {
	return v.Map(branches, func(b Branch, key string) error {
		if !b.Else {
			return nil
		}
		if key == "if[0]" {
			return fmt.Errorf("%s: the first branch needs a condition", key)
		}
		if key != fmt.Sprintf("if[%d]", len(branches)-1) {
			return fmt.Errorf("%s: else must be the last branch", key)
		}
		return nil
	}, "if")
}

// Expr is an expression: a literal, a variable, a parenthesised expression
// or a binary operation.
type Expr struct {
	Number *string `yaml:"number,omitempty"`
	Bool   *bool   `yaml:"bool,omitempty"`
	String *string `yaml:"string,omitempty"`
	Var    *string `yaml:"var,omitempty"`
	Paren  *Expr   `yaml:"paren,omitempty"`

	Op    string `yaml:"op,omitempty"`
	Left  *Expr  `yaml:"left,omitempty"`
	Right *Expr  `yaml:"right,omitempty"`

	pos `yaml:"-"`
}

var operators = []string{"-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">="}

func validExpr(e *Expr) error {
	if e == nil {
		return nil
	}
	return e.Validate()
}

func (e *Expr) Validate() error {
	err := v.ExactlyOne(map[string]bool{
		"number": e.Number != nil,
		"bool":   e.Bool != nil,
		"string": e.String != nil,
		"var":    e.Var != nil,
		"paren":  e.Paren != nil,
		"op":     e.Op != "",
	}, "expression")
	if err == nil && e.Op != "" {
		if e.Left == nil || e.Right == nil {
			err = fmt.Errorf("operator %q needs left and right", e.Op)
		} else {
			err = v.All(
				v.MatchesAllowed(e.Op, operators, "operator"),
				e.Left.Validate(),
				e.Right.Validate(),
			)
		}
	}
	if err == nil && e.Op == "" && (e.Left != nil || e.Right != nil) {
		err = errors.New("left and right are only valid with op")
	}
	if err == nil && e.Var != nil {
		err = v.IsIdentifier(*e.Var, "variable")
	}
	if err == nil && e.Number != nil {
		_, err = parseNumber(*e.Number)
	}
	if err == nil && e.Paren != nil {
		err = e.Paren.Validate()
	}
	return e.wrap(err)
}

func parseNumber(s string) (ftl.Number, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ftl.IntValue(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return ftl.FloatValue(f), nil
}

// Decode reads and validates a fixture document.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %q: %w", f.Name, err)
	}
	return &f, nil
}

// Load reads a fixture file.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fixture: %w", err)
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadData reads a YAML data model.
func LoadData(r io.Reader) (ftl.Context, error) {
	var m map[string]any
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding data model: %w", err)
	}
	if err := v.MapDict(m, func(key string, _ any) error {
		return v.IsIdentifier(key, "key")
	}, "data model"); err != nil {
		return nil, err
	}
	return ftl.NewContextFromAny(m), nil
}
