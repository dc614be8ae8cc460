package ftl

import (
	"errors"
	"io"

	"golang.org/x/text/language"
)

// Template owns a tree of nodes plus the settings that apply to every
// render of it. A Template is safe for concurrent Render calls once its
// root has been set.
type Template struct {
	Name string

	engine ArithmeticEngine
	locale language.Tag
	root   Statement
}

var defaultLocale = language.AmericanEnglish

type TemplateOption func(*Template)

// WithTemplateEngine sets the template's default numeric engine.
func WithTemplateEngine(e ArithmeticEngine) TemplateOption {
	return func(t *Template) { t.engine = e }
}

// WithLocale sets the locale used to format numbers on output.
func WithLocale(tag language.Tag) TemplateOption {
	return func(t *Template) { t.locale = tag }
}

func NewTemplate(name string, opts ...TemplateOption) *Template {
	t := &Template{Name: name, locale: defaultLocale}
	for _, o := range opts {
		o(t)
	}
	return t
}

// ArithmeticEngine returns the template default engine.
func (t *Template) ArithmeticEngine() ArithmeticEngine {
	if t == nil || t.engine == nil {
		return DefaultEngine
	}
	return t.engine
}

func (t *Template) Locale() language.Tag { return t.locale }

func (t *Template) Root() Statement { return t.root }

// SetRoot installs the root statement. It must happen before the template
// is shared between goroutines.
func (t *Template) SetRoot(root Statement) { t.root = root }

// Builder returns a node factory whose nodes refer back to t.
func (t *Template) Builder() Builder { return Builder{tpl: t} }

// Render executes the template against data, writing output to w.
func (t *Template) Render(w io.Writer, data Context, opts ...EnvOption) error {
	if t.root == nil {
		return &RenderError{Template: t.Name, Err: errors.New("template has no root")}
	}
	env := NewEnv(t, w, data, opts...)
	if err := env.Visit(t.root); err != nil {
		return &RenderError{Template: t.Name, Stack: env.failedStack, Err: err}
	}
	return nil
}
