package starlark

import (
	"bytes"
	"errors"
	"testing"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"go.starlark.net/starlark"
)

func TestConvertToStarlark(t *testing.T) {
	tests := []struct {
		name     string
		input    ftl.Value
		expected starlark.Value
	}{
		{
			name:     "string value",
			input:    ftl.StringValue("hello"),
			expected: starlark.String("hello"),
		},
		{
			name:     "int value",
			input:    ftl.IntValue(42),
			expected: starlark.MakeInt64(42),
		},
		{
			name:     "float value",
			input:    ftl.FloatValue(3.14),
			expected: starlark.Float(3.14),
		},
		{
			name:     "bool value",
			input:    ftl.BoolValue(true),
			expected: starlark.Bool(true),
		},
		{
			name:     "none value",
			input:    ftl.NoneValue{},
			expected: starlark.None,
		},
		{
			name:     "nil value",
			input:    nil,
			expected: starlark.None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToStarlark(tt.input)
			if result.String() != tt.expected.String() {
				t.Errorf("ConvertToStarlark() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestConvertFromStarlark(t *testing.T) {
	huge := starlark.MakeInt64(1 << 62).Mul(starlark.MakeInt64(8))

	tests := []struct {
		name     string
		input    starlark.Value
		expected ftl.Value
	}{
		{"string value", starlark.String("hello"), ftl.StringValue("hello")},
		{"int value", starlark.MakeInt64(42), ftl.IntValue(42)},
		{"big int value", huge, ftl.FloatValue(1 << 65)},
		{"float value", starlark.Float(3.14), ftl.FloatValue(3.14)},
		{"bool value", starlark.Bool(false), ftl.BoolValue(false)},
		{"none value", starlark.None, ftl.NoneValue{}},
		{"tuple value", starlark.Tuple{starlark.MakeInt64(1), starlark.String("a")}, ftl.ListValue{ftl.IntValue(1), ftl.StringValue("a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertFromStarlark(tt.input)
			if result.String() != tt.expected.String() || result.Kind() != tt.expected.Kind() {
				t.Errorf("ConvertFromStarlark() = %#v, want %#v", result, tt.expected)
			}
		})
	}
}

func TestListConversion(t *testing.T) {
	src := ftl.ListValue{
		ftl.StringValue("a"),
		ftl.IntValue(1),
		ftl.BoolValue(true),
	}

	starlarkList := ConvertToStarlark(src)
	list, ok := starlarkList.(*starlark.List)
	if !ok {
		t.Fatalf("Expected starlark.List, got %T", starlarkList)
	}
	if list.Len() != 3 {
		t.Errorf("Expected list length 3, got %d", list.Len())
	}

	back, ok := ConvertFromStarlark(list).(ftl.ListValue)
	if !ok {
		t.Fatalf("Expected ftl.ListValue, got %T", ConvertFromStarlark(list))
	}
	if len(back) != 3 || back[0] != ftl.StringValue("a") || back[1] != ftl.IntValue(1) {
		t.Errorf("Round trip changed the list: %v", back)
	}
}

func TestDictConversion(t *testing.T) {
	src := ftl.DictValue{
		"key1": ftl.StringValue("value1"),
		"key2": ftl.IntValue(42),
	}

	starlarkDict := ConvertToStarlark(src)
	dict, ok := starlarkDict.(*starlark.Dict)
	if !ok {
		t.Fatalf("Expected starlark.Dict, got %T", starlarkDict)
	}
	if dict.Len() != 2 {
		t.Errorf("Expected dict length 2, got %d", dict.Len())
	}

	back, ok := ConvertFromStarlark(dict).(ftl.DictValue)
	if !ok {
		t.Fatalf("Expected ftl.DictValue, got %T", ConvertFromStarlark(dict))
	}
	if back["key1"] != ftl.StringValue("value1") || back["key2"] != ftl.IntValue(42) {
		t.Errorf("Round trip changed the dict: %v", back)
	}
}

func TestEvaluatorBasic(t *testing.T) {
	eval := NewEvaluator()

	result, err := eval.Eval("2 + 3")
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if result != ftl.IntValue(5) {
		t.Errorf("Expected 5, got %#v", result)
	}

	if _, err := eval.Eval("2 +"); err == nil {
		t.Error("Expected a syntax error")
	}
}

func TestEvaluatorWithGlobals(t *testing.T) {
	eval := NewEvaluator()
	eval.SetGlobal("test_var", ftl.StringValue("hello"))

	result, err := eval.Eval("test_var + ' world'")
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if result.String() != "hello world" {
		t.Errorf("Expected 'hello world', got %v", result.String())
	}
}

func TestEvaluatorScript(t *testing.T) {
	eval := NewEvaluator()

	script := `
x = 10
y = 20
result = x + y
`
	globals, err := eval.ExecFile("script.star", script)
	if err != nil {
		t.Fatalf("ExecFile error: %v", err)
	}
	if _, ok := globals["result"]; !ok {
		t.Error("Expected 'result' variable to be set")
	}

	result, err := eval.Eval("result * 2")
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if result != ftl.IntValue(60) {
		t.Errorf("Expected 60, got %v", result)
	}
}

func TestContextIntegration(t *testing.T) {
	eval := NewEvaluator()
	eval.LoadContext(ftl.Context{
		"price":    ftl.IntValue(120),
		"discount": ftl.IntValue(15),
		"member":   ftl.BoolValue(true),
	})

	script := `
def final_price():
    if member:
        return price - discount
    return price

total = final_price()
_scratch = 1
`
	if _, err := eval.ExecFile("context.star", script); err != nil {
		t.Fatalf("ExecFile error: %v", err)
	}

	exported := eval.ExportContext()
	if exported["total"] != ftl.IntValue(105) {
		t.Errorf("Expected total=105, got %v", exported["total"])
	}
	if _, ok := exported["final_price"]; ok {
		t.Error("Functions must not be exported")
	}
	if _, ok := exported["_scratch"]; ok {
		t.Error("Underscore names must not be exported")
	}
	if _, ok := exported["print"]; ok {
		t.Error("Builtins must not be exported")
	}
}

func TestLoadDataModel(t *testing.T) {
	script := `
items = [3, 4, 5]
set_variable("count", len(items))
set_variable("items", "overridden")
owner = {"name": "ada"}
print("loaded", len(items), "items")
`
	ctx, err := LoadDataModel("model.star", script, nil, nil)
	if err != nil {
		t.Fatalf("LoadDataModel error: %v", err)
	}
	if ctx["count"] != ftl.IntValue(3) {
		t.Errorf("count = %v, want 3", ctx["count"])
	}
	if ctx["items"] != ftl.StringValue("overridden") {
		t.Errorf("items = %v, want the explicit value", ctx["items"])
	}
	owner, ok := ctx["owner"].(ftl.DictValue)
	if !ok || owner["name"] != ftl.StringValue("ada") {
		t.Errorf("owner = %#v", ctx["owner"])
	}

	if _, err := LoadDataModel("bad.star", `set_variable("only_name")`, nil, nil); err == nil {
		t.Error("Expected an arity error from set_variable")
	}
}

func TestLoadDataModelFromBase(t *testing.T) {
	base := ftl.Context{"price": ftl.IntValue(1250), "quantity": ftl.IntValue(2)}
	script := `
quantity_total = quantity * 10
set_variable("quantity", quantity_total)
set_variable("total", price * quantity_total)
`
	ctx, err := LoadDataModel("base.star", script, base, nil)
	if err != nil {
		t.Fatalf("LoadDataModel error: %v", err)
	}
	want := ftl.Context{"price": ftl.IntValue(1250), "quantity": ftl.IntValue(20), "quantity_total": ftl.IntValue(20), "total": ftl.IntValue(25000)}
	for k, v := range want {
		if ctx[k] != v {
			t.Errorf("%s = %v, want %v", k, ctx[k], v)
		}
	}
	if base["quantity"] != ftl.IntValue(2) {
		t.Errorf("base was modified: %v", base)
	}
}

func TestApplyOverrides(t *testing.T) {
	ctx := ftl.Context{"count": ftl.IntValue(4)}
	out, err := ApplyOverrides(ctx, []string{"count=count * 3", " label = 'n=%d' % count"}, nil)
	if err != nil {
		t.Fatalf("ApplyOverrides error: %v", err)
	}
	if out["count"] != ftl.IntValue(12) {
		t.Errorf("count = %v, want 12", out["count"])
	}
	if out["label"] != ftl.StringValue("n=12") {
		t.Errorf("label = %v, want n=12", out["label"])
	}
	if ctx["count"] != ftl.IntValue(4) {
		t.Errorf("input was modified: %v", ctx)
	}

	for _, bad := range []string{"count", "=1", "a b=1", "x=1 +"} {
		if _, err := ApplyOverrides(ctx, []string{bad}, nil); err == nil {
			t.Errorf("Expected an error for %q", bad)
		}
	}
}

func TestEngine(t *testing.T) {
	e := Engine{}
	tests := []struct {
		name string
		fn   func(a, b ftl.Number) (ftl.Number, error)
		a, b ftl.Number
		want ftl.Number
	}{
		{"subtract", e.Subtract, ftl.IntValue(3), ftl.IntValue(2), ftl.IntValue(1)},
		{"multiply", e.Multiply, ftl.IntValue(2), ftl.IntValue(5), ftl.IntValue(10)},
		{"divide is always float", e.Divide, ftl.IntValue(4), ftl.IntValue(2), ftl.FloatValue(2)},
		{"modulo", e.Modulus, ftl.IntValue(4), ftl.IntValue(3), ftl.IntValue(1)},
		{"modulo floors", e.Modulus, ftl.IntValue(-7), ftl.IntValue(3), ftl.IntValue(2)},
		{"mixed", e.Add, ftl.IntValue(1), ftl.FloatValue(0.5), ftl.FloatValue(1.5)},
		{"overflow", e.Multiply, ftl.IntValue(1 << 62), ftl.IntValue(8), ftl.FloatValue(1 << 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}

	if _, err := e.Divide(ftl.IntValue(1), ftl.IntValue(0)); !errors.Is(err, ftl.ErrDivisionByZero) {
		t.Errorf("Divide by zero: got %v", err)
	}
}

func TestEngineInTemplate(t *testing.T) {
	tpl := ftl.NewTemplate("starlark", ftl.WithTemplateEngine(Engine{}))
	b := tpl.Builder()
	tpl.SetRoot(b.Interpolation(b.Arithmetic(b.Identifier("a"), b.Int(3), ftl.OpModulo)))

	var out bytes.Buffer
	if err := tpl.Render(&out, ftl.Context{"a": ftl.IntValue(-1)}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if out.String() != "2" {
		t.Errorf("Expected floored modulo 2, got %q", out.String())
	}
}
