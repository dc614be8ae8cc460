package starlark

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/neurodesk/ftlcore/pkg/ftl"
	"go.starlark.net/starlark"
)

// ConvertToStarlark converts a template Value to a Starlark value
func ConvertToStarlark(val ftl.Value) starlark.Value {
	if val == nil {
		return starlark.None
	}

	switch v := val.(type) {
	case ftl.StringValue:
		return starlark.String(string(v))
	case ftl.IntValue:
		return starlark.MakeInt64(int64(v))
	case ftl.FloatValue:
		return starlark.Float(float64(v))
	case ftl.BoolValue:
		return starlark.Bool(bool(v))
	case ftl.ListValue:
		items := make([]starlark.Value, len(v))
		for i, item := range v {
			items[i] = ConvertToStarlark(item)
		}
		return starlark.NewList(items)
	case ftl.DictValue:
		dict := starlark.NewDict(len(v))
		for key, value := range v {
			// SetKey only fails on unhashable keys or a frozen dict.
			_ = dict.SetKey(starlark.String(key), ConvertToStarlark(value))
		}
		return dict
	case ftl.NoneValue:
		return starlark.None
	default:
		return starlark.String(val.String())
	}
}

// ConvertFromStarlark converts a Starlark value to a template Value
func ConvertFromStarlark(val starlark.Value) ftl.Value {
	if val == nil || val == starlark.None {
		return ftl.NoneValue{}
	}

	switch v := val.(type) {
	case starlark.String:
		return ftl.StringValue(string(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return ftl.IntValue(i)
		}
		// Integers beyond int64 lose precision rather than their numeric kind.
		return ftl.FloatValue(v.Float())
	case starlark.Float:
		return ftl.FloatValue(float64(v))
	case starlark.Bool:
		return ftl.BoolValue(bool(v))
	case *starlark.List:
		items := make(ftl.ListValue, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = ConvertFromStarlark(v.Index(i))
		}
		return items
	case starlark.Tuple:
		items := make(ftl.ListValue, len(v))
		for i, item := range v {
			items[i] = ConvertFromStarlark(item)
		}
		return items
	case *starlark.Dict:
		dict := make(ftl.DictValue)
		for _, item := range v.Items() {
			key := item[0]
			value := item[1]
			if keyStr, ok := key.(starlark.String); ok {
				dict[string(keyStr)] = ConvertFromStarlark(value)
			} else {
				dict[key.String()] = ConvertFromStarlark(value)
			}
		}
		return dict
	default:
		return ftl.StringValue(val.String())
	}
}

// toNumber converts a Starlark arithmetic result back into a template number.
func toNumber(val starlark.Value) (ftl.Number, error) {
	if n, ok := ConvertFromStarlark(val).(ftl.Number); ok {
		return n, nil
	}
	return nil, fmt.Errorf("starlark produced non-numeric %s", val.Type())
}

// CreateBuiltins creates the Starlark built-in functions available to data
// model scripts. sink may be nil, in which case set_variable is omitted.
func CreateBuiltins(sink VariableSink, logger *slog.Logger) starlark.StringDict {
	if logger == nil {
		logger = slog.Default()
	}
	builtins := starlark.StringDict{
		"print": starlark.NewBuiltin("print", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var buf []string
			for i := 0; i < len(args); i++ {
				buf = append(buf, stringArg(args[i]))
			}
			logger.Info(strings.Join(buf, " "), "thread", thread.Name)
			return starlark.None, nil
		}),
	}
	if sink != nil {
		builtins["set_variable"] = setVariableBuiltin(sink)
	}
	return builtins
}

// stringArg returns the raw contents of a Starlark string, or the value's
// display form for anything else.
func stringArg(v starlark.Value) string {
	if s, ok := v.(starlark.String); ok {
		return string(s)
	}
	return v.String()
}

