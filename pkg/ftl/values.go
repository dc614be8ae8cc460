package ftl

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies runtime values for coercion checks and diagnostics.
type Kind int

const (
	KindMissing Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindSequence
	KindHash
)

var kindNames = [...]string{
	KindMissing:  "missing",
	KindBoolean:  "boolean",
	KindNumber:   "number",
	KindString:   "string",
	KindSequence: "sequence",
	KindHash:     "hash",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a runtime value produced by expression evaluation.
type Value interface {
	String() string
	Kind() Kind
}

// Number is the numeric subset of the value model. Numeric engines only
// ever see and return Numbers.
type Number interface {
	Value
	Float64() float64
	number()
}

// NoneValue represents the absence of a value.
type NoneValue struct{}

func (NoneValue) String() string { return "" }
func (NoneValue) Kind() Kind     { return KindMissing }

// BoolValue wraps a boolean.
type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (BoolValue) Kind() Kind { return KindBoolean }

// IntValue wraps an integer (64-bit).
type IntValue int64

func (i IntValue) String() string   { return strconv.FormatInt(int64(i), 10) }
func (IntValue) Kind() Kind         { return KindNumber }
func (i IntValue) Float64() float64 { return float64(i) }
func (IntValue) number()            {}

// FloatValue wraps a float (64-bit).
type FloatValue float64

func (f FloatValue) String() string   { return strconv.FormatFloat(float64(f), 'f', -1, 64) }
func (FloatValue) Kind() Kind         { return KindNumber }
func (f FloatValue) Float64() float64 { return float64(f) }
func (FloatValue) number()            {}

// StringValue wraps a string.
type StringValue string

func (s StringValue) String() string { return string(s) }
func (StringValue) Kind() Kind       { return KindString }

// ListValue wraps a sequence of values.
type ListValue []Value

func (l ListValue) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
func (ListValue) Kind() Kind { return KindSequence }

// DictValue wraps a string-keyed hash of values.
type DictValue map[string]Value

func (d DictValue) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + d[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (DictValue) Kind() Kind { return KindHash }

// Context is a data model: the top-level variables visible to a render.
type Context map[string]Value

// NewContextFromAny converts a map[string]any into a Value-based Context.
// Nested maps and slices become DictValue and ListValue.
func NewContextFromAny(m map[string]any) Context {
	ctx := Context{}
	for k, v := range m {
		ctx[k] = FromGo(v)
	}
	return ctx
}

// fromUint64 keeps v exact while it fits in int64.
func fromUint64(v uint64) Number {
	if v > math.MaxInt64 {
		return FloatValue(float64(v))
	}
	return IntValue(int64(v))
}

// FromGo converts a Go value to a Value.
func FromGo(v any) Value {
	if v == nil {
		return NoneValue{}
	}
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int:
		return IntValue(int64(t))
	case int8:
		return IntValue(int64(t))
	case int16:
		return IntValue(int64(t))
	case int32:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case uint8:
		return IntValue(int64(t))
	case uint16:
		return IntValue(int64(t))
	case uint32:
		return IntValue(int64(t))
	case uint:
		return fromUint64(uint64(t))
	case uint64:
		return fromUint64(t)
	case float32:
		return FloatValue(float64(t))
	case float64:
		return FloatValue(t)
	case []byte:
		return StringValue(string(t))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make(ListValue, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, FromGo(rv.Index(i).Interface()))
		}
		return out
	case reflect.Map:
		out := DictValue{}
		it := rv.MapRange()
		for it.Next() {
			out[fmt.Sprint(it.Key().Interface())] = FromGo(it.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NoneValue{}
		}
		return FromGo(rv.Elem().Interface())
	}
	return StringValue(fmt.Sprintf("%v", v))
}

// kindOf reports the kind of v, treating a nil interface as missing.
func kindOf(v Value) Kind {
	if v == nil {
		return KindMissing
	}
	return v.Kind()
}
