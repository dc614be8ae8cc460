package ftl

import (
	"math"
	"math/bits"
)

// ArithmeticEngine implements the arithmetic operations over Numbers. Each
// engine defines its own promotion, precision and error rules; nodes never
// inspect intermediate representations.
type ArithmeticEngine interface {
	Add(a, b Number) (Number, error)
	Subtract(a, b Number) (Number, error)
	Multiply(a, b Number) (Number, error)
	Divide(a, b Number) (Number, error)
	Modulus(a, b Number) (Number, error)
}

// DefaultEngine is used when neither the env nor the template names one.
var DefaultEngine ArithmeticEngine = ConservativeEngine{}

// ConservativeEngine keeps integer results exact while they fit in int64
// and falls back to float64 on overflow, inexact division or float inputs.
type ConservativeEngine struct{}

func ints(a, b Number) (int64, int64, bool) {
	x, ok1 := a.(IntValue)
	y, ok2 := b.(IntValue)
	return int64(x), int64(y), ok1 && ok2
}

func (ConservativeEngine) Add(a, b Number) (Number, error) {
	if x, y, ok := ints(a, b); ok {
		s := x + y
		// overflow iff both operands share a sign the sum lacks
		if (x >= 0) == (y >= 0) && (s >= 0) != (x >= 0) {
			return FloatValue(float64(x) + float64(y)), nil
		}
		return IntValue(s), nil
	}
	return FloatValue(a.Float64() + b.Float64()), nil
}

func (ConservativeEngine) Subtract(a, b Number) (Number, error) {
	if x, y, ok := ints(a, b); ok {
		d := x - y
		if (x >= 0) != (y >= 0) && (d >= 0) != (x >= 0) {
			return FloatValue(float64(x) - float64(y)), nil
		}
		return IntValue(d), nil
	}
	return FloatValue(a.Float64() - b.Float64()), nil
}

func (ConservativeEngine) Multiply(a, b Number) (Number, error) {
	if x, y, ok := ints(a, b); ok {
		if p, exact := mulInt64(x, y); exact {
			return IntValue(p), nil
		}
		return FloatValue(float64(x) * float64(y)), nil
	}
	return FloatValue(a.Float64() * b.Float64()), nil
}

func (ConservativeEngine) Divide(a, b Number) (Number, error) {
	if b.Float64() == 0 {
		return nil, ErrDivisionByZero
	}
	if x, y, ok := ints(a, b); ok {
		if y != -1 && x%y == 0 {
			return IntValue(x / y), nil
		}
		if y == -1 && x != math.MinInt64 {
			return IntValue(-x), nil
		}
	}
	return FloatValue(a.Float64() / b.Float64()), nil
}

func (ConservativeEngine) Modulus(a, b Number) (Number, error) {
	if b.Float64() == 0 {
		return nil, ErrDivisionByZero
	}
	if x, y, ok := ints(a, b); ok {
		if y == -1 {
			return IntValue(0), nil
		}
		return IntValue(x % y), nil
	}
	return FloatValue(math.Mod(a.Float64(), b.Float64())), nil
}

func mulInt64(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	neg := (x < 0) != (y < 0)
	hi, lo := bits.Mul64(absUint64(x), absUint64(y))
	if hi != 0 {
		return 0, false
	}
	if neg {
		if lo > 1<<63 {
			return 0, false
		}
		return int64(-lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func absUint64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

// FloatEngine performs every operation in float64.
type FloatEngine struct{}

func (FloatEngine) Add(a, b Number) (Number, error) {
	return FloatValue(a.Float64() + b.Float64()), nil
}

func (FloatEngine) Subtract(a, b Number) (Number, error) {
	return FloatValue(a.Float64() - b.Float64()), nil
}

func (FloatEngine) Multiply(a, b Number) (Number, error) {
	return FloatValue(a.Float64() * b.Float64()), nil
}

func (FloatEngine) Divide(a, b Number) (Number, error) {
	if b.Float64() == 0 {
		return nil, ErrDivisionByZero
	}
	return FloatValue(a.Float64() / b.Float64()), nil
}

func (FloatEngine) Modulus(a, b Number) (Number, error) {
	if b.Float64() == 0 {
		return nil, ErrDivisionByZero
	}
	return FloatValue(math.Mod(a.Float64(), b.Float64())), nil
}
