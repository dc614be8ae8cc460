package ftl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConservativeEngine(t *testing.T) {
	e := ConservativeEngine{}
	type op func(a, b Number) (Number, error)

	cases := []struct {
		name string
		fn   op
		a, b Number
		want Number
	}{
		{"add", e.Add, IntValue(2), IntValue(3), IntValue(5)},
		{"add overflow", e.Add, IntValue(math.MaxInt64), IntValue(1), FloatValue(float64(math.MaxInt64) + 1)},
		{"subtract", e.Subtract, IntValue(3), IntValue(5), IntValue(-2)},
		{"subtract overflow", e.Subtract, IntValue(math.MinInt64), IntValue(1), FloatValue(float64(math.MinInt64) - 1)},
		{"multiply", e.Multiply, IntValue(-4), IntValue(6), IntValue(-24)},
		{"multiply min", e.Multiply, IntValue(math.MinInt64), IntValue(1), IntValue(math.MinInt64)},
		{"multiply overflow", e.Multiply, IntValue(math.MaxInt64), IntValue(2), FloatValue(float64(math.MaxInt64) * 2)},
		{"multiply float", e.Multiply, FloatValue(0.5), IntValue(3), FloatValue(1.5)},
		{"divide exact", e.Divide, IntValue(9), IntValue(3), IntValue(3)},
		{"divide inexact", e.Divide, IntValue(7), IntValue(2), FloatValue(3.5)},
		{"divide by minus one", e.Divide, IntValue(5), IntValue(-1), IntValue(-5)},
		{"divide min by minus one", e.Divide, IntValue(math.MinInt64), IntValue(-1), FloatValue(-float64(math.MinInt64))},
		{"modulus", e.Modulus, IntValue(4), IntValue(3), IntValue(1)},
		{"modulus truncates", e.Modulus, IntValue(-7), IntValue(3), IntValue(-1)},
		{"modulus by minus one", e.Modulus, IntValue(math.MinInt64), IntValue(-1), IntValue(0)},
		{"modulus float", e.Modulus, FloatValue(5.5), IntValue(2), FloatValue(1.5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnginesRejectZeroDivisor(t *testing.T) {
	for _, e := range []ArithmeticEngine{ConservativeEngine{}, FloatEngine{}} {
		_, err := e.Divide(IntValue(1), IntValue(0))
		assert.ErrorIs(t, err, ErrDivisionByZero)
		_, err = e.Modulus(IntValue(1), FloatValue(0))
		assert.ErrorIs(t, err, ErrDivisionByZero)
	}
}

func TestFloatEngine(t *testing.T) {
	e := FloatEngine{}
	got, err := e.Divide(IntValue(4), IntValue(2))
	require.NoError(t, err)
	assert.Equal(t, FloatValue(2), got)

	got, err = e.Subtract(IntValue(3), IntValue(2))
	require.NoError(t, err)
	assert.Equal(t, FloatValue(1), got)

	got, err = e.Modulus(IntValue(-7), IntValue(3))
	require.NoError(t, err)
	assert.Equal(t, FloatValue(-1), got)
}
