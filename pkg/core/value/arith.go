package value

import (
	"errors"
	"math"
)

// ErrIntegerOverflow is returned when an int64 operation leaves the int64 range.
var ErrIntegerOverflow = errors.New("value: integer overflow")

// DivisionByZeroError is returned by Div and Mod when the divisor is zero.
type DivisionByZeroError struct {
	Op string // "/" or "%"
}

func (e *DivisionByZeroError) Error() string {
	if e.Op == "%" {
		return "modulo by zero"
	}
	return "division by zero"
}

func bothInt(a, b Value) bool {
	return a.Type == TypeInt && b.Type == TypeInt
}

// Add returns a + b.
func Add(a, b Value) (Value, error) {
	if bothInt(a, b) {
		x, y := a.Int(), b.Int()
		r := x + y
		if (x^r)&(y^r) < 0 {
			return Value{}, ErrIntegerOverflow
		}
		return FromInt(r), nil
	}
	return FromFloat(a.Float() + b.Float()), nil
}

// Sub returns a - b.
func Sub(a, b Value) (Value, error) {
	if bothInt(a, b) {
		x, y := a.Int(), b.Int()
		r := x - y
		if (x^y)&(x^r) < 0 {
			return Value{}, ErrIntegerOverflow
		}
		return FromInt(r), nil
	}
	return FromFloat(a.Float() - b.Float()), nil
}

// Mul returns a * b.
func Mul(a, b Value) (Value, error) {
	if bothInt(a, b) {
		x, y := a.Int(), b.Int()
		if x == 0 || y == 0 {
			return FromInt(0), nil
		}
		r := x * y
		if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return Value{}, ErrIntegerOverflow
		}
		return FromInt(r), nil
	}
	return FromFloat(a.Float() * b.Float()), nil
}

// Div is true division: the result is always a float.
func Div(a, b Value) (Value, error) {
	if b.IsZero() {
		return Value{}, &DivisionByZeroError{Op: "/"}
	}
	return FromFloat(a.Float() / b.Float()), nil
}

// Mod is floor modulo: a non-zero result takes the sign of the divisor.
func Mod(a, b Value) (Value, error) {
	if b.IsZero() {
		return Value{}, &DivisionByZeroError{Op: "%"}
	}
	if bothInt(a, b) {
		x, y := a.Int(), b.Int()
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return FromInt(r), nil
	}

	x, y := a.Float(), b.Float()
	r := math.Mod(x, y)
	if r == 0 {
		r = math.Copysign(0, y)
	} else if (r < 0) != (y < 0) {
		r += y
	}
	return FromFloat(r), nil
}
