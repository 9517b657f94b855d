package value

import (
	"math"
	"strconv"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeVoid Type = iota
	TypeInt
	TypeFloat
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	}
	return "void"
}

// Value is a tagged union.
type Value struct {
	Type Type
	Data uint64 // int64 bits for TypeInt, IEEE 754 bits for TypeFloat
}

// FromInt wraps an int64.
func FromInt(i int64) Value {
	return Value{Type: TypeInt, Data: uint64(i)}
}

// FromFloat wraps a float64.
func FromFloat(f float64) Value {
	return Value{Type: TypeFloat, Data: math.Float64bits(f)}
}

// Int returns the value as int64.
func (v Value) Int() int64 {
	return int64(v.Data)
}

// Float returns the value as float64.
func (v Value) Float() float64 {
	if v.Type == TypeFloat {
		return math.Float64frombits(v.Data)
	}
	return float64(int64(v.Data))
}

// IsZero reports whether the value is numerically zero.
func (v Value) IsZero() bool {
	if v.Type == TypeFloat {
		return v.Float() == 0
	}
	return v.Data == 0
}

// Equal compares tag and payload. NaN floats with the same bits are equal.
func (v Value) Equal(o Value) bool {
	return v.Type == o.Type && v.Data == o.Data
}

// Format returns the printed representation of the value.
// Integers print without a decimal point, floats print the way Python's repr does.
func (v Value) Format() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(int64(v.Data), 10)
	case TypeFloat:
		return formatFloat(math.Float64frombits(v.Data))
	default:
		return "None"
	}
}

func (v Value) String() string { return v.Format() }

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	// The shortest 'e' form tells us the decimal exponent.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
