// Package value implements Mavix's runtime Value: a tagged union of
// booleans, the unit value nil, and IEEE-754 double-precision numbers.
//
// A tagged variant is used rather than a bare float so that future
// extensions (strings, objects) can carry their own discriminant without
// disturbing this contract.
package value

import "fmt"

// Kind discriminates a Value's payload.
type Kind int

const (
	Bool Kind = iota
	Nil
	Number
)

// Value is Mavix's runtime value. Only one of Bool/Number is meaningful,
// selected by Kind.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
}

// MakeBool returns a Bool-kind Value.
func MakeBool(b bool) Value { return Value{Kind: Bool, Bool: b} }

// MakeNil returns the unit Value.
func MakeNil() Value { return Value{Kind: Nil} }

// MakeNumber returns a Number-kind Value.
func MakeNumber(n float64) Value { return Value{Kind: Number, Number: n} }

func (v Value) IsBool() bool   { return v.Kind == Bool }
func (v Value) IsNil() bool    { return v.Kind == Nil }
func (v Value) IsNumber() bool { return v.Kind == Number }

// IsFalsey reports whether v is falsey: nil or Bool(false). Every other
// Value, including Number(0), is truthy.
func (v Value) IsFalsey() bool {
	return v.Kind == Nil || (v.Kind == Bool && !v.Bool)
}

// Equal is structural equality: values of differing Kind are never equal.
// Note that Equal(Number(NaN), Number(NaN)) is false, per IEEE-754.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Bool:
		return a.Bool == b.Bool
	case Nil:
		return true
	case Number:
		return a.Number == b.Number
	default:
		return false
	}
}

// Print writes v's textual form with no trailing newline.
func Print(v Value) {
	fmt.Print(String(v))
}

// String renders v the way Print would, without writing it anywhere.
func String(v Value) string {
	switch v.Kind {
	case Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case Nil:
		return "nil"
	case Number:
		return fmt.Sprintf("%g", v.Number)
	default:
		return "<invalid value>"
	}
}
