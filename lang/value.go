package lang

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Value is a runtime value produced by evaluation.
//
// The set of implementations is closed. Native functions are held as
// [NativeID] handles, so no variant carries a function pointer.
type Value interface {
	// String returns the display form of the value.
	String() string
	// TypeName returns the lowercase name of the variant.
	TypeName() string
	value()
}

type (
	// Null is the absence of a value.
	Null struct{}

	// Integer is a signed 128-bit integer.
	Integer struct{ Int128 }

	// Float is a 64-bit IEEE-754 float.
	Float float64

	// String is text.
	String string

	// Boolean is true or false.
	Boolean bool

	// Array is an ordered list of values.
	Array []Value

	// Iterable is an ordered list of unevaluated nodes.
	Iterable []Node

	// Function is a user-defined function. It can be stored and printed but
	// not called.
	Function struct {
		Params []string
		Body   []Node
	}

	// NativeFunction is a handle to a built-in resolved at call time.
	NativeFunction struct{ ID NativeID }
)

// NewInteger returns v as an Integer value.
func NewInteger(v int64) Integer { return Integer{NewInt128(v)} }

func (Null) value()           {}
func (Integer) value()        {}
func (Float) value()          {}
func (String) value()         {}
func (Boolean) value()        {}
func (Array) value()          {}
func (Iterable) value()       {}
func (Function) value()       {}
func (NativeFunction) value() {}

func (Null) TypeName() string           { return "null" }
func (Integer) TypeName() string        { return "integer" }
func (Float) TypeName() string          { return "float" }
func (String) TypeName() string         { return "string" }
func (Boolean) TypeName() string        { return "boolean" }
func (Array) TypeName() string          { return "array" }
func (Iterable) TypeName() string       { return "iterable" }
func (Function) TypeName() string       { return "function" }
func (NativeFunction) TypeName() string { return "native function" }

func (Null) String() string { return "NULL" }

func (f Float) String() string {
	v := float64(f)

	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func (s String) String() string { return string(s) }

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

func (a Array) String() string {
	return "[" + joinValues(a, ", ") + "]"
}

func (it Iterable) String() string {
	return "<iterable of " + strconv.Itoa(len(it)) + ">"
}

func (f Function) String() string {
	return "<function(" + strings.Join(f.Params, ", ") + ")>"
}

func (n NativeFunction) String() string { return n.ID.Name() }

func joinValues(vs []Value, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}

	return strings.Join(parts, sep)
}

// Clone returns a copy of v sharing no mutable state with it.
// Syntax nodes are immutable and remain shared.
func Clone(v Value) Value {
	switch v := v.(type) {
	case Array:
		if v == nil {
			return Array(nil)
		}

		c := make(Array, len(v))
		for i, e := range v {
			c[i] = Clone(e)
		}

		return c

	case Iterable:
		return slices.Clone(v)

	case Function:
		return Function{
			Params: slices.Clone(v.Params),
			Body:   slices.Clone(v.Body),
		}

	default:
		return v
	}
}
