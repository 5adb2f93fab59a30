// Package wire defines the generic dynamically-typed tree that derived
// encoders produce and derived decoders consume. The variant set is closed:
// transports and text encodings built on top of Loom must round-trip exactly
// these nine kinds and nothing else.
package wire

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a wire value.
type Kind int

const (
	// KindNull is the absent/unit value
	KindNull Kind = iota
	// KindBool is a boolean
	KindBool
	// KindInt is a 64-bit signed integer
	KindInt
	// KindInt32 is a 32-bit signed integer
	KindInt32
	// KindFloat is a double-precision float
	KindFloat
	// KindString is a UTF-8 string
	KindString
	// KindDateTime is a timestamp carried as a string
	KindDateTime
	// KindEnum is an ordered heterogeneous sequence
	KindEnum
	// KindDict is a string-keyed ordered mapping
	KindDict
)

// String returns the name of the wire kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindInt32:
		return "Int32"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindDateTime:
		return "DateTime"
	case KindEnum:
		return "Enum"
	case KindDict:
		return "Dict"
	default:
		return "Unknown"
	}
}

// Pair is one entry of a Dict value. Dicts preserve insertion order.
type Pair struct {
	Key   string
	Value Value
}

// Value is a single node of the wire tree. Kind selects which payload field
// is meaningful; the remaining payload fields are zero.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64   // payload for KindInt
	Int32 int32   // payload for KindInt32
	Float float64 // payload for KindFloat
	Str   string  // payload for KindString and KindDateTime
	Elems []Value // payload for KindEnum
	Pairs []Pair  // payload for KindDict
}

// Null returns the null wire value.
func Null() Value {
	return Value{Kind: KindNull}
}

// NewBool wraps a boolean.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewInt wraps a 64-bit integer.
func NewInt(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// NewInt32 wraps a 32-bit integer.
func NewInt32(i int32) Value {
	return Value{Kind: KindInt32, Int32: i}
}

// NewFloat wraps a float.
func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// NewString wraps a string.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewDateTime wraps a timestamp string.
func NewDateTime(s string) Value {
	return Value{Kind: KindDateTime, Str: s}
}

// NewEnum wraps an ordered sequence. A nil slice is a valid empty Enum.
func NewEnum(elems ...Value) Value {
	return Value{Kind: KindEnum, Elems: elems}
}

// NewDict wraps an ordered string-keyed mapping.
func NewDict(pairs ...Pair) Value {
	return Value{Kind: KindDict, Pairs: pairs}
}

// String renders the value for diagnostics. The rendering is stable and is
// quoted verbatim inside decode error messages.
func (v Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case KindInt32:
		b.WriteString(strconv.FormatInt(int64(v.Int32), 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.Str))
	case KindDateTime:
		b.WriteString("datetime ")
		b.WriteString(strconv.Quote(v.Str))
	case KindEnum:
		b.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.render(b)
		}
		b.WriteByte(']')
	case KindDict:
		b.WriteByte('{')
		for i, p := range v.Pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Key)
			b.WriteString(": ")
			p.Value.render(b)
		}
		b.WriteByte('}')
	}
}

// Lookup returns the value bound to key in a Dict, scanning in order.
func (v Value) Lookup(key string) (Value, bool) {
	for _, p := range v.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}
