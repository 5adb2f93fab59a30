// Package value defines the dynamic representation of typed values that
// derived codecs operate on. Records are map[string]any keyed by field name,
// lists, arrays and tuples are []any, dictionaries are map[string]any, and
// the types below cover the shapes Go has no native spelling for.
package value

// Unit is the sole inhabitant of the unit type. It encodes as wire null.
type Unit struct{}

// Variant is a sum-type value: the constructor name plus its payload
// components, one entry per declared payload type. A constant tag carries a
// nil Args slice.
type Variant struct {
	Tag  string
	Args []any
}

// Tagged builds a variant value.
func Tagged(tag string, args ...any) Variant {
	return Variant{Tag: tag, Args: args}
}

// Option wraps a possibly-absent value. The zero Option is None.
type Option struct {
	Present bool
	Elem    any
}

// Some wraps a present value.
func Some(v any) Option {
	return Option{Present: true, Elem: v}
}

// None returns the absent option.
func None() Option {
	return Option{}
}
