// Package schema provides the structural type descriptors emitted by the
// derivation pass. A descriptor mirrors the shape of a type definition but
// carries naming and documentation metadata instead of data, for use by
// introspection and documentation tooling.
package schema

// Kind identifies the category of a descriptor node.
type Kind string

const (
	// KindUnit is the unit basic kind
	KindUnit Kind = "unit"
	// KindBool is the boolean basic kind
	KindBool Kind = "bool"
	// KindInt is the platform signed integer basic kind
	KindInt Kind = "int"
	// KindInt32 is the 32-bit signed integer basic kind
	KindInt32 Kind = "int32"
	// KindInt64 is the 64-bit signed integer basic kind
	KindInt64 Kind = "int64"
	// KindFloat is the floating-point basic kind
	KindFloat Kind = "float"
	// KindString is the string basic kind
	KindString Kind = "string"
	// KindChar is the character basic kind, distinct from the integers
	KindChar Kind = "char"
	// KindList wraps a homogeneous element descriptor
	KindList Kind = "list"
	// KindArray wraps a homogeneous element descriptor
	KindArray Kind = "array"
	// KindTuple is a right-nested pair of descriptors
	KindTuple Kind = "tuple"
	// KindOption wraps a possibly-absent element descriptor
	KindOption Kind = "option"
	// KindDict wraps the value descriptor of a string-keyed mapping
	KindDict Kind = "dict"
	// KindStruct is a named record node
	KindStruct Kind = "struct"
	// KindVariant is a named sum node
	KindVariant Kind = "variant"
	// KindNamed is a by-name reference to another definition's descriptor,
	// emitted to break cycles in recursive definitions
	KindNamed Kind = "named"
)

// Type is one node of a structural descriptor tree. Kind selects which of
// the optional payloads is set.
type Type struct {
	Kind    Kind     `json:"kind"`
	Elem    *Type    `json:"elem,omitempty"`    // list, array, option, dict
	First   *Type    `json:"first,omitempty"`   // tuple head
	Second  *Type    `json:"second,omitempty"`  // tuple tail (right-nested)
	Name    string   `json:"name,omitempty"`    // named reference target
	Struct  *Struct  `json:"struct,omitempty"`  // record node
	Variant *Variant `json:"variant,omitempty"` // sum node
}

// Struct describes a named record: its wire fields in declaration order.
type Struct struct {
	Name   string  `json:"name"`          // Definition name
	Doc    string  `json:"doc,omitempty"` // Definition-level documentation
	Fields []Field `json:"fields"`        // Field descriptors, declaration order
}

// Field describes one record field.
type Field struct {
	Key     string `json:"key"`               // Resolved wire key
	Doc     string `json:"doc,omitempty"`     // Field documentation
	Version string `json:"version,omitempty"` // Minimum-version marker
	Type    *Type  `json:"type"`              // Element descriptor
}

// Variant describes a named sum: its constructors in declaration order.
type Variant struct {
	Name  string `json:"name"`          // Definition name
	Doc   string `json:"doc,omitempty"` // Definition-level documentation
	Cases []Case `json:"cases"`         // Constructor descriptors, declaration order
}

// Case describes one sum constructor. A constant tag carries a unit payload.
type Case struct {
	Key     string `json:"key"`           // Resolved wire tag
	Doc     string `json:"doc,omitempty"` // Constructor documentation
	Payload *Type  `json:"payload"`       // Payload descriptor
}

// Basic returns a leaf descriptor for a basic kind.
func Basic(k Kind) *Type {
	return &Type{Kind: k}
}

// List wraps elem in a list descriptor.
func List(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// Array wraps elem in an array descriptor.
func Array(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// Option wraps elem in an option descriptor.
func Option(elem *Type) *Type {
	return &Type{Kind: KindOption, Elem: elem}
}

// Dict wraps the value descriptor of a string-keyed mapping.
func Dict(elem *Type) *Type {
	return &Type{Kind: KindDict, Elem: elem}
}

// Tuple pairs two descriptors. N-ary tuples right-nest: Tuple(a, Tuple(b, c)).
func Tuple(first, second *Type) *Type {
	return &Type{Kind: KindTuple, First: first, Second: second}
}

// Named references another definition's descriptor by name.
func Named(name string) *Type {
	return &Type{Kind: KindNamed, Name: name}
}
