// Package ast defines the type-definition representation consumed by the
// derivation pass. Definitions are produced by a front-end (the JSON loader
// or an embedding program) and are only ever read by the generators.
package ast

// DefKind represents the kind of a type definition
type DefKind int

const (
	// DefRecord represents a record (product) definition
	DefRecord DefKind = iota
	// DefSum represents a closed sum definition
	DefSum
	// DefOpenSum represents an open (polymorphic) sum definition whose
	// constructor set may include inherited branches
	DefOpenSum
	// DefAlias represents an alias to an existing element type
	DefAlias
)

// String returns the name of the definition kind.
func (k DefKind) String() string {
	switch k {
	case DefRecord:
		return "record"
	case DefSum:
		return "sum"
	case DefOpenSum:
		return "open sum"
	case DefAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Definition is one named algebraic type being processed.
type Definition struct {
	Name         string         // Declared type name
	Kind         DefKind        // Record, sum, open sum, or alias
	Doc          string         // Definition-level documentation
	Params       []string       // Free type variables, declaration order
	Fields       []*Field       // Record fields (DefRecord)
	Constructors []*Constructor // Sum constructors (DefSum, DefOpenSum)
	Alias        *TypeNode      // Aliased element type (DefAlias)
}

// Field is a record field declaration.
type Field struct {
	Name  string     // In-language field name
	Type  *TypeNode  // Declared element type
	Attrs Attributes // key override, doc, version marker
}

// Constructor is a sum variant declaration. When Inherit is set the branch
// delegates to another named sum type's codec and Name/Payload are unused.
type Constructor struct {
	Name    string      // In-language constructor name
	Payload []*TypeNode // Payload element types; empty means constant tag
	Inherit *TypeNode   // Inherited named type (open sums only)
	Attrs   Attributes  // tag override, doc
}

// TypeKind represents the kind of an element-type reference
type TypeKind int

const (
	// TypeUnit is the unit primitive
	TypeUnit TypeKind = iota
	// TypeBool is the boolean primitive
	TypeBool
	// TypeInt is the platform signed integer primitive
	TypeInt
	// TypeInt32 is the 32-bit signed integer primitive
	TypeInt32
	// TypeInt64 is the 64-bit signed integer primitive
	TypeInt64
	// TypeFloat is the floating-point primitive
	TypeFloat
	// TypeString is the string primitive
	TypeString
	// TypeChar is the character primitive
	TypeChar
	// TypeList is a homogeneous sequence
	TypeList
	// TypeArray is a homogeneous fixed-size sequence
	TypeArray
	// TypeTuple is a heterogeneous fixed-size sequence of two or more types
	TypeTuple
	// TypeOption is an optional wrapper
	TypeOption
	// TypeDict is a string-keyed dictionary
	TypeDict
	// TypeNamed is a reference to another named definition
	TypeNamed
	// TypeVar is a type variable bound by the enclosing definition
	TypeVar
)

// String returns the name of the type kind.
func (k TypeKind) String() string {
	switch k {
	case TypeUnit:
		return "unit"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeChar:
		return "char"
	case TypeList:
		return "list"
	case TypeArray:
		return "array"
	case TypeTuple:
		return "tuple"
	case TypeOption:
		return "option"
	case TypeDict:
		return "dict"
	case TypeNamed:
		return "named"
	case TypeVar:
		return "var"
	default:
		return "unknown"
	}
}

// TypeNode is an element-type reference.
type TypeNode struct {
	Kind  TypeKind
	Elem  *TypeNode   // For list, array, option, dict
	Elems []*TypeNode // For tuple (len >= 2)
	Name  string      // For named references and type variables
	Args  []*TypeNode // Type arguments of a named reference
}

// Primitive reports whether the node is a fixed basic kind.
func (t *TypeNode) Primitive() bool {
	switch t.Kind {
	case TypeUnit, TypeBool, TypeInt, TypeInt32, TypeInt64, TypeFloat, TypeString, TypeChar:
		return true
	}
	return false
}
