// Package derive implements the derivation pass: it walks type definitions
// and produces, per definition, a structural type descriptor, an encoder to
// the generic wire value, and a decoder back. Derivation-time failures abort
// the definition; the derived functions themselves are pure and safe for
// concurrent use.
package derive

import (
	"github.com/loom-idl/loom/compiler/ast"
	"github.com/loom-idl/loom/compiler/errors"
	"github.com/loom-idl/loom/runtime/schema"
	"github.com/loom-idl/loom/runtime/wire"
)

// EncodeFunc converts a typed value into a wire value. For values that match
// the definition's shape it never fails; the error return exists because Go
// cannot rule out ill-shaped dynamic inputs.
type EncodeFunc func(v any) (wire.Value, error)

// DecodeFunc parses a wire value back into a typed value, or reports a
// diagnostic describing the expected wire shape and the value received.
type DecodeFunc func(w wire.Value) (any, error)

// Derived is the triple of artifacts bound for one type definition. Bindings
// are keyed in the registry by the definition's declared name, so generated
// output for one definition can reference another's.
type Derived struct {
	Name   string   // Declared definition name
	Params []string // Free type variables, declaration order

	def *ast.Definition
	reg *Registry
}

// Registry is the derivation driver: it validates definitions, binds their
// derived artifacts under the definition name, and resolves named references
// between definitions. Resolution is lazy, so mutually recursive definitions
// derive in any order as long as the whole group is registered before any
// derived function runs.
type Registry struct {
	defs map[string]*Derived
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Derived)}
}

// Derive validates one definition and binds its artifacts. Named references
// must resolve against definitions already registered (the definition itself
// included, so self-recursion is fine); use DeriveAll for mutually recursive
// groups.
func (r *Registry) Derive(def *ast.Definition) (*Derived, error) {
	d, err := r.register(def)
	if err != nil {
		return nil, err
	}
	if err := r.checkRefs(def); err != nil {
		delete(r.defs, def.Name)
		return nil, err
	}
	return d, nil
}

// DeriveAll registers a group of definitions and then resolves references
// across the whole group. On failure the registry holds a partial group and
// should be discarded.
func (r *Registry) DeriveAll(defs []*ast.Definition) ([]*Derived, error) {
	derived := make([]*Derived, 0, len(defs))
	for _, def := range defs {
		d, err := r.register(def)
		if err != nil {
			return nil, err
		}
		derived = append(derived, d)
	}
	for _, def := range defs {
		if err := r.checkRefs(def); err != nil {
			return nil, err
		}
	}
	return derived, nil
}

// Lookup returns the derived artifacts bound under a definition name.
func (r *Registry) Lookup(name string) (*Derived, bool) {
	d, ok := r.defs[name]
	return d, ok
}

func (r *Registry) register(def *ast.Definition) (*Derived, error) {
	if err := r.validate(def); err != nil {
		return nil, err
	}
	if _, ok := r.defs[def.Name]; ok {
		return nil, errors.New(errors.CodeRedefined, def.Name, "definition already derived")
	}
	d := &Derived{Name: def.Name, Params: def.Params, def: def, reg: r}
	r.defs[def.Name] = d
	return d, nil
}

// Descriptor builds the structural type descriptor, one caller-supplied
// descriptor argument per free type variable.
func (d *Derived) Descriptor(args ...*schema.Type) (*schema.Type, error) {
	env, err := bindArgs(d, args)
	if err != nil {
		return nil, err
	}
	return d.reg.describeDef(d.def, env, map[string]bool{})
}

// Encoder builds the encoding function, one caller-supplied encoder per free
// type variable.
func (d *Derived) Encoder(args ...EncodeFunc) (EncodeFunc, error) {
	env, err := bindArgs(d, args)
	if err != nil {
		return nil, err
	}
	return d.reg.encodeDef(d.def, env), nil
}

// Decoder builds the decoding function, one caller-supplied decoder per free
// type variable.
func (d *Derived) Decoder(args ...DecodeFunc) (DecodeFunc, error) {
	env, err := bindArgs(d, args)
	if err != nil {
		return nil, err
	}
	return d.reg.decodeDef(d.def, env), nil
}

// Encode is shorthand for deriving the encoder of a monomorphic definition
// and applying it.
func (d *Derived) Encode(v any) (wire.Value, error) {
	enc, err := d.Encoder()
	if err != nil {
		return wire.Value{}, err
	}
	return enc(v)
}

// Decode is shorthand for deriving the decoder of a monomorphic definition
// and applying it.
func (d *Derived) Decode(w wire.Value) (any, error) {
	dec, err := d.Decoder()
	if err != nil {
		return nil, err
	}
	return dec(w)
}

func bindArgs[T any](d *Derived, args []T) (map[string]T, error) {
	if len(args) != len(d.Params) {
		return nil, errors.New(errors.CodeArityMismatch, d.Name,
			"definition takes %d type argument(s), got %d", len(d.Params), len(args))
	}
	if len(args) == 0 {
		return nil, nil
	}
	env := make(map[string]T, len(args))
	for i, p := range d.Params {
		env[p] = args[i]
	}
	return env, nil
}
