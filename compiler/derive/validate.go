package derive

import (
	"strings"

	"github.com/loom-idl/loom/compiler/ast"
	"github.com/loom-idl/loom/compiler/errors"
)

// validate enforces the derivation-time failure policy: every element-type
// shape the generators do not understand is rejected here, once, before any
// artifact is bound. The generators themselves assume validated input.
func (r *Registry) validate(def *ast.Definition) error {
	if def == nil || def.Name == "" {
		return errors.New(errors.CodeUnsupportedShape, "", "definition has no name")
	}
	switch def.Kind {
	case ast.DefRecord:
		return r.validateRecord(def)
	case ast.DefSum, ast.DefOpenSum:
		return r.validateSum(def)
	case ast.DefAlias:
		if len(def.Params) > 0 {
			return errors.New(errors.CodeUnsupportedShape, def.Name,
				"alias with a polymorphic body cannot be derived")
		}
		if def.Alias == nil {
			return errors.New(errors.CodeUnsupportedShape, def.Name, "alias has no target type")
		}
		return r.walkType(def, def.Alias)
	default:
		return errors.New(errors.CodeUnsupportedShape, def.Name,
			"unknown definition kind %d", int(def.Kind))
	}
}

func (r *Registry) validateRecord(def *ast.Definition) error {
	keys := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return errors.New(errors.CodeUnsupportedShape, def.Name, "record field has no name")
		}
		key := f.WireKey()
		if keys[key] {
			return errors.New(errors.CodeDuplicateKey, def.Name,
				"wire key %q declared twice", key)
		}
		keys[key] = true
		if err := r.walkType(def, f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) validateSum(def *ast.Definition) error {
	// Tag matching at decode time is case-insensitive, so tags that differ
	// only in case collide.
	tags := make(map[string]bool, len(def.Constructors))
	for _, c := range def.Constructors {
		if c.Inherit != nil {
			if def.Kind != ast.DefOpenSum {
				return errors.New(errors.CodeUnsupportedShape, def.Name,
					"closed sum cannot inherit from %q", c.Inherit.Name)
			}
			if c.Inherit.Kind != ast.TypeNamed {
				return errors.New(errors.CodeUnsupportedShape, def.Name,
					"inherited branch must reference a named type, got %s", c.Inherit.Kind)
			}
			if err := r.walkType(def, c.Inherit); err != nil {
				return err
			}
			continue
		}
		if c.Name == "" {
			return errors.New(errors.CodeUnsupportedShape, def.Name, "constructor has no name")
		}
		tag := strings.ToLower(c.WireTag())
		if tags[tag] {
			return errors.New(errors.CodeDuplicateKey, def.Name,
				"wire tag %q declared twice (tags match case-insensitively)", tag)
		}
		tags[tag] = true
		for _, p := range c.Payload {
			if err := r.walkType(def, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkType rejects shapes outside the supported grammar. Named references are
// only checked structurally here; checkRefs resolves them once the whole
// group is registered.
func (r *Registry) walkType(def *ast.Definition, t *ast.TypeNode) error {
	if t == nil {
		return errors.New(errors.CodeUnsupportedShape, def.Name, "missing element type")
	}
	switch t.Kind {
	case ast.TypeUnit, ast.TypeBool, ast.TypeInt, ast.TypeInt32, ast.TypeInt64,
		ast.TypeFloat, ast.TypeString, ast.TypeChar:
		return nil
	case ast.TypeList, ast.TypeArray, ast.TypeOption, ast.TypeDict:
		if t.Elem == nil {
			return errors.New(errors.CodeUnsupportedShape, def.Name,
				"%s has no element type", t.Kind)
		}
		return r.walkType(def, t.Elem)
	case ast.TypeTuple:
		if len(t.Elems) < 2 {
			return errors.New(errors.CodeUnsupportedShape, def.Name,
				"tuple needs at least two components, got %d", len(t.Elems))
		}
		for _, e := range t.Elems {
			if err := r.walkType(def, e); err != nil {
				return err
			}
		}
		return nil
	case ast.TypeNamed:
		if t.Name == "" {
			return errors.New(errors.CodeUnsupportedShape, def.Name, "named reference has no name")
		}
		for _, a := range t.Args {
			if err := r.walkType(def, a); err != nil {
				return err
			}
		}
		return nil
	case ast.TypeVar:
		for _, p := range def.Params {
			if p == t.Name {
				return nil
			}
		}
		return errors.New(errors.CodeUnboundVariable, def.Name,
			"type variable %q is not bound by the definition", t.Name)
	default:
		return errors.New(errors.CodeUnsupportedShape, def.Name,
			"unknown element-type kind %d", int(t.Kind))
	}
}

// checkRefs resolves every named reference in the definition against the
// registry and checks type-argument arity. Inherited branches must land on a
// sum definition.
func (r *Registry) checkRefs(def *ast.Definition) error {
	check := func(t *ast.TypeNode) error { return r.checkRefType(def, t) }
	switch def.Kind {
	case ast.DefRecord:
		for _, f := range def.Fields {
			if err := check(f.Type); err != nil {
				return err
			}
		}
	case ast.DefSum, ast.DefOpenSum:
		for _, c := range def.Constructors {
			if c.Inherit != nil {
				target, ok := r.defs[c.Inherit.Name]
				if !ok {
					return errors.New(errors.CodeUnknownReference, def.Name,
						"inherited type %q is not derived", c.Inherit.Name)
				}
				if target.def.Kind != ast.DefSum && target.def.Kind != ast.DefOpenSum {
					return errors.New(errors.CodeUnsupportedShape, def.Name,
						"inherited type %q is a %s, not a sum", c.Inherit.Name, target.def.Kind)
				}
				if err := check(c.Inherit); err != nil {
					return err
				}
				continue
			}
			for _, p := range c.Payload {
				if err := check(p); err != nil {
					return err
				}
			}
		}
	case ast.DefAlias:
		return check(def.Alias)
	}
	return nil
}

func (r *Registry) checkRefType(def *ast.Definition, t *ast.TypeNode) error {
	switch t.Kind {
	case ast.TypeList, ast.TypeArray, ast.TypeOption, ast.TypeDict:
		return r.checkRefType(def, t.Elem)
	case ast.TypeTuple:
		for _, e := range t.Elems {
			if err := r.checkRefType(def, e); err != nil {
				return err
			}
		}
	case ast.TypeNamed:
		target, ok := r.defs[t.Name]
		if !ok {
			return errors.New(errors.CodeUnknownReference, def.Name,
				"reference to underived type %q", t.Name)
		}
		if len(t.Args) != len(target.Params) {
			return errors.New(errors.CodeArityMismatch, def.Name,
				"type %q takes %d argument(s), got %d", t.Name, len(target.Params), len(t.Args))
		}
		for _, a := range t.Args {
			if err := r.checkRefType(def, a); err != nil {
				return err
			}
		}
	}
	return nil
}
