package derive

import (
	"fmt"
	"sort"

	"github.com/loom-idl/loom/compiler/ast"
	"github.com/loom-idl/loom/runtime/value"
	"github.com/loom-idl/loom/runtime/wire"
)

// encodeDef builds the encoding function for one definition. The closure
// tree mirrors the definition's element-type grammar; named references
// resolve through the registry when the encoder runs, so recursive and
// mutually recursive definitions terminate with the value being encoded.
func (r *Registry) encodeDef(def *ast.Definition, env map[string]EncodeFunc) EncodeFunc {
	switch def.Kind {
	case ast.DefRecord:
		return r.encodeRecord(def, env)
	case ast.DefSum, ast.DefOpenSum:
		return r.encodeSum(def, env)
	case ast.DefAlias:
		return r.encodeType(def.Alias, env)
	}
	// Unreachable for validated definitions.
	return func(any) (wire.Value, error) {
		return wire.Value{}, fmt.Errorf("cannot encode %s definition %q", def.Kind, def.Name)
	}
}

// encodeRecord emits an ordered wire mapping, one entry per field in
// declaration order. Optional fields whose value is None are omitted rather
// than emitted as null; this is the representation the decoder's
// missing-key defaulting depends on.
func (r *Registry) encodeRecord(def *ast.Definition, env map[string]EncodeFunc) EncodeFunc {
	type fieldEnc struct {
		name     string
		key      string
		optional bool
		enc      EncodeFunc
	}
	fields := make([]fieldEnc, 0, len(def.Fields))
	for _, f := range def.Fields {
		fields = append(fields, fieldEnc{
			name:     f.Name,
			key:      f.WireKey(),
			optional: f.Type.Kind == ast.TypeOption,
			enc:      r.encodeType(f.Type, env),
		})
	}
	return func(v any) (wire.Value, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return wire.Value{}, fmt.Errorf("record %s: expected map[string]any value, got %T", def.Name, v)
		}
		pairs := make([]wire.Pair, 0, len(fields))
		for _, f := range fields {
			fv, present := m[f.name]
			if !present {
				if f.optional {
					fv = value.None()
				} else {
					return wire.Value{}, fmt.Errorf("record %s: value has no field %q", def.Name, f.name)
				}
			}
			w, err := f.enc(fv)
			if err != nil {
				return wire.Value{}, fmt.Errorf("field %q: %w", f.name, err)
			}
			if f.optional && len(w.Elems) == 0 {
				continue
			}
			pairs = append(pairs, wire.Pair{Key: f.key, Value: w})
		}
		return wire.NewDict(pairs...), nil
	}
}

// encodeSum emits a bare tag string for constant constructors and a
// tag-headed sequence otherwise. A variant value whose tag matches no
// declared constructor is offered to each inherited type's encoder in
// declaration order; the inherited encoder's result is used as-is.
func (r *Registry) encodeSum(def *ast.Definition, env map[string]EncodeFunc) EncodeFunc {
	type ctorEnc struct {
		name string
		tag  string
		args []EncodeFunc
	}
	ctors := make([]ctorEnc, 0, len(def.Constructors))
	var inherited []EncodeFunc
	for _, c := range def.Constructors {
		if c.Inherit != nil {
			inherited = append(inherited, r.encodeType(c.Inherit, env))
			continue
		}
		args := make([]EncodeFunc, 0, len(c.Payload))
		for _, p := range c.Payload {
			args = append(args, r.encodeType(p, env))
		}
		ctors = append(ctors, ctorEnc{name: c.Name, tag: c.WireTag(), args: args})
	}
	return func(v any) (wire.Value, error) {
		variant, ok := v.(value.Variant)
		if !ok {
			return wire.Value{}, fmt.Errorf("sum %s: expected value.Variant, got %T", def.Name, v)
		}
		for _, c := range ctors {
			if c.name != variant.Tag {
				continue
			}
			if len(variant.Args) != len(c.args) {
				return wire.Value{}, fmt.Errorf("sum %s: constructor %q takes %d value(s), got %d",
					def.Name, c.name, len(c.args), len(variant.Args))
			}
			if len(c.args) == 0 {
				return wire.NewString(c.tag), nil
			}
			elems := make([]wire.Value, 0, len(c.args)+1)
			elems = append(elems, wire.NewString(c.tag))
			for i, enc := range c.args {
				w, err := enc(variant.Args[i])
				if err != nil {
					return wire.Value{}, fmt.Errorf("constructor %q component %d: %w", c.name, i, err)
				}
				elems = append(elems, w)
			}
			return wire.NewEnum(elems...), nil
		}
		for _, enc := range inherited {
			if w, err := enc(v); err == nil {
				return w, nil
			}
		}
		return wire.Value{}, fmt.Errorf("sum %s: no constructor named %q", def.Name, variant.Tag)
	}
}

func (r *Registry) encodeType(t *ast.TypeNode, env map[string]EncodeFunc) EncodeFunc {
	switch t.Kind {
	case ast.TypeUnit:
		return encodeUnit
	case ast.TypeBool:
		return encodeBool
	case ast.TypeInt, ast.TypeInt64:
		return encodeInt
	case ast.TypeInt32:
		return encodeInt32
	case ast.TypeFloat:
		return encodeFloat
	case ast.TypeString:
		return encodeString
	case ast.TypeChar:
		return encodeChar
	case ast.TypeList, ast.TypeArray:
		// Arrays flatten to lists on the wire.
		elem := r.encodeType(t.Elem, env)
		return func(v any) (wire.Value, error) {
			s, ok := v.([]any)
			if !ok {
				return wire.Value{}, fmt.Errorf("expected []any value, got %T", v)
			}
			elems := make([]wire.Value, len(s))
			for i, e := range s {
				w, err := elem(e)
				if err != nil {
					return wire.Value{}, fmt.Errorf("element %d: %w", i, err)
				}
				elems[i] = w
			}
			return wire.NewEnum(elems...), nil
		}
	case ast.TypeTuple:
		// Wire tuples are flat ordered sequences, not the right-nested
		// pairing descriptors use.
		comps := make([]EncodeFunc, len(t.Elems))
		for i, e := range t.Elems {
			comps[i] = r.encodeType(e, env)
		}
		return func(v any) (wire.Value, error) {
			s, ok := v.([]any)
			if !ok {
				return wire.Value{}, fmt.Errorf("expected []any tuple value, got %T", v)
			}
			if len(s) != len(comps) {
				return wire.Value{}, fmt.Errorf("expected %d tuple component(s), got %d", len(comps), len(s))
			}
			elems := make([]wire.Value, len(s))
			for i, e := range s {
				w, err := comps[i](e)
				if err != nil {
					return wire.Value{}, fmt.Errorf("component %d: %w", i, err)
				}
				elems[i] = w
			}
			return wire.NewEnum(elems...), nil
		}
	case ast.TypeOption:
		elem := r.encodeType(t.Elem, env)
		return func(v any) (wire.Value, error) {
			o, ok := v.(value.Option)
			if !ok {
				return wire.Value{}, fmt.Errorf("expected value.Option, got %T", v)
			}
			if !o.Present {
				return wire.NewEnum(), nil
			}
			w, err := elem(o.Elem)
			if err != nil {
				return wire.Value{}, err
			}
			return wire.NewEnum(w), nil
		}
	case ast.TypeDict:
		elem := r.encodeType(t.Elem, env)
		return func(v any) (wire.Value, error) {
			m, ok := v.(map[string]any)
			if !ok {
				return wire.Value{}, fmt.Errorf("expected map[string]any value, got %T", v)
			}
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]wire.Pair, 0, len(keys))
			for _, k := range keys {
				w, err := elem(m[k])
				if err != nil {
					return wire.Value{}, fmt.Errorf("key %q: %w", k, err)
				}
				pairs = append(pairs, wire.Pair{Key: k, Value: w})
			}
			return wire.NewDict(pairs...), nil
		}
	case ast.TypeNamed:
		args := make([]EncodeFunc, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.encodeType(a, env)
		}
		name := t.Name
		return func(v any) (wire.Value, error) {
			target, ok := r.defs[name]
			if !ok {
				return wire.Value{}, fmt.Errorf("reference to underived type %q", name)
			}
			enc, err := target.Encoder(args...)
			if err != nil {
				return wire.Value{}, err
			}
			return enc(v)
		}
	case ast.TypeVar:
		return env[t.Name]
	}
	kind := t.Kind
	return func(any) (wire.Value, error) {
		return wire.Value{}, fmt.Errorf("cannot encode element-type kind %d", int(kind))
	}
}

func encodeUnit(v any) (wire.Value, error) {
	switch v.(type) {
	case value.Unit, nil:
		return wire.Null(), nil
	}
	return wire.Value{}, fmt.Errorf("expected unit value, got %T", v)
}

func encodeBool(v any) (wire.Value, error) {
	b, ok := v.(bool)
	if !ok {
		return wire.Value{}, fmt.Errorf("expected bool value, got %T", v)
	}
	return wire.NewBool(b), nil
}

func encodeInt(v any) (wire.Value, error) {
	switch n := v.(type) {
	case int64:
		return wire.NewInt(n), nil
	case int:
		return wire.NewInt(int64(n)), nil
	case int32:
		return wire.NewInt(int64(n)), nil
	}
	return wire.Value{}, fmt.Errorf("expected integer value, got %T", v)
}

func encodeInt32(v any) (wire.Value, error) {
	switch n := v.(type) {
	case int32:
		return wire.NewInt32(n), nil
	case int:
		if int64(n) != int64(int32(n)) {
			return wire.Value{}, fmt.Errorf("value %d overflows int32", n)
		}
		return wire.NewInt32(int32(n)), nil
	case int64:
		if n != int64(int32(n)) {
			return wire.Value{}, fmt.Errorf("value %d overflows int32", n)
		}
		return wire.NewInt32(int32(n)), nil
	}
	return wire.Value{}, fmt.Errorf("expected integer value, got %T", v)
}

func encodeFloat(v any) (wire.Value, error) {
	f, ok := v.(float64)
	if !ok {
		return wire.Value{}, fmt.Errorf("expected float64 value, got %T", v)
	}
	return wire.NewFloat(f), nil
}

func encodeString(v any) (wire.Value, error) {
	s, ok := v.(string)
	if !ok {
		return wire.Value{}, fmt.Errorf("expected string value, got %T", v)
	}
	return wire.NewString(s), nil
}

// encodeChar encodes a character as an integer wire value holding its code
// point.
func encodeChar(v any) (wire.Value, error) {
	switch c := v.(type) {
	case rune:
		return wire.NewInt(int64(c)), nil
	case int:
		return wire.NewInt(int64(c)), nil
	}
	return wire.Value{}, fmt.Errorf("expected rune value, got %T", v)
}
