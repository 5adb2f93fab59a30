package derive

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/loom-idl/loom/compiler/ast"
	"github.com/loom-idl/loom/runtime/value"
	"github.com/loom-idl/loom/runtime/wire"
)

// decodeDef builds the decoding function for one definition: a single-pass
// recursive-descent match over the wire value with no state retained across
// calls. The first mismatch in a subtree fails the whole decode.
func (r *Registry) decodeDef(def *ast.Definition, env map[string]DecodeFunc) DecodeFunc {
	switch def.Kind {
	case ast.DefRecord:
		return r.decodeRecord(def, env)
	case ast.DefSum, ast.DefOpenSum:
		return r.decodeSum(def, env)
	case ast.DefAlias:
		return r.decodeType(def.Alias, env)
	}
	// Unreachable for validated definitions.
	return func(wire.Value) (any, error) {
		return nil, fmt.Errorf("cannot decode %s definition %q", def.Kind, def.Name)
	}
}

// decodeRecord consumes a wire mapping order-independently: declared wire
// keys are matched against mapping entries, unmatched entries are ignored so
// producers may add fields, a missing required key fails, and a missing
// optional key defaults to None.
func (r *Registry) decodeRecord(def *ast.Definition, env map[string]DecodeFunc) DecodeFunc {
	type fieldDec struct {
		name     string
		key      string
		optional bool
		dec      DecodeFunc
	}
	fields := make([]fieldDec, 0, len(def.Fields))
	for _, f := range def.Fields {
		fields = append(fields, fieldDec{
			name:     f.Name,
			key:      f.WireKey(),
			optional: f.Type.Kind == ast.TypeOption,
			dec:      r.decodeType(f.Type, env),
		})
	}
	return func(w wire.Value) (any, error) {
		if w.Kind != wire.KindDict {
			return nil, fmt.Errorf("record %s: expected Dict, got %s %s", def.Name, w.Kind, w)
		}
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			entry, found := w.Lookup(f.key)
			if !found {
				if f.optional {
					m[f.name] = value.None()
					continue
				}
				return nil, fmt.Errorf("record %s: missing key %q in %s", def.Name, f.key, w)
			}
			fv, err := f.dec(entry)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", f.key, err)
			}
			m[f.name] = fv
		}
		return m, nil
	}
}

// decodeSum normalizes once at the top: a bare string, or the string head of
// a sequence, is lower-cased before any tag comparison. Explicit constructors
// are tried first; for open sums an unmatched value then falls through to
// each inherited type's decoder in declaration order.
func (r *Registry) decodeSum(def *ast.Definition, env map[string]DecodeFunc) DecodeFunc {
	type ctorDec struct {
		name string
		tag  string // lower-cased wire tag
		args []DecodeFunc
	}
	ctors := make([]ctorDec, 0, len(def.Constructors))
	var inherited []DecodeFunc
	for _, c := range def.Constructors {
		if c.Inherit != nil {
			inherited = append(inherited, r.decodeType(c.Inherit, env))
			continue
		}
		args := make([]DecodeFunc, 0, len(c.Payload))
		for _, p := range c.Payload {
			args = append(args, r.decodeType(p, env))
		}
		ctors = append(ctors, ctorDec{name: c.Name, tag: strings.ToLower(c.WireTag()), args: args})
	}
	return func(w wire.Value) (any, error) {
		tag, tagged := normalizeTag(w)
		if tagged {
			for _, c := range ctors {
				if c.tag != tag {
					continue
				}
				if len(c.args) == 0 {
					// Constant tags match bare strings only.
					if w.Kind != wire.KindString {
						break
					}
					return value.Tagged(c.name), nil
				}
				if w.Kind != wire.KindEnum {
					break
				}
				if len(w.Elems)-1 != len(c.args) {
					return nil, fmt.Errorf("sum %s: constructor %q takes %d value(s), got %d in %s",
						def.Name, c.name, len(c.args), len(w.Elems)-1, w)
				}
				args := make([]any, len(c.args))
				for i, dec := range c.args {
					a, err := dec(w.Elems[i+1])
					if err != nil {
						return nil, fmt.Errorf("constructor %q component %d: %w", c.name, i, err)
					}
					args[i] = a
				}
				return value.Tagged(c.name, args...), nil
			}
		}
		for _, dec := range inherited {
			if v, err := dec(w); err == nil {
				return v, nil
			}
		}
		if len(inherited) > 0 {
			return nil, fmt.Errorf("sum %s: no constructor or inherited type accepts %s", def.Name, w)
		}
		return nil, fmt.Errorf("sum %s: unrecognized value %s", def.Name, w)
	}
}

// normalizeTag extracts and lower-cases the candidate constructor tag of a
// wire value: the string itself, or the string head of a sequence.
func normalizeTag(w wire.Value) (string, bool) {
	switch {
	case w.Kind == wire.KindString:
		return strings.ToLower(w.Str), true
	case w.Kind == wire.KindEnum && len(w.Elems) > 0 && w.Elems[0].Kind == wire.KindString:
		return strings.ToLower(w.Elems[0].Str), true
	}
	return "", false
}

func (r *Registry) decodeType(t *ast.TypeNode, env map[string]DecodeFunc) DecodeFunc {
	switch t.Kind {
	case ast.TypeUnit:
		return decodeUnit
	case ast.TypeBool:
		return decodeBool
	case ast.TypeInt, ast.TypeInt64:
		return decodeInt
	case ast.TypeInt32:
		return decodeInt32
	case ast.TypeFloat:
		return decodeFloat
	case ast.TypeString:
		return decodeString
	case ast.TypeChar:
		return decodeChar
	case ast.TypeList, ast.TypeArray:
		elem := r.decodeType(t.Elem, env)
		return func(w wire.Value) (any, error) {
			if w.Kind != wire.KindEnum {
				return nil, fmt.Errorf("expected Enum, got %s %s", w.Kind, w)
			}
			s := make([]any, len(w.Elems))
			for i, e := range w.Elems {
				v, err := elem(e)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				s[i] = v
			}
			return s, nil
		}
	case ast.TypeTuple:
		comps := make([]DecodeFunc, len(t.Elems))
		for i, e := range t.Elems {
			comps[i] = r.decodeType(e, env)
		}
		return func(w wire.Value) (any, error) {
			if w.Kind != wire.KindEnum {
				return nil, fmt.Errorf("expected Enum of length %d, got %s %s", len(comps), w.Kind, w)
			}
			if len(w.Elems) != len(comps) {
				return nil, fmt.Errorf("expected Enum of length %d, got Enum of length %d in %s",
					len(comps), len(w.Elems), w)
			}
			s := make([]any, len(comps))
			for i, dec := range comps {
				v, err := dec(w.Elems[i])
				if err != nil {
					return nil, fmt.Errorf("component %d: %w", i, err)
				}
				s[i] = v
			}
			return s, nil
		}
	case ast.TypeOption:
		elem := r.decodeType(t.Elem, env)
		return func(w wire.Value) (any, error) {
			if w.Kind != wire.KindEnum {
				return nil, fmt.Errorf("expected Enum of length 0 or 1, got %s %s", w.Kind, w)
			}
			switch len(w.Elems) {
			case 0:
				return value.None(), nil
			case 1:
				v, err := elem(w.Elems[0])
				if err != nil {
					return nil, err
				}
				return value.Some(v), nil
			}
			return nil, fmt.Errorf("expected Enum of length 0 or 1, got Enum of length %d", len(w.Elems))
		}
	case ast.TypeDict:
		elem := r.decodeType(t.Elem, env)
		return func(w wire.Value) (any, error) {
			if w.Kind != wire.KindDict {
				return nil, fmt.Errorf("expected Dict, got %s %s", w.Kind, w)
			}
			m := make(map[string]any, len(w.Pairs))
			for _, p := range w.Pairs {
				v, err := elem(p.Value)
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", p.Key, err)
				}
				m[p.Key] = v
			}
			return m, nil
		}
	case ast.TypeNamed:
		args := make([]DecodeFunc, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.decodeType(a, env)
		}
		name := t.Name
		return func(w wire.Value) (any, error) {
			target, ok := r.defs[name]
			if !ok {
				return nil, fmt.Errorf("reference to underived type %q", name)
			}
			dec, err := target.Decoder(args...)
			if err != nil {
				return nil, err
			}
			return dec(w)
		}
	case ast.TypeVar:
		return env[t.Name]
	}
	kind := t.Kind
	return func(wire.Value) (any, error) {
		return nil, fmt.Errorf("cannot decode element-type kind %d", int(kind))
	}
}

func decodeUnit(w wire.Value) (any, error) {
	if w.Kind != wire.KindNull {
		return nil, fmt.Errorf("expected Null, got %s %s", w.Kind, w)
	}
	return value.Unit{}, nil
}

func decodeBool(w wire.Value) (any, error) {
	if w.Kind != wire.KindBool {
		return nil, fmt.Errorf("expected Bool, got %s %s", w.Kind, w)
	}
	return w.Bool, nil
}

// decodeInt accepts both integer wire widths; text encodings cannot tell
// them apart.
func decodeInt(w wire.Value) (any, error) {
	switch w.Kind {
	case wire.KindInt:
		return w.Int, nil
	case wire.KindInt32:
		return int64(w.Int32), nil
	}
	return nil, fmt.Errorf("expected Int, got %s %s", w.Kind, w)
}

func decodeInt32(w wire.Value) (any, error) {
	switch w.Kind {
	case wire.KindInt32:
		return w.Int32, nil
	case wire.KindInt:
		if w.Int != int64(int32(w.Int)) {
			return nil, fmt.Errorf("expected Int32, got %s %s (overflows)", w.Kind, w)
		}
		return int32(w.Int), nil
	}
	return nil, fmt.Errorf("expected Int32, got %s %s", w.Kind, w)
}

func decodeFloat(w wire.Value) (any, error) {
	if w.Kind != wire.KindFloat {
		return nil, fmt.Errorf("expected Float, got %s %s", w.Kind, w)
	}
	return w.Float, nil
}

func decodeString(w wire.Value) (any, error) {
	if w.Kind != wire.KindString {
		return nil, fmt.Errorf("expected String, got %s %s", w.Kind, w)
	}
	return w.Str, nil
}

// decodeChar accepts an integer wire value as a code point, or a wire string
// holding an integer literal.
func decodeChar(w wire.Value) (any, error) {
	switch w.Kind {
	case wire.KindInt:
		if w.Int < 0 || w.Int > utf8.MaxRune {
			return nil, fmt.Errorf("expected Char, got %s %s (not a code point)", w.Kind, w)
		}
		return rune(w.Int), nil
	case wire.KindInt32:
		if w.Int32 < 0 || int64(w.Int32) > utf8.MaxRune {
			return nil, fmt.Errorf("expected Char, got %s %s (not a code point)", w.Kind, w)
		}
		return rune(w.Int32), nil
	case wire.KindString:
		n, err := strconv.ParseInt(w.Str, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("expected Char, got String %s (not an integer literal)", w)
		}
		if n < 0 || n > utf8.MaxRune {
			return nil, fmt.Errorf("expected Char, got String %s (not a code point)", w)
		}
		return rune(n), nil
	}
	return nil, fmt.Errorf("expected Char, got %s %s", w.Kind, w)
}
