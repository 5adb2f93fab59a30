package derive

import (
	"github.com/loom-idl/loom/compiler/ast"
	"github.com/loom-idl/loom/compiler/errors"
	"github.com/loom-idl/loom/runtime/schema"
)

// describeDef builds the structural descriptor for one definition. seen
// tracks definitions on the current resolution path: re-entering one means
// the definition is recursive, and the cycle is broken with a by-name
// reference node instead of an infinite tree.
func (r *Registry) describeDef(def *ast.Definition, env map[string]*schema.Type, seen map[string]bool) (*schema.Type, error) {
	if seen[def.Name] {
		return schema.Named(def.Name), nil
	}
	seen[def.Name] = true
	defer delete(seen, def.Name)

	switch def.Kind {
	case ast.DefRecord:
		fields := make([]schema.Field, 0, len(def.Fields))
		for _, f := range def.Fields {
			ft, err := r.describeType(f.Type, def, env, seen)
			if err != nil {
				return nil, err
			}
			fields = append(fields, schema.Field{
				Key:     f.WireKey(),
				Doc:     f.Doc(),
				Version: f.Version(),
				Type:    ft,
			})
		}
		return &schema.Type{
			Kind:   schema.KindStruct,
			Struct: &schema.Struct{Name: def.Name, Doc: def.Doc, Fields: fields},
		}, nil

	case ast.DefSum, ast.DefOpenSum:
		cases := make([]schema.Case, 0, len(def.Constructors))
		for _, c := range def.Constructors {
			if c.Inherit != nil {
				// Inherited branches are referenced by the inherited
				// type's name; their own descriptor carries the cases.
				payload, err := r.describeType(c.Inherit, def, env, seen)
				if err != nil {
					return nil, err
				}
				cases = append(cases, schema.Case{Key: c.Inherit.Name, Payload: payload})
				continue
			}
			payload, err := r.describePayload(c.Payload, def, env, seen)
			if err != nil {
				return nil, err
			}
			cases = append(cases, schema.Case{
				Key:     c.WireTag(),
				Doc:     c.Doc(),
				Payload: payload,
			})
		}
		return &schema.Type{
			Kind:    schema.KindVariant,
			Variant: &schema.Variant{Name: def.Name, Doc: def.Doc, Cases: cases},
		}, nil

	case ast.DefAlias:
		return r.describeType(def.Alias, def, env, seen)
	}
	return nil, errors.New(errors.CodeUnsupportedShape, def.Name,
		"unknown definition kind %d", int(def.Kind))
}

// describePayload folds a constructor payload: no types is Unit, one type is
// its own descriptor, more right-nest pairwise.
func (r *Registry) describePayload(payload []*ast.TypeNode, def *ast.Definition, env map[string]*schema.Type, seen map[string]bool) (*schema.Type, error) {
	switch len(payload) {
	case 0:
		return schema.Basic(schema.KindUnit), nil
	case 1:
		return r.describeType(payload[0], def, env, seen)
	default:
		return r.foldTuple(payload, def, env, seen)
	}
}

// foldTuple right-nests component descriptors: (T1,...,Tn) becomes
// Tuple(desc(T1), desc(T2..Tn)), bottoming out at desc(Tn).
func (r *Registry) foldTuple(elems []*ast.TypeNode, def *ast.Definition, env map[string]*schema.Type, seen map[string]bool) (*schema.Type, error) {
	first, err := r.describeType(elems[0], def, env, seen)
	if err != nil {
		return nil, err
	}
	if len(elems) == 2 {
		second, err := r.describeType(elems[1], def, env, seen)
		if err != nil {
			return nil, err
		}
		return schema.Tuple(first, second), nil
	}
	rest, err := r.foldTuple(elems[1:], def, env, seen)
	if err != nil {
		return nil, err
	}
	return schema.Tuple(first, rest), nil
}

func (r *Registry) describeType(t *ast.TypeNode, def *ast.Definition, env map[string]*schema.Type, seen map[string]bool) (*schema.Type, error) {
	switch t.Kind {
	case ast.TypeUnit:
		return schema.Basic(schema.KindUnit), nil
	case ast.TypeBool:
		return schema.Basic(schema.KindBool), nil
	case ast.TypeInt:
		return schema.Basic(schema.KindInt), nil
	case ast.TypeInt32:
		return schema.Basic(schema.KindInt32), nil
	case ast.TypeInt64:
		return schema.Basic(schema.KindInt64), nil
	case ast.TypeFloat:
		return schema.Basic(schema.KindFloat), nil
	case ast.TypeString:
		return schema.Basic(schema.KindString), nil
	case ast.TypeChar:
		return schema.Basic(schema.KindChar), nil
	case ast.TypeList:
		elem, err := r.describeType(t.Elem, def, env, seen)
		if err != nil {
			return nil, err
		}
		return schema.List(elem), nil
	case ast.TypeArray:
		elem, err := r.describeType(t.Elem, def, env, seen)
		if err != nil {
			return nil, err
		}
		return schema.Array(elem), nil
	case ast.TypeOption:
		elem, err := r.describeType(t.Elem, def, env, seen)
		if err != nil {
			return nil, err
		}
		return schema.Option(elem), nil
	case ast.TypeDict:
		elem, err := r.describeType(t.Elem, def, env, seen)
		if err != nil {
			return nil, err
		}
		return schema.Dict(elem), nil
	case ast.TypeTuple:
		return r.foldTuple(t.Elems, def, env, seen)
	case ast.TypeNamed:
		target, ok := r.defs[t.Name]
		if !ok {
			return nil, errors.New(errors.CodeUnknownReference, def.Name,
				"reference to underived type %q", t.Name)
		}
		args := make([]*schema.Type, 0, len(t.Args))
		for _, a := range t.Args {
			at, err := r.describeType(a, def, env, seen)
			if err != nil {
				return nil, err
			}
			args = append(args, at)
		}
		targetEnv, err := bindArgs(target, args)
		if err != nil {
			return nil, err
		}
		return r.describeDef(target.def, targetEnv, seen)
	case ast.TypeVar:
		return env[t.Name], nil
	}
	return nil, errors.New(errors.CodeUnsupportedShape, def.Name,
		"unknown element-type kind %d", int(t.Kind))
}
