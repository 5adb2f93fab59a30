// Package loader reads type definitions from their JSON document form and
// produces the AST the derivation pass consumes. It is a front-end: the
// derivation pass itself never parses source text.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loom-idl/loom/compiler/ast"
)

// Document is the top-level shape of a definitions file.
type Document struct {
	Types []Def `json:"types"`
}

// Def is the JSON form of one type definition.
type Def struct {
	Name         string          `json:"name"`
	Kind         string          `json:"kind"` // record, sum, open_sum, alias
	Doc          string          `json:"doc,omitempty"`
	Params       []string        `json:"params,omitempty"`
	Fields       []DefField      `json:"fields,omitempty"`
	Constructors []DefCtor       `json:"constructors,omitempty"`
	Alias        json.RawMessage `json:"alias,omitempty"`
}

// DefField is the JSON form of a record field.
type DefField struct {
	Name    string          `json:"name"`
	Type    json.RawMessage `json:"type"`
	Key     string          `json:"key,omitempty"`
	Doc     string          `json:"doc,omitempty"`
	Version string          `json:"version,omitempty"`
}

// DefCtor is the JSON form of a sum constructor. Either Inherit is set, or
// Name plus an optional payload list.
type DefCtor struct {
	Name    string            `json:"name,omitempty"`
	Payload []json.RawMessage `json:"payload,omitempty"`
	Tag     string            `json:"tag,omitempty"`
	Doc     string            `json:"doc,omitempty"`
	Inherit json.RawMessage   `json:"inherit,omitempty"`
}

// LoadFile reads and parses a definitions file.
func LoadFile(path string) ([]*ast.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Load parses a definitions document.
func Load(data []byte) ([]*ast.Definition, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defs := make([]*ast.Definition, 0, len(doc.Types))
	for _, d := range doc.Types {
		def, err := convertDef(d)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func convertDef(d Def) (*ast.Definition, error) {
	def := &ast.Definition{Name: d.Name, Doc: d.Doc, Params: d.Params}
	switch d.Kind {
	case "record":
		def.Kind = ast.DefRecord
		for _, f := range d.Fields {
			t, err := parseType(f.Type)
			if err != nil {
				return nil, fmt.Errorf("loader: %s.%s: %w", d.Name, f.Name, err)
			}
			attrs := ast.Attributes{}
			if f.Key != "" {
				attrs[ast.AttrKey] = f.Key
			}
			if f.Doc != "" {
				attrs[ast.AttrDoc] = f.Doc
			}
			if f.Version != "" {
				attrs[ast.AttrVersion] = f.Version
			}
			def.Fields = append(def.Fields, &ast.Field{Name: f.Name, Type: t, Attrs: attrs})
		}
	case "sum", "open_sum":
		if d.Kind == "sum" {
			def.Kind = ast.DefSum
		} else {
			def.Kind = ast.DefOpenSum
		}
		for _, c := range d.Constructors {
			ctor, err := convertCtor(d.Name, c)
			if err != nil {
				return nil, err
			}
			def.Constructors = append(def.Constructors, ctor)
		}
	case "alias":
		def.Kind = ast.DefAlias
		if len(d.Alias) == 0 {
			return nil, fmt.Errorf("loader: %s: alias has no target type", d.Name)
		}
		t, err := parseType(d.Alias)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", d.Name, err)
		}
		def.Alias = t
	default:
		return nil, fmt.Errorf("loader: %s: unknown definition kind %q", d.Name, d.Kind)
	}
	return def, nil
}

func convertCtor(defName string, c DefCtor) (*ast.Constructor, error) {
	if len(c.Inherit) > 0 {
		t, err := parseType(c.Inherit)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: inherit: %w", defName, err)
		}
		return &ast.Constructor{Inherit: t}, nil
	}
	ctor := &ast.Constructor{Name: c.Name, Attrs: ast.Attributes{}}
	if c.Tag != "" {
		ctor.Attrs[ast.AttrTag] = c.Tag
	}
	if c.Doc != "" {
		ctor.Attrs[ast.AttrDoc] = c.Doc
	}
	for _, p := range c.Payload {
		t, err := parseType(p)
		if err != nil {
			return nil, fmt.Errorf("loader: %s.%s: %w", defName, c.Name, err)
		}
		ctor.Payload = append(ctor.Payload, t)
	}
	return ctor, nil
}

var primitives = map[string]ast.TypeKind{
	"unit":   ast.TypeUnit,
	"bool":   ast.TypeBool,
	"int":    ast.TypeInt,
	"int32":  ast.TypeInt32,
	"int64":  ast.TypeInt64,
	"float":  ast.TypeFloat,
	"string": ast.TypeString,
	"char":   ast.TypeChar,
}

// parseType reads an element-type reference. A JSON string is a primitive
// name or a bare named reference; an object selects one wrapper:
//
//	{"list": T} {"array": T} {"option": T} {"dict": T}
//	{"tuple": [T1, T2, ...]}
//	{"named": "t", "args": [T...]}
//	{"var": "a"}
func parseType(raw json.RawMessage) (*ast.TypeNode, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if kind, ok := primitives[name]; ok {
			return &ast.TypeNode{Kind: kind}, nil
		}
		if name == "" {
			return nil, fmt.Errorf("empty type name")
		}
		return &ast.TypeNode{Kind: ast.TypeNamed, Name: name}, nil
	}

	var obj struct {
		List   json.RawMessage   `json:"list"`
		Array  json.RawMessage   `json:"array"`
		Option json.RawMessage   `json:"option"`
		Dict   json.RawMessage   `json:"dict"`
		Tuple  []json.RawMessage `json:"tuple"`
		Named  string            `json:"named"`
		Args   []json.RawMessage `json:"args"`
		Var    string            `json:"var"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("malformed type: %w", err)
	}

	wrap := func(kind ast.TypeKind, elem json.RawMessage) (*ast.TypeNode, error) {
		t, err := parseType(elem)
		if err != nil {
			return nil, err
		}
		return &ast.TypeNode{Kind: kind, Elem: t}, nil
	}
	switch {
	case len(obj.List) > 0:
		return wrap(ast.TypeList, obj.List)
	case len(obj.Array) > 0:
		return wrap(ast.TypeArray, obj.Array)
	case len(obj.Option) > 0:
		return wrap(ast.TypeOption, obj.Option)
	case len(obj.Dict) > 0:
		return wrap(ast.TypeDict, obj.Dict)
	case len(obj.Tuple) > 0:
		elems := make([]*ast.TypeNode, 0, len(obj.Tuple))
		for _, e := range obj.Tuple {
			t, err := parseType(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
		}
		return &ast.TypeNode{Kind: ast.TypeTuple, Elems: elems}, nil
	case obj.Named != "":
		node := &ast.TypeNode{Kind: ast.TypeNamed, Name: obj.Named}
		for _, a := range obj.Args {
			t, err := parseType(a)
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, t)
		}
		return node, nil
	case obj.Var != "":
		return &ast.TypeNode{Kind: ast.TypeVar, Name: obj.Var}, nil
	}
	return nil, fmt.Errorf("type object selects no known wrapper")
}
