package loader

import (
	"testing"

	"github.com/loom-idl/loom/compiler/ast"
)

func TestLoadRecord(t *testing.T) {
	doc := `{
	  "types": [
	    {
	      "name": "block",
	      "kind": "record",
	      "doc": "A contiguous region of data",
	      "fields": [
	        {"name": "blocksize", "type": "int", "doc": "Bytes per block", "version": "1.2"},
	        {"name": "ranges", "type": {"list": {"tuple": ["int64", "int64"]}}},
	        {"name": "typ", "type": {"option": "string"}, "key": "type"}
	      ]
	    }
	  ]
	}`
	defs, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Load() returned %d definitions, want 1", len(defs))
	}

	def := defs[0]
	if def.Name != "block" || def.Kind != ast.DefRecord {
		t.Errorf("definition = %s %s", def.Name, def.Kind)
	}
	if def.Doc != "A contiguous region of data" {
		t.Errorf("doc = %q", def.Doc)
	}
	if len(def.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(def.Fields))
	}

	if def.Fields[0].Doc() != "Bytes per block" || def.Fields[0].Version() != "1.2" {
		t.Errorf("field attrs = %v", def.Fields[0].Attrs)
	}

	ranges := def.Fields[1].Type
	if ranges.Kind != ast.TypeList || ranges.Elem.Kind != ast.TypeTuple || len(ranges.Elem.Elems) != 2 {
		t.Errorf("ranges type = %+v", ranges)
	}
	if ranges.Elem.Elems[0].Kind != ast.TypeInt64 {
		t.Errorf("tuple component = %s", ranges.Elem.Elems[0].Kind)
	}

	if key := def.Fields[2].WireKey(); key != "type" {
		t.Errorf("wire key = %q, want %q", key, "type")
	}
}

func TestLoadSum(t *testing.T) {
	doc := `{
	  "types": [
	    {
	      "name": "shape",
	      "kind": "open_sum",
	      "constructors": [
	        {"name": "Point"},
	        {"name": "Circle", "payload": ["float"], "tag": "round"},
	        {"inherit": "polygon"}
	      ]
	    },
	    {
	      "name": "polygon",
	      "kind": "sum",
	      "constructors": [
	        {"name": "Triangle", "payload": [{"tuple": ["float", "float", "float"]}]}
	      ]
	    }
	  ]
	}`
	defs, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("Load() returned %d definitions, want 2", len(defs))
	}

	shape := defs[0]
	if shape.Kind != ast.DefOpenSum {
		t.Errorf("shape kind = %s", shape.Kind)
	}
	if len(shape.Constructors) != 3 {
		t.Fatalf("constructors = %d, want 3", len(shape.Constructors))
	}
	if tag := shape.Constructors[1].WireTag(); tag != "round" {
		t.Errorf("tag = %q, want %q", tag, "round")
	}
	inherit := shape.Constructors[2]
	if inherit.Inherit == nil || inherit.Inherit.Kind != ast.TypeNamed || inherit.Inherit.Name != "polygon" {
		t.Errorf("inherit = %+v", inherit.Inherit)
	}
}

func TestLoadParametric(t *testing.T) {
	doc := `{
	  "types": [
	    {
	      "name": "box",
	      "kind": "record",
	      "params": ["a"],
	      "fields": [
	        {"name": "items", "type": {"list": {"var": "a"}}},
	        {"name": "next", "type": {"named": "box", "args": [{"var": "a"}]}}
	      ]
	    }
	  ]
	}`
	defs, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := defs[0]
	if len(def.Params) != 1 || def.Params[0] != "a" {
		t.Errorf("params = %v", def.Params)
	}
	next := def.Fields[1].Type
	if next.Kind != ast.TypeNamed || next.Name != "box" || len(next.Args) != 1 {
		t.Errorf("next type = %+v", next)
	}
	if next.Args[0].Kind != ast.TypeVar || next.Args[0].Name != "a" {
		t.Errorf("arg = %+v", next.Args[0])
	}
}

func TestLoadAlias(t *testing.T) {
	doc := `{"types": [{"name": "size", "kind": "alias", "alias": "int64"}]}`
	defs, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if defs[0].Kind != ast.DefAlias || defs[0].Alias.Kind != ast.TypeInt64 {
		t.Errorf("alias = %+v", defs[0])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", `{"types": [{"name": "x", "kind": "class"}]}`},
		{"alias without target", `{"types": [{"name": "x", "kind": "alias"}]}`},
		{"empty type name", `{"types": [{"name": "x", "kind": "record", "fields": [{"name": "f", "type": ""}]}]}`},
		{"unknown wrapper", `{"types": [{"name": "x", "kind": "record", "fields": [{"name": "f", "type": {"set": "int"}}]}]}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
