package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-idl/loom/compiler/ast"
	"github.com/loom-idl/loom/compiler/errors"
	"github.com/loom-idl/loom/runtime/value"
	"github.com/loom-idl/loom/runtime/wire"
)

// baseDef/extDef model an open sum inheriting another sum's constructors:
// base = Plain | Sized of int, ext = Tagged of string | base.
func baseDef() *ast.Definition {
	return &ast.Definition{
		Name: "base",
		Kind: ast.DefOpenSum,
		Constructors: []*ast.Constructor{
			{Name: "Plain"},
			{Name: "Sized", Payload: []*ast.TypeNode{prim(ast.TypeInt)}},
		},
	}
}

func extDef() *ast.Definition {
	return &ast.Definition{
		Name: "ext",
		Kind: ast.DefOpenSum,
		Constructors: []*ast.Constructor{
			{Name: "Labelled", Payload: []*ast.TypeNode{prim(ast.TypeString)}},
			{Inherit: named("base")},
		},
	}
}

func TestOpenSumInheritedDecode(t *testing.T) {
	reg := mustDerive(t, baseDef(), extDef())
	ext, _ := reg.Lookup("ext")
	base, _ := reg.Lookup("base")

	// A value of the inherited type decodes through the including sum.
	w := wire.NewEnum(wire.NewString("sized"), wire.NewInt(42))
	got, err := ext.Decode(w)
	require.NoError(t, err)
	assert.Equal(t, value.Tagged("Sized", int64(42)), got)

	// And re-encodes identically to how the inherited type alone encodes it.
	viaExt, err := ext.Encode(got)
	require.NoError(t, err)
	viaBase, err := base.Encode(got)
	require.NoError(t, err)
	assert.Equal(t, viaBase, viaExt)
}

func TestOpenSumOwnConstructorWins(t *testing.T) {
	reg := mustDerive(t, baseDef(), extDef())
	ext, _ := reg.Lookup("ext")

	got, err := ext.Decode(wire.NewEnum(wire.NewString("Labelled"), wire.NewString("x")))
	require.NoError(t, err)
	assert.Equal(t, value.Tagged("Labelled", "x"), got)
}

func TestOpenSumExhaustedFallbacks(t *testing.T) {
	reg := mustDerive(t, baseDef(), extDef())
	ext, _ := reg.Lookup("ext")

	_, err := ext.Decode(wire.NewString("absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no constructor or inherited type")
}

func TestRecursiveDefinitionRoundTrip(t *testing.T) {
	// intlist = Nil | Cons of int * intlist
	def := &ast.Definition{
		Name: "intlist",
		Kind: ast.DefSum,
		Constructors: []*ast.Constructor{
			{Name: "Nil"},
			{Name: "Cons", Payload: []*ast.TypeNode{prim(ast.TypeInt), named("intlist")}},
		},
	}
	reg := NewRegistry()
	d, err := reg.Derive(def)
	require.NoError(t, err)

	v := value.Tagged("Cons", int64(1), value.Tagged("Cons", int64(2), value.Tagged("Nil")))
	w, err := d.Encode(v)
	require.NoError(t, err)
	assert.Equal(t, wire.NewEnum(
		wire.NewString("Cons"),
		wire.NewInt(1),
		wire.NewEnum(wire.NewString("Cons"), wire.NewInt(2), wire.NewString("Nil")),
	), w)

	back, err := d.Decode(w)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestMutualRecursion(t *testing.T) {
	// tree = Leaf of int | Node of forest, forest = trees of tree list
	tree := &ast.Definition{
		Name: "tree",
		Kind: ast.DefSum,
		Constructors: []*ast.Constructor{
			{Name: "Leaf", Payload: []*ast.TypeNode{prim(ast.TypeInt)}},
			{Name: "Node", Payload: []*ast.TypeNode{named("forest")}},
		},
	}
	forest := &ast.Definition{
		Name: "forest",
		Kind: ast.DefRecord,
		Fields: []*ast.Field{
			{Name: "trees", Type: &ast.TypeNode{Kind: ast.TypeList, Elem: named("tree")}},
		},
	}
	reg := mustDerive(t, tree, forest)
	d, _ := reg.Lookup("tree")

	v := value.Tagged("Node", map[string]any{
		"trees": []any{value.Tagged("Leaf", int64(1)), value.Tagged("Leaf", int64(2))},
	})
	w, err := d.Encode(v)
	require.NoError(t, err)
	back, err := d.Decode(w)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestParametricRoundTrip(t *testing.T) {
	// pair = { first: 'a; second: 'a list }
	def := &ast.Definition{
		Name:   "pair",
		Kind:   ast.DefRecord,
		Params: []string{"a"},
		Fields: []*ast.Field{
			{Name: "first", Type: &ast.TypeNode{Kind: ast.TypeVar, Name: "a"}},
			{Name: "second", Type: &ast.TypeNode{
				Kind: ast.TypeList,
				Elem: &ast.TypeNode{Kind: ast.TypeVar, Name: "a"},
			}},
		},
	}
	reg := NewRegistry()
	d, err := reg.Derive(def)
	require.NoError(t, err)

	encString := func(v any) (wire.Value, error) { return wire.NewString(v.(string)), nil }
	decString := func(w wire.Value) (any, error) { return w.Str, nil }

	enc, err := d.Encoder(encString)
	require.NoError(t, err)
	dec, err := d.Decoder(decString)
	require.NoError(t, err)

	v := map[string]any{"first": "a", "second": []any{"b", "c"}}
	w, err := enc(v)
	require.NoError(t, err)
	back, err := dec(w)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestParametricArityMismatch(t *testing.T) {
	def := &ast.Definition{
		Name:   "wrapped",
		Kind:   ast.DefRecord,
		Params: []string{"a"},
		Fields: []*ast.Field{
			{Name: "inner", Type: &ast.TypeNode{Kind: ast.TypeVar, Name: "a"}},
		},
	}
	reg := NewRegistry()
	d, err := reg.Derive(def)
	require.NoError(t, err)

	_, err = d.Encoder()
	require.Error(t, err)
	var de *errors.DeriveError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.CodeArityMismatch, de.Code)
}

func TestParametricReference(t *testing.T) {
	// box = { items: 'a list }, crate = { box: box<int> }
	box := &ast.Definition{
		Name:   "box",
		Kind:   ast.DefRecord,
		Params: []string{"a"},
		Fields: []*ast.Field{
			{Name: "items", Type: &ast.TypeNode{
				Kind: ast.TypeList,
				Elem: &ast.TypeNode{Kind: ast.TypeVar, Name: "a"},
			}},
		},
	}
	crate := &ast.Definition{
		Name: "crate",
		Kind: ast.DefRecord,
		Fields: []*ast.Field{
			{Name: "box", Type: named("box", prim(ast.TypeInt))},
		},
	}
	reg := mustDerive(t, box, crate)
	d, _ := reg.Lookup("crate")

	v := map[string]any{"box": map[string]any{"items": []any{int64(1), int64(2)}}}
	w, err := d.Encode(v)
	require.NoError(t, err)
	back, err := d.Decode(w)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestAliasThroughReference(t *testing.T) {
	size := &ast.Definition{Name: "size", Kind: ast.DefAlias, Alias: prim(ast.TypeInt)}
	rec := &ast.Definition{
		Name: "file",
		Kind: ast.DefRecord,
		Fields: []*ast.Field{
			{Name: "bytes", Type: named("size")},
		},
	}
	reg := mustDerive(t, size, rec)
	d, _ := reg.Lookup("file")

	v := map[string]any{"bytes": int64(4096)}
	w, err := d.Encode(v)
	require.NoError(t, err)
	back, err := d.Decode(w)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestDeriveFailures(t *testing.T) {
	tests := []struct {
		name string
		def  *ast.Definition
		code errors.ErrorCode
	}{
		{
			name: "duplicate wire key",
			def: &ast.Definition{
				Name: "dup",
				Kind: ast.DefRecord,
				Fields: []*ast.Field{
					{Name: "a", Type: prim(ast.TypeInt)},
					{Name: "b", Type: prim(ast.TypeInt), Attrs: ast.Attributes{ast.AttrKey: "a"}},
				},
			},
			code: errors.CodeDuplicateKey,
		},
		{
			name: "case-colliding tags",
			def: &ast.Definition{
				Name: "collide",
				Kind: ast.DefSum,
				Constructors: []*ast.Constructor{
					{Name: "Foo"},
					{Name: "FOO"},
				},
			},
			code: errors.CodeDuplicateKey,
		},
		{
			name: "unbound type variable",
			def: &ast.Definition{
				Name: "free",
				Kind: ast.DefRecord,
				Fields: []*ast.Field{
					{Name: "x", Type: &ast.TypeNode{Kind: ast.TypeVar, Name: "a"}},
				},
			},
			code: errors.CodeUnboundVariable,
		},
		{
			name: "unknown reference",
			def: &ast.Definition{
				Name: "dangling",
				Kind: ast.DefRecord,
				Fields: []*ast.Field{
					{Name: "x", Type: named("ghost")},
				},
			},
			code: errors.CodeUnknownReference,
		},
		{
			name: "polymorphic alias body",
			def: &ast.Definition{
				Name:   "polyalias",
				Kind:   ast.DefAlias,
				Params: []string{"a"},
				Alias:  &ast.TypeNode{Kind: ast.TypeVar, Name: "a"},
			},
			code: errors.CodeUnsupportedShape,
		},
		{
			name: "unary tuple",
			def: &ast.Definition{
				Name:  "onetuple",
				Kind:  ast.DefAlias,
				Alias: &ast.TypeNode{Kind: ast.TypeTuple, Elems: []*ast.TypeNode{prim(ast.TypeInt)}},
			},
			code: errors.CodeUnsupportedShape,
		},
		{
			name: "unknown element kind",
			def: &ast.Definition{
				Name:  "mystery",
				Kind:  ast.DefAlias,
				Alias: &ast.TypeNode{Kind: ast.TypeKind(99)},
			},
			code: errors.CodeUnsupportedShape,
		},
		{
			name: "inherit in closed sum",
			def: &ast.Definition{
				Name: "closed",
				Kind: ast.DefSum,
				Constructors: []*ast.Constructor{
					{Name: "A"},
					{Inherit: named("base")},
				},
			},
			code: errors.CodeUnsupportedShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			_, err := reg.Derive(tt.def)
			require.Error(t, err)
			var de *errors.DeriveError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestRedefinition(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Derive(blockDef())
	require.NoError(t, err)
	_, err = reg.Derive(blockDef())
	require.Error(t, err)
	var de *errors.DeriveError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.CodeRedefined, de.Code)
}

func TestArgumentArityOnReference(t *testing.T) {
	box := &ast.Definition{
		Name:   "box",
		Kind:   ast.DefRecord,
		Params: []string{"a"},
		Fields: []*ast.Field{
			{Name: "item", Type: &ast.TypeNode{Kind: ast.TypeVar, Name: "a"}},
		},
	}
	bad := &ast.Definition{
		Name: "bad",
		Kind: ast.DefRecord,
		Fields: []*ast.Field{
			{Name: "b", Type: named("box")}, // box takes one argument
		},
	}
	reg := NewRegistry()
	_, err := reg.DeriveAll([]*ast.Definition{box, bad})
	require.Error(t, err)
	var de *errors.DeriveError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.CodeArityMismatch, de.Code)
}
