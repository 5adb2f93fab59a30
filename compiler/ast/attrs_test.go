package ast

import "testing"

func TestAttributesLookup(t *testing.T) {
	tests := []struct {
		name     string
		attrs    Attributes
		attr     string
		def      string
		expected string
	}{
		{"declared value", Attributes{AttrKey: "type"}, AttrKey, "typ", "type"},
		{"absent attribute defaults", Attributes{}, AttrKey, "typ", "typ"},
		{"nil set defaults", nil, AttrDoc, "", ""},
		{"unknown attribute defaults", Attributes{"color": "red"}, AttrTag, "Foo", "Foo"},
		{"empty declared value wins over default", Attributes{AttrDoc: ""}, AttrDoc, "fallback", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.attrs.Lookup(tt.attr, tt.def)
			if result != tt.expected {
				t.Errorf("Lookup(%s) = %q, want %q", tt.attr, result, tt.expected)
			}
		})
	}
}

func TestFieldWireKey(t *testing.T) {
	f := &Field{Name: "typ", Attrs: Attributes{AttrKey: "type"}}
	if got := f.WireKey(); got != "type" {
		t.Errorf("WireKey() = %q, want %q", got, "type")
	}
	f = &Field{Name: "blocksize"}
	if got := f.WireKey(); got != "blocksize" {
		t.Errorf("WireKey() = %q, want %q", got, "blocksize")
	}
}

func TestConstructorWireTag(t *testing.T) {
	c := &Constructor{Name: "ReadWrite", Attrs: Attributes{AttrTag: "rw"}}
	if got := c.WireTag(); got != "rw" {
		t.Errorf("WireTag() = %q, want %q", got, "rw")
	}
	c = &Constructor{Name: "Queued"}
	if got := c.WireTag(); got != "Queued" {
		t.Errorf("WireTag() = %q, want %q", got, "Queued")
	}
}

func TestPrimitive(t *testing.T) {
	tests := []struct {
		kind     TypeKind
		expected bool
	}{
		{TypeUnit, true},
		{TypeChar, true},
		{TypeInt64, true},
		{TypeList, false},
		{TypeNamed, false},
		{TypeVar, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			n := &TypeNode{Kind: tt.kind}
			if got := n.Primitive(); got != tt.expected {
				t.Errorf("Primitive() = %v, want %v", got, tt.expected)
			}
		})
	}
}
