package ast

// Attribute names recognized on fields, constructors, and definitions.
// Anything else is carried but never consulted.
const (
	// AttrKey overrides the wire key of a record field, for field names
	// that cannot legally appear on the wire (reserved words and the like).
	AttrKey = "key"
	// AttrTag overrides the wire tag of a sum constructor. Independent
	// rename axis from field keys.
	AttrTag = "name"
	// AttrDoc is a documentation string.
	AttrDoc = "doc"
	// AttrVersion marks the minimum version a field appears in.
	AttrVersion = "version"
)

// Attributes is a per-declaration annotation set. Lookup is pure: absent or
// unknown attributes never error, they default.
type Attributes map[string]string

// Lookup returns the declared value for name, or def when absent.
func (a Attributes) Lookup(name, def string) string {
	if v, ok := a[name]; ok {
		return v
	}
	return def
}

// WireKey resolves the field's wire key: the key override if declared,
// otherwise the field name itself.
func (f *Field) WireKey() string {
	return f.Attrs.Lookup(AttrKey, f.Name)
}

// Doc resolves the field's documentation string, empty when absent.
func (f *Field) Doc() string {
	return f.Attrs.Lookup(AttrDoc, "")
}

// Version resolves the field's minimum-version marker, empty when absent.
func (f *Field) Version() string {
	return f.Attrs.Lookup(AttrVersion, "")
}

// WireTag resolves the constructor's wire tag: the tag override if declared,
// otherwise the constructor name itself.
func (c *Constructor) WireTag() string {
	return c.Attrs.Lookup(AttrTag, c.Name)
}

// Doc resolves the constructor's documentation string, empty when absent.
func (c *Constructor) Doc() string {
	return c.Attrs.Lookup(AttrDoc, "")
}
