package schema

import (
	"slices"
	"strings"
)

// IntrospectionPrefix marks schema-internal metadata types.
const IntrospectionPrefix = "__"

// Kind is a GraphQL type kind as reported by introspection.
type Kind string

const (
	KindScalar      Kind = "SCALAR"
	KindObject      Kind = "OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
	KindList        Kind = "LIST"
	KindNonNull     Kind = "NON_NULL"
)

// IsWrapper reports whether k modifies an inner type reference.
func (k Kind) IsWrapper() bool { return k == KindList || k == KindNonNull }

// TypeRef is a possibly wrapped reference to a named type.
// Named references set Name; wrappers set OfType.
type TypeRef struct {
	Kind   Kind     `json:"kind"`
	Name   string   `json:"name,omitempty"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

// Named returns a reference to the named type.
func Named(name string) *TypeRef { return &TypeRef{Name: name} }

// ListOf wraps inner in a LIST modifier.
func ListOf(inner *TypeRef) *TypeRef { return &TypeRef{Kind: KindList, OfType: inner} }

// NonNullOf wraps inner in a NON_NULL modifier.
func NonNullOf(inner *TypeRef) *TypeRef { return &TypeRef{Kind: KindNonNull, OfType: inner} }

// String renders the reference in SDL notation, e.g. "[User!]!".
// Cyclic or broken references render as "?".
func (r *TypeRef) String() string {
	var b strings.Builder
	writeRef(&b, r, 0)
	return b.String()
}

func writeRef(b *strings.Builder, r *TypeRef, depth int) {
	if r == nil || depth > maxUnwrapDepth {
		b.WriteString("?")
		return
	}
	if r.Name != "" {
		b.WriteString(r.Name)
		return
	}
	switch r.Kind {
	case KindList:
		b.WriteString("[")
		writeRef(b, r.OfType, depth+1)
		b.WriteString("]")
	case KindNonNull:
		writeRef(b, r.OfType, depth+1)
		b.WriteString("!")
	default:
		writeRef(b, r.OfType, depth+1)
	}
}

// Field is a named field of an object, interface or input type.
type Field struct {
	Name string   `json:"name"`
	Type *TypeRef `json:"type"`
}

// Type describes a named GraphQL type.
// Fields keep the declaration order of the source schema.
type Type struct {
	Name        string  `json:"name"`
	Kind        Kind    `json:"kind"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// IsIntrospection reports whether the type is schema-internal metadata.
func (t *Type) IsIntrospection() bool { return IsIntrospection(t.Name) }

// Field returns the field with the given name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsIntrospection reports whether name carries the reserved double-underscore prefix.
func IsIntrospection(name string) bool { return strings.HasPrefix(name, IntrospectionPrefix) }

// TypeMap maps type names to their descriptors.
type TypeMap map[string]*Type

// Add inserts t keyed by its name, replacing any previous entry.
func (m TypeMap) Add(t *Type) { m[t.Name] = t }

// Names returns all type names in lexical order.
func (m TypeMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Visible returns the non-introspection types in lexical order.
func (m TypeMap) Visible() []*Type {
	out := make([]*Type, 0, len(m))
	for _, name := range m.Names() {
		if !IsIntrospection(name) {
			out = append(out, m[name])
		}
	}
	return out
}

// Schema bundles a type map with its root operation types.
type Schema struct {
	Types        TypeMap
	Query        string
	Mutation     string
	Subscription string
}

// DefaultRoot returns the type a layout should start from when none is
// requested: the query type, then mutation, then subscription, then the
// first visible type by name.
func (s *Schema) DefaultRoot() string {
	for _, name := range []string{s.Query, s.Mutation, s.Subscription} {
		if _, ok := s.Types[name]; ok && name != "" {
			return name
		}
	}
	if visible := s.Types.Visible(); len(visible) > 0 {
		return visible[0].Name
	}
	return ""
}

// builtinScalars are implied by every GraphQL schema even when SDL omits them.
var builtinScalars = []string{"Boolean", "Float", "ID", "Int", "String"}

func addBuiltinScalars(m TypeMap) {
	for _, name := range builtinScalars {
		if _, ok := m[name]; !ok {
			m.Add(&Type{Name: name, Kind: KindScalar})
		}
	}
}
