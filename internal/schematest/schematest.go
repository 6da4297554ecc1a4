// Package schematest builds type maps for tests.
package schematest

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/matzehuels/schemamap/pkg/schema"
)

// Ref parses a type reference in SDL notation such as "[User!]!".
func Ref(s string) *schema.TypeRef {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "!"):
		return schema.NonNullOf(Ref(strings.TrimSuffix(s, "!")))
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		return schema.ListOf(Ref(s[1 : len(s)-1]))
	default:
		return schema.Named(s)
	}
}

// Object returns an object type. Each field is written "name:Type".
func Object(name string, fields ...string) *schema.Type {
	t := &schema.Type{Name: name, Kind: schema.KindObject}
	for _, f := range fields {
		fname, ref, ok := strings.Cut(f, ":")
		if !ok {
			panic(fmt.Sprintf("schematest: bad field %q", f))
		}
		t.Fields = append(t.Fields, schema.Field{Name: fname, Type: Ref(ref)})
	}
	return t
}

// Scalar returns a scalar type.
func Scalar(name string) *schema.Type {
	return &schema.Type{Name: name, Kind: schema.KindScalar}
}

// Map collects types into a TypeMap.
func Map(types ...*schema.Type) schema.TypeMap {
	m := make(schema.TypeMap, len(types))
	for _, t := range types {
		m.Add(t)
	}
	return m
}

// Random returns a type map of n object types named T0..Tn-1 plus String
// and __Type. Fields point at random objects, scalars, introspection types,
// missing names or malformed references.
func Random(r *rand.Rand, n int) schema.TypeMap {
	m := Map(Scalar("String"), Object("__Type", "name:String", "ofType:__Type"))
	for i := 0; i < n; i++ {
		t := &schema.Type{Name: fmt.Sprintf("T%d", i), Kind: schema.KindObject}
		for j := r.Intn(5); j > 0; j-- {
			t.Fields = append(t.Fields, schema.Field{
				Name: fmt.Sprintf("f%d", len(t.Fields)),
				Type: randomRef(r, n),
			})
		}
		m.Add(t)
	}
	return m
}

func randomRef(r *rand.Rand, n int) *schema.TypeRef {
	var ref *schema.TypeRef
	switch p := r.Intn(100); {
	case p < 5:
		return &schema.TypeRef{Kind: schema.KindList}
	case p < 10:
		ref = schema.Named("Missing")
	case p < 20:
		ref = schema.Named("__Type")
	case p < 35:
		ref = schema.Named("String")
	default:
		ref = schema.Named(fmt.Sprintf("T%d", r.Intn(n)))
	}
	if r.Intn(3) == 0 {
		ref = schema.ListOf(ref)
	}
	if r.Intn(3) == 0 {
		ref = schema.NonNullOf(ref)
	}
	return ref
}
