package schema

import (
	"slices"

	"github.com/graphql-go/graphql"
)

// FromGraphQL adapts a live graphql-go schema.
//
// graphql-go keeps fields in maps, so fields are ordered by name to keep
// layouts deterministic. The returned TypeMap includes the introspection
// types graphql-go registers automatically.
func FromGraphQL(gs graphql.Schema) *Schema {
	s := &Schema{Types: make(TypeMap)}
	for name, gt := range gs.TypeMap() {
		t := &Type{Name: name, Description: gt.Description()}
		switch v := gt.(type) {
		case *graphql.Object:
			t.Kind = KindObject
			t.Fields = definitionFields(v.Fields())
		case *graphql.Interface:
			t.Kind = KindInterface
			t.Fields = definitionFields(v.Fields())
		case *graphql.InputObject:
			t.Kind = KindInputObject
			t.Fields = inputFields(v.Fields())
		case *graphql.Union:
			t.Kind = KindUnion
		case *graphql.Enum:
			t.Kind = KindEnum
		default:
			t.Kind = KindScalar
		}
		s.Types.Add(t)
	}
	if q := gs.QueryType(); q != nil {
		s.Query = q.Name()
	}
	if m := gs.MutationType(); m != nil {
		s.Mutation = m.Name()
	}
	if sub := gs.SubscriptionType(); sub != nil {
		s.Subscription = sub.Name()
	}
	return s
}

func definitionFields(m graphql.FieldDefinitionMap) []Field {
	fields := make([]Field, 0, len(m))
	for _, name := range sortedKeys(m) {
		fields = append(fields, Field{Name: name, Type: graphqlRef(m[name].Type)})
	}
	return fields
}

func inputFields(m graphql.InputObjectFieldMap) []Field {
	fields := make([]Field, 0, len(m))
	for _, name := range sortedKeys(m) {
		fields = append(fields, Field{Name: name, Type: graphqlRef(m[name].Type)})
	}
	return fields
}

func graphqlRef(t graphql.Type) *TypeRef {
	switch v := t.(type) {
	case nil:
		return nil
	case *graphql.List:
		return ListOf(graphqlRef(v.OfType))
	case *graphql.NonNull:
		return NonNullOf(graphqlRef(v.OfType))
	default:
		return Named(t.Name())
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
