package schema

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/matzehuels/schemamap/pkg/errors"
)

func fieldNames(t *Type) []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

func TestParseSDL(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "blog.graphql"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := ParseSDL(string(data))
	if err != nil {
		t.Fatalf("ParseSDL() error = %v", err)
	}

	if s.Query != "Query" {
		t.Errorf("Query = %q, want Query", s.Query)
	}
	if s.Mutation != "" {
		t.Errorf("Mutation = %q, want empty", s.Mutation)
	}

	user := s.Types["User"]
	if user == nil {
		t.Fatal("User type missing")
	}
	if got, want := fieldNames(user), []string{"name", "friend", "posts", "role"}; !slices.Equal(got, want) {
		t.Errorf("User fields = %v, want %v", got, want)
	}
	if user.Kind != KindObject {
		t.Errorf("User kind = %v, want %v", user.Kind, KindObject)
	}

	posts, _ := s.Types["Query"].Field("posts")
	if got := posts.Type.String(); got != "[Post!]!" {
		t.Errorf("Query.posts type = %q, want [Post!]!", got)
	}

	for _, name := range []string{"String", "ID", "Int", "Float", "Boolean"} {
		if s.Types[name] == nil || s.Types[name].Kind != KindScalar {
			t.Errorf("builtin scalar %s missing", name)
		}
	}
	if s.Types["PostFilter"].Kind != KindInputObject || len(s.Types["PostFilter"].Fields) != 2 {
		t.Errorf("PostFilter = %+v", s.Types["PostFilter"])
	}
	if s.Types["Role"].Kind != KindEnum {
		t.Errorf("Role kind = %v", s.Types["Role"].Kind)
	}
}

func TestParseSDL_SchemaBlock(t *testing.T) {
	s, err := ParseSDL(`
schema { query: Root mutation: Writes }
type Root { ok: Boolean }
type Writes { ok: Boolean }
type Query { ignored: Boolean }
`)
	if err != nil {
		t.Fatalf("ParseSDL() error = %v", err)
	}
	if s.Query != "Root" || s.Mutation != "Writes" {
		t.Errorf("roots = %q/%q, want Root/Writes", s.Query, s.Mutation)
	}
	if got := s.DefaultRoot(); got != "Root" {
		t.Errorf("DefaultRoot() = %q, want Root", got)
	}
}

func TestParseSDL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "type User {"},
		{"extend undefined", "extend type Ghost { a: String }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSDL(tt.src)
			if !errors.Is(err, errors.ErrCodeInvalidSchema) {
				t.Errorf("ParseSDL() error = %v, want %s", err, errors.ErrCodeInvalidSchema)
			}
		})
	}
}

func TestParseIntrospection(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "blog.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s, err := ParseIntrospection(f)
	if err != nil {
		t.Fatalf("ParseIntrospection() error = %v", err)
	}
	if s.Query != "Query" {
		t.Errorf("Query = %q, want Query", s.Query)
	}
	if got := s.Types["User"].Description; got != "A registered user" {
		t.Errorf("User description = %q", got)
	}
	posts, _ := s.Types["Query"].Field("posts")
	if got := posts.Type.String(); got != "[Post!]!" {
		t.Errorf("Query.posts type = %q, want [Post!]!", got)
	}
	if got := fieldNames(s.Types["PostFilter"]); !slices.Equal(got, []string{"author"}) {
		t.Errorf("PostFilter fields = %v, want [author]", got)
	}
	if s.Types["__Schema"] == nil {
		t.Error("introspection types should stay in the type map")
	}
	for _, v := range s.Types.Visible() {
		if strings.HasPrefix(v.Name, "__") {
			t.Errorf("Visible() returned %s", v.Name)
		}
	}
}

func TestParseIntrospection_Bare(t *testing.T) {
	s, err := ParseIntrospectionBytes([]byte(`{"__schema": {"queryType": {"name": "Q"}, "types": [{"kind": "OBJECT", "name": "Q", "fields": []}]}}`))
	if err != nil {
		t.Fatalf("ParseIntrospectionBytes() error = %v", err)
	}
	if s.Query != "Q" || s.Types["Q"] == nil {
		t.Errorf("schema = %+v", s)
	}
}

func TestParseIntrospection_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{`},
		{"no schema", `{"data": {}}`},
		{"unnamed type", `{"__schema": {"types": [{"kind": "OBJECT"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIntrospectionBytes([]byte(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidSchema) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidSchema)
			}
		})
	}
}

func TestFromGraphQL(t *testing.T) {
	user := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"name": &graphql.Field{Type: graphql.String},
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(user))},
		},
	})
	gs, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	s := FromGraphQL(gs)
	if s.Query != "Query" {
		t.Errorf("Query = %q, want Query", s.Query)
	}
	if got := fieldNames(s.Types["User"]); !slices.Equal(got, []string{"id", "name"}) {
		t.Errorf("User fields = %v, want sorted [id name]", got)
	}
	users, _ := s.Types["Query"].Field("users")
	if got := users.Type.String(); got != "[User!]" {
		t.Errorf("Query.users type = %q, want [User!]", got)
	}
	if s.Types["__Schema"] == nil {
		t.Error("graphql-go introspection types should be present")
	}
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"blog.graphql", "blog.json"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if s.DefaultRoot() != "Query" {
				t.Errorf("DefaultRoot() = %q, want Query", s.DefaultRoot())
			}
		})
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load(.yaml) error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestDefaultRoot_Fallback(t *testing.T) {
	s := &Schema{Types: TypeMap{}}
	if got := s.DefaultRoot(); got != "" {
		t.Errorf("DefaultRoot() on empty = %q", got)
	}
	s.Types.Add(&Type{Name: "__Type"})
	s.Types.Add(&Type{Name: "Zeta"})
	s.Types.Add(&Type{Name: "Alpha"})
	if got := s.DefaultRoot(); got != "Alpha" {
		t.Errorf("DefaultRoot() = %q, want Alpha", got)
	}
}
