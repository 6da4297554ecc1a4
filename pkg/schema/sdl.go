package schema

import (
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/matzehuels/schemamap/pkg/errors"
)

// ParseSDL parses schema definition language into a Schema.
//
// Object, interface and input types contribute fields; scalars, enums and
// unions become field-less types. Type extensions append to the extended
// type. Built-in scalars are added when the document does not declare them.
// Without an explicit schema block the conventional Query, Mutation and
// Subscription names are used as roots.
func ParseSDL(source string) (*Schema, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: source})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "parse SDL")
	}

	s := &Schema{Types: make(TypeMap)}
	var extensions []*ast.ObjectDefinition
	explicitRoots := false

	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.ObjectDefinition:
			s.Types.Add(&Type{Name: d.Name.Value, Kind: KindObject, Fields: sdlFields(d.Fields)})
		case *ast.InterfaceDefinition:
			s.Types.Add(&Type{Name: d.Name.Value, Kind: KindInterface, Fields: sdlFields(d.Fields)})
		case *ast.InputObjectDefinition:
			s.Types.Add(&Type{Name: d.Name.Value, Kind: KindInputObject, Fields: sdlInputFields(d.Fields)})
		case *ast.ScalarDefinition:
			s.Types.Add(&Type{Name: d.Name.Value, Kind: KindScalar})
		case *ast.EnumDefinition:
			s.Types.Add(&Type{Name: d.Name.Value, Kind: KindEnum})
		case *ast.UnionDefinition:
			s.Types.Add(&Type{Name: d.Name.Value, Kind: KindUnion})
		case *ast.TypeExtensionDefinition:
			if d.Definition != nil {
				extensions = append(extensions, d.Definition)
			}
		case *ast.SchemaDefinition:
			explicitRoots = true
			for _, op := range d.OperationTypes {
				switch op.Operation {
				case ast.OperationTypeQuery:
					s.Query = op.Type.Name.Value
				case ast.OperationTypeMutation:
					s.Mutation = op.Type.Name.Value
				case ast.OperationTypeSubscription:
					s.Subscription = op.Type.Name.Value
				}
			}
		}
	}

	for _, ext := range extensions {
		t, ok := s.Types[ext.Name.Value]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "cannot extend undefined type %q", ext.Name.Value)
		}
		t.Fields = append(t.Fields, sdlFields(ext.Fields)...)
	}

	if !explicitRoots {
		for _, root := range []struct {
			name string
			dst  *string
		}{{"Query", &s.Query}, {"Mutation", &s.Mutation}, {"Subscription", &s.Subscription}} {
			if _, ok := s.Types[root.name]; ok {
				*root.dst = root.name
			}
		}
	}

	addBuiltinScalars(s.Types)
	return s, nil
}

func sdlFields(defs []*ast.FieldDefinition) []Field {
	fields := make([]Field, 0, len(defs))
	for _, f := range defs {
		fields = append(fields, Field{Name: f.Name.Value, Type: sdlRef(f.Type)})
	}
	return fields
}

func sdlInputFields(defs []*ast.InputValueDefinition) []Field {
	fields := make([]Field, 0, len(defs))
	for _, f := range defs {
		fields = append(fields, Field{Name: f.Name.Value, Type: sdlRef(f.Type)})
	}
	return fields
}

func sdlRef(t ast.Type) *TypeRef {
	switch v := t.(type) {
	case *ast.Named:
		return Named(v.Name.Value)
	case *ast.List:
		return ListOf(sdlRef(v.Type))
	case *ast.NonNull:
		return NonNullOf(sdlRef(v.Type))
	}
	return nil
}
