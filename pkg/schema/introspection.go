package schema

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/schemamap/pkg/errors"
)

// introspectionResponse accepts both a full GraphQL response and a bare
// {"__schema": ...} document.
type introspectionResponse struct {
	Data   *introspectionData `json:"data"`
	Schema *introspectionRoot `json:"__schema"`
}

type introspectionData struct {
	Schema *introspectionRoot `json:"__schema"`
}

type introspectionRoot struct {
	QueryType        *introspectionName  `json:"queryType"`
	MutationType     *introspectionName  `json:"mutationType"`
	SubscriptionType *introspectionName  `json:"subscriptionType"`
	Types            []introspectionType `json:"types"`
}

type introspectionName struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind        Kind                 `json:"kind"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Fields      []introspectionField `json:"fields"`
	InputFields []introspectionField `json:"inputFields"`
}

type introspectionField struct {
	Name string            `json:"name"`
	Type *introspectionRef `json:"type"`
}

type introspectionRef struct {
	Kind   Kind              `json:"kind"`
	Name   *string           `json:"name"`
	OfType *introspectionRef `json:"ofType"`
}

func (r *introspectionRef) toTypeRef() *TypeRef {
	if r == nil {
		return nil
	}
	ref := &TypeRef{Kind: r.Kind, OfType: r.OfType.toTypeRef()}
	if r.Name != nil {
		ref.Name = *r.Name
	}
	return ref
}

// ParseIntrospection decodes an introspection query result.
func ParseIntrospection(r io.Reader) (*Schema, error) {
	var resp introspectionResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decode introspection JSON")
	}

	root := resp.Schema
	if root == nil && resp.Data != nil {
		root = resp.Data.Schema
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "introspection JSON has no __schema object")
	}

	s := &Schema{Types: make(TypeMap, len(root.Types))}
	for _, it := range root.Types {
		if it.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "introspection type without a name")
		}
		t := &Type{Name: it.Name, Kind: it.Kind}
		if it.Description != nil {
			t.Description = *it.Description
		}
		fields := it.Fields
		if it.Kind == KindInputObject {
			fields = it.InputFields
		}
		for _, f := range fields {
			t.Fields = append(t.Fields, Field{Name: f.Name, Type: f.Type.toTypeRef()})
		}
		s.Types.Add(t)
	}
	if root.QueryType != nil {
		s.Query = root.QueryType.Name
	}
	if root.MutationType != nil {
		s.Mutation = root.MutationType.Name
	}
	if root.SubscriptionType != nil {
		s.Subscription = root.SubscriptionType.Name
	}
	return s, nil
}

// ParseIntrospectionBytes is a convenience wrapper around [ParseIntrospection].
func ParseIntrospectionBytes(data []byte) (*Schema, error) {
	return ParseIntrospection(bytes.NewReader(data))
}
