// Package schema is the read-only GraphQL type model consumed by the layout
// engine.
//
// # Overview
//
// A [TypeMap] maps type names to [Type] descriptors. Each type carries an
// ordered list of [Field] values whose [TypeRef] may be wrapped in LIST and
// NON_NULL modifiers. [ResolveName] unwraps such references to the named type
// they point at.
//
// The model is deliberately smaller than a full GraphQL schema: arguments,
// directives and enum values are irrelevant to laying out the type graph and
// are dropped by the loaders.
//
// # Loading
//
// Four sources are supported:
//
//   - [ParseIntrospection]: the JSON result of an introspection query, either
//     the full response ({"data": {"__schema": ...}}) or the bare __schema object
//   - [ParseSDL]: schema definition language, parsed with graphql-go's parser
//   - [FromGraphQL]: a live graphql-go [graphql.Schema]
//   - [Fetch]: a running GraphQL endpoint, queried with [IntrospectionQuery]
//
// [Load] picks a loader from the file extension.
//
// # Introspection Types
//
// Names starting with a double underscore (__Schema, __Type, ...) are
// introspection metadata. They stay in the TypeMap so that references to them
// resolve, but [IsIntrospection] lets the layout exclude them and
// [TypeMap.Visible] filters them out for listings and flat graphs.
//
// [graphql.Schema]: https://pkg.go.dev/github.com/graphql-go/graphql#Schema
package schema
