// Package hierarchy computes the bounded-depth type graph around a root type.
//
// # Traversal
//
// [Build] walks the type map depth-first from the root at depth 0. A type is
// recorded with the depth at which it is first encountered in traversal
// order; later encounters never revise it, even through a shorter path. On
// diamond-shaped schemas a type can therefore land one ring further out than
// its true shortest distance:
//
//	Query { a: A, b: B }   A { b: B }
//
// With maxDepth 2, B is first reached through Query.a.b and is recorded at
// depth 2 although Query.b is a direct edge.
//
// An edge from the current type to a field's target is emitted when the
// current depth is below maxDepth, or when the target is already recorded.
// Types at the outer ring therefore still show connections to known types but
// never sprout new ones. Each (source, field, target) triple is emitted once.
//
// Fields whose type reference cannot be resolved, or resolves to a name the
// type map does not define, are logged and skipped; the remaining fields of
// the type are still processed. Introspection types are never part of the
// result.
//
// # Flat Graphs
//
// [Flat] returns every visible type and every resolvable field edge without a
// depth bound, for renderers that compute their own positions.
package hierarchy
