// Package pkg provides the core libraries for schemamap, which draws GraphQL
// schemas as radial type graphs.
//
// # Overview
//
// A root type sits at the center of the canvas. Every type reachable from it
// is placed on the ring of its distance from the root, and every field that
// references another type becomes an edge. Re-rooting moves another type to
// the center and diffs the two views so a renderer can animate the change.
//
// # Architecture
//
//	SDL / introspection JSON / live endpoint
//	         ↓
//	    [schema] package (load, resolve wrapped type references)
//	         ↓
//	    [hierarchy] package (depth-limited traversal from the root)
//	         ↓
//	    [radial] package (ring radii and polar placement)
//	         ↓
//	    [model] package (keyed nodes and edges, view diffs)
//	         ↓
//	    SVG/DOT/PDF/PNG/JSON/Cytoscape output
//
// [pipeline] runs these stages with caching and is shared by the CLI and the
// HTTP server. [view] keeps the current model for one interactive client and
// handles re-rooting, history and hover highlighting.
//
// # Quick Start
//
//	s, _ := schema.Load("schema.graphql")
//	opts := pipeline.DefaultOptions()
//	opts.Root = s.DefaultRoot()
//	m, _, _ := pipeline.Compute(s.Types, opts)
//	svg := radial.RenderSVG(m)
//
// # Supporting Packages
//
// [cache] stores layouts and rendered artifacts in files, Redis or MongoDB.
// [session] holds view controllers for the HTTP API. [observability] exposes
// hooks for logging and metrics. [httputil] fetches schemas from endpoints.
// [errors] defines the coded errors every package returns.
//
// [schema]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/schema
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/hierarchy
// [radial]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/radial
// [model]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/model
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/pipeline
// [view]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/view
// [cache]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/errors
package pkg
