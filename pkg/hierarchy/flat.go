package hierarchy

import (
	"github.com/matzehuels/schemamap/pkg/schema"
)

// Flat returns the whole visible type graph: every non-introspection type as
// a depth-0 node in lexical order, and one edge per resolvable field.
func Flat(types schema.TypeMap, opts ...Option) *Hierarchy {
	b := newBuilder(types, 0, opts)
	visible := types.Visible()
	for _, t := range visible {
		b.record(t.Name, 0)
	}
	for _, t := range visible {
		for _, f := range t.Fields {
			target, err := types.Lookup(f.Type)
			if err != nil {
				b.skip(t.Name, f.Name, err)
				continue
			}
			if target.IsIntrospection() {
				continue
			}
			b.addEdge(Edge{Source: t.Name, Target: target.Name, Field: f.Name})
		}
	}
	b.logger.Debug("built flat graph", "nodes", len(b.h.Nodes), "edges", len(b.h.Edges))
	return b.h
}
