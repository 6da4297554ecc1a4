package hierarchy

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/schemamap/internal/schematest"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// reference is the unmemoized traversal the builder must agree with.
type reference struct {
	types    schema.TypeMap
	maxDepth int
	nodes    []Node
	depth    map[string]int
	edges    []Edge
	seen     map[Edge]bool
}

func (r *reference) visit(t *schema.Type, depth int) {
	if depth > r.maxDepth {
		return
	}
	if _, ok := r.depth[t.Name]; !ok {
		r.depth[t.Name] = depth
		r.nodes = append(r.nodes, Node{t.Name, depth})
	}
	for _, f := range t.Fields {
		target, err := r.types.Lookup(f.Type)
		if err != nil || target.IsIntrospection() {
			continue
		}
		_, known := r.depth[target.Name]
		if depth < r.maxDepth || known {
			e := Edge{Source: t.Name, Target: target.Name, Field: f.Name}
			if !r.seen[e] {
				r.seen[e] = true
				r.edges = append(r.edges, e)
			}
			r.visit(target, depth+1)
		}
	}
}

func properties(t *testing.T) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	if testing.Short() {
		parameters.MinSuccessfulTests = 20
	}
	return gopter.NewProperties(parameters)
}

func TestHierarchyProperties(t *testing.T) {
	props := properties(t)

	props.Property("root at depth zero, depths bounded, names unique", prop.ForAll(
		func(seed int64, size, maxDepth int) bool {
			types := schematest.Random(rand.New(rand.NewSource(seed)), size)
			h, err := Build(types["T0"], types, maxDepth, quiet)
			if err != nil {
				return false
			}
			if len(h.Nodes) == 0 || h.Nodes[0] != (Node{"T0", 0}) {
				return false
			}
			seen := map[string]bool{}
			for _, n := range h.Nodes {
				if seen[n.Name] || n.Depth < 0 || n.Depth > maxDepth || schema.IsIntrospection(n.Name) {
					return false
				}
				seen[n.Name] = true
			}
			return true
		},
		gen.Int64(), gen.IntRange(1, 12), gen.IntRange(0, 4),
	))

	props.Property("edges connect recorded nodes", prop.ForAll(
		func(seed int64, size, maxDepth int) bool {
			types := schematest.Random(rand.New(rand.NewSource(seed)), size)
			h, _ := Build(types["T0"], types, maxDepth, quiet)
			for _, e := range h.Edges {
				if _, ok := h.Node(e.Source); !ok {
					return false
				}
				if _, ok := h.Node(e.Target); !ok {
					return false
				}
			}
			return maxDepth > 0 || len(h.Edges) == 0
		},
		gen.Int64(), gen.IntRange(1, 12), gen.IntRange(0, 4),
	))

	props.Property("every non-root node is reached from a shallower node", prop.ForAll(
		func(seed int64, size, maxDepth int) bool {
			types := schematest.Random(rand.New(rand.NewSource(seed)), size)
			h, _ := Build(types["T0"], types, maxDepth, quiet)
			for _, n := range h.Nodes[1:] {
				reached := false
				for _, e := range h.Edges {
					src, _ := h.Node(e.Source)
					if e.Target == n.Name && src.Depth < n.Depth {
						reached = true
						break
					}
				}
				if !reached {
					return false
				}
			}
			return true
		},
		gen.Int64(), gen.IntRange(1, 12), gen.IntRange(1, 4),
	))

	props.Property("agrees with unmemoized traversal", prop.ForAll(
		func(seed int64, size, maxDepth int) bool {
			types := schematest.Random(rand.New(rand.NewSource(seed)), size)
			h, _ := Build(types["T0"], types, maxDepth, quiet)

			ref := &reference{types: types, maxDepth: maxDepth, depth: map[string]int{}, seen: map[Edge]bool{}}
			ref.visit(types["T0"], 0)
			return reflect.DeepEqual(h.Nodes, ref.nodes) && reflect.DeepEqual(h.Edges, ref.edges)
		},
		gen.Int64(), gen.IntRange(1, 8), gen.IntRange(1, 3),
	))

	props.Property("deterministic", prop.ForAll(
		func(seed int64, size, maxDepth int) bool {
			types := schematest.Random(rand.New(rand.NewSource(seed)), size)
			a, _ := Build(types["T0"], types, maxDepth, quiet)
			b, _ := Build(types["T0"], types, maxDepth, quiet)
			return reflect.DeepEqual(a.Nodes, b.Nodes) && reflect.DeepEqual(a.Edges, b.Edges)
		},
		gen.Int64(), gen.IntRange(1, 12), gen.IntRange(0, 4),
	))

	props.TestingRun(t)
}
