package hierarchy

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// DefaultMaxDepth is the traversal depth bound used when callers do not
// choose one.
const DefaultMaxDepth = 2

// Node is a type placed in the hierarchy at its first-discovery depth.
type Node struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

// Edge is a field connecting two nodes. Several edges may share a
// source/target pair when several fields reference the same type.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Field  string `json:"field"`
}

// Skip records a field left out of the hierarchy because its type could not
// be resolved.
type Skip struct {
	Type  string
	Field string
	Err   error
}

// Hierarchy is the result of a traversal.
type Hierarchy struct {
	Root     string
	MaxDepth int
	Nodes    []Node
	Edges    []Edge
	Skipped  []Skip

	index map[string]int
}

// Node returns the node with the given name.
func (h *Hierarchy) Node(name string) (Node, bool) {
	i, ok := h.index[name]
	if !ok {
		return Node{}, false
	}
	return h.Nodes[i], true
}

// ByDepth groups nodes by depth, keeping discovery order within a depth.
func (h *Hierarchy) ByDepth() map[int][]Node {
	out := make(map[int][]Node)
	for _, n := range h.Nodes {
		out[n.Depth] = append(out[n.Depth], n)
	}
	return out
}

// Depth returns the largest depth of any node.
func (h *Hierarchy) Depth() int {
	d := 0
	for _, n := range h.Nodes {
		d = max(d, n.Depth)
	}
	return d
}

// Option configures a traversal.
type Option func(*builder)

// WithLogger sets the logger used to report skipped fields.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithSkipHandler registers fn to be called once per skipped field.
func WithSkipHandler(fn func(Skip)) Option {
	return func(b *builder) { b.onSkip = fn }
}

type visitKey struct {
	name  string
	depth int
}

type fieldKey struct {
	typ, field string
}

// builder holds the traversal state for a single pass.
type builder struct {
	types    schema.TypeMap
	maxDepth int
	logger   *log.Logger
	onSkip   func(Skip)

	h       *Hierarchy
	visits  map[visitKey]int
	edges   map[Edge]struct{}
	skipped map[fieldKey]struct{}
}

func newBuilder(types schema.TypeMap, maxDepth int, opts []Option) *builder {
	b := &builder{
		types:    types,
		maxDepth: maxDepth,
		logger:   log.Default(),
		h:        &Hierarchy{MaxDepth: maxDepth, index: make(map[string]int)},
		visits:   make(map[visitKey]int),
		edges:    make(map[Edge]struct{}),
		skipped:  make(map[fieldKey]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build traverses types from root up to maxDepth rings.
//
// It returns [errors.ErrCodeInvalidConfiguration] for a negative maxDepth or
// an introspection root, and [errors.ErrCodeInvalidInput] for a nil root.
func Build(root *schema.Type, types schema.TypeMap, maxDepth int, opts ...Option) (*Hierarchy, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root type is nil")
	}
	if maxDepth < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "max depth must be >= 0, got %d", maxDepth)
	}
	if root.IsIntrospection() {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "introspection type %q cannot be a root", root.Name)
	}

	b := newBuilder(types, maxDepth, opts)
	b.h.Root = root.Name
	if maxDepth == 0 {
		b.record(root.Name, 0)
		return b.h, nil
	}
	b.visit(root, 0)

	b.logger.Debug("built hierarchy",
		"root", root.Name,
		"max_depth", maxDepth,
		"nodes", len(b.h.Nodes),
		"edges", len(b.h.Edges),
		"skipped", len(b.h.Skipped))
	return b.h, nil
}

// visit records t and follows its fields.
//
// A type reached again at the same depth re-traverses the same set of types,
// so it can only contribute new outer-ring edges, and only after some other
// type was recorded. visits remembers the node count of the last revisit and
// skips repeats while it is unchanged.
func (b *builder) visit(t *schema.Type, depth int) {
	if depth > b.maxDepth {
		return
	}
	key := visitKey{t.Name, depth}
	count := len(b.h.Nodes)
	if last, seen := b.visits[key]; seen {
		if last == count {
			return
		}
		b.visits[key] = count
	} else {
		b.visits[key] = -1
	}

	b.record(t.Name, depth)

	for _, f := range t.Fields {
		target, err := b.types.Lookup(f.Type)
		if err != nil {
			b.skip(t.Name, f.Name, err)
			continue
		}
		if target.IsIntrospection() {
			continue
		}
		if depth < b.maxDepth || b.recorded(target.Name) {
			b.addEdge(Edge{Source: t.Name, Target: target.Name, Field: f.Name})
			b.visit(target, depth+1)
		}
	}
}

func (b *builder) record(name string, depth int) {
	if b.recorded(name) {
		return
	}
	b.h.index[name] = len(b.h.Nodes)
	b.h.Nodes = append(b.h.Nodes, Node{Name: name, Depth: depth})
}

func (b *builder) recorded(name string) bool {
	_, ok := b.h.index[name]
	return ok
}

func (b *builder) addEdge(e Edge) {
	if _, dup := b.edges[e]; dup {
		return
	}
	b.edges[e] = struct{}{}
	b.h.Edges = append(b.h.Edges, e)
}

func (b *builder) skip(typ, field string, err error) {
	k := fieldKey{typ, field}
	if _, dup := b.skipped[k]; dup {
		return
	}
	b.skipped[k] = struct{}{}

	s := Skip{Type: typ, Field: field, Err: err}
	b.h.Skipped = append(b.h.Skipped, s)
	b.logger.Warn("skipping field", "type", typ, "field", field, "code", errors.GetCode(err), "err", errors.UserMessage(err))
	if b.onSkip != nil {
		b.onSkip(s)
	}
}
