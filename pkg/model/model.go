package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/hierarchy"
	"github.com/matzehuels/schemamap/pkg/radial"
)

// keyLength is the number of hex characters kept from the SHA-256 digest.
const keyLength = 16

// Node is a renderable type.
type Node struct {
	Index int     `json:"index"`
	ID    string  `json:"id"`
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Depth int     `json:"depth"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Root  bool    `json:"root,omitempty"`
}

// Edge is a renderable field. Source and Target index into Model.Nodes.
type Edge struct {
	Index      int    `json:"index"`
	ID         string `json:"id"`
	Key        string `json:"key"`
	Source     int    `json:"source"`
	Target     int    `json:"target"`
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
	Label      string `json:"label"`
}

// Model is a laid-out type graph.
type Model struct {
	Root     string          `json:"root"`
	Geometry radial.Geometry `json:"geometry"`
	Rings    []radial.Ring   `json:"rings,omitempty"`
	Nodes    []Node          `json:"nodes"`
	Edges    []Edge          `json:"edges"`

	index map[string]int
}

// EdgeID returns the identity of the edge for field on source.
func EdgeID(source, field, target string) string {
	return fmt.Sprintf("%s.%s->%s", source, field, target)
}

// Format indexes positioned nodes and rewrites edges to node indices.
// An edge naming a node absent from nodes is an
// [errors.ErrCodeDanglingEdgeReference] error.
func Format(root string, nodes []radial.Positioned, edges []hierarchy.Edge) (*Model, error) {
	m := &Model{
		Root:  root,
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
		index: make(map[string]int, len(nodes)),
	}
	for _, p := range nodes {
		if _, dup := m.index[p.Name]; dup {
			return nil, errors.New(errors.ErrCodeInternal, "node %q appears twice", p.Name)
		}
		i := len(m.Nodes)
		m.index[p.Name] = i
		m.Nodes = append(m.Nodes, Node{
			Index: i,
			ID:    p.Name,
			Key:   nodeKey(p.Name, p.Depth, p.X, p.Y),
			Name:  p.Name,
			Depth: p.Depth,
			X:     p.X,
			Y:     p.Y,
			Root:  p.Name == root,
		})
	}
	for _, e := range edges {
		src, ok := m.index[e.Source]
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingEdgeReference, "edge %s: unknown source %q", e.Field, e.Source)
		}
		dst, ok := m.index[e.Target]
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingEdgeReference, "edge %s: unknown target %q", e.Field, e.Target)
		}
		id := EdgeID(e.Source, e.Field, e.Target)
		m.Edges = append(m.Edges, Edge{
			Index:      len(m.Edges),
			ID:         id,
			Key:        digest(id, m.Nodes[src].Key, m.Nodes[dst].Key),
			Source:     src,
			Target:     dst,
			SourceName: e.Source,
			TargetName: e.Target,
			Label:      e.Field,
		})
	}
	return m, nil
}

func nodeKey(name string, depth int, x, y float64) string {
	return digest(name, fmt.Sprint(depth), fmt.Sprintf("%.3f", x), fmt.Sprintf("%.3f", y))
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:keyLength]
}

// Node returns the node named name.
func (m *Model) Node(name string) (Node, bool) {
	if m.index == nil {
		m.reindex()
	}
	i, ok := m.index[name]
	if !ok {
		return Node{}, false
	}
	return m.Nodes[i], true
}

// Neighbors returns the edges that start or end at name.
func (m *Model) Neighbors(name string) []Edge {
	var out []Edge
	for _, e := range m.Edges {
		if e.SourceName == name || e.TargetName == name {
			out = append(out, e)
		}
	}
	return out
}

// Connected reports whether e touches the node named name.
func (e Edge) Connected(name string) bool {
	return e.SourceName == name || e.TargetName == name
}

func (m *Model) reindex() {
	m.index = make(map[string]int, len(m.Nodes))
	for i, n := range m.Nodes {
		m.index[n.Name] = i
	}
}

// validate checks index consistency after decoding.
func (m *Model) validate() error {
	m.reindex()
	for i, n := range m.Nodes {
		if n.Index != i {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has index %d at position %d", n.Name, n.Index, i)
		}
	}
	for _, e := range m.Edges {
		if e.Source < 0 || e.Source >= len(m.Nodes) || e.Target < 0 || e.Target >= len(m.Nodes) {
			return errors.New(errors.ErrCodeDanglingEdgeReference, "edge %s points outside %d nodes", e.ID, len(m.Nodes))
		}
		if m.Nodes[e.Source].Name != e.SourceName || m.Nodes[e.Target].Name != e.TargetName {
			return errors.New(errors.ErrCodeDanglingEdgeReference, "edge %s endpoints do not match its indices", e.ID)
		}
	}
	return nil
}
