package model

import (
	"encoding/json"
	"fmt"
)

// CytoscapeElements is the Cytoscape.js elements format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode is a node element with a preset position.
type CytoscapeNode struct {
	Data     CytoscapeNodeData `json:"data"`
	Position CytoscapePosition `json:"position"`
}

// CytoscapeNodeData contains the node data fields.
type CytoscapeNodeData struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
	Root  bool   `json:"root,omitempty"`
}

// CytoscapePosition is a model-space coordinate.
type CytoscapePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CytoscapeEdge is an edge element.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Cytoscape converts m to Cytoscape.js elements. Node positions are meant
// for the "preset" layout.
func (m *Model) Cytoscape() CytoscapeElements {
	el := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(m.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(m.Edges)),
	}
	for _, n := range m.Nodes {
		el.Nodes = append(el.Nodes, CytoscapeNode{
			Data:     CytoscapeNodeData{ID: n.ID, Label: n.Name, Depth: n.Depth, Root: n.Root},
			Position: CytoscapePosition{X: n.X, Y: n.Y},
		})
	}
	for _, e := range m.Edges {
		el.Edges = append(el.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{ID: e.ID, Source: e.SourceName, Target: e.TargetName, Label: e.Label},
		})
	}
	return el
}

// CytoscapeJSON encodes the Cytoscape.js elements of m.
func (m *Model) CytoscapeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m.Cytoscape(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return data, nil
}
