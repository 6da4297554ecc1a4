package model

// Delta describes the transition between two models.
type Delta struct {
	EnterNodes  []Node `json:"enter_nodes,omitempty"`
	UpdateNodes []Node `json:"update_nodes,omitempty"`
	ExitNodes   []Node `json:"exit_nodes,omitempty"`
	StayNodes   []Node `json:"stay_nodes,omitempty"`

	EnterEdges  []Edge `json:"enter_edges,omitempty"`
	UpdateEdges []Edge `json:"update_edges,omitempty"`
	ExitEdges   []Edge `json:"exit_edges,omitempty"`
	StayEdges   []Edge `json:"stay_edges,omitempty"`
}

// Changed reports whether anything entered, moved or left.
func (d Delta) Changed() bool {
	return len(d.EnterNodes)+len(d.UpdateNodes)+len(d.ExitNodes)+
		len(d.EnterEdges)+len(d.UpdateEdges)+len(d.ExitEdges) > 0
}

// Diff matches elements of prev and next by ID. Elements only in next enter,
// elements only in prev exit, and shared elements update when their Key
// differs. Entering, updating and staying elements are taken from next; a nil
// prev makes everything enter.
func Diff(prev, next *Model) Delta {
	var d Delta
	if prev == nil {
		prev = &Model{}
	}
	if next == nil {
		next = &Model{}
	}

	oldNodes := make(map[string]Node, len(prev.Nodes))
	for _, n := range prev.Nodes {
		oldNodes[n.ID] = n
	}
	for _, n := range next.Nodes {
		old, ok := oldNodes[n.ID]
		switch {
		case !ok:
			d.EnterNodes = append(d.EnterNodes, n)
		case old.Key != n.Key:
			d.UpdateNodes = append(d.UpdateNodes, n)
		default:
			d.StayNodes = append(d.StayNodes, n)
		}
		delete(oldNodes, n.ID)
	}
	for _, n := range prev.Nodes {
		if _, gone := oldNodes[n.ID]; gone {
			d.ExitNodes = append(d.ExitNodes, n)
		}
	}

	oldEdges := make(map[string]Edge, len(prev.Edges))
	for _, e := range prev.Edges {
		oldEdges[e.ID] = e
	}
	for _, e := range next.Edges {
		old, ok := oldEdges[e.ID]
		switch {
		case !ok:
			d.EnterEdges = append(d.EnterEdges, e)
		case old.Key != e.Key:
			d.UpdateEdges = append(d.UpdateEdges, e)
		default:
			d.StayEdges = append(d.StayEdges, e)
		}
		delete(oldEdges, e.ID)
	}
	for _, e := range prev.Edges {
		if _, gone := oldEdges[e.ID]; gone {
			d.ExitEdges = append(d.ExitEdges, e)
		}
	}
	return d
}
