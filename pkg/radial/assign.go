package radial

import (
	"math"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/hierarchy"
)

// Positioned is a hierarchy node with canvas coordinates.
type Positioned struct {
	hierarchy.Node
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Assign positions nodes using rings computed from g.
//
// Output order matches input order. Depth-0 nodes are placed at the center;
// a node whose depth has no ring is an [errors.ErrCodeInvalidConfiguration]
// error.
func Assign(nodes []hierarchy.Node, rings []Ring, g Geometry) ([]Positioned, error) {
	radii := make(map[int]float64, len(rings))
	for _, r := range rings {
		radii[r.Depth] = r.Radius
	}

	counts := make(map[int]int)
	for _, n := range nodes {
		if n.Depth < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q has negative depth %d", n.Name, n.Depth)
		}
		if _, ok := radii[n.Depth]; n.Depth > 0 && !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration,
				"node %q at depth %d has no ring (ring count %d)", n.Name, n.Depth, len(rings))
		}
		counts[n.Depth]++
	}

	cx, cy := g.Center()
	slots := make(map[int]int)
	out := make([]Positioned, len(nodes))
	for i, n := range nodes {
		if n.Depth == 0 {
			out[i] = Positioned{Node: n, X: cx, Y: cy}
			continue
		}
		r := radii[n.Depth]
		x, y := Slot(cx, cy, r, slots[n.Depth], counts[n.Depth])
		slots[n.Depth]++
		out[i] = Positioned{Node: n, X: x, Y: y, Radius: r}
	}
	return out, nil
}

// Slot returns the point for slot i of n on a circle of radius r around
// (cx, cy). Slot i covers the arc [i, i+1) * circumference/n and the point
// sits in its middle; angles grow counter-clockwise with y pointing down.
func Slot(cx, cy, r float64, i, n int) (x, y float64) {
	if n <= 0 {
		return cx, cy
	}
	theta := 2 * math.Pi * (float64(i) + 0.5) / float64(n)
	return cx + r*math.Cos(theta), cy - r*math.Sin(theta)
}
