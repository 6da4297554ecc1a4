package pipeline

import (
	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/hierarchy"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/radial"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// Compute lays out types around opts.Root and returns the model together
// with the fields skipped during traversal. It has no side effects beyond
// logging.
func Compute(types schema.TypeMap, opts Options) (*model.Model, []hierarchy.Skip, error) {
	opts.SetDefaults()
	if err := opts.ValidateLayout(); err != nil {
		return nil, nil, err
	}
	if opts.Flat {
		return computeFlat(types, opts)
	}

	root, ok := types[opts.Root]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "type %q not found", opts.Root)
	}
	h, err := hierarchy.Build(root, types, opts.MaxDepth, hierarchy.WithLogger(opts.Logger))
	if err != nil {
		return nil, nil, err
	}

	geom := opts.Geometry()
	rings, err := geom.Rings()
	if err != nil {
		return nil, nil, err
	}
	positioned, err := radial.Assign(h.Nodes, rings, geom)
	if err != nil {
		return nil, nil, err
	}
	m, err := model.Format(h.Root, positioned, h.Edges)
	if err != nil {
		return nil, nil, err
	}
	m.Geometry, m.Rings = geom, rings
	return m, h.Skipped, nil
}

// computeFlat spreads every visible type over the largest circle that fits
// the canvas.
func computeFlat(types schema.TypeMap, opts Options) (*model.Model, []hierarchy.Skip, error) {
	h := hierarchy.Flat(types, hierarchy.WithLogger(opts.Logger))

	geom := opts.Geometry()
	geom.RingCount = 0
	cx, cy := geom.Center()
	r := min(geom.Width, geom.Height)/2 - geom.OuterPadding

	positioned := make([]radial.Positioned, len(h.Nodes))
	for i, n := range h.Nodes {
		x, y := radial.Slot(cx, cy, r, i, len(h.Nodes))
		positioned[i] = radial.Positioned{Node: n, X: x, Y: y, Radius: r}
	}
	m, err := model.Format("", positioned, h.Edges)
	if err != nil {
		return nil, nil, err
	}
	m.Geometry = geom
	return m, h.Skipped, nil
}
