// Package radial places hierarchy nodes on concentric rings around a canvas
// center.
//
// Ring k (1-indexed) holds the nodes at depth k; the root at depth 0 sits at
// the center. Radii grow evenly from MinRadius toward the canvas edge, and
// nodes on a ring are spread over its full circumference in input order,
// starting half a slot past 3 o'clock and proceeding counter-clockwise.
package radial

import (
	"fmt"
	"math"

	"github.com/matzehuels/schemamap/pkg/errors"
)

// Geometry describes the canvas and ring spacing.
type Geometry struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MinRadius    float64 `json:"min_radius"`
	OuterPadding float64 `json:"outer_padding"`
	RingCount    int     `json:"ring_count"`
}

// Defaults.
const (
	DefaultWidth        = 600.0
	DefaultHeight       = 600.0
	DefaultMinRadius    = 40.0
	DefaultOuterPadding = 40.0
	DefaultRingCount    = 2

	// MaxRingCount bounds RingCount; rings beyond it are thinner than a pixel
	// on any practical canvas.
	MaxRingCount = 64
)

// DefaultGeometry returns a 600x600 canvas with two rings.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		MinRadius:    DefaultMinRadius,
		OuterPadding: DefaultOuterPadding,
		RingCount:    DefaultRingCount,
	}
}

// Validate reports an [errors.ErrCodeInvalidConfiguration] error for
// non-positive canvas sizes, negative radii, ring counts outside
// [0, MaxRingCount], and padding that leaves no room for the rings.
func (g Geometry) Validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfiguration, "canvas must be positive, got %gx%g", g.Width, g.Height)
	case g.RingCount < 0 || g.RingCount > MaxRingCount:
		return errors.New(errors.ErrCodeInvalidConfiguration, "ring count must be between 0 and %d, got %d", MaxRingCount, g.RingCount)
	case g.MinRadius < 0 || g.OuterPadding < 0:
		return errors.New(errors.ErrCodeInvalidConfiguration, "min radius and outer padding must be >= 0")
	case g.available() < 0:
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"min radius %g and padding %g exceed a %gx%g canvas", g.MinRadius, g.OuterPadding, g.Width, g.Height)
	}
	return nil
}

// Center returns the canvas midpoint.
func (g Geometry) Center() (x, y float64) {
	return g.Width / 2, g.Height / 2
}

func (g Geometry) available() float64 {
	return math.Min(g.Width, g.Height)/2 - g.OuterPadding - g.MinRadius
}

// Ring is one background circle.
type Ring struct {
	Depth  int     `json:"depth"`
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill"`
}

// Rings returns the ring geometry ordered from the outermost ring inward, so
// drawing them in order leaves smaller rings on top.
func (g Geometry) Rings() ([]Ring, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	step := 0.0
	if g.RingCount > 0 {
		step = g.available() / float64(g.RingCount)
	}
	rings := make([]Ring, 0, g.RingCount)
	for k := g.RingCount; k > 0; k-- {
		rings = append(rings, Ring{
			Depth:  k,
			Radius: math.Floor(g.MinRadius + float64(k)*step),
			Fill:   ringFill(k, g.RingCount),
		})
	}
	return rings, nil
}

const (
	baseShade   = 240.0
	shadeFactor = 0.1
)

// ringFill shades ring k of n: the outermost ring is the base grey and each
// step inward is 10% darker.
func ringFill(k, n int) string {
	c := math.Max(0, baseShade*(1-float64(n-k)*shadeFactor))
	v := int(math.Round(c))
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}
