// Package pipeline runs the schema → hierarchy → rings → model → artifact
// pipeline shared by the CLI, the interaction server and view controllers.
//
// # Stages
//
//  1. Build: [hierarchy.Build] from the root (or [hierarchy.Flat]).
//  2. Assign: [radial.Assign] onto the rings described by [Options.Geometry].
//  3. Format: [model.Format] into an index-addressed model.
//  4. Render: one artifact per requested format.
//
// Stages 1-3 are pure and exposed as [Compute]. [Runner] adds caching,
// observability hooks and concurrent rendering:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Root = "Query"
//	opts.Formats = []string{pipeline.FormatSVG, pipeline.FormatJSON}
//	result, err := runner.Execute(ctx, s.Types, opts)
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemamap/pkg/cache"
	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/hierarchy"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/radial"
)

// Defaults.
const (
	DefaultMaxDepth      = hierarchy.DefaultMaxDepth
	DefaultRingCount     = radial.DefaultRingCount
	DefaultWidth         = radial.DefaultWidth
	DefaultHeight        = radial.DefaultHeight
	DefaultMinRingRadius = radial.DefaultMinRadius
	DefaultOuterPadding  = radial.DefaultOuterPadding
	DefaultScale         = 2.0

	// DepthLimit bounds both MaxDepth and RingCount.
	DepthLimit = radial.MaxRingCount
)

// Output formats.
const (
	FormatSVG       = "svg"
	FormatDOT       = "dot"
	FormatGraphviz  = "graphviz"
	FormatJSON      = "json"
	FormatCytoscape = "cytoscape"
	FormatPDF       = "pdf"
	FormatPNG       = "png"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatGraphviz, FormatJSON, FormatCytoscape, FormatPDF, FormatPNG}

// Extension returns the file suffix used when writing format to disk.
func Extension(format string) string {
	switch format {
	case FormatGraphviz:
		return ".graphviz.svg"
	case FormatCytoscape:
		return ".cytoscape.json"
	default:
		return "." + format
	}
}

// ValidateFormats reports the first unsupported format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(ValidFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", f, strings.Join(ValidFormats, ", "))
		}
	}
	return nil
}

// Options configures a pipeline run. Start from [DefaultOptions]: zero
// depths, radii, padding and canvas sizes are not replaced by
// [Options.SetDefaults], and a zero canvas fails validation.
type Options struct {
	Root          string  `json:"root,omitempty"`
	MaxDepth      int     `json:"max_depth"`
	RingCount     int     `json:"ring_count,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Height        float64 `json:"height,omitempty"`
	MinRingRadius float64 `json:"min_ring_radius"`
	OuterPadding  float64 `json:"outer_padding"`
	// Flat lays out every visible type on one ring instead of walking from Root.
	Flat bool `json:"flat,omitempty"`

	Formats   []string `json:"formats,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns the standard 600x600, two-ring configuration.
func DefaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		RingCount:     DefaultRingCount,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MinRingRadius: DefaultMinRingRadius,
		OuterPadding:  DefaultOuterPadding,
		Formats:       []string{FormatSVG},
		Scale:         DefaultScale,
	}
}

// SetDefaults fills unset ring count, formats, scale and logger. A zero
// ring count becomes max(MaxDepth, DefaultRingCount).
func (o *Options) SetDefaults() {
	if o.RingCount == 0 {
		o.RingCount = max(o.MaxDepth, DefaultRingCount)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the layout and render options. Layout problems are
// [errors.ErrCodeInvalidConfiguration]; unknown formats are
// [errors.ErrCodeInvalidFormat].
func (o *Options) Validate() error {
	if err := o.ValidateLayout(); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "scale must be > 0, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// ValidateLayout checks only the options that affect the model.
func (o *Options) ValidateLayout() error {
	if o.MaxDepth < 0 || o.MaxDepth > DepthLimit {
		return errors.New(errors.ErrCodeInvalidConfiguration, "max depth must be between 0 and %d, got %d", DepthLimit, o.MaxDepth)
	}
	if !o.Flat && o.RingCount < o.MaxDepth {
		return errors.New(errors.ErrCodeInvalidConfiguration, "ring count %d is less than max depth %d", o.RingCount, o.MaxDepth)
	}
	return o.Geometry().Validate()
}

// Geometry returns the ring geometry described by o.
func (o *Options) Geometry() radial.Geometry {
	return radial.Geometry{
		Width:        o.Width,
		Height:       o.Height,
		MinRadius:    o.MinRingRadius,
		OuterPadding: o.OuterPadding,
		RingCount:    o.RingCount,
	}
}

// LayoutKeyOpts returns the cache key options for the model.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Root:         o.Root,
		MaxDepth:     o.MaxDepth,
		RingCount:    o.RingCount,
		Width:        o.Width,
		Height:       o.Height,
		MinRadius:    o.MinRingRadius,
		OuterPadding: o.OuterPadding,
		Flat:         o.Flat,
	}
}

// ArtifactKeyOpts returns the cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Highlight: o.Highlight, Scale: o.Scale}
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	Model     *model.Model
	ModelHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage durations.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Skipped    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

func (s Stats) String() string {
	return fmt.Sprintf("%d types, %d fields, %d skipped", s.NodeCount, s.EdgeCount, s.Skipped)
}
