package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// layoutFlags are the layout options shared by every command that lays out
// a schema. Only flags set on the command line override the config file.
type layoutFlags struct {
	root      string
	depth     int
	rings     int
	width     float64
	height    float64
	minRadius float64
	padding   float64
	flat      bool
}

func (f *layoutFlags) register(cmd *cobra.Command, flat bool) {
	d := pipeline.DefaultOptions()
	cmd.Flags().StringVarP(&f.root, "root", "r", "", "root type (default: the query type)")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", d.MaxDepth, "number of rings to follow from the root")
	cmd.Flags().IntVar(&f.rings, "rings", d.RingCount, "number of rings to draw (at least --depth)")
	cmd.Flags().Float64Var(&f.width, "width", d.Width, "canvas width")
	cmd.Flags().Float64Var(&f.height, "height", d.Height, "canvas height")
	cmd.Flags().Float64Var(&f.minRadius, "min-radius", d.MinRingRadius, "radius of the innermost ring")
	cmd.Flags().Float64Var(&f.padding, "padding", d.OuterPadding, "gap between the outer ring and the canvas edge")
	if flat {
		cmd.Flags().BoolVar(&f.flat, "flat", false, "place every type on one circle instead of rooting the layout")
	}
}

// options merges the config file with flags the user set. Raising --depth
// without --rings grows the ring count to match.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *Config, s *schema.Schema) pipeline.Options {
	opts := cfg.options()
	changed := cmd.Flags().Changed

	if changed("depth") {
		opts.MaxDepth = f.depth
		if !changed("rings") {
			opts.RingCount = max(opts.RingCount, f.depth)
		}
	}
	if changed("rings") {
		opts.RingCount = f.rings
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("min-radius") {
		opts.MinRingRadius = f.minRadius
	}
	if changed("padding") {
		opts.OuterPadding = f.padding
	}
	opts.Flat = f.flat

	opts.Root = f.root
	if opts.Root == "" && !opts.Flat && s != nil {
		opts.Root = s.DefaultRoot()
	}
	return opts
}
