package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/render"
	"github.com/matzehuels/schemamap/pkg/schema"
)

type renderOpts struct {
	output    string
	formats   []string
	highlight string
	scale     float64
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command for writing diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      layoutFlags
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [schema]",
		Short: "Render a schema as a radial diagram",
		Long: `Render a schema as a radial diagram.

Formats:
  svg        interactive SVG with rings and hover highlighting (default)
  dot        Graphviz source with pinned positions
  graphviz   SVG drawn by Graphviz from the same positions
  json       the layout model
  cytoscape  Cytoscape.js elements
  pdf, png   static diagrams (need rsvg-convert on PATH)

With several formats, -o is a base path and each file gets its own suffix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			needsConverter := slices.Contains(opts.formats, pipeline.FormatPDF) || slices.Contains(opts.formats, pipeline.FormatPNG)
			if needsConverter && !render.ConverterAvailable() {
				printWarning("rsvg-convert not found; PDF and PNG output will fail")
			}
			s, err := c.loadSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			layout := flags.options(cmd, c.config, s)
			return c.runRender(cmd, args[0], s.Types, layout, opts)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "type to highlight in SVG output")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, types schema.TypeMap, layout pipeline.Options, opts renderOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()

	layout.Formats = opts.formats
	layout.Highlight = opts.highlight
	layout.Scale = opts.scale
	layout.Refresh = opts.refresh

	spin := startSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.formats, ", ")))
	result, err := runner.Execute(ctx, types, layout)
	if err != nil {
		spin.fail("Render failed")
		return err
	}
	spin.stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(input, result.Model.Root, opts.output, opts.formats)
	for _, format := range opts.formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %s", describeRoot(result.Model.Root))
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	if result.Stats.Skipped > 0 {
		printWarning("%d fields skipped; run with --verbose for details", result.Stats.Skipped)
	}
	c.Logger.Debug("render stats", "layout", result.Stats.LayoutTime, "render", result.Stats.RenderTime, "render_cached", result.CacheInfo.RenderHit)
	if result.Model.Root != "" {
		printNewline()
		printNextStep("Explore", fmt.Sprintf("%s explore %s --root %s", appName, input, result.Model.Root))
	}
	return nil
}

// outputPaths maps each format to a file. A single format writes to output
// as given; otherwise output (or "<schema>.<root>") is a base path.
func outputPaths(input, root, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		if root == "" {
			root = "flat"
		}
		base = inputBase(input) + "." + root
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths
}

func describeRoot(root string) string {
	if root == "" {
		return "all types"
	}
	return "types around " + StyleHighlight.Render(root)
}
