package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/render"
	"github.com/matzehuels/schemamap/pkg/render/nodelink"
	radialsvg "github.com/matzehuels/schemamap/pkg/render/radial"
)

// RenderFormat produces a single artifact for m.
func RenderFormat(ctx context.Context, m *model.Model, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return radialsvg.RenderSVG(m, svgOptions(opts)...), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(m, dotOptions(opts))), nil
	case FormatGraphviz:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(m, dotOptions(opts)))
	case FormatJSON:
		return model.Marshal(m)
	case FormatCytoscape:
		return m.CytoscapeJSON()
	case FormatPDF:
		return render.ToPDF(ctx, radialsvg.RenderSVG(m, append(svgOptions(opts), radialsvg.WithoutScript())...))
	case FormatPNG:
		return render.ToPNG(ctx, radialsvg.RenderSVG(m, append(svgOptions(opts), radialsvg.WithoutScript())...), opts.Scale)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// Render produces every format in opts.Formats concurrently. The first
// failure cancels the remaining renders.
func Render(ctx context.Context, m *model.Model, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(gctx, m, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func svgOptions(opts Options) []radialsvg.Option {
	if opts.Highlight == "" {
		return nil
	}
	return []radialsvg.Option{radialsvg.WithHighlight(opts.Highlight)}
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Pinned: !opts.Flat, Labels: true}
}
