package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/render"
)

// pointsPerInch converts layout pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT output.
type Options struct {
	// Pinned fixes nodes at their model coordinates.
	Pinned bool
	// Labels adds field names to edges.
	Labels bool
}

// ToDOT converts m to a DOT digraph.
func ToDOT(m *model.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, fixedsize=false];\n")
	buf.WriteString("  edge [fontsize=8, color=\"#555555\"];\n")
	if opts.Pinned {
		buf.WriteString("  splines=curved;\n")
	} else {
		buf.WriteString("  overlap=false;\n")
		buf.WriteString("  splines=true;\n")
	}
	buf.WriteString("\n")

	height := m.Geometry.Height
	for _, n := range m.Nodes {
		attrs := fmt.Sprintf("label=%q", n.Name)
		if n.Root {
			attrs += ", fillcolor=\"#ffe9a8\""
		}
		if opts.Pinned {
			// Graphviz puts the origin bottom-left.
			attrs += fmt.Sprintf(", pos=\"%.3f,%.3f!\"", n.X/pointsPerInch, (height-n.Y)/pointsPerInch)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range m.Edges {
		if opts.Labels {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.SourceName, e.TargetName, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.SourceName, e.TargetName)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out dot with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the drawing scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders dot as PDF via SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders dot as PNG via SVG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
