package radial

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/schemamap/pkg/model"
)

// Drawing constants.
const (
	NodeRadius  = 20.0
	HoverRadius = 22.0
	FadeOpacity = 0.1
	LabelDY     = 4.0

	defaultCanvas = 600.0
	loopRadius    = 12.0
)

// sagitta is the bulge of an arc whose radius equals its chord, as a
// fraction of the chord.
var sagitta = 1 - math.Sqrt(3)/2

const interactionCSS = `
    .ring { stroke: none; }
    .node-link { fill: none; stroke: #555; stroke-width: 1.5; transition: stroke-opacity 0.2s ease; }
    .node { fill: #fff; stroke: #333; stroke-width: 1.5; transition: r 0.05s ease; }
    .node.root { fill: #ffe9a8; }
    .label { font: 11px sans-serif; pointer-events: none; }
    .edge-label { font: 10px sans-serif; fill: #333; pointer-events: none; }`

const interactionJS = `
    const fade = %g, base = %g, hover = %g;
    function highlight(name) {
      document.querySelectorAll('.node-link').forEach(e => {
        const on = e.dataset.source === name || e.dataset.target === name;
        e.style.strokeOpacity = on ? 1 : fade;
      });
      document.querySelectorAll('.edge-label').forEach(l => {
        const on = l.dataset.source === name || l.dataset.target === name;
        l.setAttribute('visibility', on ? 'visible' : 'hidden');
      });
    }
    function clearHighlight() {
      document.querySelectorAll('.node-link').forEach(e => { e.style.strokeOpacity = 1; });
      document.querySelectorAll('.edge-label').forEach(l => l.setAttribute('visibility', 'hidden'));
      document.querySelectorAll('.node').forEach(n => n.setAttribute('r', base));
    }
    document.querySelectorAll('.gnode').forEach(g => {
      g.addEventListener('mouseenter', () => {
        clearHighlight();
        g.querySelector('.node').setAttribute('r', hover);
        highlight(g.dataset.name);
      });
      g.addEventListener('mouseleave', clearHighlight);
    });`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	highlight string
	script    bool
}

// WithHighlight renders as if name were hovered.
func WithHighlight(name string) Option { return func(r *renderer) { r.highlight = name } }

// WithoutScript omits the hover script, for rasterized exports.
func WithoutScript() Option { return func(r *renderer) { r.script = false } }

// RenderSVG draws m.
func RenderSVG(m *model.Model, opts ...Option) []byte {
	r := renderer{script: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := canvas(m)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)

	renderRings(&buf, m, w, h)
	renderEdges(&buf, m, r.highlight)
	renderNodes(&buf, m, r.highlight)
	renderEdgeLabels(&buf, m, r.highlight)

	if r.script {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
			fmt.Sprintf(interactionJS, FadeOpacity, NodeRadius, HoverRadius))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func canvas(m *model.Model) (w, h float64) {
	w, h = m.Geometry.Width, m.Geometry.Height
	if w <= 0 || h <= 0 {
		return defaultCanvas, defaultCanvas
	}
	return w, h
}

func renderRings(buf *bytes.Buffer, m *model.Model, w, h float64) {
	buf.WriteString("  <g class=\"rings\">\n")
	for _, ring := range m.Rings {
		fmt.Fprintf(buf, "    <circle class=\"ring\" data-depth=\"%d\" cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"/>\n",
			ring.Depth, w/2, h/2, ring.Radius, ring.Fill)
	}
	buf.WriteString("  </g>\n")
}

func renderEdges(buf *bytes.Buffer, m *model.Model, highlight string) {
	buf.WriteString("  <g class=\"edges\">\n")
	for _, e := range m.Edges {
		src, dst := m.Nodes[e.Source], m.Nodes[e.Target]
		opacity := 1.0
		if highlight != "" && !e.Connected(highlight) {
			opacity = FadeOpacity
		}
		fmt.Fprintf(buf, "    <path class=\"node-link\" id=\"%s\" data-source=\"%s\" data-target=\"%s\" stroke-opacity=\"%g\" d=\"%s\"/>\n",
			esc(e.ID), esc(e.SourceName), esc(e.TargetName), opacity, edgePath(src, dst))
	}
	buf.WriteString("  </g>\n")
}

// edgePath draws a clockwise arc whose radius equals the distance between
// the endpoints, or a loop above the node for self references.
func edgePath(src, dst model.Node) string {
	if src.Index == dst.Index {
		top := src.Y - NodeRadius
		return fmt.Sprintf("M %.2f,%.2f A %.2f,%.2f 0 1,1 %.2f,%.2f",
			src.X-loopRadius*0.7, top+2, loopRadius, loopRadius, src.X+loopRadius*0.7, top+2)
	}
	dr := math.Hypot(dst.X-src.X, dst.Y-src.Y)
	return fmt.Sprintf("M %.2f,%.2f A %.2f,%.2f 0 0,1 %.2f,%.2f", src.X, src.Y, dr, dr, dst.X, dst.Y)
}

// labelPoint returns the middle of the edge drawn by edgePath.
func labelPoint(src, dst model.Node) (x, y float64) {
	if src.Index == dst.Index {
		return src.X, src.Y - NodeRadius - 2*loopRadius
	}
	dx, dy := dst.X-src.X, dst.Y-src.Y
	return (src.X+dst.X)/2 + sagitta*dy, (src.Y+dst.Y)/2 - sagitta*dx
}

func renderNodes(buf *bytes.Buffer, m *model.Model, highlight string) {
	buf.WriteString("  <g class=\"nodes\">\n")
	for _, n := range m.Nodes {
		class := "node"
		if n.Root {
			class += " root"
		}
		r := NodeRadius
		if n.Name == highlight {
			r = HoverRadius
		}
		fmt.Fprintf(buf, "    <g class=\"gnode\" data-name=\"%s\" transform=\"translate(%.2f,%.2f)\">", esc(n.Name), n.X, n.Y)
		fmt.Fprintf(buf, "<circle class=\"%s\" r=\"%g\"/>", class, r)
		fmt.Fprintf(buf, "<text class=\"label\" text-anchor=\"middle\" dy=\"%g\">%s</text></g>\n", LabelDY, esc(n.Name))
	}
	buf.WriteString("  </g>\n")
}

func renderEdgeLabels(buf *bytes.Buffer, m *model.Model, highlight string) {
	buf.WriteString("  <g class=\"edge-labels\">\n")
	for _, e := range m.Edges {
		x, y := labelPoint(m.Nodes[e.Source], m.Nodes[e.Target])
		visibility := "hidden"
		if highlight != "" && e.Connected(highlight) {
			visibility = "visible"
		}
		fmt.Fprintf(buf, "    <text class=\"edge-label\" data-source=\"%s\" data-target=\"%s\" x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\" visibility=\"%s\">%s</text>\n",
			esc(e.SourceName), esc(e.TargetName), x, y, visibility, esc(e.Label))
	}
	buf.WriteString("  </g>\n")
}

func esc(s string) string { return html.EscapeString(s) }
