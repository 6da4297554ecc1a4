// Package nodelink renders type graphs as Graphviz node-link diagrams.
//
// [ToDOT] writes a DOT document for a laid-out model. With pinned positions
// every node carries a pos attribute taken from the radial layout, so neato
// reproduces the rings exactly; without them neato lays the graph out
// freely, which suits flat whole-schema views. Field names become edge
// labels.
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Pinned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderPDF] and [RenderPNG] convert the SVG with rsvg-convert.
package nodelink
