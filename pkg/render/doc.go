// Package render turns laid-out type graphs into images.
//
// # Overview
//
// Two renderers share the [model.Model] produced by the layout pipeline:
//
//   - [radial]: a self-contained SVG with concentric depth rings, arc edges
//     and a hover script that fades edges not touching the hovered type.
//   - [nodelink]: a Graphviz DOT document rendered with neato, either with
//     the radial positions pinned or as a free flat graph.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// from librsvg:
//
//	svg := radial.RenderSVG(m)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [model.Model]: https://pkg.go.dev/github.com/matzehuels/schemamap/pkg/model#Model
package render
