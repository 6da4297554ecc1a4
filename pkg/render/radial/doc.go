// Package radial renders a laid-out model as a standalone SVG.
//
// The drawing has four layers, bottom to top: depth rings from the model's
// ring geometry (outermost first), arc edges, type nodes with centered
// labels, and field labels. Field labels stay hidden until a type is
// highlighted; highlighting fades every edge not touching that type to
// [FadeOpacity] and enlarges its circle.
//
// Highlighting can be baked in with [WithHighlight] for static exports, and
// the embedded script applies the same effect on mouse hover unless
// [WithoutScript] is given.
package radial
