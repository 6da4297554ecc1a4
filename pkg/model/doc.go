// Package model turns positioned hierarchy nodes and field edges into an
// index-addressed node-link model for renderers.
//
// # Identity
//
// Every [Node] and [Edge] carries two identifiers:
//
//   - ID names the element: the type name for nodes, "Source.field->Target"
//     for edges. It survives a re-root as long as the element is still
//     present.
//   - Key hashes the element's content (name, depth and position for nodes;
//     ID and endpoint keys for edges). It changes whenever the element moves.
//
// [Diff] compares two models by ID and uses Key to tell moved elements from
// unchanged ones, so a renderer can animate only what changed.
//
// # Serialization
//
// Models round-trip through JSON with [Marshal] and [Unmarshal], and export
// to Cytoscape.js elements with [Model.Cytoscape].
package model
