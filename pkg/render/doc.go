// Package render turns a laid-out concept lattice into diagrams.
//
// Rendering is kept apart from the analysis core: the layout package writes
// coordinates into the concepts, and renderers only read them.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders Hasse diagrams through Graphviz. Nodes
// are pinned at the coordinates computed by the layout package and labelled
// with their reduced intent and extent.
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Height: lay.Height})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/latticeviz/pkg/render/nodelink
package render
