// Package nodelink renders concept lattices as Hasse diagrams.
//
// # Overview
//
// Concepts are drawn as rounded boxes at the positions assigned by the
// layout package and connected by undirected edges from each concept to
// its direct superconcepts. Graphviz runs the neato engine with every
// positioned node pinned, so it only routes edges and sizes the canvas.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Height: lay.Height})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Labels
//
// By default a node shows its reduced intent on the first line and its
// reduced extent on the second, the usual reduced labelling of concept
// lattices. With [Options.Detailed] the full intent and extent are shown
// together with the concept ID.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
