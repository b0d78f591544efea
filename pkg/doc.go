// Package pkg holds the libraries behind latticeviz, an analysis and layout
// tool for formal concept lattices.
//
// # Overview
//
// A concept lattice arrives as JSON: a list of concepts whose labels carry an
// extent (objects) and an intent (attributes), plus the cover links of the
// order. The packages turn it into a layered Hasse diagram and derive
// summaries from it:
//
//  1. [lattice] - the concept arena, label parsing, order, path and filter
//  2. [lattice/transform] - label reduction and layer assignment
//  3. [layout] - vertical spacing and barycenter ordering within layers
//  4. [metrics] - density, stability and neighborhood sizes
//  5. [implication] - closure, canonical base and premise minimization
//  6. [io] - JSON import (graph and raw shapes) and export
//  7. [pipeline] - orchestration, caching and config shared by CLI and API
//
// # Data Flow
//
//	dataset JSON
//	     ↓
//	[io] decode (graph or raw shape)
//	     ↓
//	[lattice] parse labels, build order
//	     ↓
//	[lattice/transform] reduce labels, assign layers
//	     ↓
//	[layout] spacing, barycenter order
//	     ↓
//	[metrics] + [implication]
//	     ↓
//	[render/nodelink] DOT / SVG, or JSON
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.ExecuteFile(ctx, "lattice.json", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, imp := range res.Implications {
//	    fmt.Println(imp.Premise, "=>", imp.Conclusion)
//	}
package pkg
