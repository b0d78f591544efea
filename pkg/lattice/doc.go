// Package lattice provides the concept arena used by every stage of the
// latticeviz pipeline.
//
// A [Lattice] owns its concepts: they are stored once, in input order, and
// referenced everywhere else by ID. The order relation between concepts
// (superconcepts and subconcepts) is derived from the link list by
// [Lattice.BuildOrder] and stored on each [Concept] as ID slices, so a
// lattice serializes to JSON without any cycle-breaking.
//
// # Links
//
// A [Link] points from a lower concept to one of its covering superconcepts:
// Source is a subconcept of Target. Link endpoints are kept as raw IDs and
// resolved against the arena with [Lattice.Resolve], which tolerates numeric
// spellings of the same identifier ("1", "1.0").
//
// # Labels
//
// Concepts carry a serialized label of the form
//
//	Extent{o1, o2} Intent{a1}
//
// [ParseLabel] extracts the extent and intent from it. Parsing is pure and
// deterministic; empty groups yield empty slices.
//
// # Helpers
//
// [ShortestPath] runs a breadth-first search over the undirected link graph
// and [Filter] recolors concepts by object and attribute tokens.
package lattice
