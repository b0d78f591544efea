// Package transform provides the lattice transformations that run before
// layout: label reduction and layer assignment.
//
// # Label Reduction
//
// [ReduceLabels] propagates intents down and extents up the order relation
// and then assigns every object and attribute to a single concept, giving
// each concept its reduced (non-redundant) label. Propagation is a single
// pass over direct neighbours in input order, not a transitive fixpoint;
// on lattices deeper than two levels the full sets may miss elements that
// are more than one step away.
//
// # Layer Assignment
//
// [AssignLayers] groups concepts into horizontal layers. When every concept
// carries a pre-supplied level the levels are used directly; otherwise
// [CoffmanGraham] places each concept on the first layer strictly below all
// of its superconcepts.
//
// All transformations mutate the lattice in place.
package transform
