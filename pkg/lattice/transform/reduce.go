package transform

import (
	"errors"

	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// ErrNilLattice is returned when a transformation receives a nil lattice.
var ErrNilLattice = errors.New("lattice must not be nil")

// reduction holds the assignment trackers of one reduction pass.
// Each call to ReduceLabels gets a fresh one.
type reduction struct {
	assignedExtents *lattice.StringSet
	assignedIntents *lattice.StringSet
}

// ReduceLabels computes full and reduced labels for every concept.
//
// ReduceLabels parses labels, builds the order relation, and then:
//  1. Unions the full intent of each direct superconcept into the concept's
//     full intent, visiting concepts in input order.
//  2. Unions the full extent of each direct subconcept into the concept's
//     full extent, remembering which objects were inherited.
//  3. Walks concepts in input order assigning reduced labels:
//     reducedExtent = fullExtent − assigned − inherited, and
//     reducedIntent = intent − assigned. Every element is assigned to the
//     first concept that claims it, so input order decides ties.
//
// Both propagation steps read sets already updated earlier in the same
// pass, so the result depends on input order and is not a transitive
// closure.
func ReduceLabels(l *lattice.Lattice) error {
	if l == nil {
		return ErrNilLattice
	}
	l.ParseLabels()
	l.BuildOrder()

	concepts := l.Concepts()
	fullIntent := make(map[string]*lattice.StringSet, len(concepts))
	fullExtent := make(map[string]*lattice.StringSet, len(concepts))
	for _, c := range concepts {
		fullIntent[c.ID] = lattice.NewStringSet(c.Intent...)
		fullExtent[c.ID] = lattice.NewStringSet(c.Extent...)
	}

	for _, c := range concepts {
		for _, sup := range c.Superconcepts {
			if s, ok := fullIntent[sup]; ok {
				fullIntent[c.ID].Union(s)
			}
		}
	}

	inherited := make(map[string]*lattice.StringSet, len(concepts))
	for _, c := range concepts {
		inh := &lattice.StringSet{}
		for _, sub := range c.Subconcepts {
			if s, ok := fullExtent[sub]; ok {
				inh.Add(fullExtent[c.ID].Union(s)...)
			}
		}
		inherited[c.ID] = inh
	}

	r := reduction{
		assignedExtents: &lattice.StringSet{},
		assignedIntents: &lattice.StringSet{},
	}
	for _, c := range concepts {
		reducedExtent := fullExtent[c.ID].Difference(r.assignedExtents, inherited[c.ID])
		r.assignedExtents.Add(reducedExtent.Slice()...)

		reducedIntent := lattice.NewStringSet(c.Intent...).Difference(r.assignedIntents)
		r.assignedIntents.Add(reducedIntent.Slice()...)

		c.FullExtent = fullExtent[c.ID].Slice()
		c.FullIntent = fullIntent[c.ID].Slice()
		c.ReducedExtent = reducedExtent.Slice()
		c.ReducedIntent = reducedIntent.Slice()
	}
	return nil
}
