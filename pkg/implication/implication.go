// Package implication derives attribute implications from a concept lattice.
//
// [CanonicalBase] emits one implication per concept whose intent does not
// already equal its closure, and [Minimize] shrinks premises against the
// implications kept so far. Closures are computed over the concepts that are
// present in the lattice, not over a full formal context: [Closure] is the
// union of the intents of every concept whose intent contains the query set.
package implication

import (
	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// Implication states that whenever every attribute of Premise holds, the
// attributes of Conclusion hold as well. Conclusion is disjoint from Premise.
type Implication struct {
	Premise    []string `json:"premise"`
	Conclusion []string `json:"conclusion"`
}

// Closure returns the union of the intents of all concepts whose intent is a
// superset of attrs. The result is empty when no concept contains attrs.
//
// Concepts must have parsed intents.
func Closure(concepts []*lattice.Concept, attrs []string) *lattice.StringSet {
	query := lattice.NewStringSet(attrs...)
	closure := lattice.NewStringSet()
	for _, c := range concepts {
		if lattice.NewStringSet(c.Intent...).ContainsAll(query) {
			closure.Add(c.Intent...)
		}
	}
	return closure
}

// CanonicalBase returns, in concept order, an implication intent ⇒
// closure(intent) − intent for every concept where that difference is not
// empty.
func CanonicalBase(concepts []*lattice.Concept) []Implication {
	base := []Implication{}
	for _, c := range concepts {
		premise := lattice.NewStringSet(c.Intent...)
		conclusion := Closure(concepts, c.Intent).Difference(premise)
		if conclusion.Len() == 0 {
			continue
		}
		base = append(base, Implication{
			Premise:    premise.Slice(),
			Conclusion: conclusion.Slice(),
		})
	}
	return base
}

// ClosureUnder forward-chains attrs through implications: any implication
// whose premise is contained in the current set adds its conclusion, and
// implications are rescanned until a full pass adds nothing.
func ClosureUnder(attrs []string, implications []Implication) *lattice.StringSet {
	closure := lattice.NewStringSet(attrs...)
	for changed := true; changed; {
		changed = false
		for _, imp := range implications {
			if !closure.ContainsAll(lattice.NewStringSet(imp.Premise...)) {
				continue
			}
			if added := closure.Union(lattice.NewStringSet(imp.Conclusion...)); len(added) > 0 {
				changed = true
			}
		}
	}
	return closure
}

// Minimize shrinks the premise of each implication in order. Every premise
// attribute is tested on its own: it is dropped when the original premise
// without it, forward-chained through the implications already minimized,
// still yields the whole conclusion. The kept attributes form the new
// premise, so the result does not depend on attribute order. Conclusions are
// unchanged.
//
// Each call is quadratic in the number of implications, which is acceptable
// for lattices of a few hundred concepts.
func Minimize(implications []Implication) []Implication {
	minimized := make([]Implication, 0, len(implications))
	for _, imp := range implications {
		conclusion := lattice.NewStringSet(imp.Conclusion...)
		original := lattice.NewStringSet(imp.Premise...)
		premise := lattice.NewStringSet()
		for _, attr := range imp.Premise {
			without := original.Difference(lattice.NewStringSet(attr))
			if !ClosureUnder(without.Slice(), minimized).ContainsAll(conclusion) {
				premise.Add(attr)
			}
		}
		minimized = append(minimized, Implication{
			Premise:    premise.Slice(),
			Conclusion: conclusion.Slice(),
		})
	}
	return minimized
}

// Compute returns the canonical base of the lattice, minimized if minimize
// is set. Labels are parsed first if needed.
func Compute(l *lattice.Lattice, minimize bool) []Implication {
	if l == nil {
		return []Implication{}
	}
	l.ParseLabels()
	base := CanonicalBase(l.Concepts())
	if minimize {
		base = Minimize(base)
	}
	return base
}
