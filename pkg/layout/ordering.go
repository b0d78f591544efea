package layout

import (
	"slices"

	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/lattice/transform"
)

// barycenter is a sort key; valid is false for a null barycenter.
type barycenter struct {
	value float64
	valid bool
}

// OrderWithinLayers orders each layer by the barycenter heuristic and
// assigns X coordinates.
//
// Layers are processed once, top to bottom. A concept's barycenter is the
// mean X of its placed superconcepts. A concept with no placed superconcept
// keeps its own X as the key if it already has a position, and has no key
// otherwise. Concepts are sorted by key ascending with keyless concepts
// last; ties keep their current order. The sorted layer is then spread over
// Width − 2·Padding, slot i at Padding + (i+1)·span/(n+1).
//
// The sweep is not repeated until convergence. The order of each layer is
// written back into layers.
func OrderWithinLayers(l *lattice.Lattice, layers transform.Layers, opts Options) {
	opts = opts.WithDefaults()
	span := opts.Width - 2*opts.Padding

	for li, layer := range layers {
		keys := make(map[string]barycenter, len(layer))
		for _, id := range layer {
			keys[id] = barycenterOf(l, id)
		}

		ordered := slices.Clone(layer)
		slices.SortStableFunc(ordered, func(a, b string) int {
			ka, kb := keys[a], keys[b]
			switch {
			case !ka.valid && !kb.valid:
				return 0
			case !ka.valid:
				return 1
			case !kb.valid:
				return -1
			case ka.value < kb.value:
				return -1
			case ka.value > kb.value:
				return 1
			}
			return 0
		})

		slot := span / float64(len(ordered)+1)
		for i, id := range ordered {
			if c, ok := l.Concept(id); ok {
				c.X = opts.Padding + slot*float64(i+1)
				c.Placed = true
			}
		}
		layers[li] = ordered
	}
}

func barycenterOf(l *lattice.Lattice, id string) barycenter {
	c, ok := l.Concept(id)
	if !ok {
		return barycenter{}
	}
	sum, n := 0.0, 0
	for _, sup := range l.Superconcepts(id) {
		if sup.Placed {
			sum += sup.X
			n++
		}
	}
	if n > 0 {
		return barycenter{value: sum / float64(n), valid: true}
	}
	if c.Placed {
		return barycenter{value: c.X, valid: true}
	}
	return barycenter{}
}
