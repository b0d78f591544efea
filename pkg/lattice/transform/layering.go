package transform

import (
	"slices"

	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// LayerMode names the strategy [AssignLayers] used.
type LayerMode string

const (
	// ModePredefined groups concepts by their supplied Level.
	ModePredefined LayerMode = "predefined"
	// ModeCoffmanGraham computes levels from the order relation.
	ModeCoffmanGraham LayerMode = "coffman-graham"
)

// Layers holds concept IDs per layer. Index 0 is the topmost layer.
type Layers [][]string

// MaxWidth returns the size of the largest layer.
func (ls Layers) MaxWidth() int {
	w := 0
	for _, layer := range ls {
		w = max(w, len(layer))
	}
	return w
}

// LayerOf returns a map from concept ID to layer index.
func (ls Layers) LayerOf() map[string]int {
	out := make(map[string]int)
	for i, layer := range ls {
		for _, id := range layer {
			out[id] = i
		}
	}
	return out
}

// AssignLayers partitions the concepts into layers.
//
// If every concept has a Level, concepts are grouped into layer Level−1 and
// the mode is [ModePredefined]. Otherwise the order relation is built and
// [CoffmanGraham] computes the layers. Within a layer, concepts keep input
// order.
func AssignLayers(l *lattice.Lattice) (Layers, LayerMode) {
	concepts := l.Concepts()
	predefined := len(concepts) > 0
	for _, c := range concepts {
		if c.Level == 0 {
			predefined = false
			break
		}
	}
	if predefined {
		return predefinedLayers(l), ModePredefined
	}
	l.BuildOrder()
	return CoffmanGraham(l), ModeCoffmanGraham
}

func predefinedLayers(l *lattice.Lattice) Layers {
	var layers Layers
	for _, c := range l.Concepts() {
		level := c.Level
		if level < 1 {
			l.Logger().Warn("concept has invalid level, defaulting to 1", "id", c.ID, "level", c.Level)
			level = 1
			c.Level = 1
		}
		for len(layers) < level {
			layers = append(layers, []string{})
		}
		layers[level-1] = append(layers[level-1], c.ID)
	}
	return layers
}

// CoffmanGraham assigns layers from the order relation, which must already
// be built.
//
// Concepts are visited by descending number of superconcepts (ties keep
// input order). Each concept is placed on the first layer, scanning from 0,
// that lies strictly below every layer holding one of its superconcepts.
// A concept whose superconcepts are not all placed yet is deferred to the
// next sweep. When a sweep places nothing, as with a cyclic order, the
// first stuck concept is placed using only its superconcepts that are
// already placed, and strict sweeps resume.
//
// This is a leveling heuristic: it does not bound layer width.
func CoffmanGraham(l *lattice.Lattice) Layers {
	pending := slices.Clone(l.Concepts())
	slices.SortStableFunc(pending, func(a, b *lattice.Concept) int {
		return len(b.Superconcepts) - len(a.Superconcepts)
	})

	var layers Layers
	layerOf := make(map[string]int, len(pending))
	place := func(c *lattice.Concept, strict bool) bool {
		target := 0
		for ; ; target++ {
			ok := true
			for _, sup := range c.Superconcepts {
				at, placed := layerOf[sup]
				if !placed {
					if strict {
						return false
					}
					continue
				}
				if at >= target {
					ok = false
					break
				}
			}
			if ok {
				break
			}
		}
		for len(layers) <= target {
			layers = append(layers, []string{})
		}
		layers[target] = append(layers[target], c.ID)
		layerOf[c.ID] = target
		return true
	}

	for len(pending) > 0 {
		var deferred []*lattice.Concept
		for _, c := range pending {
			if !place(c, true) {
				deferred = append(deferred, c)
			}
		}
		if len(deferred) == len(pending) {
			l.Logger().Warn("order relation is not acyclic, forcing placement", "id", deferred[0].ID, "remaining", len(deferred))
			place(deferred[0], false)
			deferred = deferred[1:]
		}
		pending = deferred
	}
	return layers
}
