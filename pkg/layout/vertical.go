package layout

import (
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/lattice/transform"
)

// AssignVertical sets Y for every concept in layers and returns the Y of the
// last layer.
//
// The first layer sits at opts.Padding. After each layer the running offset
// grows by MinSpacing + (MaxSpacing − MinSpacing) × factor, where factor is
// the layer size relative to the widest layer, clamped to [0.3, 1.0]. Wide
// layers therefore get more room below them than narrow ones.
func AssignVertical(l *lattice.Lattice, layers transform.Layers, opts Options) float64 {
	opts = opts.WithDefaults()
	maxSize := layers.MaxWidth()

	y, last := opts.Padding, opts.Padding
	for _, layer := range layers {
		for _, id := range layer {
			if c, ok := l.Concept(id); ok {
				c.Y = y
			}
		}
		last = y
		y += opts.MinSpacing + (opts.MaxSpacing-opts.MinSpacing)*spacingFactor(len(layer), maxSize)
	}
	return last
}

func spacingFactor(size, maxSize int) float64 {
	if maxSize == 0 {
		return minSpacingFactor
	}
	f := float64(size) / float64(maxSize)
	return min(max(f, minSpacingFactor), maxSpacingFactor)
}
