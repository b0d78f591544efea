// Package layout computes node positions for a hierarchical lattice diagram.
//
// [Build] runs the full layout pass over a lattice: layer assignment (see
// the transform package), vertical spacing with [AssignVertical], a single
// top-down barycenter sweep with [OrderWithinLayers], and a final crossing
// count. Coordinates are written to the concepts in place; concept identity
// and labels are untouched, so a lattice can be laid out again after a
// filter or a resize.
package layout

import (
	"errors"

	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/lattice/transform"
)

// Default layout parameters.
const (
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultPadding    = 50.0
	DefaultMinSpacing = 80.0
	DefaultMaxSpacing = 150.0
)

// Spacing factor bounds applied to the relative layer size.
const (
	minSpacingFactor = 0.3
	maxSpacingFactor = 1.0
)

// ErrInvalidSpacing is returned when MinSpacing exceeds MaxSpacing.
var ErrInvalidSpacing = errors.New("min spacing must not exceed max spacing")

// Options configures a layout pass. Zero fields take the defaults.
type Options struct {
	Width      float64
	Height     float64
	Padding    float64
	MinSpacing float64
	MaxSpacing float64
}

// WithDefaults returns a copy of o with zero fields set to defaults.
func (o Options) WithDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.MinSpacing == 0 {
		o.MinSpacing = DefaultMinSpacing
	}
	if o.MaxSpacing == 0 {
		o.MaxSpacing = DefaultMaxSpacing
	}
	return o
}

// Layout is the result of a layout pass.
type Layout struct {
	Layers    transform.Layers    `json:"layers"`
	Mode      transform.LayerMode `json:"mode"`
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	Crossings int                 `json:"crossings"`
}

// Build lays out the lattice and returns the layers it used.
// Height is the larger of opts.Height and the extent of the placed layers.
func Build(l *lattice.Lattice, opts Options) (Layout, error) {
	if l == nil {
		return Layout{}, transform.ErrNilLattice
	}
	opts = opts.WithDefaults()
	if opts.MinSpacing > opts.MaxSpacing {
		return Layout{}, ErrInvalidSpacing
	}

	layers, mode := transform.AssignLayers(l)
	// Barycenters need the order relation even in predefined mode.
	l.BuildOrder()

	bottom := AssignVertical(l, layers, opts)
	OrderWithinLayers(l, layers, opts)

	return Layout{
		Layers:    layers,
		Mode:      mode,
		Width:     opts.Width,
		Height:    max(opts.Height, bottom+opts.Padding),
		Crossings: CountCrossings(l, layers),
	}, nil
}
