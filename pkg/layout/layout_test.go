package layout

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/lattice/transform"
)

func build(t *testing.T, concepts []lattice.Concept, links [][2]string) *lattice.Lattice {
	t.Helper()
	l := lattice.New(nil)
	for _, c := range concepts {
		if err := l.AddConcept(c); err != nil {
			t.Fatalf("AddConcept(%s): %v", c.ID, err)
		}
	}
	for _, e := range links {
		l.AddLink(e[0], e[1])
	}
	return l
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuildDiamond(t *testing.T) {
	l := build(t, []lattice.Concept{
		{ID: "top"}, {ID: "left"}, {ID: "right"}, {ID: "bottom"},
	}, [][2]string{{"left", "top"}, {"right", "top"}, {"bottom", "left"}, {"bottom", "right"}})

	lay, err := Build(l, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if lay.Mode != transform.ModeCoffmanGraham {
		t.Errorf("mode = %s", lay.Mode)
	}
	if lay.Crossings != 0 {
		t.Errorf("crossings = %d, want 0", lay.Crossings)
	}

	tests := []struct {
		id   string
		x, y float64
	}{
		{"top", 400, 50},
		{"left", 50 + 700.0/3, 165},
		{"right", 50 + 2*700.0/3, 165},
		{"bottom", 400, 315},
	}
	for _, tt := range tests {
		c, _ := l.Concept(tt.id)
		if !near(c.X, tt.x) || !near(c.Y, tt.y) {
			t.Errorf("%s at (%.2f, %.2f), want (%.2f, %.2f)", tt.id, c.X, c.Y, tt.x, tt.y)
		}
		if !c.Placed {
			t.Errorf("%s should be placed", tt.id)
		}
	}
	if lay.Height != DefaultHeight {
		t.Errorf("height = %.1f, want %.1f", lay.Height, DefaultHeight)
	}
}

func TestLayerSharesY(t *testing.T) {
	l := build(t, []lattice.Concept{
		{ID: "a", Level: 1}, {ID: "b", Level: 2}, {ID: "c", Level: 2}, {ID: "d", Level: 2}, {ID: "e", Level: 2},
	}, nil)
	if _, err := Build(l, Options{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, _ := l.Concept("b")
	for _, id := range []string{"c", "d", "e"} {
		c, _ := l.Concept(id)
		if c.Y != b.Y {
			t.Errorf("%s.Y = %.1f, want %.1f", id, c.Y, b.Y)
		}
	}
	a, _ := l.Concept("a")
	// a layer of 1 out of 4 clamps to factor 0.3: 80 + 70*0.3
	if !near(b.Y-a.Y, 101) {
		t.Errorf("spacing = %.2f, want 101", b.Y-a.Y)
	}
}

func TestOrderWithinLayersReducesCrossings(t *testing.T) {
	l := build(t, []lattice.Concept{
		{ID: "a", Level: 1}, {ID: "b", Level: 1}, {ID: "c", Level: 2}, {ID: "d", Level: 2},
	}, [][2]string{{"c", "b"}, {"d", "a"}})
	l.BuildOrder()

	layers, _ := transform.AssignLayers(l)
	if got := CountCrossings(l, layers); got != 1 {
		t.Fatalf("initial crossings = %d, want 1", got)
	}
	OrderWithinLayers(l, layers, Options{})
	if !slices.Equal(layers[1], []string{"d", "c"}) {
		t.Errorf("layer 1 = %q, want [d c]", layers[1])
	}
	if got := CountCrossings(l, layers); got != 0 {
		t.Errorf("crossings after ordering = %d, want 0", got)
	}
}

func TestOrderWithinLayersNullLast(t *testing.T) {
	l := build(t, []lattice.Concept{
		{ID: "x", Level: 1}, {ID: "z", Level: 2}, {ID: "y", Level: 2},
	}, [][2]string{{"y", "x"}})
	l.BuildOrder()

	layers, _ := transform.AssignLayers(l)
	OrderWithinLayers(l, layers, Options{})
	if !slices.Equal(layers[1], []string{"y", "z"}) {
		t.Errorf("layer 1 = %q, want [y z]", layers[1])
	}
}

func TestOrderWithinLayersKeepsOwnX(t *testing.T) {
	l := build(t, []lattice.Concept{
		{ID: "r1", X: 700, Placed: true},
		{ID: "r2", X: 100, Placed: true},
	}, nil)
	layers := transform.Layers{{"r1", "r2"}}
	OrderWithinLayers(l, layers, Options{})
	if !slices.Equal(layers[0], []string{"r2", "r1"}) {
		t.Errorf("layer = %q, want [r2 r1]", layers[0])
	}
}

func TestSpacingFactor(t *testing.T) {
	tests := []struct {
		size, maxSize int
		want          float64
	}{
		{1, 10, 0.3},
		{5, 10, 0.5},
		{10, 10, 1.0},
		{0, 0, 0.3},
	}
	for _, tt := range tests {
		if got := spacingFactor(tt.size, tt.maxSize); !near(got, tt.want) {
			t.Errorf("spacingFactor(%d, %d) = %.2f, want %.2f", tt.size, tt.maxSize, got, tt.want)
		}
	}
}

func TestBuildInvalidSpacing(t *testing.T) {
	l := build(t, []lattice.Concept{{ID: "a"}}, nil)
	if _, err := Build(l, Options{MinSpacing: 200, MaxSpacing: 100}); err != ErrInvalidSpacing {
		t.Errorf("err = %v, want ErrInvalidSpacing", err)
	}
}

func TestCountLayerCrossings(t *testing.T) {
	// Complete bipartite K(2,2) has exactly one crossing in any order.
	l := build(t, []lattice.Concept{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		[][2]string{{"c", "a"}, {"d", "a"}, {"c", "b"}, {"d", "b"}})
	l.BuildOrder()
	if got := CountLayerCrossings(l, []string{"a", "b"}, []string{"c", "d"}); got != 1 {
		t.Errorf("crossings = %d, want 1", got)
	}
	if got := CountLayerCrossings(l, nil, []string{"c"}); got != 0 {
		t.Errorf("empty upper crossings = %d, want 0", got)
	}
}
