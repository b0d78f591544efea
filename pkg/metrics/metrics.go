// Package metrics computes summary statistics for a concept lattice.
//
// [Calculate] is a pure function of the concepts and links in the arena,
// except that it attaches a [lattice.ConceptMetrics] to every concept. It
// parses labels that have not been parsed yet; parsing is idempotent, so
// metrics can run before or after the label reducer.
package metrics

import (
	"math"

	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// Metrics summarizes a lattice.
type Metrics struct {
	TotalConcepts    int     `json:"totalConcepts"`
	TotalLinks       int     `json:"totalLinks"`
	MaxPossibleLinks int     `json:"maxPossibleLinks"`
	Density          float64 `json:"density"`
	TotalObjects     int     `json:"totalObjects"`
	TotalAttributes  int     `json:"totalAttributes"`
	AverageStability float64 `json:"averageStability"`
}

// Calculate computes lattice-wide metrics and attaches per-concept metrics
// to every concept.
//
// Density is the number of links over n(n−1)/2 and is 0 for lattices with
// fewer than two concepts. Links are counted as given, including links
// whose endpoints do not resolve. Stability of a concept is
// |extent| / (|extent| + |intent|), 0 when both are empty.
func Calculate(l *lattice.Lattice) Metrics {
	if l == nil {
		return Metrics{}
	}
	l.ParseLabels()

	n := l.ConceptCount()
	m := Metrics{
		TotalConcepts:    n,
		TotalLinks:       l.LinkCount(),
		MaxPossibleLinks: n * (n - 1) / 2,
	}
	if m.MaxPossibleLinks > 0 {
		m.Density = Round(float64(m.TotalLinks) / float64(m.MaxPossibleLinks))
	}

	degree := neighborhoods(l)
	objects, attributes := lattice.NewStringSet(), lattice.NewStringSet()
	var stabilitySum float64
	for _, c := range l.Concepts() {
		objects.Add(c.Extent...)
		attributes.Add(c.Intent...)

		cm := &lattice.ConceptMetrics{
			Stability:        Stability(len(c.Extent), len(c.Intent)),
			NeighborhoodSize: degree[c.ID],
			ExtentSize:       len(c.Extent),
			IntentSize:       len(c.Intent),
		}
		c.Metrics = cm
		stabilitySum += cm.Stability
	}
	m.TotalObjects = objects.Len()
	m.TotalAttributes = attributes.Len()
	if n > 0 {
		m.AverageStability = Round(stabilitySum / float64(n))
	}
	return m
}

// Stability returns extent / (extent + intent) rounded to four decimals.
func Stability(extent, intent int) float64 {
	if extent+intent == 0 {
		return 0
	}
	return Round(float64(extent) / float64(extent+intent))
}

// Round rounds v to four decimal places.
func Round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// neighborhoods counts the links touching each concept, by resolved ID.
// A self-loop touches its concept once.
func neighborhoods(l *lattice.Lattice) map[string]int {
	degree := make(map[string]int, l.ConceptCount())
	for _, link := range l.Links() {
		src, srcOK := l.Resolve(link.Source)
		dst, dstOK := l.Resolve(link.Target)
		if srcOK {
			degree[src]++
		}
		if dstOK && (!srcOK || dst != src) {
			degree[dst]++
		}
	}
	return degree
}
