package lattice

import (
	"errors"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidConceptID is returned by [Lattice.AddConcept] when the concept
	// ID is empty. Ingestion logs and skips such concepts.
	ErrInvalidConceptID = errors.New("concept ID must not be empty")

	// ErrDuplicateConceptID is returned by [Lattice.AddConcept] when a concept
	// with the same ID already exists.
	ErrDuplicateConceptID = errors.New("duplicate concept ID")

	// ErrUnknownConcept is returned by lookups that reference an ID not in the
	// arena.
	ErrUnknownConcept = errors.New("unknown concept")
)

// Color is a fill color assigned to a concept by [Filter].
type Color string

// ConceptMetrics are the per-concept values computed by the metrics engine.
type ConceptMetrics struct {
	Stability        float64 `json:"stability"`
	NeighborhoodSize int     `json:"neighborhoodSize"`
	ExtentSize       int     `json:"extentSize"`
	IntentSize       int     `json:"intentSize"`
}

// Concept is a node of the lattice.
//
// ID and Label are input. Level is the optional pre-supplied depth
// (1 = topmost, 0 = not supplied). Every other field is computed by a
// pipeline stage and mutated in place.
type Concept struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Level int    `json:"level,omitempty"`

	Extent []string `json:"extent"`
	Intent []string `json:"intent"`

	FullExtent    []string `json:"fullExtent,omitempty"`
	FullIntent    []string `json:"fullIntent,omitempty"`
	ReducedExtent []string `json:"reducedExtent,omitempty"`
	ReducedIntent []string `json:"reducedIntent,omitempty"`

	// Superconcepts and Subconcepts are IDs of direct neighbours in the order.
	Superconcepts []string `json:"superconcepts"`
	Subconcepts   []string `json:"subconcepts"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Placed reports whether X and Y hold an assigned coordinate.
	Placed bool `json:"-"`

	Color   Color           `json:"color,omitempty"`
	Metrics *ConceptMetrics `json:"metrics,omitempty"`

	parsed bool
}

// Link is an order edge: Source is a subconcept of Target.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Lattice is the arena holding all concepts and links of one dataset.
//
// The zero value is not usable - create instances with [New].
// Lattice is not safe for concurrent use without external synchronization.
type Lattice struct {
	concepts []*Concept
	index    map[string]int
	numeric  map[string]string // canonical numeric form -> concept ID
	links    []Link
	logger   *log.Logger
}

// New creates an empty lattice. Per-item warnings are written to logger;
// a nil logger discards them.
func New(logger *log.Logger) *Lattice {
	if logger == nil {
		logger = DiscardLogger()
	}
	return &Lattice{
		index:   make(map[string]int),
		numeric: make(map[string]string),
		logger:  logger,
	}
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Logger returns the logger used for per-item warnings.
func (l *Lattice) Logger() *log.Logger { return l.logger }

// AddConcept appends a concept to the arena, keeping input order.
func (l *Lattice) AddConcept(c Concept) error {
	if c.ID == "" {
		return ErrInvalidConceptID
	}
	if _, exists := l.index[c.ID]; exists {
		return ErrDuplicateConceptID
	}
	concept := &c
	l.index[c.ID] = len(l.concepts)
	l.concepts = append(l.concepts, concept)
	if key, ok := numericKey(c.ID); ok {
		if _, taken := l.numeric[key]; !taken {
			l.numeric[key] = c.ID
		}
	}
	return nil
}

// AddLink records an order edge by raw endpoint IDs. Endpoints are resolved
// lazily, so links may reference concepts added later or not at all.
func (l *Lattice) AddLink(source, target string) {
	l.links = append(l.links, Link{Source: source, Target: target})
}

// Concepts returns the concepts in input order. The pointers refer to the
// arena, so modifications affect the lattice.
func (l *Lattice) Concepts() []*Concept { return l.concepts }

// Links returns a copy of the links in insertion order.
func (l *Lattice) Links() []Link { return slices.Clone(l.links) }

// ConceptCount returns the number of concepts.
func (l *Lattice) ConceptCount() int { return len(l.concepts) }

// LinkCount returns the number of links, including unresolvable ones.
func (l *Lattice) LinkCount() int { return len(l.links) }

// Concept returns the concept with the given ID, resolving loosely.
func (l *Lattice) Concept(id string) (*Concept, bool) {
	resolved, ok := l.Resolve(id)
	if !ok {
		return nil, false
	}
	return l.concepts[l.index[resolved]], true
}

// Resolve maps a raw endpoint to the ID of a concept in the arena.
// An exact match wins; otherwise numeric spellings compare equal, so "1",
// "01" and "1.0" all resolve to a concept with ID 1.
func (l *Lattice) Resolve(raw string) (string, bool) {
	if _, ok := l.index[raw]; ok {
		return raw, true
	}
	if key, ok := numericKey(raw); ok {
		if id, ok := l.numeric[key]; ok {
			return id, true
		}
	}
	return "", false
}

// ResolvedLinks returns the links whose endpoints both resolve, rewritten to
// concept IDs.
func (l *Lattice) ResolvedLinks() []Link {
	out := make([]Link, 0, len(l.links))
	for _, e := range l.links {
		src, ok1 := l.Resolve(e.Source)
		dst, ok2 := l.Resolve(e.Target)
		if ok1 && ok2 {
			out = append(out, Link{Source: src, Target: dst})
		}
	}
	return out
}

// Superconcepts returns the direct superconcepts of the concept.
func (l *Lattice) Superconcepts(id string) []*Concept {
	c, ok := l.Concept(id)
	if !ok {
		return nil
	}
	return l.lookup(c.Superconcepts)
}

// Subconcepts returns the direct subconcepts of the concept.
func (l *Lattice) Subconcepts(id string) []*Concept {
	c, ok := l.Concept(id)
	if !ok {
		return nil
	}
	return l.lookup(c.Subconcepts)
}

func (l *Lattice) lookup(ids []string) []*Concept {
	out := make([]*Concept, 0, len(ids))
	for _, id := range ids {
		if i, ok := l.index[id]; ok {
			out = append(out, l.concepts[i])
		}
	}
	return out
}

// BuildOrder derives the superconcept/subconcept relation from the links.
//
// For every link whose endpoints resolve, the source is recorded as a
// subconcept of the target and the target as a superconcept of the source.
// Relations computed by an earlier call are kept and an ID is never inserted
// twice, so BuildOrder is idempotent. Links with an unknown endpoint and
// links from a concept to itself are logged and skipped; their count is
// returned.
func (l *Lattice) BuildOrder() int {
	for _, c := range l.concepts {
		if c.Superconcepts == nil {
			c.Superconcepts = []string{}
		}
		if c.Subconcepts == nil {
			c.Subconcepts = []string{}
		}
	}

	skipped := 0
	for _, e := range l.links {
		src, ok1 := l.Resolve(e.Source)
		dst, ok2 := l.Resolve(e.Target)
		if !ok1 || !ok2 {
			l.logger.Warn("skipping link with unknown endpoint", "source", e.Source, "target", e.Target)
			skipped++
			continue
		}
		if src == dst {
			l.logger.Warn("skipping self link", "concept", src)
			skipped++
			continue
		}
		lower, upper := l.concepts[l.index[src]], l.concepts[l.index[dst]]
		if !slices.Contains(upper.Subconcepts, lower.ID) {
			upper.Subconcepts = append(upper.Subconcepts, lower.ID)
		}
		if !slices.Contains(lower.Superconcepts, upper.ID) {
			lower.Superconcepts = append(lower.Superconcepts, upper.ID)
		}
	}
	return skipped
}

// numericKey returns a canonical spelling of s if it is a number.
func numericKey(s string) (string, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
