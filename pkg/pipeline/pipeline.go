// Package pipeline provides the analysis pipeline for latticeviz.
//
// This package runs the complete parse → order → reduce → layout → metrics
// → implications sequence that is shared by the CLI and the HTTP API. By
// centralizing it, both entry points run the stages in the same order with
// the same defaults.
//
// # Architecture
//
// The pipeline has these stages, run in order over one lattice arena:
//
//  1. Parse: extract extent and intent from every concept label
//  2. Order: derive superconcepts and subconcepts from the links
//  3. Reduce: propagate extents and intents and compute reduced labels
//  4. Layout: assign layers, spacing and barycenter order
//  5. Metrics: density, stability and neighborhood sizes
//  6. Implications: canonical base, optionally minimized
//  7. Filter: recolor concepts matching object or attribute tokens
//
// Every stage mutates the concepts in place. A fatal input error aborts the
// run; per-concept problems are logged and skipped.
//
// # Usage
//
// Create a Runner and execute the pipeline on a dataset:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Metrics.Density)
//
// Run the stages on an already built lattice without caching:
//
//	result, err := pipeline.Analyze(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/latticeviz/pkg/cache"
	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/implication"
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/layout"
	"github.com/matzehuels/latticeviz/pkg/metrics"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultPadding is the default horizontal and vertical padding.
	DefaultPadding = layout.DefaultPadding

	// DefaultMinSpacing is the default spacing below the narrowest layers.
	DefaultMinSpacing = layout.DefaultMinSpacing

	// DefaultMaxSpacing is the default spacing below the widest layer.
	DefaultMaxSpacing = layout.DefaultMaxSpacing
)

// Format constants for rendered outputs.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Stage names reported to hooks and in logs.
const (
	StageParse        = "parse"
	StageOrder        = "order"
	StageReduce       = "reduce"
	StageLayout       = "layout"
	StageMetrics      = "metrics"
	StageImplications = "implications"
	StageFilter       = "filter"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests and TOML
// decoding for config files.
type Options struct {
	// Layout options
	Width      float64 `json:"width,omitempty" toml:"width"`
	Height     float64 `json:"height,omitempty" toml:"height"`
	Padding    float64 `json:"padding,omitempty" toml:"padding"`
	MinSpacing float64 `json:"min_spacing,omitempty" toml:"min_spacing"`
	MaxSpacing float64 `json:"max_spacing,omitempty" toml:"max_spacing"`

	// Analysis options
	SkipImplications bool `json:"skip_implications,omitempty" toml:"skip_implications"`
	SkipMinimize     bool `json:"skip_minimize,omitempty" toml:"skip_minimize"`

	// Filter options; concepts whose label contains any token are recolored.
	FilterObjects    []string `json:"filter_objects,omitempty" toml:"-"`
	FilterAttributes []string `json:"filter_attributes,omitempty" toml:"-"`

	// Refresh bypasses the cache for reads.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run.
	ID string `json:"id"`

	// DatasetHash is the content hash of the input dataset, if known.
	DatasetHash string `json:"dataset_hash,omitempty"`

	// Concepts are the analyzed concepts in input order.
	Concepts []*lattice.Concept `json:"nodes"`

	// Links are the order edges as given.
	Links []lattice.Link `json:"links"`

	// Layout holds the layers and canvas size.
	Layout layout.Layout `json:"layout"`

	// Metrics summarizes the lattice.
	Metrics metrics.Metrics `json:"metrics"`

	// Implications is the canonical base, empty when skipped.
	Implications []implication.Implication `json:"implications"`

	// Colors maps concept IDs to filter colors, empty without filter tokens.
	Colors map[string]lattice.Color `json:"colors,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the result came from the cache.
	CacheHit bool `json:"cache_hit"`

	lattice *lattice.Lattice
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ConceptCount     int           `json:"concepts"`
	LinkCount        int           `json:"links"`
	SkippedLinks     int           `json:"skipped_links"`
	LayerCount       int           `json:"layers"`
	ParseTime        time.Duration `json:"parse_ns"`
	ReduceTime       time.Duration `json:"reduce_ns"`
	LayoutTime       time.Duration `json:"layout_ns"`
	MetricsTime      time.Duration `json:"metrics_ns"`
	ImplicationsTime time.Duration `json:"implications_ns"`
}

// Lattice returns the analyzed lattice. For results read back from the
// cache the arena is rebuilt from Concepts and Links on first use.
func (r *Result) Lattice() *lattice.Lattice {
	if r.lattice != nil {
		return r.lattice
	}
	l := lattice.New(nil)
	for _, c := range r.Concepts {
		_ = l.AddConcept(*c)
	}
	for _, e := range r.Links {
		l.AddLink(e.Source, e.Target)
	}
	l.BuildOrder()
	// Positions survive the round trip; the placed flag does not.
	for _, layer := range r.Layout.Layers {
		for _, id := range layer {
			if c, ok := l.Concept(id); ok {
				c.Placed = true
			}
		}
	}
	r.lattice = l
	r.Concepts = l.Concepts()
	return l
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateDimensions(o.Width, o.Height, o.Padding, o.MinSpacing, o.MaxSpacing); err != nil {
		return err
	}
	if err := errors.ValidateFilterTokens(o.FilterObjects); err != nil {
		return err
	}
	if err := errors.ValidateFilterTokens(o.FilterAttributes); err != nil {
		return err
	}
	o.SetDefaults()
	if o.MinSpacing > o.MaxSpacing {
		return errors.New(errors.ErrCodeInvalidConfig, "min spacing %.0f exceeds max spacing %.0f", o.MinSpacing, o.MaxSpacing)
	}
	o.validated = true
	return nil
}

// SetDefaults sets default values for zero fields.
func (o *Options) SetDefaults() {
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
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ShouldFilter reports whether any filter tokens are set.
func (o *Options) ShouldFilter() bool {
	return len(o.FilterObjects) > 0 || len(o.FilterAttributes) > 0
}

// LayoutOptions returns the options for the layout stage.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Width:      o.Width,
		Height:     o.Height,
		Padding:    o.Padding,
		MinSpacing: o.MinSpacing,
		MaxSpacing: o.MaxSpacing,
	}
}

// AnalysisKeyOpts returns cache key options for an analysis.
// Filter tokens are not part of the key; filtering is reapplied after a hit.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Width:        o.Width,
		Height:       o.Height,
		Padding:      o.Padding,
		MinSpacing:   o.MinSpacing,
		MaxSpacing:   o.MaxSpacing,
		Implications: !o.SkipImplications,
		Minimize:     !o.SkipMinimize,
	}
}
