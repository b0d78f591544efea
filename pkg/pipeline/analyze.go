package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/implication"
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/lattice/transform"
	"github.com/matzehuels/latticeviz/pkg/layout"
	"github.com/matzehuels/latticeviz/pkg/metrics"
	"github.com/matzehuels/latticeviz/pkg/observability"
)

// Analyze runs every stage over l and returns the result. The lattice is
// mutated in place and stays reachable through [Result.Lattice].
//
// The context is checked between stages; a cancelled run returns the
// context error and leaves the lattice partially analyzed.
func Analyze(ctx context.Context, l *lattice.Lattice, opts Options) (*Result, error) {
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no lattice to analyze")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	res := &Result{
		ID:      uuid.NewString(),
		lattice: l,
		Stats: Stats{
			ConceptCount: l.ConceptCount(),
			LinkCount:    l.LinkCount(),
		},
	}
	n := l.ConceptCount()

	parseTime, err := runStage(ctx, StageParse, n, func() error {
		l.ParseLabels()
		return nil
	})
	if err != nil {
		return nil, err
	}
	orderTime, err := runStage(ctx, StageOrder, n, func() error {
		res.Stats.SkippedLinks = l.BuildOrder()
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Stats.ParseTime = parseTime + orderTime
	logger.Info("parsed lattice",
		"concepts", n,
		"links", l.LinkCount(),
		"duration", res.Stats.ParseTime)
	if res.Stats.SkippedLinks > 0 {
		logger.Warn("skipped links with unknown endpoints", "count", res.Stats.SkippedLinks)
	}

	res.Stats.ReduceTime, err = runStage(ctx, StageReduce, n, func() error {
		return transform.ReduceLabels(l)
	})
	if err != nil {
		return nil, err
	}

	res.Stats.LayoutTime, err = runStage(ctx, StageLayout, n, func() error {
		lay, err := layout.Build(l, opts.LayoutOptions())
		res.Layout = lay
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Stats.LayerCount = len(res.Layout.Layers)
	logger.Info("computed layout",
		"layers", res.Stats.LayerCount,
		"mode", res.Layout.Mode,
		"crossings", res.Layout.Crossings,
		"duration", res.Stats.LayoutTime)

	res.Stats.MetricsTime, err = runStage(ctx, StageMetrics, n, func() error {
		res.Metrics = metrics.Calculate(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Implications = []implication.Implication{}
	if !opts.SkipImplications {
		res.Stats.ImplicationsTime, err = runStage(ctx, StageImplications, n, func() error {
			res.Implications = implication.Compute(l, !opts.SkipMinimize)
			return nil
		})
		if err != nil {
			return nil, err
		}
		logger.Info("derived implications",
			"count", len(res.Implications),
			"duration", res.Stats.ImplicationsTime)
	}

	if opts.ShouldFilter() {
		res.applyFilter(ctx, opts)
	}

	res.Concepts = l.Concepts()
	res.Links = l.Links()
	return res, nil
}

// applyFilter recolors the concepts of the result.
func (r *Result) applyFilter(ctx context.Context, opts Options) {
	l := r.Lattice()
	_, _ = runStage(context.WithoutCancel(ctx), StageFilter, l.ConceptCount(), func() error {
		r.Colors = lattice.Filter(l, opts.FilterObjects, opts.FilterAttributes)
		return nil
	})
}

// runStage times fn and reports it to the pipeline hooks. It returns the
// context error instead of running fn when ctx is done.
func runStage(ctx context.Context, stage string, conceptCount int, fn func() error) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage, conceptCount)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, stage, d, err)
	if err != nil {
		return d, fmt.Errorf("%s: %w", stage, err)
	}
	return d, nil
}
