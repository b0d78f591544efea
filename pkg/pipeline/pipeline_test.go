package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/latticeviz/pkg/cache"
	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/observability"
)

const scenario = `{
	"nodes": [
		{"id": 1, "label": "Extent{o1, o2} Intent{}"},
		{"id": 2, "label": "Extent{o1} Intent{a1}"}
	],
	"links": [{"source": 2, "target": 1}]
}`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Empty options should pass: %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Padding != DefaultPadding {
		t.Errorf("Padding should be %v, got %v", DefaultPadding, opts.Padding)
	}
	if opts.MinSpacing != DefaultMinSpacing || opts.MaxSpacing != DefaultMaxSpacing {
		t.Errorf("spacing = %v..%v", opts.MinSpacing, opts.MaxSpacing)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Width: 1024}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.LayoutOptions()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.LayoutOptions() != first {
		t.Error("layout options changed on second call")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative width", Options{Width: -1}},
		{"inverted spacing", Options{MinSpacing: 150, MaxSpacing: 80}},
		{"min above default max", Options{MinSpacing: 200}},
		{"padding too wide", Options{Width: 100, Padding: 60}},
		{"too many tokens", Options{FilterObjects: make([]string, 101)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAnalysisKeyOpts(t *testing.T) {
	a := Options{}
	a.SetDefaults()
	b := a
	b.SkipMinimize = true
	if a.AnalysisKeyOpts() == b.AnalysisKeyOpts() {
		t.Error("minimize should change the key options")
	}
	c := a
	c.FilterObjects = []string{"duck"}
	if a.AnalysisKeyOpts() != c.AnalysisKeyOpts() {
		t.Error("filter tokens should not change the key options")
	}
}

func TestExecuteScenario(t *testing.T) {
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	res, err := r.Execute(context.Background(), []byte(scenario), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ID == "" {
		t.Error("result should have an ID")
	}

	l := res.Lattice()
	top, _ := l.Concept("1")
	bottom, _ := l.Concept("2")
	if !slices.Equal(top.Subconcepts, []string{"2"}) {
		t.Errorf("top subconcepts = %v, want [2]", top.Subconcepts)
	}
	if !slices.Equal(bottom.FullExtent, []string{"o1"}) {
		t.Errorf("bottom fullExtent = %v, want [o1]", bottom.FullExtent)
	}
	if !slices.Equal(top.FullExtent, []string{"o1", "o2"}) {
		t.Errorf("top fullExtent = %v, want [o1 o2]", top.FullExtent)
	}

	if res.Metrics.Density != 1 {
		t.Errorf("density = %v, want 1", res.Metrics.Density)
	}
	if len(res.Layout.Layers) != 2 {
		t.Errorf("layers = %v, want 2 layers", res.Layout.Layers)
	}
	if top.Y >= bottom.Y {
		t.Errorf("top.Y = %v should be above bottom.Y = %v", top.Y, bottom.Y)
	}

	// closure({}) = {a1}, so the empty premise implies a1.
	if len(res.Implications) != 1 || !slices.Equal(res.Implications[0].Conclusion, []string{"a1"}) {
		t.Errorf("implications = %+v", res.Implications)
	}
}

func TestExecuteSkipImplications(t *testing.T) {
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	res, err := r.Execute(context.Background(), []byte(scenario), Options{SkipImplications: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Implications == nil || len(res.Implications) != 0 {
		t.Errorf("implications = %#v, want empty", res.Implications)
	}
}

func TestExecuteInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	_, err := r.Execute(context.Background(), []byte(`{"nodes": 3, "links": []}`), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, lattice.DiscardLogger())
	defer r.Close()
	ctx := context.Background()

	first, err := r.Execute(ctx, []byte(scenario), Options{})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, []byte(scenario), Options{FilterAttributes: []string{"a1"}})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if second.Metrics != first.Metrics {
		t.Errorf("metrics differ: %+v vs %+v", second.Metrics, first.Metrics)
	}
	if got := second.Colors["2"]; got != lattice.ColorIntent {
		t.Errorf("color of 2 = %q, want %q", got, lattice.ColorIntent)
	}
	bottom, ok := second.Lattice().Concept("2")
	if !ok || !slices.Equal(bottom.Superconcepts, []string{"1"}) {
		t.Errorf("rebuilt lattice lost the order: %+v", bottom)
	}

	refreshed, err := r.Execute(ctx, []byte(scenario), Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.json")
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	if _, err := r.ExecuteFile(context.Background(), path, Options{}); err != nil {
		t.Errorf("ExecuteFile: %v", err)
	}
	_, err := r.ExecuteFile(context.Background(), path+".missing", Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := lattice.New(nil)
	_ = l.AddConcept(lattice.Concept{ID: "a", Label: "Extent{} Intent{}"})
	if _, err := Analyze(ctx, l, Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []string
}

func (h *recordingHooks) OnStageComplete(_ context.Context, stage string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func TestAnalyzeReportsStages(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	l := lattice.New(nil)
	_ = l.AddConcept(lattice.Concept{ID: "a", Label: "Extent{o} Intent{x}"})
	if _, err := Analyze(context.Background(), l, Options{FilterObjects: []string{"o"}}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := []string{StageParse, StageOrder, StageReduce, StageLayout, StageMetrics, StageImplications, StageFilter}
	if !slices.Equal(hooks.stages, want) {
		t.Errorf("stages = %v, want %v", hooks.stages, want)
	}
}

func TestResultJSON(t *testing.T) {
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	res, err := r.Execute(context.Background(), []byte(scenario), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, key := range []string{`"nodes"`, `"reducedExtent"`, `"layout"`, `"implications"`, `"density"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing %s", key)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\"): %v", err)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}

	good := filepath.Join(dir, "good.toml")
	_ = os.WriteFile(good, []byte(`
[analysis]
width = 1024
skip_minimize = true

[cache]
redis_addr = "localhost:6379"

[server]
addr = ":9090"
`), 0o644)
	cfg, err = LoadConfig(good)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Width != 1024 || !cfg.Analysis.SkipMinimize {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Server.Addr != ":9090" {
		t.Errorf("cache/server = %+v / %+v", cfg.Cache, cfg.Server)
	}

	bad := filepath.Join(dir, "bad.toml")
	_ = os.WriteFile(bad, []byte("[analysis]\nwidht = 3\n"), 0o644)
	if _, err := LoadConfig(bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key err = %v, want INVALID_CONFIG", err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRender(t *testing.T) {
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	res, err := r.Execute(context.Background(), []byte(scenario), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	artifacts, err := Render(context.Background(), res, RenderOptions{Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatDOT]), `"1" -- "2"`) {
		t.Errorf("DOT missing edge:\n%s", artifacts[FormatDOT])
	}
	if !json.Valid(artifacts[FormatJSON]) {
		t.Error("JSON artifact is not valid JSON")
	}

	if _, err := Render(context.Background(), res, RenderOptions{Formats: []string{"png"}}); err == nil {
		t.Error("png should be rejected")
	}
}

func TestCachedResultKeepsPositions(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, lattice.DiscardLogger())
	ctx := context.Background()
	if _, err := r.Execute(ctx, []byte(scenario), Options{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	res, err := r.Execute(ctx, []byte(scenario), Options{})
	if err != nil || !res.CacheHit {
		t.Fatalf("expected cache hit, err = %v", err)
	}
	artifacts, err := Render(ctx, res, RenderOptions{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "pos=") {
		t.Errorf("cached DOT lost positions:\n%s", artifacts[FormatDOT])
	}
}

func TestExampleDatasets(t *testing.T) {
	tests := []struct {
		file     string
		concepts int
	}{
		{"animals.json", 9},
		{"animals_raw.json", 4},
	}
	r := NewRunner(nil, nil, lattice.DiscardLogger())
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := r.ExecuteFile(context.Background(), filepath.Join("..", "..", "examples", "lattices", tt.file), Options{})
			if err != nil {
				t.Fatalf("ExecuteFile: %v", err)
			}
			if len(res.Concepts) != tt.concepts {
				t.Errorf("concepts = %d, want %d", len(res.Concepts), tt.concepts)
			}
			if res.Stats.SkippedLinks != 0 {
				t.Errorf("skipped links = %d, want 0", res.Stats.SkippedLinks)
			}
		})
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "examples", "latticeviz.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Width != 1024 || cfg.Server.MaxBodyBytes != 10485760 {
		t.Errorf("config = %+v", cfg)
	}
}
