package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/latticeviz/pkg/cache"
	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

const dataset = `{
	"nodes": [
		{"id": 1, "label": "Extent{duck, eagle} Intent{}"},
		{"id": 2, "label": "Extent{duck} Intent{swims}"},
		{"id": 3, "label": "Extent{eagle} Intent{flies}"}
	],
	"links": [{"source": 2, "target": 1}, {"source": 3, "target": 1}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "api:"), lattice.DiscardLogger())
	srv := httptest.NewServer(New(runner, pipeline.Options{}, pipeline.ServerConfig{MaxBodyBytes: 4096}, nil).Handler())
	t.Cleanup(func() {
		srv.Close()
		runner.Close()
	})
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv.URL+"/v1/analyze?skip_minimize=true", dataset)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var res pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Concepts) != 3 {
		t.Errorf("concepts = %d, want 3", len(res.Concepts))
	}
	if res.Metrics.TotalLinks != 2 {
		t.Errorf("links = %d, want 2", res.Metrics.TotalLinks)
	}
	if res.CacheHit {
		t.Error("first request should not hit the cache")
	}

	again := post(t, srv.URL+"/v1/analyze?skip_minimize=true", dataset)
	var cached pipeline.Result
	if err := json.NewDecoder(again.Body).Decode(&cached); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cached.CacheHit {
		t.Error("second request should hit the cache")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"empty body", "", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"not json", "", "{", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"nodes not array", "", `{"nodes": 1, "links": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad parameter", "?width=wide", dataset, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"negative width", "?width=-5", dataset, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"too large", "", strings.Repeat(" ", 5000), http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/analyze"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
			if body.RequestID == "" {
				t.Error("error response should carry the request id")
			}
		})
	}
}

func TestPath(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(PathRequest{Dataset: json.RawMessage(dataset), Start: "2", End: "3"})
	resp := post(t, srv.URL+"/v1/path", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out PathResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(out.Path, []string{"2", "1", "3"}) || out.Length != 2 {
		t.Errorf("path = %v (length %d), want [2 1 3] (length 2)", out.Path, out.Length)
	}
}

func TestPathUnknownConcept(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(PathRequest{Dataset: json.RawMessage(dataset), Start: "2", End: "99"})
	resp := post(t, srv.URL+"/v1/path", string(body))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/v1/path", `{"start": "1", "end": "2"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing dataset status = %d, want 400", resp.StatusCode)
	}
}

func TestFilter(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(FilterRequest{Dataset: json.RawMessage(dataset), Objects: []string{"duck"}, Attributes: []string{"flies"}})
	resp := post(t, srv.URL+"/v1/filter", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out FilterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]lattice.Color{
		"1": lattice.ColorExtent,
		"2": lattice.ColorExtent,
		"3": lattice.ColorIntent,
	}
	for id, c := range want {
		if out.Colors[id] != c {
			t.Errorf("color[%s] = %s, want %s", id, out.Colors[id], c)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidConcept, http.StatusBadRequest},
		{errors.ErrCodeConceptNotFound, http.StatusNotFound},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeNetwork, http.StatusBadGateway},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
