package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/lattice"
)

func TestReadJSONGraphForm(t *testing.T) {
	input := `{
		"nodes": [
			{"id": 1, "label": "Extent{o1, o2} Intent{}"},
			{"id": "2", "label": "Extent{o1} Intent{a1}", "level": 2}
		],
		"links": [{"source": 2, "target": {"id": 1}}]
	}`
	l, err := ReadJSON(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if l.ConceptCount() != 2 || l.LinkCount() != 1 {
		t.Fatalf("got %d concepts, %d links", l.ConceptCount(), l.LinkCount())
	}
	c, ok := l.Concept("2")
	if !ok || c.Level != 2 {
		t.Errorf("concept 2 = %+v", c)
	}
	if got := l.Links()[0]; got.Source != "2" || got.Target != "1" {
		t.Errorf("link = %+v, want 2->1", got)
	}

	l.BuildOrder()
	top, _ := l.Concept("1")
	if !slices.Equal(top.Subconcepts, []string{"2"}) {
		t.Errorf("subconcepts of 1 = %v, want [2]", top.Subconcepts)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"missing nodes", `{"links": []}`, errors.ErrCodeInvalidInput},
		{"missing links", `{"nodes": []}`, errors.ErrCodeInvalidInput},
		{"nodes not array", `{"nodes": {}, "links": []}`, errors.ErrCodeInvalidInput},
		{"links not array", `{"nodes": [], "links": "x"}`, errors.ErrCodeInvalidInput},
		{"lattice not array", `{"lattice": 3}`, errors.ErrCodeInvalidInput},
		{"bad endpoint", `{"nodes": [], "links": [{"source": true, "target": "1"}]}`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadJSONSkipsInvalidNodes(t *testing.T) {
	input := `{
		"nodes": [{"label": "Extent{} Intent{}"}, {"id": "a"}, {"id": "a"}, {"id": "b"}],
		"links": [{"source": "b", "target": "missing"}]
	}`
	l, err := ReadJSON(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if l.ConceptCount() != 2 {
		t.Errorf("concepts = %d, want 2", l.ConceptCount())
	}
	if skipped := l.BuildOrder(); skipped != 1 {
		t.Errorf("skipped links = %d, want 1", skipped)
	}
}

func TestIDDecoding(t *testing.T) {
	tests := []struct {
		input string
		want  ID
	}{
		{`"x"`, "x"},
		{`7`, "7"},
		{`7.5`, "7.5"},
		{`{"id": 3}`, "3"},
		{`{"id": "n"}`, "n"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id ID
		if err := id.UnmarshalJSON([]byte(tt.input)); err != nil {
			t.Errorf("UnmarshalJSON(%s): %v", tt.input, err)
			continue
		}
		if id != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %q, want %q", tt.input, id, tt.want)
		}
	}
}

func TestFromRaw(t *testing.T) {
	raw := RawLattice{
		Objects:    []string{"duck", "swan"},
		Properties: []string{"bird", "swims"},
		Lattice: [][][]int{
			{{0, 1}, {0}, {}, {1}},
			{{0}, {0, 1}, {0}, {}},
			{{5}, {}, {1}, {}},
		},
	}
	g := FromRaw(raw)

	want := []Node{
		{ID: "1", Label: "Extent\n{duck, swan}\nIntent\n{bird}", Level: 1},
		{ID: "2", Label: "Extent\n{duck}\nIntent\n{bird, swims}", Level: 2},
		{ID: "3", Label: "Extent\n{Unknown}\nIntent\n{}", Level: 3},
	}
	if !slices.Equal(g.Nodes, want) {
		t.Errorf("nodes = %+v\nwant %+v", g.Nodes, want)
	}
	wantLinks := []Link{{"2", "1"}, {"2", "1"}, {"3", "2"}}
	if !slices.Equal(g.Links, wantLinks) {
		t.Errorf("links = %+v, want %+v", g.Links, wantLinks)
	}

	ext, in := lattice.ParseLabel(g.Nodes[1].Label)
	if !slices.Equal(ext, []string{"duck"}) || !slices.Equal(in, []string{"bird", "swims"}) {
		t.Errorf("ParseLabel = %v / %v", ext, in)
	}
}

func TestFromRawCycle(t *testing.T) {
	g := FromRaw(RawLattice{Lattice: [][][]int{
		{{}, {}, {1}, {}},
		{{}, {}, {0}, {}},
	}})
	if g.Nodes[0].Level != 2 || g.Nodes[1].Level != 1 {
		t.Errorf("levels = %d, %d, want 2, 1", g.Nodes[0].Level, g.Nodes[1].Level)
	}
}

func TestReadJSONRawForm(t *testing.T) {
	input := `{
		"objects": ["duck"],
		"properties": ["bird"],
		"context": [[true]],
		"lattice": [[[0], [], [], [1]], [[], [0], [0], []]]
	}`
	l, err := ReadJSON(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if l.ConceptCount() != 2 || l.LinkCount() != 2 {
		t.Fatalf("got %d concepts, %d links", l.ConceptCount(), l.LinkCount())
	}
	l.BuildOrder()
	bottom, _ := l.Concept("2")
	if !slices.Equal(bottom.Superconcepts, []string{"1"}) {
		t.Errorf("superconcepts = %v, want [1] once", bottom.Superconcepts)
	}
}

func TestRoundTrip(t *testing.T) {
	l := lattice.New(nil)
	_ = l.AddConcept(lattice.Concept{ID: "top", Label: "Extent{o1} Intent{}", Level: 1})
	_ = l.AddConcept(lattice.Concept{ID: "bottom", Extent: []string{}, Intent: []string{"a1"}, Level: 2})
	l.AddLink("bottom", "top")

	var buf bytes.Buffer
	if err := WriteJSON(ToGraph(l), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	back, err := ReadJSON(&buf, nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	c, ok := back.Concept("bottom")
	if !ok {
		t.Fatal("bottom missing after round trip")
	}
	if c.Label != "Extent{} Intent{a1}" || c.Level != 2 {
		t.Errorf("bottom = %q level %d", c.Label, c.Level)
	}
	if back.LinkCount() != 1 {
		t.Errorf("links = %d, want 1", back.LinkCount())
	}
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lattice.json")

	l := lattice.New(nil)
	_ = l.AddConcept(lattice.Concept{ID: "1", Label: "Extent{o1} Intent{a1}"})
	if err := ExportJSON(ToGraph(l), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	got, err := ImportJSON(path, nil)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.ConceptCount() != 1 {
		t.Errorf("concepts = %d, want 1", got.ConceptCount())
	}

	_, err = ImportJSON(filepath.Join(dir, "missing.json"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}
