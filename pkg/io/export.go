package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// ToGraph returns the graph form of a lattice: concept IDs, labels and
// levels, and the links as given. The result can be re-imported with
// [ReadJSON].
func ToGraph(l *lattice.Lattice) Graph {
	g := Graph{
		Nodes: make([]Node, 0, l.ConceptCount()),
		Links: make([]Link, 0, l.LinkCount()),
	}
	for _, c := range l.Concepts() {
		label := c.Label
		if label == "" && (c.Extent != nil || c.Intent != nil) {
			label = lattice.FormatLabel(c.Extent, c.Intent)
		}
		g.Nodes = append(g.Nodes, Node{ID: ID(c.ID), Label: label, Level: c.Level})
	}
	for _, e := range l.Links() {
		g.Links = append(g.Links, Link{Source: ID(e.Source), Target: ID(e.Target)})
	}
	return g
}

// WriteJSON encodes v as indented JSON and writes it to w.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(v, f)
}
