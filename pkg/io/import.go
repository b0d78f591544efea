package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// Graph is the graph form of a dataset.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node is a concept in the graph form.
type Node struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
	Level int    `json:"level,omitempty"`
}

// Link is an order edge in the graph form.
type Link struct {
	Source ID `json:"source"`
	Target ID `json:"target"`
}

// ID is a concept identifier that decodes from a JSON string, a number, or
// an object with an "id" field. It always encodes as a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	case '{':
		var ref struct {
			ID ID `json:"id"`
		}
		if err := json.Unmarshal(b, &ref); err != nil {
			return err
		}
		*id = ref.ID
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id must be a string, number or object: %s", b)
		}
		*id = ID(n.String())
	}
	return nil
}

// RawLattice is the serialized lattice form of a dataset.
type RawLattice struct {
	Objects    []string        `json:"objects"`
	Properties []string        `json:"properties"`
	Context    json.RawMessage `json:"context,omitempty"`
	Lattice    [][][]int       `json:"lattice"`
}

// Decode reads a dataset in either form from r and returns its graph form.
// The raw form is recognized by a top-level "lattice" key without "nodes".
// Decode does not close r.
func Decode(r io.Reader) (Graph, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}

	if _, hasNodes := top["nodes"]; !hasNodes {
		if raw, ok := top["lattice"]; ok {
			if !isArray(raw) {
				return Graph{}, errors.New(errors.ErrCodeInvalidInput, "lattice must be an array")
			}
			var rl RawLattice
			if err := remarshal(top, &rl); err != nil {
				return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode raw lattice")
			}
			return FromRaw(rl), nil
		}
	}

	for _, key := range []string{"nodes", "links"} {
		if raw, ok := top[key]; !ok || !isArray(raw) {
			return Graph{}, errors.New(errors.ErrCodeInvalidInput, "%s must be an array", key)
		}
	}

	var g Graph
	if err := json.Unmarshal(top["nodes"], &g.Nodes); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode nodes")
	}
	if err := json.Unmarshal(top["links"], &g.Links); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode links")
	}
	return g, nil
}

// ToLattice builds a lattice arena from the graph form. Nodes without an ID
// and nodes repeating an earlier ID are skipped with a warning.
func ToLattice(g Graph, logger *log.Logger) *lattice.Lattice {
	l := lattice.New(logger)
	for i, n := range g.Nodes {
		err := l.AddConcept(lattice.Concept{ID: string(n.ID), Label: n.Label, Level: n.Level})
		if err != nil {
			l.Logger().Warn("skipping node", "index", i, "id", n.ID, "err", err)
		}
	}
	for _, e := range g.Links {
		l.AddLink(string(e.Source), string(e.Target))
	}
	return l
}

// ReadJSON decodes a dataset from r into a lattice.
//
// ReadJSON returns an error if the JSON is malformed or if the "nodes" or
// "links" arrays are missing. The returned lattice is independent of r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader, logger *log.Logger) (*lattice.Lattice, error) {
	g, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return ToLattice(g, logger), nil
}

// ImportJSON reads the dataset file at path and returns its lattice.
//
// ImportJSON returns the same validation errors as [ReadJSON]; a missing
// file yields FILE_NOT_FOUND.
func ImportJSON(path string, logger *log.Logger) (*lattice.Lattice, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, logger)
}

// FromRaw converts a serialized lattice to the graph form.
//
// Entry i becomes node i+1 labelled "Extent\n{...}\nIntent\n{...}", with
// "Unknown" for indices outside the object or property tables. Its level is
// 1 + the maximum level of its upper neighbors, or 1 when it has none; a
// neighbor reached again while its own level is being computed counts as 0.
// Every upper neighbor u adds a link i→u and every lower neighbor d adds a
// link d→i, so a consistent lattice lists each edge twice.
func FromRaw(raw RawLattice) Graph {
	n := len(raw.Lattice)
	g := Graph{Nodes: make([]Node, n), Links: []Link{}}

	levels := make([]int, n)
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, n)
	var level func(i int) int
	level = func(i int) int {
		switch state[i] {
		case done:
			return levels[i]
		case visiting:
			return 0
		}
		state[i] = visiting
		best := 0
		for _, up := range rawField(raw.Lattice[i], 2) {
			if up >= 0 && up < n {
				best = max(best, level(up))
			}
		}
		levels[i] = best + 1
		state[i] = done
		return levels[i]
	}

	for i, entry := range raw.Lattice {
		g.Nodes[i] = Node{
			ID:    rawID(i),
			Label: "Extent\n{" + lookupJoin(raw.Objects, rawField(entry, 0)) + "}\nIntent\n{" + lookupJoin(raw.Properties, rawField(entry, 1)) + "}",
			Level: level(i),
		}
		for _, up := range rawField(entry, 2) {
			g.Links = append(g.Links, Link{Source: rawID(i), Target: rawID(up)})
		}
		for _, down := range rawField(entry, 3) {
			g.Links = append(g.Links, Link{Source: rawID(down), Target: rawID(i)})
		}
	}
	return g
}

func rawID(index int) ID { return ID(strconv.Itoa(index + 1)) }

func rawField(entry [][]int, k int) []int {
	if k < len(entry) {
		return entry[k]
	}
	return nil
}

func lookupJoin(table []string, indices []int) string {
	var buf bytes.Buffer
	for i, idx := range indices {
		if i > 0 {
			buf.WriteString(", ")
		}
		if idx >= 0 && idx < len(table) {
			buf.WriteString(table[idx])
		} else {
			buf.WriteString("Unknown")
		}
	}
	return buf.String()
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func remarshal(top map[string]json.RawMessage, v any) error {
	b, err := json.Marshal(top)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
