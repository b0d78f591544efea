package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/latticeviz/pkg/lattice"
)

// pointsPerInch converts layout pixels to Graphviz points for pinned nodes.
const pointsPerInch = 72.0

// Options configures Hasse diagram rendering.
type Options struct {
	// Detailed shows the concept ID with the full intent and extent
	// instead of the reduced labels.
	Detailed bool

	// Height is the layout height. Graphviz places the origin at the
	// bottom left, so Y coordinates are flipped against it.
	Height float64
}

// ToDOT converts a laid-out lattice to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Placed concepts get a pinned position; unplaced ones are left for neato
// to position. Links with unknown endpoints are skipped.
func ToDOT(l *lattice.Lattice, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("\n")

	for _, c := range l.Concepts() {
		attrs := fmtAttrs(c, fmtLabel(c, opts.Detailed), opts.Height)
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.ResolvedLinks() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Target, e.Source)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c *lattice.Concept, detailed bool) string {
	if detailed {
		intent, extent := c.FullIntent, c.FullExtent
		if intent == nil {
			intent = c.Intent
		}
		if extent == nil {
			extent = c.Extent
		}
		return c.ID + "\n" + strings.Join(intent, ", ") + "\n" + strings.Join(extent, ", ")
	}
	return strings.Join(c.ReducedIntent, ", ") + "\n" + strings.Join(c.ReducedExtent, ", ")
}

func fmtAttrs(c *lattice.Concept, label string, height float64) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", string(c.Color)))
	}
	if c.Placed {
		y := c.Y
		if height > 0 {
			y = height - c.Y
		}
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", c.X, y))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine.
// Returns the SVG bytes with a normalized viewBox.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
