package pipeline

import (
	"bytes"
	"context"
	"fmt"

	lvio "github.com/matzehuels/latticeviz/pkg/io"
	"github.com/matzehuels/latticeviz/pkg/render/nodelink"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats []string
	// Detailed shows full intents and extents instead of reduced labels.
	Detailed bool
}

// Render generates output artifacts for a result, keyed by format.
//
// JSON is the result itself; DOT and SVG draw the Hasse diagram at the
// computed positions.
func Render(ctx context.Context, res *Result, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	for _, f := range opts.Formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	dot := nodelink.ToDOT(res.Lattice(), nodelink.Options{
		Detailed: opts.Detailed,
		Height:   res.Layout.Height,
	})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = lvio.WriteJSON(res, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
