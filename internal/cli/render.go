package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // svg (default), dot, json
	detailed bool     // full intents and extents instead of reduced labels
	objects  string   // comma-separated object filter tokens
	attrs    string   // comma-separated attribute filter tokens
}

// renderCommand draws the positioned Hasse diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var flags analysisFlags
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the Hasse diagram to SVG, DOT or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], &flags, &opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label concepts with full intents and extents")
	cmd.Flags().StringVar(&opts.objects, "objects", "", "highlight concepts matching these objects (comma-separated)")
	cmd.Flags().StringVar(&opts.attrs, "attributes", "", "highlight concepts matching these attributes (comma-separated)")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, flags *analysisFlags, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	res, err := c.analyze(cmd, input, flags, func(o *pipeline.Options) {
		o.FilterObjects = splitTokens(opts.objects)
		o.FilterAttributes = splitTokens(opts.attrs)
	})
	if err != nil {
		return err
	}

	artifacts, err := renderWithSpinner(ctx, c.Logger.GetLevel() > LogDebug, res, pipeline.RenderOptions{
		Formats:  opts.formats,
		Detailed: opts.detailed,
	})
	if err != nil {
		return err
	}

	w := c.stdout()
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if path == input {
			path = base + "_result." + format
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(artifacts[format]))
		printFile(w, path)
	}
	return nil
}

// renderWithSpinner renders res, showing a spinner on stderr when the
// log level hides debug progress.
func renderWithSpinner(ctx context.Context, spin bool, res *pipeline.Result, opts pipeline.RenderOptions) (map[string][]byte, error) {
	if !spin {
		return pipeline.Render(ctx, res, opts)
	}
	s := newSpinner(ctx, os.Stderr, "Rendering...")
	s.Start()
	artifacts, err := pipeline.Render(ctx, res, opts)
	s.Stop()
	return artifacts, err
}

// writeFile writes data to path, or to stdout for "-".
func writeFile(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
