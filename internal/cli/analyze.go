package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	lvio "github.com/matzehuels/latticeviz/pkg/io"
	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

// analyzeCommand runs the full pipeline and writes the result as JSON.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analysisFlags
	var output string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a lattice and write the result as JSON",
		Long: `Analyze parses concept labels, derives the order, reduces labels, lays out
the Hasse diagram and computes metrics and the canonical base. The result is
written as JSON to stdout or to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd, args[0], &flags, nil)
			if err != nil {
				return err
			}
			if output == "" {
				return lvio.WriteJSON(res, c.stdout())
			}
			if err := lvio.ExportJSON(res, output); err != nil {
				return err
			}
			w := c.stdout()
			printSuccess(w, "Analyzed %s", args[0])
			printStats(w, len(res.Concepts), len(res.Links), res.CacheHit)
			printFile(w, output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// layoutCommand prints the layers and the canvas size.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Show the layered layout of a lattice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd, args[0], &flags, func(o *pipeline.Options) {
				o.SkipImplications = true
			})
			if err != nil {
				return err
			}
			w := c.stdout()
			fmt.Fprintln(w, StyleTitle.Render("Layout"))
			printKeyValue(w, "Mode", string(res.Layout.Mode))
			printKeyValue(w, "Canvas", fmt.Sprintf("%.0f × %.0f", res.Layout.Width, res.Layout.Height))
			printKeyValue(w, "Crossings", fmt.Sprint(res.Layout.Crossings))
			fmt.Fprintln(w, layersTable(res.Layout.Layers))
			if res.Stats.SkippedLinks > 0 {
				fmt.Fprintln(w, StyleWarning.Render(fmt.Sprintf("%d links skipped", res.Stats.SkippedLinks)))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// metricsCommand prints lattice and per-concept metrics.
func (c *CLI) metricsCommand() *cobra.Command {
	var flags analysisFlags
	var perConcept bool

	cmd := &cobra.Command{
		Use:   "metrics [file]",
		Short: "Show density, stability and neighborhood metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd, args[0], &flags, func(o *pipeline.Options) {
				o.SkipImplications = true
			})
			if err != nil {
				return err
			}
			w := c.stdout()
			fmt.Fprintln(w, metricsTable(res.Metrics))
			if perConcept {
				fmt.Fprintln(w, conceptMetricsTable(res.Concepts))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&perConcept, "concepts", false, "also show per-concept metrics")
	return cmd
}

// implicationsCommand prints the canonical base.
func (c *CLI) implicationsCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "implications [file]",
		Short: "Show the canonical base of attribute implications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd, args[0], &flags, func(o *pipeline.Options) {
				o.SkipImplications = false
			})
			if err != nil {
				return err
			}
			w := c.stdout()
			if len(res.Implications) == 0 {
				printInfo(w, "No implications")
				return nil
			}
			fmt.Fprintln(w, implicationsTable(res.Implications))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
