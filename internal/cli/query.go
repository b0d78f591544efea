package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/latticeviz/pkg/errors"
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

// pathCommand prints a shortest path between two concepts.
func (c *CLI) pathCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "path [file] [from] [to]",
		Short: "Find a shortest path between two concepts",
		Long: `Path treats the links of the Hasse diagram as undirected and prints the
concepts on a shortest path between two concept IDs.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[1], args[2]
			for _, id := range []string{from, to} {
				if err := errors.ValidateConceptID(id); err != nil {
					return err
				}
			}

			res, err := c.analyze(cmd, args[0], &flags, func(o *pipeline.Options) {
				o.SkipImplications = true
			})
			if err != nil {
				return err
			}

			l := res.Lattice()
			for _, id := range []string{from, to} {
				if _, ok := l.Resolve(id); !ok {
					return errors.New(errors.ErrCodeConceptNotFound, "unknown concept %q", id)
				}
			}

			w := c.stdout()
			path := lattice.ShortestPath(l, from, to)
			if len(path) == 0 {
				printInfo(w, "No path between %s and %s", from, to)
				return nil
			}
			fmt.Fprintln(w, strings.Join(path, " "+iconArrow+" "))
			printDetail(w, "%d steps", len(path)-1)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// filterCommand lists the concepts whose labels match filter tokens.
func (c *CLI) filterCommand() *cobra.Command {
	var flags analysisFlags
	var objects, attributes string

	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Highlight concepts matching object or attribute tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objs, attrs := splitTokens(objects), splitTokens(attributes)
			if len(objs) == 0 && len(attrs) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "pass --objects or --attributes")
			}

			res, err := c.analyze(cmd, args[0], &flags, func(o *pipeline.Options) {
				o.SkipImplications = true
				o.FilterObjects = objs
				o.FilterAttributes = attrs
			})
			if err != nil {
				return err
			}

			w := c.stdout()
			matched := 0
			for _, concept := range res.Lattice().Concepts() {
				color := res.Colors[concept.ID]
				if color == lattice.ColorNone {
					continue
				}
				matched++
				fmt.Fprintf(w, "%-8s %-7s %s\n", concept.ID, matchKind(color), formatSet(concept.Intent))
			}
			printDetail(w, "%d of %d concepts match", matched, len(res.Concepts))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&objects, "objects", "", "object tokens (comma-separated)")
	cmd.Flags().StringVar(&attributes, "attributes", "", "attribute tokens (comma-separated)")
	return cmd
}

// matchKind names the filter color of a concept.
func matchKind(c lattice.Color) string {
	switch c {
	case lattice.ColorBoth:
		return "both"
	case lattice.ColorExtent:
		return "object"
	case lattice.ColorIntent:
		return "attr"
	}
	return "none"
}
