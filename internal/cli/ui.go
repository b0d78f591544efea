package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/latticeviz/pkg/implication"
	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/metrics"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output file.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(18)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints lattice size and cache status on a single line.
func printStats(w io.Writer, conceptCount, linkCount int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d concepts", conceptCount),
		fmt.Sprintf("%d links", linkCount),
	}
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// =============================================================================
// Tables
// =============================================================================

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return styleCell
		})
}

// metricsTable renders lattice-level metrics.
func metricsTable(m metrics.Metrics) string {
	return newTable().
		Headers("Metric", "Value").
		Rows(
			[]string{"Concepts", strconv.Itoa(m.TotalConcepts)},
			[]string{"Links", strconv.Itoa(m.TotalLinks)},
			[]string{"Max possible links", strconv.Itoa(m.MaxPossibleLinks)},
			[]string{"Density", formatFloat(m.Density)},
			[]string{"Objects", strconv.Itoa(m.TotalObjects)},
			[]string{"Attributes", strconv.Itoa(m.TotalAttributes)},
			[]string{"Average stability", formatFloat(m.AverageStability)},
		).
		Render()
}

// conceptMetricsTable renders per-concept metrics in input order.
func conceptMetricsTable(concepts []*lattice.Concept) string {
	rows := make([][]string, 0, len(concepts))
	for _, c := range concepts {
		if c.Metrics == nil {
			continue
		}
		rows = append(rows, []string{
			c.ID,
			strconv.Itoa(c.Metrics.ExtentSize),
			strconv.Itoa(c.Metrics.IntentSize),
			formatFloat(c.Metrics.Stability),
			strconv.Itoa(c.Metrics.NeighborhoodSize),
		})
	}
	return newTable().
		Headers("Concept", "Extent", "Intent", "Stability", "Neighbors").
		Rows(rows...).
		Render()
}

// implicationsTable renders implications as premise ⇒ conclusion rows.
func implicationsTable(imps []implication.Implication) string {
	rows := make([][]string, len(imps))
	for i, imp := range imps {
		rows[i] = []string{strconv.Itoa(i + 1), formatSet(imp.Premise), "⇒", formatSet(imp.Conclusion)}
	}
	return newTable().
		Headers("#", "Premise", "", "Conclusion").
		Rows(rows...).
		Render()
}

// layersTable renders the concepts of each layer in order.
func layersTable(layers [][]string) string {
	rows := make([][]string, len(layers))
	for i, layer := range layers {
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(len(layer)), strings.Join(layer, " ")}
	}
	return newTable().
		Headers("Layer", "Size", "Concepts").
		Rows(rows...).
		Render()
}

// =============================================================================
// Formatting
// =============================================================================

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// formatSet renders a set as {a, b}; the empty set is ∅.
func formatSet(items []string) string {
	if len(items) == 0 {
		return "∅"
	}
	return "{" + strings.Join(items, ", ") + "}"
}
