package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/latticeviz/pkg/lattice"
	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseView selects what the browser shows.
type browseView int

const (
	viewConcepts browseView = iota
	viewImplications
)

// BrowseModel is the bubbletea model of the interactive lattice browser.
// The concept view lists concepts layer by layer with the details of the
// selected one; tab switches to the implications.
type BrowseModel struct {
	Result *pipeline.Result
	mode   browseView
	Cursor int
	Offset int
	Height int

	order []*lattice.Concept
}

// NewBrowseModel creates a browser over an analyzed result.
func NewBrowseModel(res *pipeline.Result) BrowseModel {
	l := res.Lattice()
	order := make([]*lattice.Concept, 0, l.ConceptCount())
	seen := make(map[string]bool, l.ConceptCount())
	for _, layer := range res.Layout.Layers {
		for _, id := range layer {
			if c, ok := l.Concept(id); ok && !seen[c.ID] {
				seen[c.ID] = true
				order = append(order, c)
			}
		}
	}
	for _, c := range l.Concepts() {
		if !seen[c.ID] {
			order = append(order, c)
		}
	}
	return BrowseModel{Result: res, Height: 15, order: order}
}

// Selected returns the concept under the cursor, or nil for an empty lattice.
func (m BrowseModel) Selected() *lattice.Concept {
	if m.Cursor < 0 || m.Cursor >= len(m.order) {
		return nil
	}
	return m.order[m.Cursor]
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.mode == viewConcepts {
				m.mode = viewImplications
			} else {
				m.mode = viewConcepts
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rows()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			// Jump to the first superconcept of the selected concept.
			if c := m.Selected(); m.mode == viewConcepts && c != nil && len(c.Superconcepts) > 0 {
				m.jumpTo(c.Superconcepts[0])
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *BrowseModel) jumpTo(id string) {
	for i, c := range m.order {
		if c.ID == id {
			m.Cursor = i
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
			return
		}
	}
}

func (m BrowseModel) rows() int {
	if m.mode == viewImplications {
		return len(m.Result.Implications)
	}
	return len(m.order)
}

func (m BrowseModel) View() string {
	var b strings.Builder

	if m.mode == viewImplications {
		b.WriteString(StyleTitle.Render("Implications"))
	} else {
		b.WriteString(StyleTitle.Render("Concepts"))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ superconcept  tab switch view  q quit"))
	b.WriteString("\n\n")

	if m.rows() == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, m.rows())
	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		list.WriteString(style.Render(cursor + m.rowLabel(i)))
		list.WriteString("\n")
	}

	if m.mode == viewConcepts {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), paneStyle.Render(m.detail())))
	} else {
		b.WriteString(list.String())
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.rows())))
	return b.String()
}

func (m BrowseModel) rowLabel(i int) string {
	if m.mode == viewImplications {
		imp := m.Result.Implications[i]
		return formatSet(imp.Premise) + " ⇒ " + formatSet(imp.Conclusion)
	}
	c := m.order[i]
	return fmt.Sprintf("%-6s %s", c.ID, formatSet(c.ReducedIntent))
}

func (m BrowseModel) detail() string {
	c := m.Selected()
	if c == nil {
		return ""
	}
	lines := []string{
		detailKeyStyle.Render("Concept") + c.ID,
		detailKeyStyle.Render("Extent") + formatSet(c.FullExtent),
		detailKeyStyle.Render("Intent") + formatSet(c.FullIntent),
		detailKeyStyle.Render("Own objects") + formatSet(c.ReducedExtent),
		detailKeyStyle.Render("Own attrs") + formatSet(c.ReducedIntent),
		detailKeyStyle.Render("Parents") + strings.Join(c.Superconcepts, " "),
		detailKeyStyle.Render("Children") + strings.Join(c.Subconcepts, " "),
	}
	if c.Metrics != nil {
		lines = append(lines,
			detailKeyStyle.Render("Stability")+formatFloat(c.Metrics.Stability),
			detailKeyStyle.Render("Neighbors")+fmt.Sprint(c.Metrics.NeighborhoodSize))
	}
	return strings.Join(lines, "\n")
}

// browseCommand opens the interactive browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse concepts and implications interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd, args[0], &flags, nil)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewBrowseModel(res), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
