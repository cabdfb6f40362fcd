package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// viewCommand creates the view command, an interactive pager for diagrams
// that are taller than the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	opts := renderOpts{
		spacing: c.Config.Spacing,
		spaces:  c.Config.Spaces,
	}

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Render a graph and browse it interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runRender(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s · %d nodes · %d edges", args[0], result.Stats.NodeCount, result.Stats.EdgeCount)
			model := newDiagramModel(title, result.Output)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "input source: json, dot, flow (default: inferred)")
	cmd.Flags().StringVar(&opts.spacing, "spacing", opts.spacing, "column spacing: compact or fixed")
	cmd.Flags().IntVar(&opts.spaces, "spaces", opts.spaces, "gap width between columns (fixed spacing)")
	cmd.Flags().BoolVar(&opts.groupPrefix, "group-prefix", boolOr(c.Config.GroupPrefix, true), "collapse shared label prefixes")
	cmd.Flags().BoolVar(&opts.groupSuffix, "group-suffix", boolOr(c.Config.GroupSuffix, false), "collapse shared label suffixes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached entries and re-render")

	return cmd
}

// Pager styles.
var (
	viewTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewFooterStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// diagramModel is the bubbletea model for scrolling through a diagram.
type diagramModel struct {
	title  string
	lines  []string
	offset int
	height int // viewport height excluding header and footer
}

// newDiagramModel creates a pager over the rendered diagram text.
func newDiagramModel(title, output string) diagramModel {
	return diagramModel{
		title:  title,
		lines:  strings.Split(strings.TrimRight(output, "\n"), "\n"),
		height: 20,
	}
}

func (m diagramModel) Init() tea.Cmd {
	return nil
}

func (m diagramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 2 // header and footer rows
		if m.height < 1 {
			m.height = 1
		}
		m.offset = m.clampOffset(m.offset)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.offset = m.clampOffset(m.offset - 1)
		case "down", "j":
			m.offset = m.clampOffset(m.offset + 1)
		case "pgup", "b":
			m.offset = m.clampOffset(m.offset - m.height)
		case "pgdown", "f", " ":
			m.offset = m.clampOffset(m.offset + m.height)
		case "g", "home":
			m.offset = 0
		case "G", "end":
			m.offset = m.clampOffset(len(m.lines))
		}
	}
	return m, nil
}

func (m diagramModel) View() string {
	var b strings.Builder
	b.WriteString(viewTitleStyle.Render(m.title))
	b.WriteString("\n")

	end := m.offset + m.height
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for _, line := range m.lines[m.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := end - m.offset; i < m.height; i++ {
		b.WriteString("\n")
	}

	b.WriteString(viewFooterStyle.Render(fmt.Sprintf("%d%% · q to quit", m.scrollPercent())))
	return b.String()
}

// clampOffset keeps the scroll offset within the diagram's bounds.
func (m diagramModel) clampOffset(offset int) int {
	max := len(m.lines) - m.height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// scrollPercent reports how far the viewport has scrolled, 0..100.
func (m diagramModel) scrollPercent() int {
	max := len(m.lines) - m.height
	if max <= 0 {
		return 100
	}
	return m.offset * 100 / max
}
