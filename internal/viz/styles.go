package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/circles/internal/geom"
)

type styles struct {
	canvas   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	errorMsg lipgloss.Style
	relation map[geom.Relation]lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Idle),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		selected: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Idle).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		errorMsg: lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		relation: map[geom.Relation]lipgloss.Style{
			geom.Separate: lipgloss.NewStyle().Foreground(t.Idle),
			geom.Touching: lipgloss.NewStyle().Foreground(t.Contact).Bold(true),
			geom.Nested:   lipgloss.NewStyle().Foreground(t.Nested),
		},
	}
}
