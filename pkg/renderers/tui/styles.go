package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-makerdb/pkg/field"
)

// Styles controls how summaries and state badges are drawn.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style
	Header lipgloss.Style
	Badges map[field.State]lipgloss.Style
}

// DefaultStyles returns the built-in palette. Colours degrade to plain text
// when the output is not a terminal.
func DefaultStyles() Styles {
	badge := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Value:  lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Faint(true),
		Header: lipgloss.NewStyle().Bold(true).Underline(true),
		Badges: map[field.State]lipgloss.Style{
			field.StateIdle:    badge("241"),
			field.StateEditing: badge("214"),
			field.StateSaving:  badge("39"),
			field.StateSuccess: badge("2"),
			field.StateError:   badge("196"),
		},
	}
}

// Badge renders a state marker such as "[saving]".
func (s Styles) Badge(state field.State) string {
	style, ok := s.Badges[state]
	if !ok {
		style = s.Muted
	}
	return style.Render("[" + string(state) + "]")
}

// Table draws rows under headers with columns padded to their widest cell.
func (s Styles) Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	lines := []string{line(headers, s.Header)}
	for _, row := range rows {
		lines = append(lines, line(row, s.Value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
