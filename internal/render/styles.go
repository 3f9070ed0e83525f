package render

import "github.com/charmbracelet/lipgloss"

// MinNameWidth is the minimum character width for the browser's name column.
const MinNameWidth = 16

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
)

// HeaderStyle returns the bold accent style used for column headers.
func HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
}

// CellStyle returns the style for table body cells.
func CellStyle() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1)
}

// BorderStyle returns the dim style used for table borders.
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(dim)
}

// SelectedStyle returns the highlight for the browser's cursor row.
func SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "255", Dark: "0"}).
		Background(accent)
}

// StatusStyle returns the dim style for the browser's status line.
func StatusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(dim)
}

// ColumnWidths splits totalWidth across the browser columns. The name and
// email columns get a quarter each (at least MinNameWidth), the rest share
// what is left.
func ColumnWidths(totalWidth int) []int {
	widths := make([]int, len(columns))
	if totalWidth <= 0 {
		return widths
	}
	wide := totalWidth / 4
	if wide < MinNameWidth {
		wide = MinNameWidth
	}
	widths[0], widths[1] = wide, wide
	rest := totalWidth - 2*wide
	if rest < 0 {
		rest = 0
	}
	narrow := rest / (len(columns) - 2)
	for i := 2; i < len(widths); i++ {
		widths[i] = narrow
	}
	return widths
}
