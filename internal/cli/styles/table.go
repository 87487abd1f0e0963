package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	// Apply theme styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// PaletteTableColumns returns columns for the accent contrast report.
func PaletteTableColumns() []table.Column {
	return []table.Column{
		{Title: "Accent", Width: 10},
		{Title: "Variant", Width: 8},
		{Title: "Hex", Width: 9},
		{Title: "On light", Width: 14},
		{Title: "On dark", Width: 14},
	}
}

// PaletteRow is one accent colour variant with its contrast ratios against
// the light and dark backgrounds.
type PaletteRow struct {
	Accent     string
	Variant    string
	Hex        string
	OnLight    float64
	LightGrade string
	OnDark     float64
	DarkGrade  string
}

// ToRow converts to table.Row.
func (p PaletteRow) ToRow() table.Row {
	return table.Row{
		p.Accent,
		p.Variant,
		p.Hex,
		formatRatio(p.OnLight, p.LightGrade),
		formatRatio(p.OnDark, p.DarkGrade),
	}
}

// formatRatio renders "5.17 AA".
func formatRatio(ratio float64, grade string) string {
	return strconv.FormatFloat(ratio, 'f', 2, 64) + " " + grade
}
