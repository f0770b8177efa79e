package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with the CLI styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is selectable; keep the first row looking like the rest.
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// StatusTableRow is one client in the status table.
type StatusTableRow struct {
	Level   string // LevelOK, LevelWarn, LevelFail or LevelUnknown
	Client  string // Client id
	Alias   string // Display name, empty when it equals the id
	Key     string // The key responsible for the level
	Value   string // That key's latest value, formatted
	Updated string // How long ago the key reported
}

// RenderStatusTable renders client statuses with a colored indicator.
func RenderStatusTable(rows []StatusTableRow) string {
	if len(rows) == 0 {
		return "No clients in the payload"
	}

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render("  STATUS  " +
		padRight("CLIENT", 24) +
		padRight("KEY", 20) +
		padRight("VALUE", 16) +
		"UPDATED"))
	b.WriteString("\n")

	for _, row := range rows {
		icon := lipgloss.NewStyle().Foreground(LevelColor(row.Level)).Render(LevelSymbol(row.Level))

		client := row.Client
		if row.Alias != "" && row.Alias != row.Client {
			client = row.Alias + mutedStyle.Render(" ("+row.Client+")")
		}

		b.WriteString("  " + icon + "       " +
			padRight(client, 24) +
			padRight(row.Key, 20) +
			padRight(row.Value, 16) +
			mutedStyle.Render(row.Updated))
		b.WriteString("\n")
	}

	return b.String()
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
