package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"1/2/3", "Dashboard/Assets/Requests"},
				{"tab", "Next screen"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
			},
		},
		{
			title: "Assets",
			items: []helpItem{
				{"/", "Search name, tag, category"},
				{"f", "Cycle status filter"},
				{"c", "Clear filters"},
				{"n", "Add asset (admin)"},
				{"enter", "Edit asset (admin)"},
				{"m", "Row actions (admin)"},
				{"d", "Delete asset (admin)"},
			},
		},
		{
			title: "Requests",
			items: []helpItem{
				{"n", "New request"},
				{"f", "Cycle status filter"},
				{"a/x", "Approve/deny (admin)"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"r", "Reload screen"},
				{"R", "Switch admin/employee"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return renderModalBox(m.theme, m.width, m.height, 46, b.String())
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
