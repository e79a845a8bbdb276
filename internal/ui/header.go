package ui

import (
	"strings"
)

// renderHeader renders the logo, screen tabs and the active role.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("equip", styles.Logo)}

	for i, s := range screenOrder {
		label := s.label()
		if m.width < LayoutCompactWidth {
			label = label[:1]
		}
		tab := bg.Render(string(rune('1'+i)), styles.FaintText) + bg.Space()
		if s == m.screen {
			tab += bg.Render(label, styles.AccentText.Bold(true))
		} else {
			tab += bg.Render(label, styles.MutedText)
		}
		parts = append(parts, tab)
	}

	roleLabel := "Employee"
	if m.role.Admin() {
		roleLabel = "Admin"
	}
	parts = append(parts,
		bg.Render("●", styles.SuccessText)+bg.Space()+
			bg.Render(roleLabel+":", styles.MutedText)+bg.Space()+
			bg.Render(m.userName(), styles.Text))

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar lists the keys that act on the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.screen {
	case ScreenAssets:
		switch {
		case m.assets.searching:
			commands = []cmd{{"enter", "Done"}, {"esc", "Clear"}}
		case m.assets.menu != nil:
			commands = []cmd{{"j/k", "Choose"}, {"enter", "Select"}, {"esc", "Close"}}
		default:
			commands = []cmd{
				{"/", "Search"},
				{"f", m.assets.filterLabel()},
				{"j/k", "Navigate"},
			}
			if m.role.Admin() {
				commands = append(commands,
					cmd{"n", "Add"},
					cmd{"enter", "Edit"},
					cmd{"m", "Actions"},
					cmd{"d", "Delete"},
				)
			}
		}
	case ScreenRequests:
		commands = []cmd{
			{"f", m.requests.filterLabel()},
			{"j/k", "Navigate"},
			{"n", "New request"},
		}
		if m.role.Admin() {
			commands = append(commands, cmd{"a", "Approve"}, cmd{"x", "Deny"})
		}
	default:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"n", "New request"},
		}
		if m.role.Admin() {
			commands = append(commands, cmd{"a", "Add asset"})
		}
	}
	commands = append(commands,
		cmd{"r", "Reload"},
		cmd{"R", "Role"},
		cmd{"?", "More"},
	)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
