package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/state"
)

type dashboardScreen struct {
	data *state.Value[dashboardData]
	view viewport.Model
}

func newDashboardScreen() *dashboardScreen {
	return &dashboardScreen{
		data: &state.Value[dashboardData]{},
		view: viewport.New(0, 0),
	}
}

func (d *dashboardScreen) resize(width, height int) {
	d.view.Width = max(width-2, 0)
	d.view.Height = max(height-boxChromeLines, 0)
}

func (m Model) handleDashboardLoaded(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logFailure("load dashboard", msg.err)
		m.dash.data.Fail(msg.tok, msg.err)
		return m, nil
	}
	if m.dash.data.Resolve(msg.tok, msg.data) {
		m.dash.view.GotoTop()
		m.refreshDashboard()
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		m.requests.openForm = true
		return m.switchTo(ScreenRequests)
	case key.Matches(msg, m.keys.AddAsset) && m.role.Admin():
		m.assets.openForm = true
		return m.switchTo(ScreenAssets)
	}
	var cmd tea.Cmd
	m.dash.view, cmd = m.dash.view.Update(msg)
	return m, cmd
}

// refreshDashboard rebuilds the viewport content from the loaded data.
func (m Model) refreshDashboard() {
	data, phase, _ := m.dash.data.Get()
	if phase != state.PhaseReady || m.width == 0 {
		return
	}
	m.dash.view.SetContent(m.dashboardContent(data))
}

func (m Model) renderDashboard() string {
	height := m.contentHeight()
	title := ScreenDashboard.Title(m.role)

	_, phase, err := m.dash.data.Get()
	var body string
	if phase == state.PhaseReady {
		body = m.dash.view.View()
	} else {
		body = m.renderPhase(phase != state.PhaseError, err)
	}
	return m.renderTitledBox(title, body, m.width, height, true)
}

func (m Model) dashboardContent(data dashboardData) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Welcome back, " + m.userName()))
	b.WriteString("\n")
	if m.role.Admin() {
		b.WriteString(styles.MutedText.Render("Inventory overview across all sites."))
	} else {
		b.WriteString(styles.MutedText.Render("Your equipment and open requests."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderCards(data))
	b.WriteString("\n\n")

	assetsTitle := "Your Equipment"
	if m.role.Admin() {
		assetsTitle = "Recent Assets"
	}
	b.WriteString(styles.AccentText.Bold(true).Render(assetsTitle))
	b.WriteString("\n")
	if len(data.Assets) == 0 {
		b.WriteString(styles.MutedText.Render("No equipment assigned."))
		b.WriteString("\n")
	}
	for _, a := range data.Assets[:min(len(data.Assets), DashboardRecentAssets)] {
		b.WriteString(m.dashboardAssetLine(a))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Recent Requests"))
	b.WriteString("\n")
	if len(data.Requests) == 0 {
		b.WriteString(styles.MutedText.Render("No requests yet."))
		b.WriteString("\n")
	}
	for _, r := range data.Requests[:min(len(data.Requests), DashboardRecentRequests)] {
		b.WriteString(m.dashboardRequestLine(r))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

type statCard struct {
	label  string
	value  int
	detail string
	color  string
}

func (m Model) dashboardCards(data dashboardData) []statCard {
	if !m.role.Admin() {
		pending := 0
		for _, r := range data.Requests {
			if r.Status == api.RequestPending {
				pending++
			}
		}
		return []statCard{
			{"My Equipment", len(data.Assets), "assigned to you", m.theme.Accent},
			{"My Requests", len(data.Requests), fmt.Sprintf("%d pending", pending), m.theme.Warning},
		}
	}

	s := data.Stats
	pendingDetail, pendingColor := "All clear", m.theme.Success
	if s.PendingRequests > 0 {
		pendingDetail, pendingColor = "Needs attention", m.theme.Warning
	}
	return []statCard{
		{"Total Assets", s.TotalAssets, fmt.Sprintf("%d available", s.Available), m.theme.Accent},
		{"Assigned", s.Assigned, fmt.Sprintf("%d%% utilization", s.Utilization()), m.theme.Info},
		{"Pending Requests", s.PendingRequests, pendingDetail, pendingColor},
		{"Needs Repair", s.Maintenance + s.Broken, fmt.Sprintf("%d maintenance, %d broken", s.Maintenance, s.Broken), m.theme.Danger},
	}
}

func (m Model) renderCards(data dashboardData) string {
	styles := m.theme.Styles()
	cards := m.dashboardCards(data)

	inner := max(m.width-4, 20)
	perRow := len(cards)
	if m.width < LayoutCompactWidth {
		perRow = 2
	}
	cardWidth := max(inner/perRow-2, 16)

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		value := lipgloss.NewStyle().Foreground(lipgloss.Color(c.color)).Bold(true).Render(fmt.Sprintf("%d", c.value))
		content := styles.MutedText.Render(truncate(c.label, cardWidth-2)) + "\n" +
			value + "\n" +
			styles.FaintText.Render(truncate(c.detail, cardWidth-2))
		rendered = append(rendered, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(m.theme.Border)).
			Padding(0, 1).
			Width(cardWidth).
			Render(content))
	}

	var rows []string
	for i := 0; i < len(rendered); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:min(i+perRow, len(rendered))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) dashboardAssetLine(a api.Asset) string {
	styles := m.theme.Styles()
	status := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.AssetStatusColor(a.Status)))
	line := styles.FaintText.Render(padRight(a.Tag, 13)) +
		styles.Text.Render(padRight(a.Name, 30)) +
		status.Render(padRight(a.Status.String(), 13))
	if m.role.Admin() {
		line += styles.MutedText.Render(orDash(a.Holder()))
	} else {
		line += styles.MutedText.Render(a.Site)
	}
	return line
}

func (m Model) dashboardRequestLine(r api.Request) string {
	styles := m.theme.Styles()
	status := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.RequestStatusColor(r.Status)))
	descWidth := max(m.width-2-15-12-11-4, 12)
	line := styles.Text.Render(padRight(r.Type.String(), 15)) +
		styles.MutedText.Render(padRight(r.Description, descWidth)) + " " +
		status.Render(padRight(r.Status.String(), 11)) +
		styles.FaintText.Render(r.CreatedAt)
	if m.role.Admin() {
		line += styles.FaintText.Render("  " + r.User)
	}
	return line
}
