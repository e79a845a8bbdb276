package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/state"
)

const (
	requestTypeWidth     = 15
	requestPriorityWidth = 10
	requestStatusWidth   = 11
	requestUserWidth     = 16
	requestDateWidth     = 11
	requestAssetWidth    = 22
)

type requestsScreen struct {
	list     *state.Collection[api.Request]
	stats    *state.Value[api.Stats]
	filter   choice[api.RequestStatus]
	cursor   int
	openForm bool
}

func newRequestsScreen() *requestsScreen {
	return &requestsScreen{
		list:   &state.Collection[api.Request]{},
		stats:  &state.Value[api.Stats]{},
		filter: statusFilter(api.RequestStatuses()),
	}
}

func (s *requestsScreen) visible() []api.Request {
	status := s.filter.value()
	return s.list.Visible(func(r api.Request) bool {
		return status == 0 || r.Status == status
	})
}

func (s *requestsScreen) selected() (api.Request, bool) {
	vis := s.visible()
	if s.cursor < 0 || s.cursor >= len(vis) {
		return api.Request{}, false
	}
	return vis[s.cursor], true
}

func (s *requestsScreen) clampCursor() {
	n := len(s.visible())
	s.cursor = max(min(s.cursor, n-1), 0)
}

func (s *requestsScreen) filterLabel() string {
	return s.filter.String()
}

func (s *requestsScreen) cycleFilter() {
	s.filter.next()
	s.cursor = 0
}

// shiftRequestCount moves delta into the counter of status.
func shiftRequestCount(s *api.Stats, status api.RequestStatus, delta int) {
	switch status {
	case api.RequestPending:
		s.PendingRequests += delta
	case api.RequestApproved:
		s.ApprovedRequests += delta
	case api.RequestDenied:
		s.DeniedRequests += delta
	case api.RequestCompleted:
		s.CompletedRequests += delta
	}
}

func (m Model) requestsReady() bool {
	_, statsPhase, _ := m.requests.stats.Get()
	return m.requests.list.Phase() == state.PhaseReady && statsPhase == state.PhaseReady
}

func (m Model) handleRequestsLoaded(msg requestsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logFailure("load requests", msg.err)
		m.requests.list.Fail(msg.listTok, msg.err)
		m.requests.stats.Fail(msg.statsTok, msg.err)
		m.requests.openForm = false
		return m, nil
	}
	if !m.requests.list.Resolve(msg.listTok, msg.requests) {
		return m, nil
	}
	m.requests.stats.Resolve(msg.statsTok, msg.stats)
	m.requests.clampCursor()
	if m.requests.openForm {
		m.requests.openForm = false
		return m.openRequestForm()
	}
	return m, nil
}

func (m Model) handleRequestsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.requests
	n := len(s.visible())
	switch {
	case key.Matches(msg, m.keys.CycleFilter):
		s.cycleFilter()
	case key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if s.cursor < n-1 {
			s.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		s.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		s.cursor = max(n-1, 0)
	case key.Matches(msg, m.keys.New):
		return m.openRequestForm()
	case key.Matches(msg, m.keys.Approve):
		return m.setRequestStatus(api.RequestApproved)
	case key.Matches(msg, m.keys.Deny):
		return m.setRequestStatus(api.RequestDenied)
	}
	return m, nil
}

func (m Model) openRequestForm() (tea.Model, tea.Cmd) {
	if !m.requestsReady() {
		return m, nil
	}
	m.modal = newRequestForm(m.userName(), guardBusy(m.requests.list, state.GuardSubmit))
	m.notice = ""
	return m, nil
}

func (m Model) submitRequest(msg submitRequestMsg) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(msg.input.Description) == "" {
		return m, nil
	}
	tok, ok := m.requests.list.StartMutation(state.GuardSubmit)
	if !ok {
		return m, nil
	}
	m.notice = ""
	return m, createRequestCmd(m.ctx, m.svc, tok, msg.input)
}

func (m Model) handleRequestCreated(msg requestCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logFailure("create request", msg.err)
		if m.requests.list.Settle(msg.tok) {
			m.notice = msg.err.Error()
		}
		return m, nil
	}
	applied := m.requests.list.Prepend(msg.tok, msg.request)
	if !m.requests.list.Settle(msg.tok) {
		log.Printf("create request: discarded result for request %d", msg.request.ID)
		return m, nil
	}
	if applied {
		m.requests.stats.Adjust(func(s *api.Stats) {
			shiftRequestCount(s, msg.request.Status, 1)
		})
		m.requests.cursor = 0
	}
	if _, ok := m.modal.(*requestForm); ok {
		m.modal = nil
	}
	return m, nil
}

// setRequestStatus approves or denies the selected pending request.
func (m Model) setRequestStatus(to api.RequestStatus) (tea.Model, tea.Cmd) {
	if !m.role.Admin() || !m.requestsReady() {
		return m, nil
	}
	req, ok := m.requests.selected()
	if !ok || req.Status != api.RequestPending {
		return m, nil
	}
	tok, ok := m.requests.list.StartMutation(state.GuardSubmit)
	if !ok {
		return m, nil
	}
	m.notice = ""
	return m, updateRequestStatusCmd(m.ctx, m.svc, tok, req.Status, req.ID, to)
}

func (m Model) handleRequestStatus(msg requestStatusMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logFailure("update request status", msg.err)
		if m.requests.list.Settle(msg.tok) {
			m.notice = msg.err.Error()
		}
		return m, nil
	}
	replaced := m.requests.list.Replace(msg.tok, msg.request)
	if !m.requests.list.Settle(msg.tok) || !replaced {
		log.Printf("update request status: discarded result for request %d", msg.request.ID)
		return m, nil
	}
	if to := msg.request.Status; to != msg.from {
		m.requests.stats.Adjust(func(s *api.Stats) {
			shiftRequestCount(s, msg.from, -1)
			shiftRequestCount(s, to, 1)
		})
	}
	m.requests.clampCursor()
	return m, nil
}

// Rendering

func (m Model) renderRequests() string {
	height := m.contentHeight()
	s := m.requests
	snap := s.list.Snapshot()
	stats, statsPhase, statsErr := s.stats.Get()
	title := ScreenRequests.Title(m.role)

	if snap.Phase != state.PhaseReady || statsPhase != state.PhaseReady {
		err := snap.Err
		if err == nil {
			err = statsErr
		}
		failed := snap.Phase == state.PhaseError || statsPhase == state.PhaseError
		return m.renderTitledBox(title, m.renderPhase(!failed, err), m.width, height, true)
	}

	styles := m.theme.Styles()
	inner := max(m.width-2, 0)
	vis := s.visible()

	lines := []string{
		m.renderStatusStrip(stats, snap.Items),
		styles.MutedText.Render("Status: ") + styles.Text.Render(s.filterLabel()) + "   " +
			styles.FaintText.Render(fmt.Sprintf("%d of %d", len(vis), len(snap.Items))),
		styles.FaintText.Bold(true).Render(m.requestHeaderLine(inner)),
	}

	switch {
	case len(snap.Items) == 0:
		lines = append(lines, styles.MutedText.Render("No requests yet. Press n to file one."))
	case len(vis) == 0:
		lines = append(lines, styles.MutedText.Render("No requests with this status."))
	}

	rows := max(height-boxChromeLines-len(lines), 1)
	off := 0
	if s.cursor >= rows {
		off = s.cursor - rows + 1
	}
	for i := off; i < len(vis) && i < off+rows; i++ {
		lines = append(lines, m.renderRequestRow(vis[i], inner, i == s.cursor))
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

// renderStatusStrip shows the request counters. Admins see the service
// wide counters; employees see counts over their own list.
func (m Model) renderStatusStrip(stats api.Stats, items []api.Request) string {
	styles := m.theme.Styles()
	counts := make(map[api.RequestStatus]int)
	if m.role.Admin() {
		for _, st := range api.RequestStatuses() {
			counts[st] = stats.RequestCount(st)
		}
	} else {
		for _, r := range items {
			counts[r.Status]++
		}
	}

	parts := make([]string, 0, len(counts))
	for _, st := range api.RequestStatuses() {
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.RequestStatusColor(st))).Bold(true)
		parts = append(parts, styles.MutedText.Render(st.String()+" ")+color.Render(fmt.Sprintf("%d", counts[st])))
	}
	return strings.Join(parts, "   ")
}

func (m Model) requestDescWidth(inner int) int {
	used := requestTypeWidth + requestPriorityWidth + requestStatusWidth + requestDateWidth + 4
	if m.role.Admin() {
		used += requestUserWidth + 1
	}
	if m.width >= LayoutWideWidth {
		used += requestAssetWidth + 1
	}
	return max(inner-used, 12)
}

func (m Model) requestHeaderLine(inner int) string {
	parts := []string{
		padRight("Type", requestTypeWidth),
		padRight("Description", m.requestDescWidth(inner)),
	}
	if m.width >= LayoutWideWidth {
		parts = append(parts, padRight("Asset", requestAssetWidth))
	}
	parts = append(parts,
		padRight("Priority", requestPriorityWidth),
		padRight("Status", requestStatusWidth),
	)
	if m.role.Admin() {
		parts = append(parts, padRight("Requested By", requestUserWidth))
	}
	parts = append(parts, padRight("Created", requestDateWidth))
	return strings.Join(parts, " ")
}

func (m Model) renderRequestRow(r api.Request, inner int, selected bool) string {
	styles := m.theme.Styles()
	priorityStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.PriorityColor(r.Priority)))
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.RequestStatusColor(r.Status)))

	type cell struct {
		text  string
		style lipgloss.Style
	}
	cells := []cell{
		{padRight(r.Type.String(), requestTypeWidth), styles.Text},
		{padRight(r.Description, m.requestDescWidth(inner)), styles.MutedText},
	}
	if m.width >= LayoutWideWidth {
		cells = append(cells, cell{padRight(orDash(r.AssetName()), requestAssetWidth), styles.FaintText})
	}
	cells = append(cells,
		cell{padRight(r.Priority.String(), requestPriorityWidth), priorityStyle},
		cell{padRight(r.Status.String(), requestStatusWidth), statusStyle},
	)
	if m.role.Admin() {
		cells = append(cells, cell{padRight(r.User, requestUserWidth), styles.MutedText})
	}
	cells = append(cells, cell{padRight(r.CreatedAt, requestDateWidth), styles.FaintText})

	if selected {
		plain := make([]string, len(cells))
		for i, c := range cells {
			plain[i] = c.text
		}
		return styles.Selected.Render(padRight(strings.Join(plain, " "), inner))
	}
	styled := make([]string, len(cells))
	for i, c := range cells {
		styled[i] = c.style.Render(c.text)
	}
	return strings.Join(styled, " ")
}
