package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/state"
)

// Asset table geometry. Rows start below the header, the command bar, the
// box border and the two toolbar lines.
const (
	assetsToolbarLines = 2

	tagColumnWidth      = 12
	categoryColumnWidth = 16
	statusColumnWidth   = 12
	holderColumnWidth   = 16
	siteColumnWidth     = 14
	dateColumnWidth     = 11

	menuWidth = 14
)

var rowMenuOptions = []string{"Edit", "Delete"}

const (
	menuEdit = iota
	menuDelete
)

// rowMenu is the action dropdown of one asset row.
type rowMenu struct {
	assetID int64
	cursor  int
}

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type assetsScreen struct {
	list      *state.Collection[api.Asset]
	search    textinput.Model
	filter    choice[api.AssetStatus]
	searching bool
	cursor    int
	menu      *rowMenu
	openForm  bool
}

func newAssetsScreen() *assetsScreen {
	ti := textinput.New()
	ti.Placeholder = "name, tag or category"
	ti.CharLimit = 60
	ti.Width = 30
	ti.Prompt = "/"
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &assetsScreen{
		list:   &state.Collection[api.Asset]{},
		search: ti,
		filter: statusFilter(api.AssetStatuses()),
	}
}

// assetMatches applies the local search and status filter.
func assetMatches(a api.Asset, query string, status api.AssetStatus) bool {
	if status != 0 && a.Status != status {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), query) ||
		strings.Contains(strings.ToLower(a.Tag), query) ||
		strings.Contains(strings.ToLower(a.Category.String()), query)
}

func (s *assetsScreen) visible() []api.Asset {
	query := strings.ToLower(strings.TrimSpace(s.list.Search()))
	status := s.filter.value()
	return s.list.Visible(func(a api.Asset) bool { return assetMatches(a, query, status) })
}

func (s *assetsScreen) selected() (api.Asset, bool) {
	vis := s.visible()
	if s.cursor < 0 || s.cursor >= len(vis) {
		return api.Asset{}, false
	}
	return vis[s.cursor], true
}

func (s *assetsScreen) clampCursor() {
	n := len(s.visible())
	s.cursor = max(min(s.cursor, n-1), 0)
}

func (s *assetsScreen) filterLabel() string {
	return s.filter.String()
}

// cycleFilter steps through All and every asset status.
func (s *assetsScreen) cycleFilter() {
	s.filter.next()
	s.cursor = 0
}

func (s *assetsScreen) clearFilters() {
	s.search.SetValue("")
	s.list.SetSearch("")
	s.filter = statusFilter(api.AssetStatuses())
	s.cursor = 0
}

func (s *assetsScreen) reset() {
	s.menu = nil
	s.searching = false
	s.search.Blur()
	s.openForm = false
}

func guardBusy(c interface{ Busy(state.Guard) bool }, g state.Guard) func() bool {
	return func() bool { return c.Busy(g) }
}

func (m Model) handleAssetsLoaded(msg assetsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logFailure("load assets", msg.err)
		if m.assets.list.Fail(msg.tok, msg.err) {
			m.assets.openForm = false
		}
		return m, nil
	}
	if !m.assets.list.Resolve(msg.tok, msg.assets) {
		return m, nil
	}
	m.assets.clampCursor()
	if m.assets.openForm {
		m.assets.openForm = false
		return m.openAssetForm(nil)
	}
	return m, nil
}

func (m Model) handleAssetsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.assets
	if s.searching {
		return m.handleAssetSearchKey(msg)
	}
	if s.menu != nil {
		return m.handleAssetMenuKey(msg)
	}

	n := len(s.visible())
	switch {
	case key.Matches(msg, m.keys.Search):
		s.searching = true
		s.search.Focus()
	case key.Matches(msg, m.keys.CycleFilter):
		s.cycleFilter()
	case key.Matches(msg, m.keys.ClearFilters):
		s.clearFilters()
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
		return m.openAssetForm(nil)
	case key.Matches(msg, m.keys.Edit):
		if a, ok := s.selected(); ok {
			return m.openAssetForm(&a)
		}
	case key.Matches(msg, m.keys.Actions):
		if a, ok := s.selected(); ok && m.canEditAssets() {
			s.menu = &rowMenu{assetID: a.ID}
		}
	case key.Matches(msg, m.keys.Delete):
		if a, ok := s.selected(); ok {
			return m.confirmAssetDelete(a)
		}
	}
	return m, nil
}

func (m Model) handleAssetSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.assets
	switch {
	case key.Matches(msg, m.keys.Confirm):
		s.searching = false
		s.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		s.searching = false
		s.search.Blur()
		s.clearFilters()
		return m, nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	s.list.SetSearch(s.search.Value())
	s.cursor = 0
	return m, cmd
}

func (m Model) handleAssetMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	menu := m.assets.menu
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.assets.menu = nil
	case key.Matches(msg, m.keys.Up):
		menu.cursor = max(menu.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		menu.cursor = min(menu.cursor+1, len(rowMenuOptions)-1)
	case key.Matches(msg, m.keys.Confirm):
		return m.selectMenuOption(menu.cursor)
	}
	return m, nil
}

// selectMenuOption closes the row menu and runs option i on its asset.
func (m Model) selectMenuOption(i int) (tea.Model, tea.Cmd) {
	menu := m.assets.menu
	m.assets.menu = nil
	if menu == nil {
		return m, nil
	}
	a, ok := m.assets.list.Find(menu.assetID)
	if !ok {
		return m, nil
	}
	switch i {
	case menuEdit:
		return m.openAssetForm(&a)
	case menuDelete:
		return m.confirmAssetDelete(a)
	}
	return m, nil
}

// handleAssetsClick selects rows and closes the row menu on a click
// outside it.
func (m Model) handleAssetsClick(x, y int) (tea.Model, tea.Cmd) {
	s := m.assets
	if s.menu != nil {
		bounds := m.assetMenuBounds()
		if !bounds.contains(x, y) {
			s.menu = nil
			return m, nil
		}
		s.menu.cursor = y - bounds.y
		return m.selectMenuOption(s.menu.cursor)
	}

	if s.list.Phase() != state.PhaseReady {
		return m, nil
	}
	row := y - m.assetsFirstRowY()
	if row < 0 || row >= m.assetRowsVisible() {
		return m, nil
	}
	n := len(s.visible())
	if idx := m.assetsOffset(n) + row; idx < n {
		s.cursor = idx
	}
	return m, nil
}

func (m Model) canEditAssets() bool {
	return m.role.Admin() && m.assets.list.Phase() == state.PhaseReady
}

func (m Model) openAssetForm(a *api.Asset) (tea.Model, tea.Cmd) {
	if !m.canEditAssets() {
		return m, nil
	}
	busy := guardBusy(m.assets.list, state.GuardSubmit)
	if a == nil {
		m.modal = newAssetForm(m.cfg.Sites, busy)
	} else {
		m.modal = editAssetForm(*a, m.cfg.Sites, m.cfg.Assignees, busy)
	}
	m.notice = ""
	return m, nil
}

func (m Model) confirmAssetDelete(a api.Asset) (tea.Model, tea.Cmd) {
	if !m.canEditAssets() {
		return m, nil
	}
	m.modal = &confirmModal{
		title:   "Delete Asset",
		body:    fmt.Sprintf("Delete %s (%s)? This cannot be undone.", a.Name, a.Tag),
		confirm: confirmDeleteMsg{id: a.ID},
		busy:    guardBusy(m.assets.list, state.GuardDelete),
	}
	m.notice = ""
	return m, nil
}

func (m Model) submitAsset(msg submitAssetMsg) (tea.Model, tea.Cmd) {
	name := msg.input.Name
	if msg.id != 0 {
		name = msg.update.Name
	}
	if strings.TrimSpace(name) == "" || !m.role.Admin() {
		return m, nil
	}
	tok, ok := m.assets.list.StartMutation(state.GuardSubmit)
	if !ok {
		return m, nil
	}
	m.notice = ""
	if msg.id == 0 {
		return m, createAssetCmd(m.ctx, m.svc, tok, msg.input)
	}
	return m, updateAssetCmd(m.ctx, m.svc, tok, msg.id, msg.update)
}

func (m Model) handleAssetSaved(msg assetSavedMsg) (tea.Model, tea.Cmd) {
	what := "update asset"
	if msg.created {
		what = "create asset"
	}
	if msg.err != nil {
		logFailure(what, msg.err)
		if m.assets.list.Settle(msg.tok) {
			m.notice = msg.err.Error()
		}
		return m, nil
	}

	var applied bool
	if msg.created {
		applied = m.assets.list.Insert(msg.tok, msg.asset)
	} else {
		applied = m.assets.list.Replace(msg.tok, msg.asset)
	}
	if !m.assets.list.Settle(msg.tok) {
		log.Printf("%s: discarded result for asset %d", what, msg.asset.ID)
		return m, nil
	}
	if !applied {
		log.Printf("%s: asset %d not in the loaded list", what, msg.asset.ID)
	}
	if _, ok := m.modal.(*assetForm); ok {
		m.modal = nil
	}
	m.assets.clampCursor()
	return m, nil
}

func (m Model) deleteAsset(msg confirmDeleteMsg) (tea.Model, tea.Cmd) {
	if !m.role.Admin() {
		return m, nil
	}
	tok, ok := m.assets.list.StartMutation(state.GuardDelete)
	if !ok {
		return m, nil
	}
	m.notice = ""
	return m, deleteAssetCmd(m.ctx, m.svc, tok, msg.id)
}

func (m Model) handleAssetDeleted(msg assetDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logFailure("delete asset", msg.err)
		if m.assets.list.Settle(msg.tok) {
			m.notice = msg.err.Error()
		}
		return m, nil
	}

	removed := m.assets.list.Remove(msg.tok, msg.id)
	if !m.assets.list.Settle(msg.tok) {
		log.Printf("delete asset: discarded result for asset %d", msg.id)
		return m, nil
	}
	if !removed {
		log.Printf("delete asset: asset %d not in the loaded list", msg.id)
	}
	if _, ok := m.modal.(*confirmModal); ok {
		m.modal = nil
	}
	m.assets.clampCursor()
	return m, nil
}

// Geometry

func (m Model) assetsFirstRowY() int {
	return headerLines + 1 + assetsToolbarLines
}

func (m Model) assetRowsVisible() int {
	return max(m.contentHeight()-boxChromeLines-assetsToolbarLines, 1)
}

// assetsOffset is the index of the first rendered row. It keeps the cursor
// and an open row menu on screen.
func (m Model) assetsOffset(n int) int {
	rows := m.assetRowsVisible()
	extra := 0
	if m.assets.menu != nil {
		extra = len(rowMenuOptions)
	}
	off := 0
	if m.assets.cursor+extra >= rows {
		off = m.assets.cursor + extra - rows + 1
	}
	return max(min(off, n-1), 0)
}

// assetMenuBounds is where the open row menu is drawn, in screen cells.
func (m Model) assetMenuBounds() rect {
	off := m.assetsOffset(len(m.assets.visible()))
	return rect{
		x: 1 + tagColumnWidth + 1,
		y: m.assetsFirstRowY() + m.assets.cursor - off + 1,
		w: menuWidth,
		h: len(rowMenuOptions),
	}
}

// Rendering

type assetColumns struct {
	name, holder, site, date int
}

func (m Model) assetColumns(inner int) assetColumns {
	var c assetColumns
	used := tagColumnWidth + categoryColumnWidth + statusColumnWidth + 4
	if m.role.Admin() {
		c.holder = holderColumnWidth
		used += c.holder + 1
	}
	if m.width >= LayoutWideWidth || !m.role.Admin() {
		c.site = siteColumnWidth
		used += c.site + 1
	}
	if m.width >= LayoutWideWidth {
		c.date = dateColumnWidth
		used += c.date + 1
	}
	c.name = max(inner-used, 12)
	return c
}

func (m Model) renderAssets() string {
	height := m.contentHeight()
	s := m.assets
	snap := s.list.Snapshot()
	title := ScreenAssets.Title(m.role)

	if snap.Phase != state.PhaseReady {
		body := m.renderPhase(snap.Phase != state.PhaseError, snap.Err)
		return m.renderTitledBox(title, body, m.width, height, true)
	}

	styles := m.theme.Styles()
	inner := max(m.width-2, 0)
	cols := m.assetColumns(inner)
	vis := s.visible()

	var lines []string
	lines = append(lines, m.renderAssetsToolbar(len(vis), len(snap.Items)))
	lines = append(lines, styles.FaintText.Bold(true).Render(m.assetHeaderLine(cols)))

	switch {
	case len(snap.Items) == 0:
		msg := "No assets yet."
		if m.role.Admin() {
			msg += " Press n to add one."
		}
		lines = append(lines, styles.MutedText.Render(msg))
	case len(vis) == 0:
		lines = append(lines, styles.MutedText.Render("No assets match your filters. Press c to clear."))
	}

	off := m.assetsOffset(len(vis))
	rows := m.assetRowsVisible()
	for i := off; i < len(vis) && len(lines)-assetsToolbarLines < rows; i++ {
		lines = append(lines, m.renderAssetRow(vis[i], cols, inner, i == s.cursor))
		if i == s.cursor && s.menu != nil {
			lines = append(lines, m.renderRowMenu()...)
		}
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) renderAssetsToolbar(shown, total int) string {
	styles := m.theme.Styles()
	s := m.assets

	var search string
	switch {
	case s.searching:
		search = s.search.View()
	case s.search.Value() != "":
		search = styles.AccentText.Render("/" + s.search.Value())
	default:
		search = styles.FaintText.Render("/ to search")
	}

	return search + "   " +
		styles.MutedText.Render("Status: ") + styles.Text.Render(s.filterLabel()) + "   " +
		styles.FaintText.Render(fmt.Sprintf("%d of %d", shown, total))
}

func (m Model) assetHeaderLine(c assetColumns) string {
	parts := []string{
		padRight("Tag", tagColumnWidth),
		padRight("Name", c.name),
		padRight("Category", categoryColumnWidth),
		padRight("Status", statusColumnWidth),
	}
	if c.holder > 0 {
		parts = append(parts, padRight("Assigned To", c.holder))
	}
	if c.site > 0 {
		parts = append(parts, padRight("Site", c.site))
	}
	if c.date > 0 {
		parts = append(parts, padRight("Purchased", c.date))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderAssetRow(a api.Asset, c assetColumns, inner int, selected bool) string {
	cells := []string{
		padRight(a.Tag, tagColumnWidth),
		padRight(a.Name, c.name),
		padRight(a.Category.String(), categoryColumnWidth),
		padRight(a.Status.String(), statusColumnWidth),
	}
	if c.holder > 0 {
		cells = append(cells, padRight(orDash(a.Holder()), c.holder))
	}
	if c.site > 0 {
		cells = append(cells, padRight(a.Site, c.site))
	}
	if c.date > 0 {
		cells = append(cells, padRight(a.PurchaseDate, c.date))
	}

	styles := m.theme.Styles()
	if selected {
		return styles.Selected.Render(padRight(strings.Join(cells, " "), inner))
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.AssetStatusColor(a.Status)))
	styled := []string{
		styles.FaintText.Render(cells[0]),
		styles.Text.Render(cells[1]),
		styles.MutedText.Render(cells[2]),
		statusStyle.Render(cells[3]),
	}
	for _, cell := range cells[4:] {
		styled = append(styled, styles.MutedText.Render(cell))
	}
	return strings.Join(styled, " ")
}

func (m Model) renderRowMenu() []string {
	styles := m.theme.Styles()
	indent := strings.Repeat(" ", tagColumnWidth+1)
	lines := make([]string, 0, len(rowMenuOptions))
	for i, opt := range rowMenuOptions {
		label := padRight("  "+opt, menuWidth)
		if i == m.assets.menu.cursor {
			label = styles.Selected.Render(padRight("▸ "+opt, menuWidth))
		} else if i == menuDelete {
			label = styles.DangerText.Render(label)
		} else {
			label = styles.Text.Render(label)
		}
		lines = append(lines, indent+label)
	}
	return lines
}
