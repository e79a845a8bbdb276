package ui

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/config"
	"github.com/five82/equip/internal/prefs"
)

// Screen identifies the active top-level screen.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenAssets
	ScreenRequests
)

var screenOrder = []Screen{ScreenDashboard, ScreenAssets, ScreenRequests}

// Title returns the heading of s as seen by role.
func (s Screen) Title(role Role) string {
	switch s {
	case ScreenAssets:
		if role.Admin() {
			return "Asset Inventory"
		}
		return "My Assets"
	case ScreenRequests:
		if role.Admin() {
			return "Equipment Requests"
		}
		return "My Requests"
	default:
		return "Dashboard"
	}
}

func (s Screen) label() string {
	switch s {
	case ScreenAssets:
		return "Assets"
	case ScreenRequests:
		return "Requests"
	default:
		return "Dashboard"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   api.Service
	Config    config.Config
	Role      Role
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea. Screen state lives
// behind pointers so command results reach it whichever copy of Model
// Bubble Tea holds.
type Model struct {
	// Configuration
	ctx       context.Context
	svc       api.Service
	cfg       config.Config
	prefsPath string
	keys      keyMap

	// UI state
	theme  Theme
	screen Screen
	role   Role
	width  int
	height int
	ready  bool

	showHelp bool
	modal    Modal
	notice   string

	dash     *dashboardScreen
	assets   *assetsScreen
	requests *requestsScreen
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	role := opts.Role
	if role == 0 {
		role = RoleEmployee
	}

	return Model{
		ctx:       ctx,
		svc:       opts.Service,
		cfg:       opts.Config,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		screen:    ScreenDashboard,
		role:      role,
		dash:      newDashboardScreen(),
		assets:    newAssetsScreen(),
		requests:  newRequestsScreen(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.load(m.screen)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.dash.resize(m.width, m.contentHeight())
		m.refreshDashboard()
		return m, nil

	case dashboardLoadedMsg:
		return m.handleDashboardLoaded(msg)
	case assetsLoadedMsg:
		return m.handleAssetsLoaded(msg)
	case requestsLoadedMsg:
		return m.handleRequestsLoaded(msg)

	case submitAssetMsg:
		return m.submitAsset(msg)
	case assetSavedMsg:
		return m.handleAssetSaved(msg)
	case confirmDeleteMsg:
		return m.deleteAsset(msg)
	case assetDeletedMsg:
		return m.handleAssetDeleted(msg)

	case submitRequestMsg:
		return m.submitRequest(msg)
	case requestCreatedMsg:
		return m.handleRequestCreated(msg)
	case requestStatusMsg:
		return m.handleRequestStatus(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height-footerLines) + "\n" + m.renderFooter()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The search box and the row menu capture keys before global bindings.
	if m.screen == ScreenAssets && (m.assets.searching || m.assets.menu != nil) {
		return m.handleAssetsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshDashboard()
		name := m.theme.Name
		if _, err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
			log.Printf("save theme preference failed: %v", err)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleRole):
		return m.switchRole(m.role.Toggle())

	case key.Matches(msg, m.keys.Retry):
		m.notice = ""
		return m, m.load(m.screen)

	case key.Matches(msg, m.keys.Tab):
		return m.switchTo(m.offsetScreen(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchTo(m.offsetScreen(-1))

	case key.Matches(msg, m.keys.ViewDashboard):
		return m.switchTo(ScreenDashboard)

	case key.Matches(msg, m.keys.ViewAssets):
		return m.switchTo(ScreenAssets)

	case key.Matches(msg, m.keys.ViewRequests):
		return m.switchTo(ScreenRequests)
	}

	switch m.screen {
	case ScreenAssets:
		return m.handleAssetsKey(msg)
	case ScreenRequests:
		return m.handleRequestsKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

// handleMouse routes left clicks to the active screen.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.modal != nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.screen == ScreenAssets {
		return m.handleAssetsClick(msg.X, msg.Y)
	}
	return m, nil
}

func (m Model) offsetScreen(delta int) Screen {
	n := len(screenOrder)
	return screenOrder[((int(m.screen)+delta)%n+n)%n]
}

// switchTo leaves the current screen and loads s. Results still in flight
// for the old screen are discarded when they arrive.
func (m Model) switchTo(s Screen) (tea.Model, tea.Cmd) {
	m.deactivate(m.screen)
	m.screen = s
	m.notice = ""
	return m, m.load(s)
}

// switchRole changes the scope of every screen and reloads the active one.
// The other screens reload on their next visit.
func (m Model) switchRole(role Role) (tea.Model, tea.Cmd) {
	for _, s := range screenOrder {
		m.deactivate(s)
	}
	m.role = role
	m.notice = ""
	return m, m.load(m.screen)
}

func (m Model) deactivate(s Screen) {
	switch s {
	case ScreenDashboard:
		m.dash.data.Deactivate()
	case ScreenAssets:
		m.assets.list.Deactivate()
		m.assets.reset()
	case ScreenRequests:
		m.requests.list.Deactivate()
		m.requests.stats.Deactivate()
		m.requests.openForm = false
	}
}

// load enters Loading for s and returns the fetch command.
func (m Model) load(s Screen) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	filter := m.scope()
	switch s {
	case ScreenAssets:
		tok := m.assets.list.Begin()
		return loadAssetsCmd(m.ctx, m.svc, tok, filter)
	case ScreenRequests:
		listTok := m.requests.list.Begin()
		statsTok := m.requests.stats.Begin()
		return loadRequestsCmd(m.ctx, m.svc, listTok, statsTok, filter)
	default:
		tok := m.dash.data.Begin()
		return loadDashboardCmd(m.ctx, m.svc, tok, filter)
	}
}

// scope returns the list filter for the current role. Status filtering is
// always local.
func (m Model) scope() api.Filter {
	if m.role.Admin() {
		return api.Filter{Status: api.FilterAll}
	}
	return api.Filter{Status: api.FilterAll, User: m.cfg.EmployeeName}
}

// userName is the person the current role acts as.
func (m Model) userName() string {
	if m.role.Admin() {
		return m.cfg.AdminName
	}
	return m.cfg.EmployeeName
}

// contentHeight is the height left for the screen body.
func (m Model) contentHeight() int {
	return max(m.height-headerLines-footerLines, 3)
}

// Run starts the Bubble Tea program and blocks until the user quits or
// the options context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	return err
}
