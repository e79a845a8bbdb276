package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/config"
	"github.com/five82/equip/internal/prefs"
	"github.com/five82/equip/internal/session"
	"github.com/five82/equip/internal/ui"
)

// Options configure the equip application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/equip/prefs.toml
	Role       string // "admin" or "employee"; empty is employee
}

// Run boots the equip TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	role, err := ui.ParseRole(opts.Role)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load equip config: %w", err)
	}

	logFile, err := openLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	sessionID, err := session.Ensure(prefsPath)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.APIURL,
		SessionID: sessionID,
		Timeout:   cfg.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	preflight(ctx, client, defaultPreflightAttempts, defaultPreflightInterval, defaultPreflightTimeout)

	return ui.Run(ui.Options{
		Context:   ctx,
		Service:   client,
		Config:    cfg,
		Role:      role,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
	})
}

// openLog routes the standard logger into path. The terminal belongs to the
// TUI, so nothing may be written to stdout or stderr while it runs.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return tea.LogToFile(path, "equip")
}
