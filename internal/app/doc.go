// Package app is the composition root for the equip TUI.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> ui.ParseRole()     Validate -role
//	       ├─────> config.Load()      TOML, .env, environment
//	       ├─────> tea.LogToFile()    Standard logger to cfg.LogPath
//	       ├─────> session.Ensure()   Stable X-Session-ID from prefs
//	       ├─────> prefs.Load()       Stored theme
//	       ├─────> api.NewClient()    HTTP client with timeout
//	       ├─────> preflight()        Health check, non-fatal
//	       └─────> ui.Run()           Start TUI (blocks)
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Unknown role
//   - Unreadable or invalid config file
//   - Log file or prefs file that cannot be created
//   - Invalid API base URL
//
// An unreachable service is not fatal. The preflight retries a few times
// with exponential backoff, each attempt under a short deadline of its own.
// It logs the outcome and hands over to the UI, where each screen shows its
// own error state and can be retried.
//
// All logging goes through the standard log package into the log file,
// because Bubble Tea owns the terminal while the UI runs.
package app
