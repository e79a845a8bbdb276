// Package config loads the equip client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/equip/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. Entries from ./.env, then the process environment, override the result
//
// # Default Values
//
//   - API URL: http://127.0.0.1:8787
//   - Timeout: 30 seconds
//   - Employee role name: Jordan Lee
//   - Admin role name: Alex Morgan
//   - Log file: ~/.local/state/equip/equip.log
//
// # Environment Overrides
//
//   - EQUIP_API_URL
//   - EQUIP_TIMEOUT_SECONDS (positive integer)
//   - EQUIP_LOG_PATH
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8787"
//	timeout_seconds = 30
//	employee_name = "Jordan Lee"
//	admin_name = "Alex Morgan"
//	log_path = "~/.local/state/equip/equip.log"
//	sites = ["HQ", "Remote"]
//	assignees = ["Jordan Lee", "Sam Rivera"]
//
// Sites and assignees feed the choice lists of the asset form.
package config
