package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything equip needs to reach the service and present
// the two demo roles.
type Config struct {
	APIURL         string
	TimeoutSeconds int
	EmployeeName   string
	AdminName      string
	LogPath        string
	Sites          []string
	Assignees      []string
}

const (
	defaultConfigPath     = "~/.config/equip/config.toml"
	defaultEnvFile        = ".env"
	defaultAPIURL         = "http://127.0.0.1:8787"
	defaultTimeoutSeconds = 30
	defaultEmployeeName   = "Jordan Lee"
	defaultAdminName      = "Alex Morgan"
	defaultLogPath        = "~/.local/state/equip/equip.log"

	envAPIURL  = "EQUIP_API_URL"
	envTimeout = "EQUIP_TIMEOUT_SECONDS"
	envLogPath = "EQUIP_LOG_PATH"
)

var (
	defaultSites     = []string{"HQ", "Remote", "Branch Office", "Warehouse"}
	defaultAssignees = []string{"Jordan Lee", "Sam Rivera", "Taylor Kim", "Casey Brooks", "Morgan Diaz"}
)

// Load locates and parses the equip config, falling back to defaults when
// missing. Values from a .env file in the working directory and from the
// process environment override the file, in that order.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := cfg.readTOML(file); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(defaultEnvFile); err != nil {
		return Config{}, err
	}
	cfg.LogPath = mustExpand(cfg.LogPath)
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIURL:         defaultAPIURL,
		TimeoutSeconds: defaultTimeoutSeconds,
		EmployeeName:   defaultEmployeeName,
		AdminName:      defaultAdminName,
		LogPath:        defaultLogPath,
		Sites:          append([]string(nil), defaultSites...),
		Assignees:      append([]string(nil), defaultAssignees...),
	}
}

func (c *Config) readTOML(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string   `toml:"api_url"`
		TimeoutSeconds int      `toml:"timeout_seconds"`
		EmployeeName   string   `toml:"employee_name"`
		AdminName      string   `toml:"admin_name"`
		LogPath        string   `toml:"log_path"`
		Sites          []string `toml:"sites"`
		Assignees      []string `toml:"assignees"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.APIURL, raw.APIURL)
	setString(&c.EmployeeName, raw.EmployeeName)
	setString(&c.AdminName, raw.AdminName)
	setString(&c.LogPath, raw.LogPath)
	if raw.TimeoutSeconds > 0 {
		c.TimeoutSeconds = raw.TimeoutSeconds
	}
	if sites := cleanList(raw.Sites); len(sites) > 0 {
		c.Sites = sites
	}
	if assignees := cleanList(raw.Assignees); len(assignees) > 0 {
		c.Assignees = assignees
	}
	return nil
}

// applyEnv overlays envFile entries and then the process environment.
// A missing envFile is not an error.
func (c *Config) applyEnv(envFile string) error {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	for _, key := range []string{envAPIURL, envTimeout, envLogPath} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}

	setString(&c.APIURL, values[envAPIURL])
	setString(&c.LogPath, values[envLogPath])
	if raw := strings.TrimSpace(values[envTimeout]); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%s: invalid timeout %q", envTimeout, raw)
		}
		c.TimeoutSeconds = secs
	}
	return nil
}

// Timeout returns the per-call deadline.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
