package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
}

// Tracking contains connection settings for the production-tracking server.
type Tracking struct {
	ServerURL      string `toml:"server_url"`
	APIUser        string `toml:"api_user"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Events contains configuration for the event hub connection.
type Events struct {
	// HubURL is the websocket endpoint. When empty it is derived from
	// tracking.server_url.
	HubURL           string `toml:"hub_url"`
	ReconnectSeconds int    `toml:"reconnect_seconds"`
	DedupSize        int    `toml:"dedup_size"`
}

// Action describes how the action is advertised in the tracking UI.
type Action struct {
	Identifier string `toml:"identifier"`
	Label      string `toml:"label"`
	Icon       string `toml:"icon"`
	// Username filters events to the ones raised by this user. Defaults to
	// the current OS user.
	Username string `toml:"username"`
}

// Viewer contains the external viewer executable settings.
type Viewer struct {
	Binary string `toml:"binary"`
	Label  string `toml:"label"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Status contains the optional local status/metrics server settings.
type Status struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"`
}

// Config encapsulates all configuration values for seqview.
//
// Configuration sections by subsystem:
//   - Paths: log and state directories
//   - Tracking: tracking server URL and API credentials
//   - Events: event hub endpoint, reconnect and duplicate filtering
//   - Action: identifier, label and icon advertised on discovery
//   - Viewer: external viewer executable
//   - Logging: log format and level
//   - Status: local status and metrics endpoint
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tracking Tracking `toml:"tracking"`
	Events   Events   `toml:"events"`
	Action   Action   `toml:"action"`
	Viewer   Viewer   `toml:"viewer"`
	Logging  Logging  `toml:"logging"`
	Status   Status   `toml:"status"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Environment files (.env) are read first so their
// values can serve as credential fallbacks.
func Load(path string) (*Config, string, bool, error) {
	loadEnvFiles()
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadEnvFiles reads .env from the working directory and the config directory.
// Variables already present in the environment win.
func loadEnvFiles() {
	candidates := []string{".env"}
	if dir, err := expandPath(defaultConfigDir); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			continue
		}
		_ = godotenv.Load(candidate)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("seqview.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TrackingTimeout returns the per-request timeout for tracking server calls.
func (c *Config) TrackingTimeout() time.Duration {
	if c.Tracking.TimeoutSeconds <= 0 {
		return time.Duration(defaultTrackingTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Tracking.TimeoutSeconds) * time.Second
}

// ReconnectInterval returns the delay between event hub reconnect attempts.
func (c *Config) ReconnectInterval() time.Duration {
	if c.Events.ReconnectSeconds <= 0 {
		return time.Duration(defaultReconnectSeconds) * time.Second
	}
	return time.Duration(c.Events.ReconnectSeconds) * time.Second
}

// HistoryPath returns the location of the launch history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the location of the single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "seqview.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
