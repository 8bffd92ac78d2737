package config

import (
	"fmt"
	"net/url"
	"os"
	"os/user"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTracking()
	if err := c.normalizeEvents(); err != nil {
		return err
	}
	c.normalizeAction()
	c.normalizeViewer()
	c.normalizeLogging()
	c.Status.Bind = strings.TrimSpace(c.Status.Bind)
	c.Status.Token = strings.TrimSpace(c.Status.Token)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTracking() {
	c.Tracking.ServerURL = strings.TrimRight(strings.TrimSpace(c.Tracking.ServerURL), "/")
	if c.Tracking.ServerURL == "" {
		if value, ok := os.LookupEnv("FTRACK_SERVER"); ok {
			c.Tracking.ServerURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	c.Tracking.APIUser = strings.TrimSpace(c.Tracking.APIUser)
	if c.Tracking.APIUser == "" {
		if value, ok := os.LookupEnv("FTRACK_API_USER"); ok {
			c.Tracking.APIUser = strings.TrimSpace(value)
		}
	}
	c.Tracking.APIKey = strings.TrimSpace(c.Tracking.APIKey)
	if c.Tracking.APIKey == "" {
		if value, ok := os.LookupEnv("FTRACK_API_KEY"); ok {
			c.Tracking.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Tracking.TimeoutSeconds <= 0 {
		c.Tracking.TimeoutSeconds = defaultTrackingTimeoutSeconds
	}
}

func (c *Config) normalizeEvents() error {
	c.Events.HubURL = strings.TrimSpace(c.Events.HubURL)
	if c.Events.HubURL == "" && c.Tracking.ServerURL != "" {
		derived, err := deriveHubURL(c.Tracking.ServerURL)
		if err != nil {
			return fmt.Errorf("events.hub_url: %w", err)
		}
		c.Events.HubURL = derived
	}
	if c.Events.ReconnectSeconds <= 0 {
		c.Events.ReconnectSeconds = defaultReconnectSeconds
	}
	if c.Events.DedupSize <= 0 {
		c.Events.DedupSize = defaultDedupSize
	}
	return nil
}

func deriveHubURL(serverURL string) (string, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse tracking server url: %w", err)
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	case "http":
		parsed.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported tracking server scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + defaultHubPath
	return parsed.String(), nil
}

func (c *Config) normalizeAction() {
	c.Action.Identifier = strings.TrimSpace(c.Action.Identifier)
	if c.Action.Identifier == "" {
		c.Action.Identifier = defaultActionIdentifier
	}
	c.Action.Label = strings.TrimSpace(c.Action.Label)
	if c.Action.Label == "" {
		c.Action.Label = defaultActionLabel
	}
	c.Action.Icon = strings.TrimSpace(c.Action.Icon)
	c.Action.Username = strings.TrimSpace(c.Action.Username)
	if c.Action.Username == "" {
		c.Action.Username = currentUsername()
	}
}

func (c *Config) normalizeViewer() {
	c.Viewer.Binary = strings.TrimSpace(c.Viewer.Binary)
	if value, ok := os.LookupEnv("SEQVIEW_VIEWER"); ok && strings.TrimSpace(value) != "" {
		c.Viewer.Binary = strings.TrimSpace(value)
	}
	if c.Viewer.Binary == "" {
		c.Viewer.Binary = DefaultViewerBinary(runtime.GOOS)
	}
	c.Viewer.Label = strings.TrimSpace(c.Viewer.Label)
	if c.Viewer.Label == "" {
		c.Viewer.Label = defaultViewerLabel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// currentUsername mirrors getpass semantics: login env vars first, then the
// account database.
func currentUsername() string {
	for _, key := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
