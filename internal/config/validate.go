package config

import (
	"errors"
	"fmt"
	"strings"
)

var logLevels = map[string]struct{}{
	"notset":   {},
	"debug":    {},
	"info":     {},
	"warning":  {},
	"warn":     {},
	"error":    {},
	"critical": {},
}

// Validate ensures the configuration is usable. Credentials are checked
// separately by RequireTracking because offline commands do not need them.
func (c *Config) Validate() error {
	if err := c.validateAction(); err != nil {
		return err
	}
	if err := c.validateViewer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireTracking reports whether the tracking server connection is fully configured.
func (c *Config) RequireTracking() error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	if c.Tracking.ServerURL == "" {
		return fmt.Errorf("tracking.server_url is required. Set FTRACK_SERVER or edit %s (create with 'seqview config init')", defaultPath)
	}
	if c.Tracking.APIUser == "" || c.Tracking.APIKey == "" {
		return fmt.Errorf("tracking.api_user and tracking.api_key are required. Set FTRACK_API_USER/FTRACK_API_KEY or edit %s", defaultPath)
	}
	if c.Events.HubURL == "" {
		return errors.New("events.hub_url could not be determined")
	}
	return nil
}

func (c *Config) validateAction() error {
	if strings.ContainsAny(c.Action.Identifier, " \t") {
		return errors.New("action.identifier must not contain whitespace")
	}
	if c.Action.Username == "" {
		return errors.New("action.username could not be determined; set it explicitly")
	}
	if strings.ContainsAny(c.Action.Username, " \t") {
		return errors.New("action.username must not contain whitespace")
	}
	return nil
}

func (c *Config) validateViewer() error {
	if c.Viewer.Binary == "" {
		return errors.New("viewer.binary must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if _, ok := logLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
