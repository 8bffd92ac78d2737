package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"seqview/internal/config"
	"seqview/internal/logging"
)

type commandContext struct {
	configFlag    *string
	verbosityFlag *string
	verbositySet  bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, verbosityFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		verbosityFlag: verbosityFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// verbosity returns the CLI override, or "" to keep the configured level.
func (c *commandContext) verbosity() string {
	if !c.verbositySet || c.verbosityFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.verbosityFlag)
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, c.verbosity())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
