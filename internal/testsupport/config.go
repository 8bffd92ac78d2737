package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"seqview/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Tracking.ServerURL = "http://127.0.0.1:0"
	cfgVal.Tracking.APIUser = "tester"
	cfgVal.Tracking.APIKey = "test"
	cfgVal.Events.HubURL = "ws://127.0.0.1:0/ws/events"
	cfgVal.Action.Username = "tester"
	cfgVal.Status.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTrackingServer points the test config at a tracking server URL.
func WithTrackingServer(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tracking.ServerURL = url
	}
}

// WithHubURL overrides the event hub endpoint on the test config.
func WithHubURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Events.HubURL = url
	}
}

// WithStatusToken sets the bearer token guarding the status server.
func WithStatusToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Status.Token = token
	}
}

// WithStubbedViewer writes a stub viewer executable and points the config at
// it. The stub exits immediately.
func WithStubbedViewer() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "djv_view")
		if err := os.WriteFile(target, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			b.t.Fatalf("write stub viewer: %v", err)
		}
		b.cfg.Viewer.Binary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
