package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"seqview/internal/config"
)

func clearTrackingEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FTRACK_SERVER", "FTRACK_API_USER", "FTRACK_API_KEY", "SEQVIEW_VIEWER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearTrackingEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("USER", "artist")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "seqview", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Action.Identifier != "djvviewer" {
		t.Fatalf("unexpected identifier: %q", cfg.Action.Identifier)
	}
	if cfg.Action.Username == "" {
		t.Fatal("expected username to default to the OS user")
	}
	if cfg.Viewer.Binary != config.DefaultViewerBinary(runtime.GOOS) {
		t.Fatalf("unexpected viewer binary: %q", cfg.Viewer.Binary)
	}
	if cfg.Events.HubURL != "" {
		t.Fatalf("expected empty hub url without server, got %q", cfg.Events.HubURL)
	}
	if err := cfg.RequireTracking(); err == nil {
		t.Fatal("expected RequireTracking to fail without credentials")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadUsesTrackingEnvAndDerivesHubURL(t *testing.T) {
	clearTrackingEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("FTRACK_SERVER", "https://studio.example.com/")
	t.Setenv("FTRACK_API_USER", "pipeline")
	t.Setenv("FTRACK_API_KEY", "secret")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tracking.ServerURL != "https://studio.example.com" {
		t.Fatalf("unexpected server url: %q", cfg.Tracking.ServerURL)
	}
	if cfg.Events.HubURL != "wss://studio.example.com/ws/events" {
		t.Fatalf("unexpected hub url: %q", cfg.Events.HubURL)
	}
	if err := cfg.RequireTracking(); err != nil {
		t.Fatalf("RequireTracking returned error: %v", err)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearTrackingEnv(t)
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	t.Chdir(workdir)

	dotenv := "FTRACK_SERVER=http://tracker.local:8080\nFTRACK_API_USER=bot\nFTRACK_API_KEY=k\n"
	if err := os.WriteFile(filepath.Join(workdir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("FTRACK_SERVER")
		os.Unsetenv("FTRACK_API_USER")
		os.Unsetenv("FTRACK_API_KEY")
	})

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Events.HubURL != "ws://tracker.local:8080/ws/events" {
		t.Fatalf("unexpected hub url: %q", cfg.Events.HubURL)
	}
	if cfg.Tracking.APIUser != "bot" {
		t.Fatalf("unexpected api user: %q", cfg.Tracking.APIUser)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearTrackingEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	payload := struct {
		Tracking config.Tracking `toml:"tracking"`
		Action   config.Action   `toml:"action"`
		Viewer   config.Viewer   `toml:"viewer"`
		Logging  config.Logging  `toml:"logging"`
	}{
		Tracking: config.Tracking{ServerURL: "https://tracker", APIUser: "u", APIKey: "k"},
		Action:   config.Action{Identifier: "rv", Label: "RV", Username: "comp"},
		Viewer:   config.Viewer{Binary: "/opt/rv/bin/rv"},
		Logging:  config.Logging{Format: "JSON", Level: "Debug"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Action.Identifier != "rv" || cfg.Action.Username != "comp" {
		t.Fatalf("unexpected action: %+v", cfg.Action)
	}
	if cfg.Viewer.Binary != "/opt/rv/bin/rv" {
		t.Fatalf("unexpected viewer: %q", cfg.Viewer.Binary)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if cfg.Events.HubURL != "wss://tracker/ws/events" {
		t.Fatalf("unexpected hub url: %q", cfg.Events.HubURL)
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Action.Username = "artist"
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	clearTrackingEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Viewer.Binary == "" {
		t.Fatal("expected viewer binary default to survive empty sample value")
	}
	if cfg.Events.HubURL != "wss://studio.ftrackapp.com/ws/events" {
		t.Fatalf("unexpected hub url: %q", cfg.Events.HubURL)
	}
}

func TestDefaultViewerBinaryPerPlatform(t *testing.T) {
	if got := config.DefaultViewerBinary("windows"); !strings.HasSuffix(got, "djv_view.exe") {
		t.Fatalf("unexpected windows binary: %q", got)
	}
	if got := config.DefaultViewerBinary("linux"); got != "djv_view" {
		t.Fatalf("unexpected linux binary: %q", got)
	}
}
