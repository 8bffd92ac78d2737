//go:build unix

package viewer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seqview/internal/services"
	"seqview/internal/viewer"
)

func writeScript(t *testing.T, path, body string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), mode); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestLaunchPassesSingleArgument(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "args.txt")
	bin := filepath.Join(dir, "djv_view")
	writeScript(t, bin, "#!/bin/sh\nprintf '%s\\n' \"$#\" \"$@\" > \""+out+"\"\n", 0o755)

	launcher := viewer.NewProcessLauncher(bin, nil)
	frame := filepath.Join(dir, "shot 0001.exr")
	if err := launcher.Launch(context.Background(), frame); err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var data []byte
	for time.Now().Before(deadline) {
		var err error
		data, err = os.ReadFile(out)
		if err == nil && strings.Count(string(data), "\n") >= 2 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != "1" || lines[1] != frame {
		t.Fatalf("unexpected viewer arguments: %q", string(data))
	}
}

func TestLaunchMissingBinary(t *testing.T) {
	launcher := viewer.NewProcessLauncher(filepath.Join(t.TempDir(), "missing"), nil)
	err := launcher.Launch(context.Background(), "/tmp/frame.exr")
	if !errors.Is(err, services.ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
	if !viewer.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCheckReportsAvailability(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	writeScript(t, present, "#!/bin/sh\nexit 0\n", 0o755)
	plain := filepath.Join(dir, "plain")
	writeScript(t, plain, "#!/bin/sh\nexit 0\n", 0o644)

	if status := viewer.Check("DJV Viewer", present); !status.Available || status.Detail != "" {
		t.Fatalf("expected available viewer, got %#v", status)
	}
	if status := viewer.Check("DJV Viewer", "clearly-not-present-binary"); status.Available || !strings.Contains(status.Detail, "not found") {
		t.Fatalf("expected missing viewer, got %#v", status)
	}
	if status := viewer.Check("DJV Viewer", "  "); status.Available || status.Detail != "command not configured" {
		t.Fatalf("expected unconfigured viewer, got %#v", status)
	}
	if os.Geteuid() != 0 {
		if status := viewer.Check("DJV Viewer", plain); status.Available {
			t.Fatalf("expected non-executable viewer to be unavailable, got %#v", status)
		}
	}
}
