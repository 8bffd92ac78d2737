package viewer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"seqview/internal/logging"
	"seqview/internal/services"
)

// Launcher opens a single path in the viewer.
type Launcher interface {
	Launch(ctx context.Context, path string) error
}

// ProcessLauncher starts the viewer as a detached child process. Launch
// returns once the process has started; the child is reaped in the
// background.
type ProcessLauncher struct {
	binary string
	logger *slog.Logger
}

// NewProcessLauncher builds a launcher for the given executable name or path.
func NewProcessLauncher(binary string, logger *slog.Logger) *ProcessLauncher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ProcessLauncher{
		binary: strings.TrimSpace(binary),
		logger: logging.NewComponentLogger(logger, "viewer"),
	}
}

// Binary returns the configured executable.
func (l *ProcessLauncher) Binary() string { return l.binary }

// Launch starts the viewer with path as its only argument.
func (l *ProcessLauncher) Launch(ctx context.Context, path string) error {
	execPath, err := Resolve(l.binary)
	if err != nil {
		return services.Wrap(services.ErrLaunch, "viewer", "resolve", l.binary, err)
	}

	cmd := exec.Command(execPath, path)
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrLaunch, "viewer", "start", execPath, err)
	}

	logger := logging.WithContext(ctx, l.logger)
	pid := cmd.Process.Pid
	logger.Debug("viewer started",
		logging.String("binary", execPath),
		logging.String("path", path),
		logging.Int("pid", pid),
	)
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("viewer exited", logging.Int("pid", pid), logging.Error(err))
		}
	}()
	return nil
}

// Resolve locates the executable and confirms it can be run.
func Resolve(binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "", exec.ErrNotFound
	}
	execPath, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}
	if err := checkExecutable(execPath); err != nil {
		return "", err
	}
	return execPath, nil
}

// IsNotFound checks if the error indicates the viewer was not found.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, exec.ErrNotFound)
}

// IsPermissionDenied checks if the error indicates permission was denied.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrPermission)
}
