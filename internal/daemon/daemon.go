package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"seqview/internal/action"
	"seqview/internal/config"
	"seqview/internal/eventhub"
	"seqview/internal/history"
	"seqview/internal/logging"
	"seqview/internal/services"
	"seqview/internal/tracking"
	"seqview/internal/viewer"
)

// EventHub is the connection the daemon listens on.
type EventHub interface {
	eventhub.Registry
	Connect(ctx context.Context) error
	Run(ctx context.Context) error
	Close() error
	Hub() *eventhub.Hub
}

// Deps holds the collaborators of the daemon. History is optional.
type Deps struct {
	Tracking tracking.Client
	Hub      EventHub
	Launcher viewer.Launcher
	History  *history.Store
}

// Daemon runs the viewer action against the event hub and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	base   *slog.Logger
	logger *slog.Logger
	deps   Deps

	lockPath string
	lock     *flock.Flock

	mu        sync.Mutex
	action    *action.ViewerAction
	status    *statusServer
	startedAt atomic.Int64
	running   atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool          `json:"running"`
	PID           int           `json:"pid"`
	User          string        `json:"user"`
	Action        string        `json:"action"`
	StartedAt     time.Time     `json:"started_at,omitzero"`
	LastEvent     time.Time     `json:"last_event,omitzero"`
	Subscriptions []string      `json:"subscriptions"`
	LockFilePath  string        `json:"lock_file"`
	HistoryDBPath string        `json:"history_db,omitempty"`
	Viewer        viewer.Status `json:"viewer"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) (*Daemon, error) {
	if cfg == nil || deps.Tracking == nil || deps.Hub == nil || deps.Launcher == nil {
		return nil, errors.New("daemon requires config, tracking client, event hub, and launcher")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		deps:     deps,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock, checks the tracking server, connects to the hub,
// registers the action and starts the status server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another seqview listener is already running")
	}

	if err := d.start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.startedAt.Store(time.Now().UnixNano())
	d.running.Store(true)
	d.logger.Info("seqview listener started",
		logging.String("lock", d.lockPath),
		logging.String("username", d.cfg.Action.Username),
	)
	return nil
}

func (d *Daemon) start(ctx context.Context) error {
	if err := d.deps.Tracking.Ping(ctx); err != nil {
		return services.Wrap(services.ErrRemote, "daemon", "ping tracking server", d.cfg.Tracking.ServerURL, err)
	}
	if err := d.deps.Hub.Connect(ctx); err != nil {
		return err
	}

	deps := action.Deps{
		Config:   d.cfg,
		Client:   d.deps.Tracking,
		Launcher: d.deps.Launcher,
		Logger:   d.base,
	}
	if d.deps.History != nil {
		deps.History = d.deps.History
	}
	act, err := action.Register(d.deps.Hub, deps)
	if err != nil {
		_ = d.deps.Hub.Close()
		return fmt.Errorf("register action: %w", err)
	}

	srv, err := newStatusServer(d.cfg, d, d.base)
	if err != nil {
		_ = act.Unregister()
		_ = d.deps.Hub.Close()
		return err
	}
	if err := srv.start(ctx); err != nil {
		_ = act.Unregister()
		_ = d.deps.Hub.Close()
		return err
	}

	d.action = act
	d.status = srv
	return nil
}

// Run blocks on the hub connection until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.Load() {
		return errors.New("daemon not started")
	}
	return d.deps.Hub.Run(ctx)
}

// Stop unregisters the action, closes the hub connection and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}

	if d.action != nil {
		if err := d.action.Unregister(); err != nil {
			d.logger.Warn("failed to unregister action", logging.Error(err))
		}
		d.action = nil
	}
	d.status.stop()
	d.status = nil
	if err := d.deps.Hub.Close(); err != nil {
		d.logger.Warn("failed to close event hub", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("seqview listener stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.deps.History != nil {
		return d.deps.History.Close()
	}
	return nil
}

// StatusAddr returns the status server address, or "" when it is disabled.
func (d *Daemon) StatusAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status.addr()
}

// Status reports the daemon runtime state.
func (d *Daemon) Status() Status {
	hub := d.deps.Hub.Hub()
	exprs := hub.Expressions()
	subs := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		subs = append(subs, expr)
	}
	sort.Strings(subs)

	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		User:          d.cfg.Action.Username,
		Action:        d.cfg.Action.Identifier,
		LastEvent:     hub.LastEvent(),
		Subscriptions: subs,
		LockFilePath:  d.lockPath,
		Viewer:        viewer.Check(d.cfg.Viewer.Label, d.cfg.Viewer.Binary),
	}
	if status.Running {
		status.StartedAt = time.Unix(0, d.startedAt.Load())
	}
	if d.deps.History != nil {
		status.HistoryDBPath = d.deps.History.Path()
	}
	return status
}
