package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"seqview/internal/daemon"
	"seqview/internal/eventhub"
	"seqview/internal/history"
	"seqview/internal/logging"
	"seqview/internal/tracking"
	"seqview/internal/viewer"
)

func runListener(cmdCtx context.Context, ctx *commandContext) error {
	if ctx == nil {
		return fmt.Errorf("command context is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireTracking(); err != nil {
		return err
	}
	logger, err := ctx.logger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if status := viewer.Check(cfg.Viewer.Label, cfg.Viewer.Binary); !status.Available {
		logger.Warn("viewer unavailable; launches will fail until it is installed",
			logging.String("binary", status.Command),
			logging.String("detail", status.Detail),
		)
	}

	hub, err := eventhub.NewClient(eventhub.ClientOptions{
		URL:            cfg.Events.HubURL,
		User:           cfg.Tracking.APIUser,
		APIKey:         cfg.Tracking.APIKey,
		ReconnectDelay: cfg.ReconnectInterval(),
		DedupSize:      cfg.Events.DedupSize,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	store, err := history.Open(cfg)
	if err != nil {
		logger.Error("open history store", logging.Error(err))
		return err
	}

	d, err := daemon.New(cfg, logger, daemon.Deps{
		Tracking: tracking.NewConfiguredClient(cfg),
		Hub:      hub,
		Launcher: viewer.NewProcessLauncher(cfg.Viewer.Binary, logger),
		History:  store,
	})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Log(signalCtx, logging.LevelCritical, "seqview listener failed to start", logging.Error(err))
		return err
	}

	err = d.Run(signalCtx)
	logger.Info("seqview listener shutting down")
	return err
}
