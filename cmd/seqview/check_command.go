package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seqview/internal/tracking"
	"seqview/internal/viewer"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check configuration, viewer and tracking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			writeLines(out, renderSectionHeader("seqview", colorize)...)
			configPath := ctx.configPath
			if !ctx.configExists {
				configPath = "defaults (" + configPath + " not found)"
			}
			writeLines(out,
				renderStatusLine("Config", statusInfo, configPath, colorize),
				renderStatusLine("User", statusInfo, cfg.Action.Username, colorize),
			)

			if status := viewer.Check(cfg.Viewer.Label, cfg.Viewer.Binary); status.Available {
				writeLines(out, renderStatusLine("Viewer", statusOK, status.Command, colorize))
			} else {
				failed = true
				writeLines(out, renderStatusLine("Viewer", statusError, status.Detail, colorize))
			}

			if err := cfg.RequireTracking(); err != nil {
				writeLines(out, renderStatusLine("Tracking", statusWarn, err.Error(), colorize))
				return nil
			}
			pingCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			if err := tracking.NewConfiguredClient(cfg).Ping(pingCtx); err != nil {
				failed = true
				writeLines(out, renderStatusLine("Tracking", statusError, err.Error(), colorize))
			} else {
				writeLines(out, renderStatusLine("Tracking", statusOK, cfg.Tracking.ServerURL, colorize))
			}
			writeLines(out, renderStatusLine("Event hub", statusInfo, cfg.Events.HubURL, colorize))

			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
