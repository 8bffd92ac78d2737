package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"seqview/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent viewer launches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			launches, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(launches) == 0 {
				fmt.Fprintln(out, "No launches recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(launches, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of launches to show")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove recorded launches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var cutoff time.Time
			if olderThan > 0 {
				cutoff = time.Now().Add(-olderThan)
			}
			removed, err := store.Clear(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d launch(es)\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove launches older than this duration (e.g. 720h)")
	return cmd
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func renderHistoryTable(launches []history.Launch, colorize bool) string {
	rows := make([][]string, 0, len(launches))
	for _, launch := range launches {
		result := "ok"
		if !launch.Success {
			result = "failed"
		}
		detail := launch.Frame
		if !launch.Success {
			detail = launch.Message
		}
		rows = append(rows, []string{
			launch.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			launch.ComponentID,
			result,
			strconv.Itoa(launch.FrameCount),
			launch.FrameRange,
			detail,
		})
	}
	return renderTable(
		[]string{"When", "Component", "Result", "Files", "Frames", "Frame / Message"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
		colorize,
	)
}
