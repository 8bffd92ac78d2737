package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seqview/internal/logging"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbosityFlag string

	ctx := newCommandContext(&configFlag, &verbosityFlag)

	rootCmd := &cobra.Command{
		Use:           "seqview",
		Short:         "Open tracked image sequences in the DJV viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := logging.ParseLevel(verbosityFlag); err != nil {
				return fmt.Errorf("invalid --verbosity: %w", err)
			}
			ctx.verbositySet = cmd.Flags().Changed("verbosity")
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListener(cmd.Context(), ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&verbosityFlag, "verbosity", "v", "info",
		"Logging verbosity ("+strings.Join(logging.Verbosities, ", ")+")")

	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
