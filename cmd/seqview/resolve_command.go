package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"seqview/internal/sequence"
)

func newResolveCommand() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:         "resolve <path>",
		Short:       "Show the files a component path resolves to",
		Long:        "Expand a component path the way a launch would and print the matching files.\nPaths may contain a frame placeholder such as shot_%04d.exr.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := sequence.Expand(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			writeLines(out, renderSectionHeader("Resolve", colorize)...)

			if set.IsSequence() {
				writeLines(out, renderStatusLine("Pattern", statusInfo, set.Descriptor.Pattern(), colorize))
			} else {
				writeLines(out, renderStatusLine("Pattern", statusInfo, "single file (matching extension)", colorize))
			}
			writeLines(out, renderStatusLine("Files", statusInfo, strconv.Itoa(set.Len()), colorize))
			if r := set.Range(); r != "" {
				writeLines(out, renderStatusLine("Frames", statusInfo, r, colorize))
			}

			frame, err := set.Representative()
			if err != nil {
				writeLines(out, renderStatusLine("Viewer frame", statusError, "no files found", colorize))
				return err
			}
			writeLines(out, renderStatusLine("Viewer frame", statusOK, frame, colorize))

			if showAll {
				fmt.Fprintln(out)
				for _, path := range set.Paths {
					fmt.Fprintln(out, path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "List every matching file")
	return cmd
}
