package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/maestro/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), build.Version)
				return
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "maestro version %s (commit: %s, date: %s)\n",
				build.Version, build.Commit, build.Date)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
