package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build every stale target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rebuild, _ := cmd.Flags().GetBool("rebuild")

			opts := runOptions(cmd)
			opts.Rebuild = rebuild
			return c.app.Run(cmd.Context(), opts)
		},
	}
	cmd.Flags().Bool("rebuild", false, "Remove all known outputs before building")
	return cmd
}
