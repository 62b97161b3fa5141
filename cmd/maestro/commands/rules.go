package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules <output>",
		Short: "Write the rule file describing every target",
		Long:  "Write the rule file describing every target, plus its YAML companion. Build from it with 'maestro run -r <output>'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.SaveRules(cmd.Context(), args[0], runOptions(cmd))
		},
	}
}
