package commands

import "github.com/spf13/cobra"

func (c *CLI) newPrintDevEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "print-dev-env",
		Short:   "Build the environment and print it as shell exports",
		Example: `  eval "$(sprout print-dev-env)"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.PrintDevEnv(cmd.Context(), options(cmd))
		},
	}
}
