package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sprout/internal/app"
)

func (c *CLI) newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show detected toolchains and resolved inputs without building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, _ := cmd.Flags().GetBool("spec")
			system, _ := cmd.Flags().GetString("system")

			return c.app.Detect(cmd.Context(), app.DetectOptions{
				Options: options(cmd),
				Spec:    spec,
				System:  system,
			})
		},
	}

	cmd.Flags().Bool("spec", false, "Also print the generated Nix expression")
	cmd.Flags().String("system", "", "Resolve for another system, e.g. aarch64-darwin")

	return cmd
}
