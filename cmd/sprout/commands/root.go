// Package commands implements the CLI commands for sprout.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/sprout/internal/app"
	"go.trai.ch/sprout/internal/build"
)

const rootLong = `sprout detects the toolchains a project uses, builds a matching Nix
environment and starts a shell or command inside it.`

// CLI represents the command line interface for sprout.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Shell(ctx context.Context, opts app.Options) error
	Run(ctx context.Context, args []string, opts app.Options) error
	PrintDevEnv(ctx context.Context, opts app.Options) error
	Detect(ctx context.Context, opts app.DetectOptions) error
	Clean(ctx context.Context) error
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "sprout",
		Short:         "Development environments from your project's own manifests",
		Long:          rootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			c.app.SetVerbose(verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Shell(cmd.Context(), options(cmd))
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("project-dir", "C", ".", "Project directory to detect and enter")
	flags.Bool("offline", false, "Build without network access")
	flags.Bool("refresh", false, "Ignore the environment cache and rebuild")
	flags.StringP("output-mode", "o", "", "Output mode: auto, tui, or linear")
	flags.Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	flags.BoolP("yes", "y", false, "Do not ask for confirmation")
	flags.Bool("verbose", false, "Print debug logs")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newShellCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newPrintDevEnvCmd())
	rootCmd.AddCommand(c.newDetectCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options reads the persistent flags shared by every environment command.
func options(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()
	projectDir, _ := flags.GetString("project-dir")
	offline, _ := flags.GetBool("offline")
	refresh, _ := flags.GetBool("refresh")
	outputMode, _ := flags.GetString("output-mode")
	ci, _ := flags.GetBool("ci")
	yes, _ := flags.GetBool("yes")

	// If --ci is set, override output-mode to "linear"
	if ci {
		outputMode = "linear"
	}

	return app.Options{
		ProjectDir: projectDir,
		Offline:    offline,
		Refresh:    refresh,
		OutputMode: outputMode,
		Yes:        yes,
	}
}
