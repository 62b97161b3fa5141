// Package commands implements the CLI commands for the maestro build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/maestro/internal/app"
	"go.trai.ch/maestro/internal/build"
)

// CLI represents the command line interface for maestro.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.RunOptions) error
	Watch(ctx context.Context, opts app.RunOptions) error
	SaveRules(ctx context.Context, path string, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "maestro",
		Short:         "Dependency-resolving build orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	// -v belongs to --verbose, so the version flag is registered without a shorthand.
	rootCmd.Flags().Bool("version", false, "Print the application version")
	rootCmd.InitDefaultVersionFlag()

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("file", "f", "", "Path to the buildfile (default: search upwards for maestro.yaml)")
	flags.StringP("rules", "r", "", "Build from a rule file instead of the buildfile")
	flags.String("state-dir", "", "Override the build-state directory")
	flags.BoolP("verbose", "v", false, "Enable debug logging and verbose progress")
	flags.Bool("no-colors", false, "Disable colored output")
	flags.Bool("json", false, "Write log records as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newRulesCmd())
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

// runOptions reads the persistent flags shared by every command.
func runOptions(cmd *cobra.Command) app.RunOptions {
	file, _ := cmd.Flags().GetString("file")
	rules, _ := cmd.Flags().GetString("rules")
	stateDir, _ := cmd.Flags().GetString("state-dir")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColors, _ := cmd.Flags().GetBool("no-colors")
	json, _ := cmd.Flags().GetBool("json")

	return app.RunOptions{
		File:      file,
		RulesFile: rules,
		StateDir:  stateDir,
		Verbose:   verbose,
		NoColors:  noColors,
		JSON:      json,
	}
}
