// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers package.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/iacup/cmd/iacup/handlers"
	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/logging"
)

// Root returns the root command for the iacup CLI.
//
// The persistent flags select the environment and locate the project; they
// are resolved into handler options before any subcommand runs.
func Root() *cobra.Command {
	opts := &handlers.Options{}
	var environment, logLevel string

	cmd := &cobra.Command{
		Use:           "iacup",
		Short:         "Provision the example services into the local cloud emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			env, err := config.ParseEnvironment(environment)
			if err != nil {
				return err
			}
			opts.Environment = env
			opts.Logger = logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(logLevel))
			opts.Out = cmd.OutOrStdout()
			return nil
		},
	}

	defaultLevel := os.Getenv(config.EnvLogLevel)
	if defaultLevel == "" {
		defaultLevel = "info"
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&environment, "environment", "e", string(config.DefaultEnvironment), "Target environment (local, staging, production)")
	flags.StringVarP(&opts.Root, "dir", "C", ".", "Project directory containing the infrastructure directory")
	flags.StringVar(&opts.StackFile, "stack", "", "Path to the stack file (default: infrastructure/iacup.yaml)")
	flags.StringVar(&logLevel, "log-level", defaultLevel, "Log level (debug, info, warn, error) [$"+config.EnvLogLevel+"]")

	// Lifecycle commands
	cmd.AddCommand(Up(opts))
	cmd.AddCommand(Build(opts))

	// Single-purpose commands
	cmd.AddCommand(Queues(opts))
	cmd.AddCommand(Buckets(opts))
	cmd.AddCommand(Plan(opts))
	cmd.AddCommand(Proxy(opts))
	cmd.AddCommand(Version())

	return cmd
}
