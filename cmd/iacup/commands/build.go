package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iacup/cmd/iacup/handlers"
)

// Build returns the command that provisions a running emulator.
func Build(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Provision resources into a running emulator",
		Long: `Provision the environment's resources into a running emulator.

Secrets are created in every environment. In staging the functions are
built, packaged and deployed, and the HTTP gateway is imported and deployed.
Resources that already exist are left unchanged, so build can be re-run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Build(cmd.Context(), *opts)
		},
	}
}
