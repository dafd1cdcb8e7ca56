package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iacup/cmd/iacup/handlers"
)

// Up returns the command that recreates and provisions the whole environment.
func Up(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Recreate the containers and provision the environment",
		Long: `Recreate the local emulation environment.

The compose project is stopped and its volumes removed, the images of the
environment profile are built, the emulator is started and provisioned,
and finally the remaining services are started.

Examples:
  # Bring up the staging environment
  iacup up

  # Bring up the local environment, functions run on this machine
  iacup up -e local`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), *opts)
		},
	}
}
