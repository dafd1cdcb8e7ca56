package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iacup/cmd/iacup/handlers"
)

// Plan returns the command that prints what build would do.
func Plan(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the phases build runs for the environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), *opts)
		},
	}
}
