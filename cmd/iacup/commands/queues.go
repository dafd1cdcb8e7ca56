package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iacup/cmd/iacup/handlers"
)

// Queues returns the command that creates the stack's FIFO queues.
func Queues(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "queues",
		Short: "Create the FIFO queues and bind them to their functions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Queues(cmd.Context(), *opts)
		},
	}
}

// Buckets returns the command that ensures the stack's buckets.
func Buckets(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "buckets",
		Short: "Create the object storage buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Buckets(cmd.Context(), *opts)
		},
	}
}
