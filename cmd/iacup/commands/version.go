package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/iacup/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information from main.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Version returns the version command.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the iacup build and the environments it provisions",
		Long: `Print the iacup release with the commit and date it was built from.

The Go toolchain of the binary and the names accepted by --environment are
listed as well. Include this output when reporting a provisioning problem.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iacup %s\n", version)
			fmt.Fprintf(out, "  commit:       %s\n", commit)
			fmt.Fprintf(out, "  built:        %s\n", date)
			fmt.Fprintf(out, "  go:           %s\n", runtime.Version())
			fmt.Fprintf(out, "  environments: %s\n", strings.Join(config.EnvironmentNames(), ", "))
		},
	}
}
