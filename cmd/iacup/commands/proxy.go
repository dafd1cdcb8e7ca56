package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iacup/cmd/iacup/handlers"
	"github.com/imamik/iacup/internal/proxy"
)

// Proxy returns the command that serves a deployed function over HTTP.
//
// Optional flags:
//
//	--function, -f: Function to invoke (default: first function of the stack)
//	--route, -r: Path segment to serve under (default: fibonacci)
//	--host: Address to bind (default: all interfaces)
//	--port, -p: Port to listen on (default: 5000)
func Proxy(opts *handlers.Options) *cobra.Command {
	var p handlers.ProxyOptions

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Serve a deployed function on a local HTTP endpoint",
		Long: `Serve a deployed function on a local HTTP endpoint.

GET /<route>?number=N is sent to the function as an API Gateway proxy
event and the function's body is returned as JSON. Metrics are served
on /metrics.

Examples:
  # Serve the sample function on http://localhost:5000/fibonacci
  iacup proxy

  curl 'http://localhost:5000/fibonacci?number=20'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Proxy(cmd.Context(), *opts, p)
		},
	}

	cmd.Flags().StringVarP(&p.Function, "function", "f", "", "Function to invoke (default: first function of the stack)")
	cmd.Flags().StringVarP(&p.Route, "route", "r", handlers.DefaultRoute, "Path segment to serve under")
	cmd.Flags().StringVar(&p.Host, "host", "", "Address to bind (default: all interfaces)")
	cmd.Flags().IntVarP(&p.Port, "port", "p", proxy.DefaultPort, "Port to listen on")

	return cmd
}
