package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/iacup/internal/proxy"
)

// DefaultRoute is the route the sample function is served under.
const DefaultRoute = "fibonacci"

// ProxyOptions configure the local function proxy.
type ProxyOptions struct {
	// Function defaults to the stack's first function.
	Function string
	Route    string
	Host     string
	Port     int
}

// Proxy serves a deployed function on a local HTTP endpoint until ctx is
// cancelled.
func Proxy(ctx context.Context, opts Options, p ProxyOptions) error {
	rt, err := resolveRuntime(opts.setupOptions())
	if err != nil {
		return err
	}

	function := p.Function
	if function == "" {
		if len(rt.Stack.Functions) == 0 {
			return errors.New("no function to proxy: the stack defines no functions")
		}
		function = rt.Stack.Functions[0].Name
	}
	route := p.Route
	if route == "" {
		route = DefaultRoute
	}
	port := p.Port
	if port == 0 {
		port = proxy.DefaultPort
	}

	invoker, err := newInvoker(ctx, rt.Credentials, function)
	if err != nil {
		return err
	}

	logger := opts.logger().With("function", function, "route", "/"+route)
	router := proxy.NewRouter(proxy.Options{
		Route:   route,
		Invoker: invoker,
		Logger:  logger,
	})
	return serveProxy(ctx, fmt.Sprintf("%s:%d", p.Host, port), router, logger)
}
