package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPort is the port the proxy listens on.
const DefaultPort = 5000

// DefaultNumber is sent when the request has no number parameter.
const DefaultNumber = "1"

// proxiedMethod is the method the function sees, whatever the client used.
const proxiedMethod = http.MethodPost

const shutdownTimeout = 5 * time.Second

// Options configure a proxy router.
type Options struct {
	// Route is the path segment the function is served under.
	Route    string
	Invoker  Invoker
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// NewRouter returns the proxy HTTP handler.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	route := strings.Trim(opts.Route, "/")
	metrics := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(accessLog(logger))

	r.Get("/"+route, func(w http.ResponseWriter, req *http.Request) {
		code := serveInvoke(w, req, opts.Invoker, logger, metrics, route)
		metrics.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func serveInvoke(w http.ResponseWriter, req *http.Request, invoker Invoker, logger *slog.Logger, metrics *Metrics, route string) int {
	number := req.URL.Query().Get("number")
	if number == "" {
		number = DefaultNumber
	}

	event := events.APIGatewayProxyRequest{
		Path:                  req.URL.Path,
		HTTPMethod:            proxiedMethod,
		QueryStringParameters: map[string]string{"number": number},
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  uuid.NewString(),
			Path:       req.URL.Path,
			HTTPMethod: proxiedMethod,
		},
	}

	start := time.Now()
	resp, err := invoker.Invoke(req.Context(), event)
	metrics.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("invocation failed", "request_id", event.RequestContext.RequestID, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return http.StatusBadGateway
	}

	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(resp.Body))
	return code
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelDebug
			if status/100 != 2 {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start))
		})
	}
}

// Serve listens on addr and serves handler until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln, handler, logger)
}

// ServeListener serves handler on ln until ctx is cancelled.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("proxy listening", "address", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
