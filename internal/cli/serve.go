package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/luckydraw"
	httpAdapter "github.com/aretw0/luckydraw/pkg/adapters/http"
	"github.com/aretw0/luckydraw/pkg/observability"
	"github.com/aretw0/luckydraw/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Defaults of the serve command.
const (
	DefaultAddr        = ":8080"
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
	shutdownTimeout    = 5 * time.Second
)

// Host bundles what the serve command runs.
type Host struct {
	Handler  http.Handler
	Sessions *session.Manager
	Registry *prometheus.Registry
	cleanup  func()
}

// Close releases the resource source.
func (h *Host) Close() {
	h.cleanup()
}

// NewHost wires the picker, the session registry, the metrics and the HTTP routes.
func NewHost(opts ServeOptions, logger *slog.Logger) (*Host, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = observability.Chain(hooks, observability.LoggingHooks(logger))
	}

	picker, cleanup, err := createPicker(opts.DataDir, opts.FlowFile, opts.Seed, opts.SourceOptions, logger, hooks)
	if err != nil {
		return nil, err
	}

	maxSessions := opts.MaxSessions
	if maxSessions == 0 {
		maxSessions = DefaultMaxSessions
	}
	sessions := session.NewManager(func() (session.Flow, error) {
		return picker.Spawn()
	},
		session.WithLogger(logger),
		session.WithMaxSessions(maxSessions),
	)

	handler := httpAdapter.NewHandler(sessions,
		httpAdapter.WithSteps(picker.Steps()),
		httpAdapter.WithVersion(luckydraw.Version),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		httpAdapter.WithReportOptions(opts.Report.build()...),
		httpAdapter.WithServerLogger(logger),
	)

	return &Host{
		Handler:  handler,
		Sessions: sessions,
		Registry: reg,
		cleanup:  cleanup,
	}, nil
}

// Serve runs the HTTP host until SIGINT/SIGTERM, then shuts down gracefully.
func Serve(opts ServeOptions) error {
	logger := createLogger(opts.Debug)

	host, err := NewHost(opts, logger)
	if err != nil {
		return err
	}
	defer host.Close()

	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	go host.Sessions.RunExpiry(sigCtx, ttl/2, ttl)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           host.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Printf("Starting luckydraw server on %s\n", srv.Addr)
		fmt.Printf("Serving flow from: %s\n", opts.DataDir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		fmt.Printf("\nStart shutdown... Signal: %v\n", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Println("luckydraw server stopped gracefully")
		return nil
	}
}
