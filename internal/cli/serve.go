package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	EngineOptions
	Port string
	// Watch reloads the tree whenever the definition file changes.
	Watch bool
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, w io.Writer, opts ServeOptions) error {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level, logging.WithJSON())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	opts.Metrics = metrics

	engine, err := CreateEngine(opts.EngineOptions, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	if opts.Watch {
		if err := watchAndReload(ctx, engine, logger); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           httpAdapter.NewHandler(engine, httpAdapter.WithLogger(logger), httpAdapter.WithGatherer(reg)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	printSystemMessage(w, "Starting Arbor Server %s on %s", arbor.Version, srv.Addr)
	if opts.TreePath != "" {
		printSystemMessage(w, "Serving tree from: %s", opts.TreePath)
	}
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(w, "Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		printSystemMessage(w, "Arbor Server stopped gracefully")
		return nil
	}
}

// watchAndReload reloads the engine's tree on every change its loader reports,
// until ctx is done. A failed reload keeps the previous tree.
func watchAndReload(ctx context.Context, engine *arbor.Engine, logger *slog.Logger) error {
	changes, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("cannot watch tree: %w", err)
	}

	go func() {
		for range changes {
			if err := engine.Reload(ctx); err != nil {
				logger.Warn("Reload failed, keeping previous tree", "err", err)
			}
		}
	}()
	return nil
}
