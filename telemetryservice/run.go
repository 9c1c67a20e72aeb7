// Package telemetryservice wires the telemetry ingest and analytics HTTP
// service.
package telemetryservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ChandanM123456/TaskFlow/internal/api"
	"github.com/ChandanM123456/TaskFlow/internal/api/recovery"
	"github.com/ChandanM123456/TaskFlow/internal/config"
	"github.com/ChandanM123456/TaskFlow/internal/logger"
	"github.com/ChandanM123456/TaskFlow/internal/snapshot"
	"github.com/ChandanM123456/TaskFlow/internal/store"
	"github.com/ChandanM123456/TaskFlow/internal/store/sqlite"
)

// Run starts the telemetry service HTTP server and blocks until shutdown or
// error.
func Run() error {
	log := logger.New("taskflow-telemetry")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("sqlite_path", cfg.SQLitePath).
		Str("task_api_url", cfg.TaskAPIURL).
		Msg("Telemetry service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := newServerContext()
	defer stop()

	st, err := sqlite.NewSqliteStore(cfg.SQLitePath)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Event store unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	snapSource := snapshot.New(cfg.TaskAPIURL, cfg.TaskAPIToken)
	router := buildRouter(st, snapSource, cfg, log)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(st store.Store, snapSource api.SnapshotSource, cfg *config.Config, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	events := api.NewEventsHandler(st, cfg.MaxBatchSize, log)
	root.HandleFunc("/v0/events", events.Ingest).Methods("POST")
	root.HandleFunc("/v0/events", events.List).Methods("GET")

	analyticsHandler := api.NewAnalyticsHandler(st, snapSource, log)
	root.HandleFunc("/v0/analytics/dashboard", analyticsHandler.Dashboard).Methods("GET")

	health := api.NewHealthHandler(st)
	root.HandleFunc("/v0/health", health.CheckHealth).Methods("GET")

	root.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return root
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on
// SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
