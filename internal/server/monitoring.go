package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// NewMonitoringHandler serves /metrics from reg and /healthz from the health checker.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, db DBPinger, rosterHost string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          reg,
	}))
	mux.Handle("/healthz", NewHealthChecker(db, rosterHost, log))

	return mux
}

// StartMonitoringServer blocks serving the monitoring endpoints on port until ctx is done.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	db DBPinger,
	port int,
	rosterHost string,
) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           NewMonitoringHandler(log, reg, db, rosterHost),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serve(ctx, log.With(slog.String("server", "monitoring")), srv, shutdownTimeout)
}

func serve(ctx context.Context, log *slog.Logger, srv *http.Server, timeout time.Duration) {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down server gracefully", sl.Err(err))
		}
	}()

	log.InfoContext(ctx, "Starting server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Server failed", sl.Err(err))
		return
	}

	log.Info("Server stopped")
}
