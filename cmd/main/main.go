package main

import (
	"context"
	"log"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Houeta/payroll/internal/auth"
	"github.com/Houeta/payroll/internal/client"
	"github.com/Houeta/payroll/internal/config"
	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/parser"
	"github.com/Houeta/payroll/internal/repository"
	"github.com/Houeta/payroll/internal/server"
	"github.com/Houeta/payroll/internal/services/employees"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"

	rosterClientTimeout = 30 * time.Second
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	employeeRepo := repository.NewEmployeeRepository(dtb, appMetrics)
	statRepo := repository.NewStatusRepository(dtb, appMetrics)

	var (
		rosterParser parser.RosterParserIface
		httpClient   = client.CreateHTTPClient(logger, rosterClientTimeout)
		rosterHost   string
	)
	if cfg.Roster.Enabled {
		rosterParser = parser.NewRosterParser(httpClient, appMetrics, cfg.Roster.URL)
		rosterHost = hostRoot(cfg.Roster.URL)
	}

	staff := employees.NewStaff(logger, employeeRepo, statRepo, rosterParser, appMetrics)

	if cfg.Seed.Path != "" {
		saved, seedErr := staff.Seed(ctx, cfg.Seed.Path)
		if seedErr != nil {
			logger.ErrorContext(ctx, "Failed to load seed data", sl.Err(seedErr))
		} else {
			logger.InfoContext(ctx, "Seed data loaded", "saved", saved)
		}
	}

	wgr.Add(1)
	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, dtb, cfg.Monitoring.Port, rosterHost)
	}()

	wgr.Add(1)
	go func() {
		defer wgr.Done()
		server.StartAPIServer(ctx, logger, server.NewRouter(logger, staff, appMetrics), cfg.HTTP)
	}()

	if cfg.Roster.Enabled {
		wgr.Add(1)
		go func() {
			defer wgr.Done()
			logger.InfoContext(ctx, "Starting roster sync")

			creds := auth.Credentials{
				LoginURL: cfg.Roster.LoginURL,
				BaseURL:  rosterHost,
				Username: cfg.Roster.Username,
				Password: cfg.Roster.Password,
			}
			if startErr := staff.Start(ctx, httpClient, creds, cfg.Roster.Interval); startErr != nil {
				logger.ErrorContext(ctx, "Roster sync failed", sl.Err(startErr))
			}
			logger.InfoContext(ctx, "Roster sync stopped.")
		}()
	}

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.Info("Application stopped gracefully...")
}

// hostRoot strips the path from the roster URL; the portal root doubles as
// login referer and health probe target.
func hostRoot(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return parsed.Scheme + "://" + parsed.Host
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{Key: "", Value: slog.Value{}}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelWarn,
			ReplaceAttr: dropTime,
		}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelError,
			ReplaceAttr: dropTime,
		}))

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
