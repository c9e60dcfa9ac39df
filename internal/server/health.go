package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Houeta/payroll/internal/lib/logger/sl"
)

type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports database reachability and, when the roster import
// is configured, whether the roster host answers.
type HealthChecker struct {
	db         DBPinger
	rosterHost string
	httpClient *http.Client
	log        *slog.Logger
}

// NewHealthChecker builds the /healthz handler. An empty rosterHost skips the roster probe.
func NewHealthChecker(db DBPinger, rosterHost string, log *slog.Logger) *HealthChecker {
	const clientTimeout = 5 * time.Second

	return &HealthChecker{
		db:         db,
		rosterHost: rosterHost,
		httpClient: &http.Client{Timeout: clientTimeout},
		log:        log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: DB ping", sl.Err(err))
	} else {
		status["database"] = "ok"
	}

	if h.rosterHost == "" {
		status["roster_host"] = "disabled"
	} else if rosterStatus := h.probeRoster(ctx); rosterStatus != "ok" {
		status["roster_host"] = rosterStatus
		overallStatus = http.StatusServiceUnavailable
	} else {
		status["roster_host"] = rosterStatus
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}

func (h *HealthChecker) probeRoster(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.rosterHost, nil)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: invalid roster host", "host", h.rosterHost, sl.Err(err))
		return "unreachable"
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: roster host unreachable", "host", h.rosterHost, sl.Err(err))
		return "unreachable"
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		h.log.WarnContext(ctx, "Health check failed: roster host returned error status",
			"host", h.rosterHost, "status_code", resp.StatusCode)
		return "degraded"
	}

	return "ok"
}
