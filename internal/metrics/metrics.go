package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for API requests, roster sync runs and parsed roster rows,
// a gauge for the last successful sync, and histograms for sync and query duration.
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	Runs              *prometheus.CounterVec
	ItemsParsed       *prometheus.CounterVec
	LastSuccessfulRun *prometheus.GaugeVec
	RunDuration       *prometheus.HistogramVec
	EmailsFixed       prometheus.Counter
	DBQueryDuration   *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_http_requests_total",
			Help: "Total number of REST API requests by route and status code.",
		}, []string{"route", "code"}),
		Runs: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_roster_sync_runs_total",
			Help: "Total times the roster sync has successfully or unsuccessfully completed its full cycle.",
		}, []string{"status"}),
		ItemsParsed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_roster_items_parsed_total",
			Help: "Total number of roster rows by outcome",
		}, []string{"result"}),
		LastSuccessfulRun: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "payroll_last_successful_run_timestamp",
			Help: "Last time when a run completed successfully",
		}, []string{"type"}),
		RunDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "payroll_run_duration_seconds",
			Help: "Measures how long it takes for a full roster sync cycle to complete",
		}, []string{"type"}),
		EmailsFixed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "payroll_emails_fixed_total",
			Help: "Total number of roster emails that were missing and replaced with a generated one.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payroll_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'save_employee', 'list_employees'
	}

	metrics.Runs.WithLabelValues("success")
	metrics.Runs.WithLabelValues("failure")

	return metrics
}
