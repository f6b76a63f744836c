package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the ops backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Ingestion Metrics
	SourceFetchesTotal prometheus.CounterVec
	LegsIngestedTotal  prometheus.CounterVec
	RowsDroppedTotal   prometheus.CounterVec

	// Duty & Review Metrics
	DutyTransitionsTotal prometheus.CounterVec
	DenialsTotal         prometheus.CounterVec
	ReportsReviewedTotal prometheus.CounterVec
	HoursAwardedTotal    prometheus.Counter
	PromotionsTotal      prometheus.Counter

	// Roster Metrics
	RostersGeneratedTotal prometheus.Counter
	GenerationDuration    prometheus.HistogramVec

	// Ledger Metrics
	LedgerQueueDepth     prometheus.Gauge
	LedgerAppendsTotal   prometheus.CounterVec
	LedgerEntriesDropped prometheus.Counter

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opsdesk_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "opsdesk_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Ingestion Metrics
		SourceFetchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_source_fetches_total",
				Help: "Route source fetch attempts by source name and outcome",
			},
			[]string{"source", "outcome"},
		),
		LegsIngestedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_legs_ingested_total",
				Help: "Legs accepted from route sources",
			},
			[]string{"source"},
		),
		RowsDroppedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_rows_dropped_total",
				Help: "Grid rows dropped during normalization",
			},
			[]string{"source"},
		),

		// Duty & Review Metrics
		DutyTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_duty_transitions_total",
				Help: "Accepted duty state transitions by kind",
			},
			[]string{"transition"},
		),
		DenialsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_denials_total",
				Help: "Refused operations by denial code",
			},
			[]string{"code"},
		),
		ReportsReviewedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_reports_reviewed_total",
				Help: "Reviewed PIREPs by verdict",
			},
			[]string{"verdict"},
		),
		HoursAwardedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "opsdesk_hours_awarded_total",
				Help: "Flight hours credited through approvals",
			},
		),
		PromotionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "opsdesk_promotions_total",
				Help: "Rank promotions triggered by approvals",
			},
		),

		// Roster Metrics
		RostersGeneratedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "opsdesk_rosters_generated_total",
				Help: "Rosters produced by generation runs",
			},
		),
		GenerationDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opsdesk_generation_duration_seconds",
				Help:    "Roster generation run time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"trigger"},
		),

		// Ledger Metrics
		LedgerQueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "opsdesk_ledger_queue_depth",
				Help: "Entries waiting in the ledger mirror queue",
			},
		),
		LedgerAppendsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_ledger_appends_total",
				Help: "Ledger sheet append attempts by outcome",
			},
			[]string{"outcome"},
		),
		LedgerEntriesDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "opsdesk_ledger_entries_dropped_total",
				Help: "Ledger entries dropped because the queue was full",
			},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}
