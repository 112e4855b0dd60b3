package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Methods are
// nil-safe so tests can pass a nil *Metrics without registering collectors.
type Metrics struct {
	RequestsCreated    prometheus.Counter
	RequestsFinalized  *prometheus.CounterVec
	SharesCreated      prometheus.Counter
	Verifications      *prometheus.CounterVec
	VerifyLatency      prometheus.Histogram
	DocumentsProcessed prometheus.Counter
	DuplicateDocuments prometheus.Counter
	HTTPLatency        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicledger_requests_created_total",
			Help: "Total number of document requests created",
		}),
		RequestsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civicledger_requests_finalized_total",
			Help: "Total number of document requests finalized by outcome",
		}, []string{"outcome"}), // outcome: "approved", "rejected"
		SharesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicledger_shares_created_total",
			Help: "Total number of share sessions created",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civicledger_verifications_total",
			Help: "Total number of verifications performed by result",
		}, []string{"valid"}),
		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "civicledger_verify_duration_seconds",
			Help:    "Duration of share verification including the ledger lookup",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		DocumentsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicledger_documents_processed_total",
			Help: "Total number of approved documents run through the pipeline",
		}),
		DuplicateDocuments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicledger_documents_duplicate_total",
			Help: "Total number of pipeline runs that were idempotent no-ops",
		}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civicledger_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) IncRequestsCreated() {
	if m != nil {
		m.RequestsCreated.Inc()
	}
}

func (m *Metrics) IncRequestsFinalized(outcome string) {
	if m != nil {
		m.RequestsFinalized.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncSharesCreated() {
	if m != nil {
		m.SharesCreated.Inc()
	}
}

func (m *Metrics) IncVerifications(valid bool) {
	if m != nil {
		label := "false"
		if valid {
			label = "true"
		}
		m.Verifications.WithLabelValues(label).Inc()
	}
}

func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncDocumentsProcessed() {
	if m != nil {
		m.DocumentsProcessed.Inc()
	}
}

func (m *Metrics) IncDuplicateDocuments() {
	if m != nil {
		m.DuplicateDocuments.Inc()
	}
}

func (m *Metrics) ObserveHTTPLatency(route, status string, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
