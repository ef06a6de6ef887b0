// Package metrics provides Prometheus metrics for the mint gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// Webhook pipeline metrics
	webhookEventsTotal   *prometheus.CounterVec
	webhookBatchSize     *prometheus.HistogramVec
	webhookBatchDuration *prometheus.HistogramVec

	// Memo decoding metrics
	memoDecodesTotal *prometheus.CounterVec

	// Mint dispatch metrics
	mintDispatchesTotal  *prometheus.CounterVec
	mintDispatchDuration *prometheus.HistogramVec

	// Ledger metrics
	ledgerOperationsTotal *prometheus.CounterVec
	ledgerOpDuration      *prometheus.HistogramVec

	// HTTP metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	// NATS metrics
	natsMessagesPublished *prometheus.CounterVec
	natsPublishDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the given registerer.
// Pass prometheus.DefaultRegisterer for production use or a custom registry
// for tests.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		// Webhook pipeline metrics
		webhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Total number of webhook transaction events by outcome",
			},
			[]string{"integration", "outcome"},
		),
		webhookBatchSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhook_batch_size",
				Help:    "Number of transaction events per webhook delivery",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
			[]string{"integration"},
		),
		webhookBatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhook_batch_duration_seconds",
				Help:    "Duration of webhook batch processing in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0},
			},
			[]string{"integration"},
		),

		// Memo decoding metrics
		memoDecodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memo_decodes_total",
				Help: "Total number of memo decode attempts by status",
			},
			[]string{"status"},
		),

		// Mint dispatch metrics
		mintDispatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mint_dispatches_total",
				Help: "Total number of mint dispatches to the provider by status",
			},
			[]string{"status"},
		),
		mintDispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mint_dispatch_duration_seconds",
				Help:    "Duration of mint dispatches in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"status"},
		),

		// Ledger metrics
		ledgerOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger store operations",
			},
			[]string{"operation", "status"},
		),
		ledgerOpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger store operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"operation"},
		),

		// HTTP metrics
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		// NATS metrics
		natsMessagesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nats_messages_published_total",
				Help: "Total number of NATS messages published",
			},
			[]string{"subject", "status"},
		),
		natsPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nats_publish_duration_seconds",
				Help:    "Duration of NATS publish operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"subject"},
		),
	}
}

// Webhook pipeline metric helpers

// RecordWebhookEvent records one transaction event outcome
// (filtered_out, duplicate, completed, failed).
func (m *Metrics) RecordWebhookEvent(integration, outcome string) {
	m.webhookEventsTotal.WithLabelValues(integration, outcome).Inc()
}

// RecordWebhookBatch records a processed webhook delivery.
func (m *Metrics) RecordWebhookBatch(integration string, size int, duration float64) {
	m.webhookBatchSize.WithLabelValues(integration).Observe(float64(size))
	m.webhookBatchDuration.WithLabelValues(integration).Observe(duration)
}

// Memo metric helpers

// RecordMemoDecode records a memo decode attempt (ok, empty, error).
func (m *Metrics) RecordMemoDecode(status string) {
	m.memoDecodesTotal.WithLabelValues(status).Inc()
}

// Mint metric helpers

// RecordMintDispatch records a mint dispatch to the provider with duration.
func (m *Metrics) RecordMintDispatch(status string, duration float64) {
	m.mintDispatchesTotal.WithLabelValues(status).Inc()
	m.mintDispatchDuration.WithLabelValues(status).Observe(duration)
}

// Ledger metric helpers

// RecordLedgerOp records a ledger store operation with duration.
func (m *Metrics) RecordLedgerOp(operation string, duration float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ledgerOperationsTotal.WithLabelValues(operation, status).Inc()
	m.ledgerOpDuration.WithLabelValues(operation).Observe(duration)
}

// HTTP metric helpers

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

// NATS metric helpers

// RecordNATSPublish records a NATS publish operation.
func (m *Metrics) RecordNATSPublish(subject, status string, duration float64) {
	m.natsMessagesPublished.WithLabelValues(subject, status).Inc()
	m.natsPublishDuration.WithLabelValues(subject).Observe(duration)
}

func statusCodeToString(code int) string {
	// Group status codes by class
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
