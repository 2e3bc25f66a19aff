package observability

import (
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const (
	metricRequestDuration = "ft_request_duration_seconds"
	metricStoreCalls      = "ft_store_calls_total"
	metricRecordsWritten  = "ft_records_written_total"
	metricDashboards      = "ft_dashboards_served_total"
	metricReplays         = "ft_idempotent_replays_total"
)

// Metrics holds all Prometheus metrics for the finance tracker.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	storeCalls        *prometheus.CounterVec
	recordsWritten    *prometheus.CounterVec
	dashboardsServed  prometheus.Counter
	idempotentReplays *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry lets tests build as many
// Metrics as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricRequestDuration,
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricStoreCalls,
				Help: "Record store calls by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		recordsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricRecordsWritten,
				Help: "Records created, updated or deleted, by kind.",
			},
			[]string{"kind"},
		),
		dashboardsServed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: metricDashboards,
				Help: "Monthly summaries computed.",
			},
		),
		idempotentReplays: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricReplays,
				Help: "Creates answered from the idempotency cache.",
			},
			[]string{"kind"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveStoreCall counts one store call and whether it failed.
func (m *Metrics) ObserveStoreCall(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeCalls.WithLabelValues(operation, outcome).Inc()
}

// IncrRecordWritten counts a successful mutation.
func (m *Metrics) IncrRecordWritten(kind domain.Kind) {
	m.recordsWritten.WithLabelValues(string(kind)).Inc()
}

// IncrDashboard counts a computed monthly summary.
func (m *Metrics) IncrDashboard() {
	m.dashboardsServed.Inc()
}

// IncrReplay counts a create answered from the idempotency cache.
func (m *Metrics) IncrReplay(kind domain.Kind) {
	m.idempotentReplays.WithLabelValues(string(kind)).Inc()
}

// Snapshot sums the counters across labels for GET /v1/metrics/summary.
func (m *Metrics) Snapshot() *domain.ServiceMetrics {
	families, err := m.Registry.Gather()
	if err != nil {
		return &domain.ServiceMetrics{}
	}

	var storeTotal, storeErrors, written, dashboards, replays float64
	for _, mf := range families {
		switch mf.GetName() {
		case metricStoreCalls:
			storeTotal = sumCounters(mf, nil)
			storeErrors = sumCounters(mf, func(lp []*dto.LabelPair) bool {
				return labelValue(lp, "outcome") == "error"
			})
		case metricRecordsWritten:
			written = sumCounters(mf, nil)
		case metricDashboards:
			dashboards = sumCounters(mf, nil)
		case metricReplays:
			replays = sumCounters(mf, nil)
		}
	}

	errorRate := float64(0)
	if storeTotal > 0 {
		errorRate = storeErrors / storeTotal
	}

	return &domain.ServiceMetrics{
		DashboardsServed:  int64(dashboards),
		RecordsWritten:    int64(written),
		StoreErrors:       int64(storeErrors),
		IdempotentReplays: int64(replays),
		StoreErrorRate:    errorRate,
	}
}

func sumCounters(mf *dto.MetricFamily, keep func([]*dto.LabelPair) bool) float64 {
	total := float64(0)
	for _, metric := range mf.GetMetric() {
		if keep != nil && !keep(metric.GetLabel()) {
			continue
		}
		total += metric.GetCounter().GetValue()
	}
	return total
}

func labelValue(pairs []*dto.LabelPair, name string) string {
	for _, p := range pairs {
		if p.GetName() == name {
			return p.GetValue()
		}
	}
	return ""
}
