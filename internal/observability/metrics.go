package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "secreport"

// Notification delivery outcomes used as the "result" label.
const (
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// Metrics holds the Prometheus collectors for report runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ReportsGenerated   *prometheus.CounterVec
	CollectorFailures  *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	PersistFailures    prometheus.Counter
	ArchiveFailures    prometheus.Counter
	GenerationDuration prometheus.Histogram
	ComplianceScore    prometheus.Gauge
}

// NewMetrics creates the report metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_generated_total",
			Help:      "Number of reports assembled, by compliance status.",
		}, []string{"status"}),
		CollectorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "collector_failures_total",
			Help:      "Number of collector runs that fell back to default values.",
		}, []string{"collector"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Notification delivery attempts, by result.",
		}, []string{"result"}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_persist_failures_total",
			Help:      "Number of reports that could not be written to the report store.",
		}),
		ArchiveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_archive_failures_total",
			Help:      "Number of reports that could not be copied to the archive.",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "report_generation_duration_seconds",
			Help:      "Time spent collecting metrics and assembling a report.",
			Buckets:   prometheus.DefBuckets,
		}),
		ComplianceScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "compliance_score",
			Help:      "Average compliance score of the most recent report.",
		}),
	}
	reg.MustRegister(
		m.ReportsGenerated,
		m.CollectorFailures,
		m.Notifications,
		m.PersistFailures,
		m.ArchiveFailures,
		m.GenerationDuration,
		m.ComplianceScore,
	)
	return m
}

// ObserveReport records a finished assembly.
func (m *Metrics) ObserveReport(status string, score int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(status).Inc()
	m.ComplianceScore.Set(float64(score))
	m.GenerationDuration.Observe(elapsed.Seconds())
}

// CollectorFailed records a collector that fell back to defaults.
func (m *Metrics) CollectorFailed(collector string) {
	if m == nil {
		return
	}
	m.CollectorFailures.WithLabelValues(collector).Inc()
}

// NotificationResult records a single delivery attempt.
func (m *Metrics) NotificationResult(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}

// PersistFailed records a report store write failure.
func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// ArchiveFailed records a report archive upload failure.
func (m *Metrics) ArchiveFailed() {
	if m == nil {
		return
	}
	m.ArchiveFailures.Inc()
}
