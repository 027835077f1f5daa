package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveReport("warning", 82, 1500*time.Millisecond)
	m.ObserveReport("warning", 85, time.Second)
	m.CollectorFailed("threat")
	m.NotificationResult(DeliveryDelivered)
	m.NotificationResult(DeliveryDelivered)
	m.NotificationResult(DeliveryFailed)
	m.PersistFailed()
	m.ArchiveFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("warning")))
	assert.Equal(t, 85.0, testutil.ToFloat64(m.ComplianceScore), "gauge keeps the latest score")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectorFailures.WithLabelValues("threat")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues(DeliveryDelivered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues(DeliveryFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArchiveFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerationDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReport("compliant", 99, time.Second)
		m.CollectorFailed("security")
		m.NotificationResult(DeliveryFailed)
		m.PersistFailed()
		m.ArchiveFailed()
	})
}
