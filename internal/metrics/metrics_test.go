package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveScan("kospi", 3*time.Second)
	m.Crossover("kospi", "golden")
	m.Crossover("kospi", "golden")
	m.SymbolFailure("kospi", "fetch")
	m.Heartbeat("kospi")
	m.ScanSkipped("kospi")
	m.PassError("kospi")
	m.NotificationFailed("kospi")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("kospi")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CrossoversTotal.WithLabelValues("kospi", "golden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SymbolFailures.WithLabelValues("kospi", "fetch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HeartbeatsTotal.WithLabelValues("kospi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScanSkipsTotal.WithLabelValues("kospi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassErrorsTotal.WithLabelValues("kospi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("kospi")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveScan("x", time.Second)
		m.Crossover("x", "dead")
		m.SymbolFailure("x", "fetch")
		m.Heartbeat("x")
		m.ScanSkipped("x")
		m.PassError("x")
		m.NotificationFailed("x")
	})
}
