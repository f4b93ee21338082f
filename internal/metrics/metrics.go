package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"CrossSentinel/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the monitor's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	ScansTotal          *prometheus.CounterVec
	ScanDuration        *prometheus.HistogramVec
	CrossoversTotal     *prometheus.CounterVec
	SymbolFailures      *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	HeartbeatsTotal     *prometheus.CounterVec
	ScanSkipsTotal      *prometheus.CounterVec
	PassErrorsTotal     *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ScansTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_scans_total",
			Help: "Completed scan passes",
		}, []string{"market"}),
		ScanDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crosssentinel_scan_duration_seconds",
			Help:    "Wall time of a full scan pass",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 1800},
		}, []string{"market"}),
		CrossoversTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_crossovers_total",
			Help: "Detected moving average crossovers",
		}, []string{"market", "kind"}),
		SymbolFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_symbol_failures_total",
			Help: "Symbols skipped during a scan",
		}, []string{"market", "reason"}),
		NotificationsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_notifications_failed_total",
			Help: "Notifications the channel did not accept",
		}, []string{"market"}),
		HeartbeatsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_heartbeats_total",
			Help: "Heartbeat ticks",
		}, []string{"market"}),
		ScanSkipsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_scan_skips_total",
			Help: "Poll ticks outside the active window",
		}, []string{"market"}),
		PassErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crosssentinel_pass_errors_total",
			Help: "Scan passes aborted by an unexpected error",
		}, []string{"market"}),
	}
}

func (m *Metrics) ObserveScan(market string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(market).Inc()
	m.ScanDuration.WithLabelValues(market).Observe(elapsed.Seconds())
}

func (m *Metrics) Crossover(market, kind string) {
	if m == nil {
		return
	}
	m.CrossoversTotal.WithLabelValues(market, kind).Inc()
}

func (m *Metrics) SymbolFailure(market, reason string) {
	if m == nil {
		return
	}
	m.SymbolFailures.WithLabelValues(market, reason).Inc()
}

func (m *Metrics) NotificationFailed(market string) {
	if m == nil {
		return
	}
	m.NotificationsFailed.WithLabelValues(market).Inc()
}

func (m *Metrics) Heartbeat(market string) {
	if m == nil {
		return
	}
	m.HeartbeatsTotal.WithLabelValues(market).Inc()
}

func (m *Metrics) ScanSkipped(market string) {
	if m == nil {
		return
	}
	m.ScanSkipsTotal.WithLabelValues(market).Inc()
}

func (m *Metrics) PassError(market string) {
	if m == nil {
		return
	}
	m.PassErrorsTotal.WithLabelValues(market).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
