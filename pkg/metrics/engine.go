package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records the transaction engine's operation outcomes.
type EngineMetrics struct {
	txDuration   *prometheus.HistogramVec
	txSuccess    *prometheus.CounterVec
	txFailure    *prometheus.CounterVec
	backfillRows *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which tests rely on.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	txDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_tx_duration_seconds",
		Help:    "Duration of atomic order/inventory transactions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	txSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_tx_success_total",
		Help: "Committed order/inventory transactions.",
	}, []string{"op"})
	txFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_tx_failure_total",
		Help: "Rolled-back order/inventory transactions.",
	}, []string{"op"})
	backfillRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backfill_rows_total",
		Help: "Legacy line-item backfill rows by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(txDuration, txSuccess, txFailure, backfillRows)
	return &EngineMetrics{
		txDuration:   txDuration,
		txSuccess:    txSuccess,
		txFailure:    txFailure,
		backfillRows: backfillRows,
	}
}

// ObserveTx records one finished transaction for the named operation.
func (m *EngineMetrics) ObserveTx(op string, duration time.Duration, err error) {
	if m == nil || m.txDuration == nil {
		return
	}
	op = normalizeLabel(op)
	m.txDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		m.txFailure.WithLabelValues(op).Inc()
		return
	}
	m.txSuccess.WithLabelValues(op).Inc()
}

// AddBackfillRows counts backfill rows by outcome ("migrated" or "skipped").
func (m *EngineMetrics) AddBackfillRows(outcome string, n int) {
	if m == nil || m.backfillRows == nil || n <= 0 {
		return
	}
	m.backfillRows.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
