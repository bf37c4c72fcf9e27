package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	barsStamped  *prometheus.CounterVec
	buckets      *prometheus.CounterVec
	outOfSession *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		barsStamped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klinetime_bars_stamped_total",
				Help: "Total number of 1m bars stamped and sent to a backend",
			},
			[]string{"backend", "breed"},
		),
		buckets: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klinetime_buckets_resolved_total",
				Help: "Total number of candle windows resolved",
			},
			[]string{"period"},
		),
		outOfSession: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klinetime_out_of_session_total",
				Help: "Total number of ticks dropped outside session windows",
			},
			[]string{"breed"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klinetime_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "klinetime_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klinetime_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBarStamped records a stamped bar routed to a backend.
func (r *Recorder) RecordBarStamped(backend, breed string) {
	r.barsStamped.WithLabelValues(backend, breed).Inc()
}

// RecordBucket records a resolved candle window.
func (r *Recorder) RecordBucket(period string) {
	r.buckets.WithLabelValues(period).Inc()
}

// RecordOutOfSession records a dropped out-of-session tick.
func (r *Recorder) RecordOutOfSession(breed string) {
	r.outOfSession.WithLabelValues(breed).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
