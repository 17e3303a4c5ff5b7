package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the HTTP layer and the board.
// It implements ports.MetricsRecorder.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	togglesTotal  *prometheus.CounterVec
	resetsTotal   *prometheus.CounterVec
	storageErrors *prometheus.CounterVec
	boardTotal    prometheus.Gauge
	boardCount    prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		togglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_toggles_total",
				Help: "Deposit toggles by resulting state",
			},
			[]string{"result"},
		),
		resetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_resets_total",
				Help: "Reset requests by confirmation outcome",
			},
			[]string{"confirmed"},
		),
		storageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_storage_errors_total",
				Help: "Non-fatal persistence failures by operation",
			},
			[]string{"operation"},
		),
		boardTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_total",
			Help: "Current accumulated total",
		}),
		boardCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_selected_count",
			Help: "Number of selected deposits",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.togglesTotal,
		m.resetsTotal,
		m.storageErrors,
		m.boardTotal,
		m.boardCount,
	)

	return m
}

// DepositToggled counts one toggle
func (m *Metrics) DepositToggled(selected bool) {
	result := "removed"
	if selected {
		result = "added"
	}
	m.togglesTotal.WithLabelValues(result).Inc()
}

// BoardReset counts one reset request
func (m *Metrics) BoardReset(confirmed bool) {
	label := "false"
	if confirmed {
		label = "true"
	}
	m.resetsTotal.WithLabelValues(label).Inc()
}

// StorageError counts one failed storage operation
func (m *Metrics) StorageError(op string) {
	m.storageErrors.WithLabelValues(op).Inc()
}

// BoardChanged updates the state gauges
func (m *Metrics) BoardChanged(total float64, count int) {
	m.boardTotal.Set(total)
	m.boardCount.Set(float64(count))
}
