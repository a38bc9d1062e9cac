// internal/sink/metrics.go
package sink

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/modbus-gauge/internal/poller"
	"github.com/tamzrod/modbus-gauge/internal/status"
)

// Metrics exports poll outcomes to Prometheus.
type Metrics struct {
	reg   *prometheus.Registry
	board *status.Board

	value  *prometheus.GaugeVec
	raw    *prometheus.GaugeVec
	polls  *prometheus.CounterVec
	health *prometheus.GaugeVec
	errSec *prometheus.GaugeVec
}

// NewMetrics registers collectors on a private registry.
// board may be nil, then health gauges are not exported.
func NewMetrics(namespace string, board *status.Board) *Metrics {
	m := &Metrics{
		reg:   prometheus.NewRegistry(),
		board: board,
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "value",
			Help:      "Last scaled value read from the target.",
		}, []string{"target", "gauge", "characteristic"}),
		raw: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "raw_value",
			Help:      "Last decoded value before scaling.",
		}, []string{"target"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Poll cycles by outcome kind.",
		}, []string{"target", "kind"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "health",
			Help:      "Target health code: 0 unknown, 1 ok, 2 error, 3 stale.",
		}, []string{"target"}),
		errSec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seconds_in_error",
			Help:      "Seconds the target has been outside ok.",
		}, []string{"target"}),
	}

	m.reg.MustRegister(m.value, m.raw, m.polls, m.health, m.errSec)
	return m
}

func (m *Metrics) Name() string { return "metrics" }

func (m *Metrics) Deliver(_ context.Context, res poller.PollResult) error {
	t := res.Target
	m.polls.WithLabelValues(t.ID, res.Kind.String()).Inc()

	if res.Err == nil {
		m.value.WithLabelValues(t.ID, t.Gauge, t.Characteristic).Set(res.Scaled)
		m.raw.WithLabelValues(t.ID).Set(res.Value.Float64())
	}

	m.Refresh(t.ID)
	return nil
}

// Refresh copies the board snapshot of id into the health gauges.
func (m *Metrics) Refresh(id string) {
	if m.board == nil {
		return
	}
	if s, ok := m.board.Snapshot(id); ok {
		m.health.WithLabelValues(id).Set(float64(s.Health))
		m.errSec.WithLabelValues(id).Set(float64(s.SecondsInError))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }
