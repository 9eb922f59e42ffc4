package sway

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus collectors for bridge activity. A nil *Metrics
// records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	flushes    prometheus.Counter
	batchSize  prometheus.Histogram
	orphans    *prometheus.CounterVec
}

// NewMetrics creates the bridge collectors and registers them with reg.
// Pass nil to create unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sway_bridge_operations_total",
				Help: "Operations submitted to the bridge, by op.",
			},
			[]string{"op"},
		),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sway_bridge_flushes_total",
			Help: "Queue flushes sent to the remote executor.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sway_bridge_batch_size",
			Help:    "Operations per flushed batch.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		orphans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sway_bridge_orphaned_results_total",
				Help: "Remote results dropped because no callback was pending.",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.flushes, m.batchSize, m.orphans)
	}
	return m
}

func (m *Metrics) operation(op OpCode) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) flushed(n int) {
	if m == nil {
		return
	}
	m.flushes.Inc()
	m.batchSize.Observe(float64(n))
}

func (m *Metrics) orphan(kind string) {
	if m == nil {
		return
	}
	m.orphans.WithLabelValues(kind).Inc()
}
