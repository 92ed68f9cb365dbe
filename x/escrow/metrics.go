package escrow

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts escrow operations. Register the collector with a registry of
// your choice, a controller never registers it on its own.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics returns a new set of escrow collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "escrow",
			Name:      "operations_total",
			Help:      "Total escrow operations processed, partitioned by operation and result.",
		}, []string{"op", "result"}),
	}
}

var _ prometheus.Collector = (*Metrics)(nil)

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.operations.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.operations.Collect(ch)
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}
