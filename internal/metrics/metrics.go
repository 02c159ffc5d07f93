// Package metrics records pool operation counters with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
)

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations  *prometheus.CounterVec
	claimSupply *prometheus.GaugeVec
	swapVolume  *prometheus.CounterVec
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "operations_total",
			Help:      "Pool operations segmented by operation and outcome.",
		}, []string{"op", "outcome"}),
		claimSupply: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "amm",
			Name:      "pool_claim_supply",
			Help:      "Outstanding claim tokens per pool.",
		}, []string{"pool"}),
		swapVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "swap_volume_total",
			Help:      "Swap input volume per pool and input asset, in base units.",
		}, []string{"pool", "asset"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.claimSupply, m.swapVolume} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) ObserveOperation(op, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) SetClaimSupply(pool string, supply uint64) {
	if m == nil {
		return
	}
	m.claimSupply.WithLabelValues(pool).Set(float64(supply))
}

func (m *Metrics) AddSwapVolume(pool, asset string, amount uint64) {
	if m == nil {
		return
	}
	m.swapVolume.WithLabelValues(pool, asset).Add(float64(amount))
}

// WriteTextfile writes every metric in g to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}
