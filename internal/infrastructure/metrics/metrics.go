package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics. Construct once at startup;
// promauto registers against the default registry.
type Metrics struct {
	SettlementsTotal    *prometheus.CounterVec
	SettlementDuration  prometheus.Histogram
	SettlementErrors    prometheus.Counter
	ConsistencyChecks   prometheus.Counter
	ConsistencyFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SettlementsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "paygate_settlements_total",
			Help: "Total number of settled ledger transactions",
		}, []string{"type"}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "paygate_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paygate_settlement_errors_total",
			Help: "Total number of rejected or failed settlements",
		}),
		ConsistencyChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paygate_consistency_checks_total",
			Help: "Total number of ledger consistency audits",
		}),
		ConsistencyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paygate_consistency_failures_total",
			Help: "Total number of consistency audits that found a mismatch",
		}),
	}
}
