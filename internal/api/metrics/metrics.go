// Package metrics defines the custom Prometheus metrics of the customer
// records API. HTTP request metrics come from echoprometheus; everything
// here is domain level.
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "customers"

// Result label values shared by the auth counters.
const (
	ResultSuccess   = "success"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "invalid", "duplicate" or "error"
var AuthRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Customer metrics ──────────────────────────────────────────────────────────

// CustomerMutationsTotal counts successful writes.
// Label:
//   - operation: "create", "update" or "delete"
var CustomerMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customer_mutations_total",
		Help:      "Total number of successful customer writes, by operation.",
	},
	[]string{"operation"},
)

// CustomerListResults observes how many customers a list request returned.
var CustomerListResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "customer_list_results",
		Help:      "Number of customers returned per list request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
)

// RegisterPoolStats exposes pgxpool connection stats as gauges on reg.
func RegisterPoolStats(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauges := []struct {
		name, help string
		value      func(*pgxpool.Stat) float64
	}{
		{"db_pool_total_conns", "Total connections currently in the pool.", func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
		{"db_pool_idle_conns", "Idle connections in the pool.", func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
		{"db_pool_acquired_conns", "Connections currently checked out.", func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
		{"db_pool_max_conns", "Maximum size of the pool.", func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
	}

	for _, g := range gauges {
		value := g.value
		collector := prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: namespace, Name: g.name, Help: g.help},
			func() float64 { return value(pool.Stat()) },
		)
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
