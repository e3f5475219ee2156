package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterStorePoolMetrics exposes the store's pgx connection pool statistics
// as Prometheus gauges on reg.
func RegisterStorePoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) {
	gauge := func(name, help string, fn func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return fn(pool.Stat())
		})
	}

	reg.MustRegister(
		gauge("acquired_conns", "Number of currently acquired store connections",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("max_conns", "Maximum number of store connections",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
		gauge("total_conns", "Total number of store connections",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("idle_conns", "Number of idle store connections",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
	)
}
