package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolStats) }

// dbPoolStats mirrors the pgx pool behind the code registry and e-book library.
var dbPoolStats = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "db_pool_stats",
		Help: "Connections held by the admin panel's Postgres pool.",
	},
	[]string{"state"}, // 'total', 'idle', 'in_use'
)

// SetDBPoolStats is fed by the db_pool_stats scheduler job.
func SetDBPoolStats(total, idle, inUse int32) {
	dbPoolStats.WithLabelValues("total").Set(float64(total))
	dbPoolStats.WithLabelValues("idle").Set(float64(idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(inUse))
}
