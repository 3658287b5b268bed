package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(adminLoginTotal) }

var adminLoginTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_login_total",
		Help: "Tracks operator credential checks.",
	},
	[]string{"status"}, // status: 'authorized', 'unauthorized', 'rate_limited'
)

func IncAdminLogin(status string) {
	adminLoginTotal.WithLabelValues(norm(status)).Inc()
}
