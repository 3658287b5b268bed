package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(activationOpsTotal, registrySize) }

var activationOpsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "activation_code_ops_total",
		Help: "Activation registry operations by outcome.",
	},
	[]string{"op", "status"}, // op: create|issue|reset|delete|list|search|stats|series; status: ok|invalid|error
)

func IncActivationOp(op, status string) {
	activationOpsTotal.WithLabelValues(norm(op), norm(status)).Inc()
}

var registrySize = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "activation_codes",
		Help: "Activation codes in the registry, refreshed by the scheduler.",
	},
	[]string{"state"}, // total|used
)

func SetRegistrySize(total, used int) {
	registrySize.WithLabelValues("total").Set(float64(total))
	registrySize.WithLabelValues("used").Set(float64(used))
}
