package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(pushSentTotal, pushRecipientsTotal) }

var (
	pushSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push notification sends by provider and status.",
		},
		[]string{"provider", "status"},
	)

	pushRecipientsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_recipients_total",
			Help: "Recipients reported by the provider for accepted sends.",
		},
		[]string{"provider", "segment"},
	)
)

func ObservePush(provider, segment, status string, recipients int) {
	pushSentTotal.WithLabelValues(norm(provider), norm(status)).Inc()
	if recipients > 0 {
		pushRecipientsTotal.WithLabelValues(norm(provider), norm(segment)).Add(float64(recipients))
	}
}
