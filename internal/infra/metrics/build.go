package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Always 1; labels carry the activation-admin version and commit.",
	},
	[]string{"version", "commit"},
)

// SetBuildInfo is called once at startup with the ldflags-injected values.
func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}
