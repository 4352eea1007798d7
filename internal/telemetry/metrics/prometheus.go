package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus creates the service registry with runtime and process
// collectors, a fitpulse_build_info gauge carrying the version, and any extra
// collectors such as the db pool stats.
func SetupPrometheus(version string, extraCollectors ...prometheus.Collector) *prometheus.Registry {
	if version == "" {
		version = "unknown"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsGC, collectors.MetricsMemory, collectors.MetricsScheduler),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: "fitpulse"}),
	)

	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "fitpulse_build_info",
		Help:        "Always 1, labeled with the running version.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	buildInfo.Set(1)
	reg.MustRegister(buildInfo)

	for _, c := range extraCollectors {
		if c != nil {
			reg.MustRegister(c)
		}
	}

	return reg
}
