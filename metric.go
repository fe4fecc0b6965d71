package inresolver

import (
	"github.com/iotanames/inresolver/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "inresolver"
)

var (
	resolveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "resolve_total",
			Help:      "name lookups by source and result",
		},
		[]string{"source", "result"},
	)

	navigationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "navigation_total",
			Help:      "intercepted navigations by action",
		},
		[]string{"action"},
	)

	tabEntriesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "tab_entries",
			Help:      "tabs with a recorded resolution",
		},
	)

	previewSessionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "preview_sessions",
			Help:      "live preview countdowns",
		},
	)
)

func init() {
	prometheus.MustRegister(
		resolveCounter,
		navigationCounter,
		tabEntriesGauge,
		previewSessionsGauge,
	)
}

// source: cache, primary, fallback; result: ok, error
func metricResolve(source, result string) {
	resolveCounter.WithLabelValues(source, result).Inc()
}

func metricNavigation(action schema.Action) {
	navigationCounter.WithLabelValues(string(action)).Inc()
}
