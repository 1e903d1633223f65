package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TailerBytesMetricName      = "ds_tailer_bytes_total"
	TailerSignalsMetricName    = "ds_tailer_signals_total"
	TailerReadErrorsMetricName = "ds_tailer_read_errors_total"
	TailerSessionsMetricName   = "ds_tailer_sessions"
)

var TailerBytes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: TailerBytesMetricName,
		Help: "Total bytes emitted to the consumer.",
	},
	[]string{"source"},
)

var TailerSignals = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: TailerSignalsMetricName,
		Help: "Total signals emitted to the consumer, by kind.",
	},
	[]string{"source", "kind"},
)

var TailerReadErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: TailerReadErrorsMetricName,
		Help: "Total delta reads that failed and will be retried.",
	},
	[]string{"source"},
)

var TailerSessions = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: TailerSessionsMetricName,
		Help: "Number of tail sessions currently watching a file.",
	},
)

func TailerCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		TailerBytes,
		TailerSignals,
		TailerReadErrors,
		TailerSessions,
	}
}
