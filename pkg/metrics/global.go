package metrics

import (
	"github.com/crowdsecurity/go-cs-lib/version"
	"github.com/prometheus/client_golang/prometheus"
)

const GlobalDsInfoMetricName = "ds_info"

var GlobalDsInfo = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name:        GlobalDsInfoMetricName,
		Help:        "Information about debugstream.",
		ConstLabels: prometheus.Labels{"version": version.String()},
	},
)
