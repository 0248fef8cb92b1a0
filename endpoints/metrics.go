package endpoints

import (
	"github.com/prometheus/client_golang/prometheus"
)

var metricCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "canistertools_endpoint_calls_total",
		Help: "Controller endpoint calls by method",
	},
	[]string{"method"},
)

func init() {
	prometheus.MustRegister(metricCalls)
}
