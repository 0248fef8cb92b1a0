package memory

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricFramedWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_memory_framed_writes_total",
			Help: "Number of framed payload writes to stable memory",
		},
	)
	metricFramedWriteBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_memory_framed_write_bytes_total",
			Help: "Number of framed payload bytes written to stable memory",
		},
	)
	metricGrowFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_memory_grow_failed_total",
			Help: "Number of failed stable memory grow attempts",
		},
	)
)

func init() {
	prometheus.MustRegister(metricFramedWrites)
	prometheus.MustRegister(metricFramedWriteBytes)
	prometheus.MustRegister(metricGrowFailures)
}
