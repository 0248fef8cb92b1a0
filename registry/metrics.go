package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_registry_registrations_total",
			Help: "Number of memory ids registered for upgrades and snapshots",
		},
	)
	metricSnapshots = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_registry_snapshots_total",
			Help: "Number of state snapshots created",
		},
	)
	metricSnapshotBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_registry_snapshot_bytes_total",
			Help: "Number of state snapshot bytes serialized",
		},
	)
	metricUpgradeWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canistertools_registry_upgrade_writes_total",
			Help: "Number of pre-upgrade payloads written to stable memory",
		},
	)
)

func init() {
	prometheus.MustRegister(metricRegistered)
	prometheus.MustRegister(metricSnapshots)
	prometheus.MustRegister(metricSnapshotBytes)
	prometheus.MustRegister(metricUpgradeWrites)
}
