package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are intentionally simple; everything is updated under the client
// mutex, so there is a single logical writer per process.
var (
	eventsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskflow",
			Subsystem: "telemetry",
			Name:      "events_recorded_total",
			Help:      "Events accepted into the durable buffer.",
		},
		[]string{"type"},
	)

	eventsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taskflow",
			Subsystem: "telemetry",
			Name:      "events_evicted_total",
			Help:      "Events dropped by the buffer cap before delivery.",
		},
	)

	flushBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taskflow",
			Subsystem: "telemetry",
			Name:      "flush_batches_total",
			Help:      "Batches acknowledged by the ingest sink.",
		},
	)

	flushFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taskflow",
			Subsystem: "telemetry",
			Name:      "flush_failures_total",
			Help:      "Flush attempts that disabled the scheduler.",
		},
	)

	bufferDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taskflow",
			Subsystem: "telemetry",
			Name:      "buffer_depth",
			Help:      "Events currently held in the durable buffer.",
		},
	)
)
