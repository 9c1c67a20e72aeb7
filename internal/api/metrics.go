package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsIngestedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "taskflow",
		Subsystem: "ingest",
		Name:      "events_total",
		Help:      "Events accepted into the event store.",
	},
)
