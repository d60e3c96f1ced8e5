// Package metrics holds the service's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_uploads_total",
		Help: "Blob uploads by kind and outcome.",
	}, []string{"kind", "outcome"})

	FanoutWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_fanout_writes_total",
		Help: "Fan-out index writes by outcome.",
	}, []string{"outcome"})

	BackgroundFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_background_failures_total",
		Help: "Fire-and-forget tasks that failed after logging.",
	})
)
