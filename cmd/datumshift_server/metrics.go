//nolint:gochecknoglobals
package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shiftMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datumshift",
		Name:      "shifts_total",
		Help:      "The total number of datum shifts",
	}, []string{"origin", "target"})

	shiftErrorMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datumshift",
		Name:      "shift_errors_total",
		Help:      "The total number of rejected shift requests",
	}, []string{"reason"})

	pointsMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "datumshift",
		Name:      "control_points",
		Help:      "The number of indexed control points",
	})
)
