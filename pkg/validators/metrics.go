/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kinetrack_validation_duration_seconds",
			Help:    "Duration of a single file validation in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
	)

	validationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinetrack_validation_total",
			Help: "Total number of file validations by format and status",
		},
		[]string{"format", "status"},
	)
)
