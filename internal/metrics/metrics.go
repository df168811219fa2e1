// Package metrics holds the process-wide Prometheus collectors for placement
// resolution and kernel submission.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// ResolutionsTotal counts resolve calls by policy and outcome.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fogplace_resolutions_total",
			Help: "Total number of placement resolutions",
		},
		[]string{"policy", "status"},
	)

	// ResolutionDuration tracks how long a resolve call takes in seconds.
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fogplace_resolution_duration_seconds",
			Help:    "Duration of placement resolutions in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		},
		[]string{"policy"},
	)

	// AssignedModules tracks module instances hosted per device by the latest placement.
	AssignedModules = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fogplace_assigned_modules",
			Help: "Number of module instances assigned to each device by the latest placement",
		},
		[]string{"device"},
	)

	// SubmissionsTotal counts bundles handed to a kernel by kernel kind and outcome.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fogplace_submissions_total",
			Help: "Total number of bundles submitted to the simulation kernel",
		},
		[]string{"kernel", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// RecordResolution records one resolve call.
func RecordResolution(policy string, durationSeconds float64, err error) {
	ResolutionsTotal.WithLabelValues(policy, status(err)).Inc()
	ResolutionDuration.WithLabelValues(policy).Observe(durationSeconds)
}

// SetAssignedModules replaces the per-device gauge with counts.
func SetAssignedModules(counts map[string]int) {
	AssignedModules.Reset()
	for device, n := range counts {
		AssignedModules.WithLabelValues(device).Set(float64(n))
	}
}

// RecordSubmission records one kernel submission.
func RecordSubmission(kernel string, err error) {
	SubmissionsTotal.WithLabelValues(kernel, status(err)).Inc()
}
