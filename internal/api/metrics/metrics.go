// Package metrics defines all custom Prometheus metrics for the
// faceauth service. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "faceauth"

// FaceMatchTotal counts match procedure outcomes.
// Label:
//   - result: "match", "no_match", or "error"
var FaceMatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "face_match_total",
		Help:      "Total number of face match attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// FaceMatchDuration measures one full mark-by-face request: gallery
// load, detection, and the matching scan.
var FaceMatchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "face_match_duration_seconds",
		Help:      "Duration of face match attempts from capture to decision.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AttendanceMarkedTotal counts successful attendance marks.
var AttendanceMarkedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_marked_total",
		Help:      "Total number of attendance records written via face capture.",
	},
)

// EnrollmentsTotal counts face enrollment attempts.
// Label:
//   - result: "ok" or "rejected" (no single face in the image)
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of face enrollment attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// ReportsGeneratedTotal counts xlsx report downloads.
// Label:
//   - scope: "course" or "school"
var ReportsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Total number of attendance reports generated, by scope.",
	},
	[]string{"scope"},
)
