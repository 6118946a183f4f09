// Package metrics defines and registers all custom Prometheus metrics for
// the course marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// CoursesCreatedTotal counts newly created courses.
// Label:
//   - category: the course category (e.g. "General")
var CoursesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "courses_created_total",
		Help:      "Total number of courses created, by category.",
	},
	[]string{"category"},
)

// EnrollmentsTotal counts enrollment attempts.
// Label:
//   - result: "enrolled" or "duplicate"
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of enrollment attempts, by outcome.",
	},
	[]string{"result"},
)

// ReviewsSubmittedTotal counts review submissions.
// Label:
//   - kind: "created" for a first review, "updated" for an overwrite
var ReviewsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Total number of review submissions, by kind.",
	},
	[]string{"kind"},
)

// ContentUploadsTotal counts media attached to courses.
// Label:
//   - type: "pdf" or "video"
var ContentUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_uploads_total",
		Help:      "Total number of media files attached to courses, by type.",
	},
	[]string{"type"},
)

// CourseListDuration measures how long the course listing query takes.
var CourseListDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "course_list_duration_seconds",
		Help:      "Duration of the course list query end-to-end.",
		Buckets:   prometheus.DefBuckets,
	},
)
