package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"sync"
)

// Metrics holds the Prometheus collectors of the lesson pipeline.
type Metrics struct {
	LessonsSubmitted   *prometheus.CounterVec
	LessonsCompleted   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	Transpiles         *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics registers the collectors once and returns the shared set.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			LessonsSubmitted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lesson_generator_lessons_submitted_total",
					Help: "Lessons submitted for generation",
				},
				[]string{"tier"},
			),
			LessonsCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lesson_generator_lessons_completed_total",
					Help: "Lessons that reached a terminal status",
				},
				[]string{"tier", "status", "reason"},
			),
			GenerationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "lesson_generator_generation_duration_seconds",
					Help:    "Duration of the completion call plus extraction and validation",
					Buckets: prometheus.ExponentialBuckets(1, 2, 9), // 1s to 256s
				},
				[]string{"tier", "status"},
			),
			Transpiles: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lesson_generator_transpiles_total",
					Help: "Transpile calls by outcome",
				},
				[]string{"source", "outcome"},
			),
			EventsPublished: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lesson_generator_events_published_total",
					Help: "Lesson status events published",
				},
				[]string{"status"},
			),
		}
	})
	return sharedMetrics
}
