// Package metrics exposes Prometheus instrumentation for the content
// pipeline. All collectors are registered on the default registry and
// served through the HTTP API's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articlesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seopilot_articles_generated_total",
			Help: "Articles generated, by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seopilot_generation_duration_seconds",
			Help:    "Time spent generating one article.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"provider"},
	)

	publishTriggers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seopilot_publish_triggers_total",
			Help: "Publish trigger notifications sent to the pipe.",
		},
	)

	recordsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seopilot_records_finalized_total",
			Help: "Content records moved to a terminal status.",
		},
		[]string{"status"},
	)

	taskRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seopilot_task_runs_total",
			Help: "Scheduler task executions, by task type and outcome.",
		},
		[]string{"task", "outcome"},
	)
)

func ObserveGeneration(provider string, d time.Duration) {
	generationDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func CountArticle(provider, outcome string) {
	articlesGenerated.WithLabelValues(provider, outcome).Inc()
}

func CountPublishTrigger() {
	publishTriggers.Inc()
}

func CountFinalized(status string) {
	recordsPublished.WithLabelValues(status).Inc()
}

func CountTaskRun(task, outcome string) {
	taskRuns.WithLabelValues(task, outcome).Inc()
}
