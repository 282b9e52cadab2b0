// Package prometheus exposes run metrics for the validation workers.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mechvalid"

// ValidationMetrics implements the validator's metrics observer.
type ValidationMetrics struct {
	cacheHits        prometheus.Counter
	matches          prometheus.Counter
	projectionErrors prometheus.Counter
	duration         *prometheus.HistogramVec

	jobsConsumed     prometheus.Counter
	resultsPublished prometheus.Counter
}

// NewValidationMetrics registers the metric set on reg.
func NewValidationMetrics(reg prometheus.Registerer) *ValidationMetrics {
	factory := promauto.With(reg)
	return &ValidationMetrics{
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "composition_cache_hits_total",
			Help:      "Validations answered from the composition-key cache.",
		}),
		matches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_matched_total",
			Help:      "Reactions for which at least one rule matched.",
		}),
		projectionErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_errors_total",
			Help:      "Rule projections that failed and were scored as unmatch.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Wall time of a single reaction validation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		jobsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_consumed_total",
			Help:      "Validation jobs consumed from the queue.",
		}),
		resultsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_published_total",
			Help:      "Per-reaction results published to the queue.",
		}),
	}
}

func (m *ValidationMetrics) CacheHit()        { m.cacheHits.Inc() }
func (m *ValidationMetrics) ReactionMatched() { m.matches.Inc() }
func (m *ValidationMetrics) ProjectionError() { m.projectionErrors.Inc() }

func (m *ValidationMetrics) ValidationDone(d time.Duration, outcome string) {
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// JobConsumed counts one job taken off the queue.
func (m *ValidationMetrics) JobConsumed() { m.jobsConsumed.Inc() }

// ResultPublished counts one result emitted.
func (m *ValidationMetrics) ResultPublished() { m.resultsPublished.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
