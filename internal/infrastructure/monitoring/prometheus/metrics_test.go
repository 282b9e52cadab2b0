package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	m := NewValidationMetrics(prometheus.NewRegistry())

	m.CacheHit()
	m.CacheHit()
	m.ReactionMatched()
	m.ProjectionError()
	m.JobConsumed()
	m.ResultPublished()

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.matches))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.projectionErrors))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.jobsConsumed))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.resultsPublished))
}

func TestDurationHistogramLabelsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewValidationMetrics(reg)

	m.ValidationDone(120*time.Millisecond, "ok")
	m.ValidationDone(80*time.Millisecond, "error")

	families, err := reg.Gather()
	assert.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "mechvalid_validation_duration_seconds" {
			found = true
			assert.Len(t, f.GetMetric(), 2)
		}
	}
	assert.True(t, found)
}
