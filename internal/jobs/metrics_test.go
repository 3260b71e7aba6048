package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	require.NoError(t, m.Track("catalog:warmup").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("catalog:warmup").End(boom), boom)
	m.AddWarmed("actors", 3)
	m.AddWarmed("actors", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("catalog:warmup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("catalog:warmup", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("catalog:warmup")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.warmed.WithLabelValues("actors")))
}

func TestNilMetricsTrackerPassesErrorThrough(t *testing.T) {
	var m *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("x").End(boom), boom)
	m.AddWarmed("movies", 2)
}
