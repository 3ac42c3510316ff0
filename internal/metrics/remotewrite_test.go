package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricscollector/internal/store"
)

func TestRowsToTimeSeries(t *testing.T) {
	now := time.Unix(1000, 0)
	min, max := 0.5, 2.5
	rows := []store.Row{
		{Event: "checkout", Service: "payments", Status: "ok", Count: 10, Samples: 8, Min: &min, Max: &max},
		{Event: "ping", Count: 3},
	}

	series := rowsToTimeSeries(rows, now)

	// 4 series for the sampled key, 2 for the count-only key.
	require.Len(t, series, 6)

	names := make(map[string]int)
	for _, ts := range series {
		require.Equal(t, "__name__", ts.Labels[0].Name)
		names[ts.Labels[0].Value]++
		assert.Equal(t, now, ts.Sample.Time)
	}
	assert.Equal(t, 2, names["mc_events_total"])
	assert.Equal(t, 2, names["mc_event_samples_total"])
	assert.Equal(t, 1, names["mc_event_value_min"])
	assert.Equal(t, 1, names["mc_event_value_max"])

	first := series[0]
	assert.Equal(t, "mc_events_total", first.Labels[0].Value)
	assert.Equal(t, 10.0, first.Sample.Value)

	labels := make(map[string]string)
	for _, l := range first.Labels {
		labels[l.Name] = l.Value
	}
	assert.Equal(t, "checkout", labels["event"])
	assert.Equal(t, "payments", labels["service"])
	assert.Equal(t, "ok", labels["status"])
}

func TestRowsToTimeSeries_CountOnlyKeySkipsMinMax(t *testing.T) {
	rows := []store.Row{{Event: "ping", Count: 1}}

	series := rowsToTimeSeries(rows, time.Now())

	require.Len(t, series, 2)
	for _, ts := range series {
		assert.NotEqual(t, "mc_event_value_min", ts.Labels[0].Value)
		assert.NotEqual(t, "mc_event_value_max", ts.Labels[0].Value)
	}
}
