package handler

import (
	"time"

	"metricscollector/internal/store"
)

// Tracker is the ingestion side of the export adapter: one call feeds
// both the store and the Prometheus view.
type Tracker interface {
	Track(event string, value *float64, service, status string)
}

// StatsSource is the store's read API consumed by the JSON endpoints.
type StatsSource interface {
	Snapshot() []store.Row
	WindowedSeries(windowSeconds float64, now time.Time) map[string][]store.Series
}
