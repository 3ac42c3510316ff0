package domain

import "metricscollector/internal/store"

// TrackRequest is the /track ingestion payload. Value, Service and
// Status are nullable; absent service and status normalize to the
// empty string before they reach the store.
type TrackRequest struct {
	Event   string   `json:"event"`
	Value   *float64 `json:"value"`
	Service *string  `json:"service"`
	Status  *string  `json:"status"`
}

type TrackResponse struct {
	OK bool `json:"ok"`
}

// MetricsResponse is the table view: one row per label key ever seen.
type MetricsResponse struct {
	ServerTime string      `json:"server_time"`
	Rows       []store.Row `json:"rows"`
}

// SeriesResponse is the recent time-series view for dashboard
// sparklines, grouped by event.
type SeriesResponse struct {
	ServerTime string                    `json:"server_time"`
	Series     map[string][]store.Series `json:"series"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}
