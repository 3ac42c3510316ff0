// Package store is the in-memory aggregation core: per-label-key
// running statistics plus a bounded recent series, safe for many
// concurrent writers and occasional full-table readers.
//
// The key set only grows. One entry per distinct (event, service,
// status) triple ever seen is an accepted operational characteristic,
// not an error; each entry's memory is bounded by the series capacity.
package store

import (
	"sync"
	"time"
)

const (
	// DefaultWindowSeconds is the trailing interval WindowedSeries
	// callers usually want for dashboard sparklines.
	DefaultWindowSeconds = 300

	// DefaultSeriesCapacity bounds the number of retained points per key.
	DefaultSeriesCapacity = 500
)

// Row is one snapshot line for a single key. Avg, Min and Max are nil
// until the key has received at least one numeric value.
type Row struct {
	Event   string   `json:"event"`
	Service string   `json:"service"`
	Status  string   `json:"status"`
	Count   uint64   `json:"count"`
	Samples uint64   `json:"samples"`
	Avg     *float64 `json:"avg"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

// Series carries the windowed points for one (service, status) pair of
// an event.
type Series struct {
	Service string  `json:"service"`
	Status  string  `json:"status"`
	Points  []Point `json:"points"`
}

type entry struct {
	stats  RunningStats
	series *boundedSeries
}

// Store maps label keys to their accumulators. A single mutex guards
// the whole table: Track holds it for O(1) work, the bulk readers copy
// out under the read lock and format outside it. Write load is metrics
// ingestion, not a hot data path, so the coarse lock is deliberate.
type Store struct {
	mu             sync.RWMutex
	entries        map[Key]*entry
	order          []Key
	seriesCapacity int

	now func() time.Time
}

// New creates an empty store retaining up to seriesCapacity points per
// key. Non-positive capacities fall back to the default.
func New(seriesCapacity int) *Store {
	if seriesCapacity <= 0 {
		seriesCapacity = DefaultSeriesCapacity
	}
	return &Store{
		entries:        make(map[Key]*entry),
		order:          nil,
		seriesCapacity: seriesCapacity,
		now:            time.Now,
	}
}

// Track records one observation for the given key, creating the entry
// on first sight. The count always advances; sum, min, max and the
// series advance only when a numeric value was supplied. Track never
// fails for well-formed input: event validation happens at the boundary
// before this call.
func (s *Store) Track(event string, value *float64, service, status string) {
	key := Key{Event: event, Service: service, Status: status}
	ts := unixSeconds(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{series: newBoundedSeries(s.seriesCapacity)}
		s.entries[key] = e
		s.order = append(s.order, key)
	}

	e.stats.Count++
	if value != nil {
		e.stats.observe(*value)
		e.series.append(Point{TS: ts, Value: *value})
	}
}

// Snapshot returns one row per key ever seen, in key insertion order.
// Each row is derived from one coherent read of its accumulator; rows
// for different keys may reflect slightly different instants under
// concurrent writers.
func (s *Store) Snapshot() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]Row, 0, len(s.order))
	for _, key := range s.order {
		e := s.entries[key]
		row := Row{
			Event:   key.Event,
			Service: key.Service,
			Status:  key.Status,
			Count:   e.stats.Count,
			Samples: e.stats.Samples,
		}
		if avg, ok := e.stats.Avg(); ok {
			row.Avg = ptr(avg)
			row.Min = ptr(e.stats.Min)
			row.Max = ptr(e.stats.Max)
		}
		rows = append(rows, row)
	}
	return rows
}

// WindowedSeries returns, grouped by event, every key that has at least
// one point with timestamp >= now - windowSeconds. Points come back in
// stored chronological order; keys whose window is empty are omitted
// entirely rather than returned as empty slices.
func (s *Store) WindowedSeries(windowSeconds float64, now time.Time) map[string][]Series {
	cutoff := unixSeconds(now) - windowSeconds

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]Series)
	for _, key := range s.order {
		points := s.entries[key].series.since(cutoff)
		if len(points) == 0 {
			continue
		}
		out[key.Event] = append(out[key.Event], Series{
			Service: key.Service,
			Status:  key.Status,
			Points:  points,
		})
	}
	return out
}

// KeyCount reports the number of distinct label keys seen so far.
func (s *Store) KeyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func ptr(v float64) *float64 {
	return &v
}
