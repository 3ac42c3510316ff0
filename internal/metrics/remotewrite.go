package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eryajf/promwrite"

	"metricscollector/internal/store"
)

const remoteWriteTimeout = 15 * time.Second

// SnapshotSource is the read API the remote writer consumes.
type SnapshotSource interface {
	Snapshot() []store.Row
}

// RemoteWriter periodically forwards snapshot aggregates to a
// Prometheus remote-write endpoint. It only reads the store and runs
// on its own goroutine, so a slow or down endpoint never blocks
// ingestion.
type RemoteWriter struct {
	client   *promwrite.Client
	source   SnapshotSource
	interval time.Duration
	logger   *slog.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewRemoteWriter(source SnapshotSource, url string, interval time.Duration, logger *slog.Logger) *RemoteWriter {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &RemoteWriter{
		client:   promwrite.NewClient(url),
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

func (w *RemoteWriter) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := w.write(ctx); err != nil {
					w.logger.Error("remote write failed", slog.String("error", err.Error()))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	w.logger.Info("remote writer started", slog.Duration("interval", w.interval))
}

func (w *RemoteWriter) Close() {
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
	})
}

func (w *RemoteWriter) write(ctx context.Context) error {
	rows := w.source.Snapshot()
	if len(rows) == 0 {
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, remoteWriteTimeout)
	defer cancel()

	req := &promwrite.WriteRequest{TimeSeries: rowsToTimeSeries(rows, time.Now())}
	if _, err := w.client.Write(writeCtx, req); err != nil {
		return fmt.Errorf("writing time series: %w", err)
	}
	return nil
}

// rowsToTimeSeries flattens snapshot rows into one sample per exported
// aggregate per key. Min and max exist only for keys that have
// observed at least one numeric value.
func rowsToTimeSeries(rows []store.Row, at time.Time) []promwrite.TimeSeries {
	out := make([]promwrite.TimeSeries, 0, len(rows)*4)
	for _, row := range rows {
		out = append(out,
			rowSample("mc_events_total", row, float64(row.Count), at),
			rowSample("mc_event_samples_total", row, float64(row.Samples), at),
		)
		if row.Min != nil {
			out = append(out, rowSample("mc_event_value_min", row, *row.Min, at))
		}
		if row.Max != nil {
			out = append(out, rowSample("mc_event_value_max", row, *row.Max, at))
		}
	}
	return out
}

func rowSample(name string, row store.Row, value float64, at time.Time) promwrite.TimeSeries {
	return promwrite.TimeSeries{
		Labels: []promwrite.Label{
			{Name: "__name__", Value: name},
			{Name: "event", Value: row.Event},
			{Name: "service", Value: row.Service},
			{Name: "status", Value: row.Status},
		},
		Sample: promwrite.Sample{
			Time:  at,
			Value: value,
		},
	}
}
