package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"metricscollector/internal/domain"
	"metricscollector/internal/validation"
)

var (
	errInvalidBody = map[string]string{"error": "invalid request body"}
	errEmptyEvent  = map[string]string{"error": validation.ErrEmptyEvent.Error()}

	respTrackOK = domain.TrackResponse{OK: true}
	respHealth  = domain.HealthResponse{OK: true, Service: "metrics-collector"}
)

type Handler struct {
	tracker       Tracker
	stats         StatsSource
	windowSeconds float64
	exposition    http.Handler
	logger        *slog.Logger
}

func New(
	tracker Tracker,
	stats StatsSource,
	windowSeconds float64,
	exposition http.Handler,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		tracker:       tracker,
		stats:         stats,
		windowSeconds: windowSeconds,
		exposition:    exposition,
		logger:        logger,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/healthz", h.Healthz)
	e.POST("/track", h.Track)
	e.GET("/metrics", echo.WrapHandler(h.exposition))

	api := e.Group("/api")
	api.GET("/metrics.json", h.MetricsJSON)
	api.GET("/series.json", h.SeriesJSON)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, respHealth)
}

// Track validates and normalizes the payload, then hands it to the
// adapter. Malformed events are rejected here; the store never sees
// them.
func (h *Handler) Track(c echo.Context) error {
	var req domain.TrackRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}

	event, err := validation.NormalizeEvent(req.Event)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errEmptyEvent)
	}

	h.tracker.Track(event, req.Value, validation.OrEmpty(req.Service), validation.OrEmpty(req.Status))

	return c.JSON(http.StatusOK, respTrackOK)
}

func (h *Handler) MetricsJSON(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.MetricsResponse{
		ServerTime: serverTime(),
		Rows:       h.stats.Snapshot(),
	})
}

func (h *Handler) SeriesJSON(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.SeriesResponse{
		ServerTime: serverTime(),
		Series:     h.stats.WindowedSeries(h.windowSeconds, time.Now()),
	})
}

func serverTime() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
