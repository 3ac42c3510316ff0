package middleware_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricscollector/internal/config"
	"metricscollector/internal/middleware"
)

func newLimitedEcho(cfg *config.RateLimitConfig) *echo.Echo {
	e := echo.New()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	e.Use(middleware.RateLimit(cfg, logger))
	e.POST("/track", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})
	e.GET("/metrics", func(c echo.Context) error {
		return c.String(http.StatusOK, "# metrics")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func trackRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/track", strings.NewReader(`{"event":"ping"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = ip + ":12345"
	return req
}

func TestRateLimit_AllowsRequestsUnderLimit(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           10,
		Burst:         5,
		ExpireMinutes: 1,
	})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, trackRequest("192.168.1.1"))

		assert.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i)
	}
}

func TestRateLimit_BlocksIngestionOverLimit(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           1,
		Burst:         2,
		ExpireMinutes: 1,
	})

	var rateLimited bool
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, trackRequest("192.168.1.2"))

		if rec.Code == http.StatusTooManyRequests {
			rateLimited = true
			break
		}
	}

	assert.True(t, rateLimited, "expected at least one request to be rate limited")
}

func TestRateLimit_Returns429WithRetryAfter(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           0.1,
		Burst:         1,
		ExpireMinutes: 1,
	})

	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, trackRequest("192.168.1.3"))

	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, trackRequest("192.168.1.3"))

	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.Equal(t, "1", rec2.Header().Get("Retry-After"))

	var resp struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	err := json.Unmarshal(rec2.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, 1, resp.RetryAfter)
}

func TestRateLimit_DifferentIPsHaveSeparateLimits(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           0.1,
		Burst:         1,
		ExpireMinutes: 1,
	})

	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, trackRequest("192.168.1.4"))
	assert.Equal(t, http.StatusOK, rec1.Code, "IP1 first request should succeed")

	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, trackRequest("192.168.1.5"))
	assert.Equal(t, http.StatusOK, rec2.Code, "IP2 first request should succeed")
}

func TestRateLimit_NeverThrottlesScrapesOrHealth(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           0.1,
		Burst:         1,
		ExpireMinutes: 1,
	})

	// Exhaust the budget for this IP with ingestion.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, trackRequest("192.168.1.6"))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, trackRequest("192.168.1.6"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	for _, path := range []string{"/metrics", "/healthz"} {
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "192.168.1.6:12345"
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "%s should never be throttled", path)
		}
	}
}

func TestRateLimit_BypassWithCorrectSecret(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           0.1,
		Burst:         1,
		ExpireMinutes: 1,
		BypassSecret:  "test_secret",
	})

	for i := 0; i < 10; i++ {
		req := trackRequest("192.168.1.7")
		req.Header.Set("X-Rate-Limit-Bypass", "test_secret")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "request %d with bypass should succeed", i)
	}
}

func TestRateLimit_BypassWithWrongSecret(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{
		RPS:           0.1,
		Burst:         1,
		ExpireMinutes: 1,
		BypassSecret:  "test_secret",
	})

	req1 := trackRequest("192.168.1.8")
	req1.Header.Set("X-Rate-Limit-Bypass", "wrong_secret")
	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, req1)

	req2 := trackRequest("192.168.1.8")
	req2.Header.Set("X-Rate-Limit-Bypass", "wrong_secret")
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusTooManyRequests, rec2.Code, "wrong secret should not bypass rate limit")
}
