package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver receives one observation per served HTTP request.
type RequestObserver interface {
	ObserveRequest(method, path string, status int, seconds float64)
}

// Metrics reports every request's outcome and latency to the observer,
// so the collector's own traffic shows up in its exposition.
func Metrics(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "/"
			}
			statusCode := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					statusCode = he.Code
				}
			}

			observer.ObserveRequest(c.Request().Method, path, statusCode, time.Since(start).Seconds())

			return err
		}
	}
}
