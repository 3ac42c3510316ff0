package handler

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

// Home serves the embedded dashboard, which polls the JSON endpoints
// for the table and sparkline views.
func (h *Handler) Home(c echo.Context) error {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, map[string]string{"ServerTime": serverTime()}); err != nil {
		h.logger.Error("failed to render dashboard", slog.String("error", err.Error()))
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.HTML(http.StatusOK, buf.String())
}
