package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Banner is the plain-text body of GET /.
const Banner = "¡API de Gestión de Películas funcionando!"

// Index answers GET / so a browser hit shows the service is up.
func Index(c echo.Context) error {
	return c.String(http.StatusOK, Banner)
}

// Health is used by load balancers and monitoring. It reports 503 when
// the database cannot be reached within two seconds.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.catalog.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("health check failed")
		return c.String(http.StatusServiceUnavailable, "unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
