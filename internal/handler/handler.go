// Package handler exposes the catalog over HTTP. Handlers decode the
// request, call the catalog service and shape the JSON the API has always
// returned: Spanish field names and a "mensaje" on every success.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// Handler bundles the catalog service for the genre and movie routes.
type Handler struct {
	catalog *service.Catalog
	log     zerolog.Logger
}

// NewHandler constructs a Handler and panics if catalog is nil.
func NewHandler(catalog *service.Catalog, log zerolog.Logger) *Handler {
	if catalog == nil {
		panic("nil catalog passed to NewHandler")
	}
	return &Handler{catalog: catalog, log: log}
}

const msgBadBody = "Cuerpo de solicitud inválido"

// bindBody decodes the JSON body only; path and query values never reach
// the input.
func bindBody(c echo.Context, dst any) error {
	return (&echo.DefaultBinder{}).BindBody(c, dst)
}

// parseID reads the :id path parameter. Routes only ever matched integer
// ids, so anything else is reported as not found by the caller.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// fail logs err with op and writes the response its kind maps to.
func (h *Handler) fail(c echo.Context, op string, err error) error {
	status := statusOf(service.KindOf(err))
	e := h.log.Warn()
	if status >= http.StatusInternalServerError {
		e = h.log.Error()
	}
	e.Err(err).
		Str("op", op).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Int("status", status).
		Msg("request failed")

	msg := service.MessageOf(err)
	if status == http.StatusNotFound {
		return c.JSON(status, echo.Map{"mensaje": msg})
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func statusOf(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
