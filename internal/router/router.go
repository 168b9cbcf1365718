// Package router wires middleware and handlers onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// Deps are the collaborators the routes need. Redis may be nil, which
// turns the cache and the rate limiter off.
type Deps struct {
	Config  config.Config
	Handler *handler.Handler
	Redis   *redis.Client
	Log     zerolog.Logger
}

// New returns an Echo instance with global middleware and every route
// registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(d.Log)

	// /generos and /generos/ are the same resource.
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		echomw.Recover(),
		middleware.NewFixedWindow(d.Config.RateLimit, d.Redis, d.Log),
	)

	RegisterRoutes(e, d.Handler)
	RegisterCatalog(e, d)
	return e
}

// RegisterRoutes registers the routes that do not touch the catalog
// resources: the banner and the health check.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	e.GET("/", handler.Index)
	e.GET("/healthz", h.Health)
}
