package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// RegisterCatalog registers the genre and movie routes. Reads go through
// the response cache; writes require an ADMIN token when a JWT secret is
// configured and clear the cache once they succeed.
func RegisterCatalog(e *echo.Echo, d Deps) {
	h := d.Handler
	cached := middleware.NewRedisCache(d.Config.Cache, d.Redis, d.Log)
	write := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.Config.Auth.JWTSecret, auth.RoleAdmin),
		middleware.InvalidateCache(d.Config.Cache, d.Redis, d.Log),
	}

	g := e.Group("/generos")
	g.GET("", h.ListGenres, cached)
	g.POST("", h.CreateGenre, write...)
	g.GET("/:id", h.GetGenre, cached)
	g.GET("/:id/peliculas", h.ListGenreMovies, cached)

	p := e.Group("/peliculas")
	p.GET("", h.ListMovies, cached)
	p.POST("", h.CreateMovie, write...)
	p.GET("/:id", h.GetMovie, cached)
	p.PUT("/:id", h.UpdateMovie, write...)
	p.DELETE("/:id", h.DeleteMovie, write...)
}
