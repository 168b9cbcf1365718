package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// GenreResponse is the public shape of a genre.
type GenreResponse struct {
	ID   int64  `json:"idGenero"`
	Name string `json:"nombre"`
}

func genreResponse(g *model.Genre) *GenreResponse {
	if g == nil {
		return nil
	}
	return &GenreResponse{ID: g.ID, Name: g.Name}
}

// ListGenres handles GET /generos.
func (h *Handler) ListGenres(c echo.Context) error {
	genres, err := h.catalog.ListGenres(c.Request().Context())
	if err != nil {
		return h.fail(c, "list genres", err)
	}
	out := make([]*GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreResponse(g))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mensaje": "Lista de géneros obtenida exitosamente",
		"generos": out,
	})
}

// CreateGenre handles POST /generos.
func (h *Handler) CreateGenre(c echo.Context) error {
	var in service.CreateGenreInput
	if err := bindBody(c, &in); err != nil {
		return h.fail(c, "create genre", service.ValidationError(msgBadBody))
	}
	g, err := h.catalog.CreateGenre(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, "create genre", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"mensaje":  "Género creado exitosamente",
		"idGenero": g.ID,
	})
}

// GetGenre handles GET /generos/:id.
func (h *Handler) GetGenre(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"mensaje": "Género no encontrado"})
	}
	g, err := h.catalog.GetGenre(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get genre", err)
	}
	return c.JSON(http.StatusOK, genreResponse(g))
}

// ListGenreMovies handles GET /generos/:id/peliculas.
func (h *Handler) ListGenreMovies(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"mensaje": "Género no encontrado"})
	}
	movies, err := h.catalog.ListGenreMovies(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "list genre movies", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mensaje":   "Lista de películas obtenida exitosamente",
		"peliculas": movieResponses(movies),
	})
}
