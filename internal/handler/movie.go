package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
)

const msgMovieNotFound = "Película no encontrada"

// MovieResponse is the public shape of a movie. Genre is null when the
// reference cannot be resolved.
type MovieResponse struct {
	ID       int64          `json:"idPelicula"`
	Code     string         `json:"codigo"`
	Title    string         `json:"titulo"`
	Lead     string         `json:"protagonista"`
	Duration int            `json:"duracion"`
	Summary  string         `json:"resumen"`
	PhotoRef string         `json:"foto"`
	Genre    *GenreResponse `json:"genero"`
}

func movieResponse(m *model.Movie) MovieResponse {
	return MovieResponse{
		ID:       m.ID,
		Code:     m.Code,
		Title:    m.Title,
		Lead:     m.Lead,
		Duration: m.Duration,
		Summary:  m.Summary,
		PhotoRef: m.PhotoRef,
		Genre:    genreResponse(m.Genre),
	}
}

func movieResponses(movies []*model.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieResponse(m))
	}
	return out
}

// ListMovies handles GET /peliculas.
func (h *Handler) ListMovies(c echo.Context) error {
	movies, err := h.catalog.ListMovies(c.Request().Context())
	if err != nil {
		return h.fail(c, "list movies", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mensaje":   "Lista de películas obtenida exitosamente",
		"peliculas": movieResponses(movies),
	})
}

// CreateMovie handles POST /peliculas.
func (h *Handler) CreateMovie(c echo.Context) error {
	var in service.CreateMovieInput
	if err := bindBody(c, &in); err != nil {
		return h.fail(c, "create movie", service.ValidationError(msgBadBody))
	}
	m, err := h.catalog.CreateMovie(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, "create movie", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"mensaje":    "Película creada exitosamente",
		"idPelicula": m.ID,
		"titulo":     m.Title,
	})
}

// GetMovie handles GET /peliculas/:id.
func (h *Handler) GetMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"mensaje": msgMovieNotFound})
	}
	m, err := h.catalog.GetMovie(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get movie", err)
	}
	return c.JSON(http.StatusOK, movieResponse(m))
}

// UpdateMovie handles PUT /peliculas/:id with a partial field map. Only
// pelCodigo, pelTitulo, pelProtagonista, pelDuracion, pelResumen, pelFoto
// and pelGenero are accepted; any other key fails the whole request with
// 400 "Campo no permitido: <key>" instead of being ignored.
func (h *Handler) UpdateMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"mensaje": msgMovieNotFound})
	}
	var patch service.MoviePatch
	if err := bindBody(c, &patch); err != nil {
		return h.fail(c, "update movie", service.ValidationError(msgBadBody))
	}
	m, err := h.catalog.UpdateMovie(c.Request().Context(), id, patch)
	if err != nil {
		return h.fail(c, "update movie", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mensaje":    "Película actualizada exitosamente",
		"idPelicula": m.ID,
		"titulo":     m.Title,
	})
}

// DeleteMovie handles DELETE /peliculas/:id.
func (h *Handler) DeleteMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"mensaje": msgMovieNotFound})
	}
	m, err := h.catalog.DeleteMovie(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "delete movie", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mensaje":    "Película eliminada exitosamente",
		"idPelicula": m.ID,
	})
}
