// Package service implements the genre and movie operations on top of the
// repositories. Every write runs in one transaction; a failure anywhere in
// it rolls the whole request back. Events are published only after commit.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// EventPublisher delivers catalog events. queue.Publisher and queue.Nop
// satisfy it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.CatalogEvent) error
}

// Catalog exposes the genre and movie use cases.
type Catalog struct {
	store  *repository.Store
	events EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewCatalog constructs the service. events may be nil to disable
// publication.
func NewCatalog(store *repository.Store, events EventPublisher, log zerolog.Logger) *Catalog {
	if store == nil {
		panic("nil store passed to NewCatalog")
	}
	if events == nil {
		events = queue.Nop{}
	}
	return &Catalog{store: store, events: events, log: log, now: time.Now}
}

const (
	msgGenreNotFound   = "Género no encontrado"
	msgMovieNotFound   = "Película no encontrada"
	msgGenreMissingRef = "El ID de género proporcionado no existe"
	msgGenreDuplicate  = "El nombre de género ya existe"
	msgMovieConflict   = "Error de datos: El código de película ya existe o el ID de género es inválido."
)

// Ping reports whether the backing store is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// ListGenres returns all genres.
func (c *Catalog) ListGenres(ctx context.Context) ([]*model.Genre, error) {
	genres, err := c.store.Genres.ListAll(ctx)
	if err != nil {
		return nil, InternalError(err)
	}
	return genres, nil
}

// GetGenre returns one genre by id.
func (c *Catalog) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	g, err := c.store.Genres.GetByID(ctx, id)
	if errors.Is(err, repository.ErrGenreNotFound) {
		return nil, NotFoundError(msgGenreNotFound, err)
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return g, nil
}

// CreateGenre validates in and inserts a new genre.
func (c *Catalog) CreateGenre(ctx context.Context, in CreateGenreInput) (*model.Genre, error) {
	if err := checkStruct(in, missingGenreField); err != nil {
		return nil, err
	}
	g := &model.Genre{Name: *in.Name}
	err := c.store.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		return r.Genres.Create(ctx, g)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ConflictError(msgGenreDuplicate, err)
	}
	if err != nil {
		return nil, InternalError(err)
	}
	c.publish(ctx, queue.CatalogEvent{Type: queue.GenreCreated, GenreID: g.ID, GenreName: g.Name})
	return g, nil
}

// ListGenreMovies returns the movies of one genre.
func (c *Catalog) ListGenreMovies(ctx context.Context, genreID int64) ([]*model.Movie, error) {
	if _, err := c.GetGenre(ctx, genreID); err != nil {
		return nil, err
	}
	movies, err := c.store.Movies.ListByGenre(ctx, genreID)
	if err != nil {
		return nil, InternalError(err)
	}
	return movies, nil
}

// ListMovies returns all movies with their genre.
func (c *Catalog) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	movies, err := c.store.Movies.ListAll(ctx)
	if err != nil {
		return nil, InternalError(err)
	}
	return movies, nil
}

// GetMovie returns one movie with its genre.
func (c *Catalog) GetMovie(ctx context.Context, id int64) (*model.Movie, error) {
	m, err := c.store.Movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return nil, NotFoundError(msgMovieNotFound, err)
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return m, nil
}

// CreateMovie validates in, checks that the genre exists and inserts the
// movie, all inside one transaction.
func (c *Catalog) CreateMovie(ctx context.Context, in CreateMovieInput) (*model.Movie, error) {
	if err := checkStruct(in, missingMovieField); err != nil {
		return nil, err
	}
	m := &model.Movie{
		Code:     *in.Code,
		Title:    *in.Title,
		Lead:     *in.Lead,
		Duration: *in.Duration,
		Summary:  *in.Summary,
		PhotoRef: *in.PhotoRef,
		GenreID:  *in.GenreID,
	}
	err := c.store.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := requireGenre(ctx, r, m.GenreID); err != nil {
			return err
		}
		return r.Movies.Create(ctx, m)
	})
	if err != nil {
		return nil, movieWriteError(err)
	}
	c.publish(ctx, queue.CatalogEvent{
		Type: queue.MovieCreated, MovieID: m.ID, MovieCode: m.Code, MovieTitle: m.Title, GenreID: m.GenreID,
	})
	return m, nil
}

// UpdateMovie applies patch to the movie with the given id. Only the keys
// of the allow-list are accepted; the genre reference is re-validated when
// present. Nothing is written unless every field is valid.
func (c *Catalog) UpdateMovie(ctx context.Context, id int64, patch MoviePatch) (*model.Movie, error) {
	var updated *model.Movie
	err := c.store.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		m, err := r.Movies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.apply(m); err != nil {
			return err
		}
		if _, ok := patch["pelGenero"]; ok {
			if err := requireGenre(ctx, r, m.GenreID); err != nil {
				return err
			}
		}
		if err := r.Movies.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, movieWriteError(err)
	}
	c.publish(ctx, queue.CatalogEvent{
		Type: queue.MovieUpdated, MovieID: updated.ID, MovieTitle: updated.Title, Fields: patch.Keys(),
	})
	return updated, nil
}

// DeleteMovie removes the movie with the given id.
func (c *Catalog) DeleteMovie(ctx context.Context, id int64) (*model.Movie, error) {
	var deleted *model.Movie
	err := c.store.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		m, err := r.Movies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Movies.Delete(ctx, id); err != nil {
			return err
		}
		deleted = m
		return nil
	})
	if err != nil {
		return nil, movieWriteError(err)
	}
	c.publish(ctx, queue.CatalogEvent{
		Type: queue.MovieDeleted, MovieID: deleted.ID, MovieCode: deleted.Code, MovieTitle: deleted.Title,
	})
	return deleted, nil
}

func requireGenre(ctx context.Context, r repository.Repos, id int64) error {
	ok, err := r.Genres.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ValidationError(msgGenreMissingRef)
	}
	return nil
}

// movieWriteError maps a failure from a movie transaction onto the
// service taxonomy. Errors that already carry a Kind pass through.
func movieWriteError(err error) error {
	var se *Error
	switch {
	case errors.As(err, &se):
		return se
	case errors.Is(err, repository.ErrMovieNotFound):
		return NotFoundError(msgMovieNotFound, err)
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrForeignKey):
		return ConflictError(msgMovieConflict, err)
	default:
		return InternalError(err)
	}
}

// publish sends ev after a commit. Delivery failures are logged and never
// reach the client: the write has already succeeded.
func (c *Catalog) publish(ctx context.Context, ev queue.CatalogEvent) {
	ev = ev.Stamp(c.now())
	if err := c.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		c.log.Warn().Err(err).Str("event", string(ev.Type)).Msg("catalog event not published")
	}
}
