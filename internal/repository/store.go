package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/database"
)

// Repos groups the catalog repositories bound to one handle.
type Repos struct {
	Genres *GenreRepo
	Movies *MovieRepo
}

// Store owns the connection pool and hands out repositories bound either
// to the pool or to a single transaction.
type Store struct {
	db      *sql.DB
	dialect database.Dialect
	Repos
}

// NewStore wraps an open pool. The dialect must match the pool's driver.
func NewStore(db *sql.DB, d database.Dialect) *Store {
	return &Store{
		db:      db,
		dialect: d,
		Repos:   Repos{Genres: NewGenreRepo(db, d), Movies: NewMovieRepo(db, d)},
	}
}

// RunInTx runs fn with repositories bound to one transaction. A nil
// return commits, anything else rolls the whole request back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, Repos{Genres: NewGenreRepo(tx, s.dialect), Movies: NewMovieRepo(tx, s.dialect)})
	})
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
