// Package repository defines error types that are reused across the catalog
// repositories. These sentinel values let the service layer tell apart a
// missing row, a duplicate key and a broken foreign key without knowing which
// SQL backend produced the error.
package repository

import (
	"errors"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/database"
)

// ErrGenreNotFound is returned when a genre cannot be found in the DB.
var ErrGenreNotFound = errors.New("genre not found")

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// ErrDuplicate wraps unique-index violations (genre name, movie code).
var ErrDuplicate = errors.New("duplicate key")

// ErrForeignKey wraps foreign-key violations (movie → genre).
var ErrForeignKey = errors.New("foreign key violation")

// classify maps a driver error onto the sentinels above, keeping the
// original error in the chain for logging.
func classify(d database.Dialect, err error) error {
	switch {
	case err == nil:
		return nil
	case d.IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case d.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	default:
		return err
	}
}
