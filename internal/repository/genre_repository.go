package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo encapsulates all queries on the `generos` table. It runs on
// either the pool or an open transaction.
type GenreRepo struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewGenreRepo constructs a GenreRepo with the provided handle.
func NewGenreRepo(db database.DBTX, d database.Dialect) *GenreRepo {
	return &GenreRepo{db: db, dialect: d}
}

// Create inserts a new genre and fills in its ID. A name that already
// exists yields ErrDuplicate.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	const q = "INSERT INTO generos (genNombre) VALUES (?)"
	res, err := r.db.ExecContext(ctx, q, g.Name)
	if err != nil {
		return classify(r.dialect, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

// GetByID fetches a genre by its ID or returns ErrGenreNotFound.
func (r *GenreRepo) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	const q = "SELECT idGenero, genNombre FROM generos WHERE idGenero = ?"
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Exists reports whether a genre row with the given ID is present.
func (r *GenreRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = "SELECT 1 FROM generos WHERE idGenero = ?"
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAll returns every genre ordered by ID.
func (r *GenreRepo) ListAll(ctx context.Context) ([]*model.Genre, error) {
	const q = "SELECT idGenero, genNombre FROM generos ORDER BY idGenero"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Genre{}
	for rows.Next() {
		g := new(model.Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
