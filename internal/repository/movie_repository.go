package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo encapsulates all queries on the `peliculas` table.
type MovieRepo struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewMovieRepo constructs a MovieRepo with the provided handle.
func NewMovieRepo(db database.DBTX, d database.Dialect) *MovieRepo {
	return &MovieRepo{db: db, dialect: d}
}

// movieSelect joins the genre so every read returns the embedded summary.
// LEFT JOIN keeps a movie visible even if its genre row is gone.
const movieSelect = `SELECT p.idPelicula, p.pelCodigo, p.pelTitulo, p.pelProtagonista,
	p.pelDuracion, p.pelResumen, p.pelFoto, p.pelGenero, g.idGenero, g.genNombre
	FROM peliculas p
	LEFT JOIN generos g ON g.idGenero = p.pelGenero`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var (
		m         model.Movie
		genreID   sql.NullInt64
		genreName sql.NullString
	)
	err := s.Scan(&m.ID, &m.Code, &m.Title, &m.Lead, &m.Duration, &m.Summary, &m.PhotoRef, &m.GenreID, &genreID, &genreName)
	if err != nil {
		return nil, err
	}
	if genreID.Valid {
		m.Genre = &model.Genre{ID: genreID.Int64, Name: genreName.String}
	}
	return &m, nil
}

// Create inserts a new movie and fills in its ID. Duplicate codes yield
// ErrDuplicate and unknown genres ErrForeignKey.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO peliculas
		(pelCodigo, pelTitulo, pelProtagonista, pelDuracion, pelResumen, pelFoto, pelGenero)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Code, m.Title, m.Lead, m.Duration, m.Summary, m.PhotoRef, m.GenreID)
	if err != nil {
		return classify(r.dialect, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// GetByID fetches a movie with its genre or returns ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, movieSelect+" WHERE p.idPelicula = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListAll returns every movie ordered by ID.
func (r *MovieRepo) ListAll(ctx context.Context) ([]*model.Movie, error) {
	return r.list(ctx, movieSelect+" ORDER BY p.idPelicula")
}

// ListByGenre returns the movies that reference the given genre.
func (r *MovieRepo) ListByGenre(ctx context.Context, genreID int64) ([]*model.Movie, error) {
	return r.list(ctx, movieSelect+" WHERE p.pelGenero = ? ORDER BY p.idPelicula", genreID)
}

func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes every column of m back to its row. The caller loads the
// row first: MySQL reports zero affected rows for an update that changes
// nothing, so RowsAffected cannot tell a missing row apart.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE peliculas
		SET pelCodigo = ?, pelTitulo = ?, pelProtagonista = ?, pelDuracion = ?,
		    pelResumen = ?, pelFoto = ?, pelGenero = ?
		WHERE idPelicula = ?`
	_, err := r.db.ExecContext(ctx, q, m.Code, m.Title, m.Lead, m.Duration, m.Summary, m.PhotoRef, m.GenreID, m.ID)
	return classify(r.dialect, err)
}

// Delete removes a movie by ID. It returns ErrMovieNotFound when no row
// was deleted.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM peliculas WHERE idPelicula = ?", id)
	if err != nil {
		return classify(r.dialect, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
