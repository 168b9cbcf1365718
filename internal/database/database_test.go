package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db, SQLite))
	return db
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN("root", "p@ss", "db.local", "3307", "gestionpeliculas")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "p@ss", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.local:3307", cfg.Addr)
	assert.Equal(t, "gestionpeliculas", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, _, err := Open(config.DBConfig{Driver: "oracle"})
	require.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	db, d, err := Open(config.DBConfig{Driver: "sqlite3", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite3", d.Name())
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db, SQLite))

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('generos', 'peliculas')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteDialect_ClassifiesConstraintErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO generos (genNombre) VALUES ('Drama')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO generos (genNombre) VALUES ('Drama')`)
	require.Error(t, err)
	assert.True(t, SQLite.IsUniqueViolation(err))
	assert.False(t, SQLite.IsForeignKeyViolation(err))

	_, err = db.ExecContext(ctx, `INSERT INTO peliculas
		(pelCodigo, pelTitulo, pelProtagonista, pelDuracion, pelResumen, pelFoto, pelGenero)
		VALUES ('P1', 't', 'a', 90, 'r', 'f.jpg', 999)`)
	require.Error(t, err)
	assert.True(t, SQLite.IsForeignKeyViolation(err))
	assert.False(t, SQLite.IsUniqueViolation(err))
}

func TestMySQLDialect_ClassifiesConstraintErrors(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Drama' for key 'uq_generos_nombre'"}
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	other := &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}

	assert.True(t, MySQL.IsUniqueViolation(dup))
	assert.True(t, MySQL.IsUniqueViolation(errors.Join(errors.New("insert genre"), dup)))
	assert.False(t, MySQL.IsUniqueViolation(fk))
	assert.True(t, MySQL.IsForeignKeyViolation(fk))
	assert.False(t, MySQL.IsForeignKeyViolation(other))
	assert.False(t, MySQL.IsUniqueViolation(errors.New("1062")))
}

func TestRunInTx_CommitsAndRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := RunInTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO generos (genNombre) VALUES ('Terror')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = RunInTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO generos (genNombre) VALUES ('Comedia')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var names []string
	rows, err := db.Query(`SELECT genNombre FROM generos ORDER BY idGenero`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Terror"}, names)
}
