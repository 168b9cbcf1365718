package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table and column names are part of the catalog's public data contract and
// match the JSON field names used by the API.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS generos (
		idGenero  INT         NOT NULL AUTO_INCREMENT,
		genNombre VARCHAR(50) NOT NULL,
		PRIMARY KEY (idGenero),
		UNIQUE KEY uq_generos_nombre (genNombre)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS peliculas (
		idPelicula      INT         NOT NULL AUTO_INCREMENT,
		pelCodigo       VARCHAR(9)  NOT NULL,
		pelTitulo       VARCHAR(50) NOT NULL,
		pelProtagonista VARCHAR(50) NOT NULL,
		pelDuracion     INT         NOT NULL,
		pelResumen      TEXT        NOT NULL,
		pelFoto         VARCHAR(45) NOT NULL,
		pelGenero       INT         NOT NULL,
		PRIMARY KEY (idPelicula),
		UNIQUE KEY uq_peliculas_codigo (pelCodigo),
		KEY idx_peliculas_genero (pelGenero),
		CONSTRAINT fk_peliculas_genero FOREIGN KEY (pelGenero) REFERENCES generos (idGenero)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS generos (
		idGenero  INTEGER PRIMARY KEY AUTOINCREMENT,
		genNombre VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS peliculas (
		idPelicula      INTEGER PRIMARY KEY AUTOINCREMENT,
		pelCodigo       VARCHAR(9)  NOT NULL UNIQUE,
		pelTitulo       VARCHAR(50) NOT NULL,
		pelProtagonista VARCHAR(50) NOT NULL,
		pelDuracion     INTEGER     NOT NULL,
		pelResumen      TEXT        NOT NULL,
		pelFoto         VARCHAR(45) NOT NULL,
		pelGenero       INTEGER     NOT NULL REFERENCES generos (idGenero)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_peliculas_genero ON peliculas (pelGenero)`,
}

// Migrate creates the catalog tables when they do not exist yet. It is
// safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for i, stmt := range d.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema statement %d: %w", d.Name(), i+1, err)
		}
	}
	return nil
}
