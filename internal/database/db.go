// Package database opens the relational store and owns everything that
// differs between SQL backends: DSN assembly, pool settings, DDL and the
// classification of constraint errors.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// Open connects to the backend selected by cfg.Driver, verifies the
// connection and returns the handle together with its dialect.
func Open(cfg config.DBConfig) (*sql.DB, Dialect, error) {
	switch cfg.Driver {
	case "mysql":
		db, err := OpenMySQL(cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
		return db, MySQL, err
	case "sqlite3":
		db, err := OpenSQLite(cfg.Path)
		return db, SQLite, err
	default:
		return nil, nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// MySQLDSN builds the go-sql-driver DSN for the catalog database.
func MySQLDSN(user, pass, host, port, name string) string {
	c := mysql.NewConfig()
	c.User = user
	c.Passwd = pass
	c.Net = "tcp"
	c.Addr = host + ":" + port
	c.DBName = name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", MySQLDSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql %s: %w", host, err)
	}
	return db, nil
}

// OpenSQLite opens (creating if needed) a SQLite database file with
// foreign keys enforced.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// One writer at a time; a single connection also keeps the
	// foreign_keys pragma from being lost on a fresh pool connection.
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
