package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Dialect captures the backend-specific parts the repositories need.
type Dialect interface {
	Name() string
	// Schema returns the DDL statements that create the catalog tables.
	Schema() []string
	// IsUniqueViolation reports a duplicate key on a unique index.
	IsUniqueViolation(err error) bool
	// IsForeignKeyViolation reports a missing parent row or a parent
	// still referenced by children.
	IsForeignKeyViolation(err error) bool
}

// MySQL error numbers, see
// https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlDupEntry         = 1062
	mysqlNoReferencedRow2 = 1216
	mysqlRowIsReferenced2 = 1217
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
)

var (
	MySQL  Dialect = mysqlDialect{}
	SQLite Dialect = sqliteDialect{}
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) Schema() []string { return mysqlSchema }

func (mysqlDialect) IsUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}

func (mysqlDialect) IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	switch me.Number {
	case mysqlNoReferencedRow, mysqlNoReferencedRow2, mysqlRowIsReferenced, mysqlRowIsReferenced2:
		return true
	}
	return false
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) Schema() []string { return sqliteSchema }

func (sqliteDialect) IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func (sqliteDialect) IsForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
