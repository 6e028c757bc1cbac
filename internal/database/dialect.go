package database

import (
	"strconv"
	"strings"

	"github.com/go-while/go-entrees/internal/config"
)

// Dialect abstracts SQL differences between the supported database engines.
type Dialect interface {
	// Name is the configured driver name
	Name() string
	// DriverName is the name registered with database/sql
	DriverName() string
	// Rebind rewrites '?' placeholders into the engine's bind syntax
	Rebind(query string) string
	// UseReturning reports whether INSERT must use RETURNING to get the new id
	UseReturning() bool
	// MigrationsDir is the embedded directory holding the engine's migrations
	MigrationsDir() string
	// Retryable reports whether lock errors should be retried
	Retryable() bool
	// MigrationsTableDDL creates the schema_migrations table
	MigrationsTableDDL() string
}

var (
	SQLite     Dialect = sqliteDialect{}
	PostgreSQL Dialect = postgresDialect{}
	MySQL      Dialect = mysqlDialect{}
)

// DialectFor returns the Dialect for a configured driver name
func DialectFor(driver string) (Dialect, error) {
	name, err := config.NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	switch name {
	case "pgx":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	default:
		return SQLite, nil
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string               { return "sqlite3" }
func (sqliteDialect) DriverName() string         { return "sqlite3" }
func (sqliteDialect) Rebind(query string) string { return query }
func (sqliteDialect) UseReturning() bool         { return false }
func (sqliteDialect) MigrationsDir() string      { return "migrations/sqlite" }
func (sqliteDialect) Retryable() bool            { return true }
func (sqliteDialect) MigrationsTableDDL() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
}

type postgresDialect struct{}

func (postgresDialect) Name() string          { return "pgx" }
func (postgresDialect) DriverName() string    { return "pgx" }
func (postgresDialect) UseReturning() bool    { return true }
func (postgresDialect) MigrationsDir() string { return "migrations/postgres" }
func (postgresDialect) Retryable() bool       { return false }
func (postgresDialect) MigrationsTableDDL() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
}

// Rebind turns "a = ? AND b = ?" into "a = $1 AND b = $2"
func (postgresDialect) Rebind(query string) string {
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string               { return "mysql" }
func (mysqlDialect) DriverName() string         { return "mysql" }
func (mysqlDialect) Rebind(query string) string { return query }
func (mysqlDialect) UseReturning() bool         { return false }
func (mysqlDialect) MigrationsDir() string      { return "migrations/mysql" }
func (mysqlDialect) Retryable() bool            { return false }
func (mysqlDialect) MigrationsTableDDL() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		filename VARCHAR(255) NOT NULL UNIQUE,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}
