package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the differences between the supported SQL backends. Queries are
// written once with ? placeholders and unquoted identifiers except where QuoteIdent
// is needed.
type Dialect interface {
	// Name is used in logs ("sqlite", "postgres", "mysql")
	Name() string
	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery turns ? placeholders into the driver's syntax
	RewriteQuery(query string) string

	// QuoteIdent quotes a reserved table or column name such as groups
	QuoteIdent(name string) string

	// ConfigureConnection sizes the pool and sets per-database session options
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir is the directory holding this dialect's schema files
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string

	// BoolValue is the literal for b in this dialect
	BoolValue(b bool) string
}

// DialectConfig holds connection settings. SQLite uses Path, the servers use URL.
type DialectConfig struct {
	Path string
	URL  string
}

// poolSettings bounds the connection pool of every dialect
var poolSettings = struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}{
	maxOpen:     25,
	maxIdle:     5,
	maxLifetime: 5 * time.Minute,
	maxIdleTime: time.Minute,
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(poolSettings.maxOpen)
	db.SetMaxIdleConns(poolSettings.maxIdle)
	db.SetConnMaxLifetime(poolSettings.maxLifetime)
	db.SetConnMaxIdleTime(poolSettings.maxIdleTime)
}

// migrationsTableQuery builds the bookkeeping table from dialect column types
func migrationsTableQuery(idColumn, filenameType, executedAtColumn string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS migrations (
	id %s,
	filename %s UNIQUE NOT NULL,
	executed_at %s
)`, idColumn, filenameType, executedAtColumn)
}

func trueFalse(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// rewritePlaceholdersToNumbered converts ? to $1, $2, ... outside quoted strings
// and identifiers
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
