package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect targets MySQL 8 through go-sql-driver/mysql
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

// DSN adds parseTime so DATETIME columns scan into time.Time
func (d *MySQLDialect) DSN(config DialectConfig) string {
	switch {
	case strings.Contains(config.URL, "parseTime="):
		return config.URL
	case strings.Contains(config.URL, "?"):
		return config.URL + "&parseTime=true"
	default:
		return config.URL + "?parseTime=true"
	}
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

// QuoteIdent uses backticks; GROUPS is reserved since MySQL 8
func (d *MySQLDialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		return fmt.Errorf("enable foreign key checks: %w", err)
	}
	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string { return "mysql" }

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return migrationsTableQuery("BIGINT AUTO_INCREMENT PRIMARY KEY", "VARCHAR(255)", "DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)")
}

func (d *MySQLDialect) BoolValue(b bool) string {
	return trueFalse(b)
}
