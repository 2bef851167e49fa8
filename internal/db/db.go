// Package db opens the SQL database used by the sql store backend.
package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLiteFile is used when the sql backend is selected without a DSN.
const DefaultSQLiteFile = "ada.db"

// NewDBConnection opens a database connection for the given DSN.
// A postgres:// or postgresql:// DSN connects to Postgres, anything else is
// treated as a SQLite database file (":memory:" included).
func NewDBConnection(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	if isPostgresDSN(dsn) {
		conn, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres database: %w", err)
		}
		return conn, nil
	}

	if dsn == "" {
		dsn = DefaultSQLiteFile
	}
	conn, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", dsn, err)
	}

	// sqlite allows a single writer, and every connection to ":memory:" would be a separate database
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return conn, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
