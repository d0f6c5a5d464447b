package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database described by dsn and returns a GORM handle.
// DSNs starting with postgres:// or postgresql:// use the PostgreSQL
// driver; everything else is treated as a SQLite path or file: URI.
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("db: empty dsn")
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var conn *gorm.DB
	var errOpen error
	if isPostgresDSN(dsn) {
		conn, errOpen = gorm.Open(postgres.Open(dsn), gormCfg)
	} else {
		conn, errOpen = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if errOpen != nil {
		return nil, fmt.Errorf("db: open: %w", errOpen)
	}

	sqlDB, errDB := conn.DB()
	if errDB != nil {
		return nil, fmt.Errorf("db: sql db: %w", errDB)
	}
	if IsSQLite(conn) {
		// SQLite allows a single writer; more connections only produce
		// SQLITE_BUSY under concurrent transactions.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return conn, nil
}

// isPostgresDSN reports whether the DSN targets PostgreSQL.
func isPostgresDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}
