package database

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"github.com/samber/oops"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the record store named by dbURL.
//
// Accepted forms are "sqlite://<path>", "sqlite://:memory:", "postgres://..."
// and "postgresql://...". SQLite connections are limited to a single open
// connection, which also keeps an in-memory database shared across queries.
func Open(dbURL string) (*gorm.DB, error) {
	var dial gorm.Dialector
	isSqlite := false

	switch {
	case strings.HasPrefix(dbURL, "sqlite://"):
		path := strings.TrimPrefix(dbURL, "sqlite://")
		if !strings.Contains(path, ":memory:") {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, oops.With("path", path, "context", "failed to create database directory").Wrap(err)
			}
		}
		dial = sqlite.Open(path)
		isSqlite = true
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dial = postgres.Open(dbURL)
	default:
		return nil, oops.With("database_url", redact(dbURL)).Errorf("unsupported database url scheme")
	}

	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 slogGorm.New(),
	})
	if err != nil {
		return nil, oops.With("database_url", redact(dbURL), "context", "failed to open database").Wrap(err)
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, oops.With("context", "failed to access sql pool").Wrap(err)
	}

	if isSqlite {
		sqldb.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
			return nil, oops.With("context", "failed to set sqlite journal mode").Wrap(err)
		}
		if err := db.Exec("PRAGMA busy_timeout=10000;").Error; err != nil {
			return nil, oops.With("context", "failed to set sqlite busy timeout").Wrap(err)
		}
	} else {
		sqldb.SetMaxOpenConns(20)
		sqldb.SetMaxIdleConns(10)
	}
	sqldb.SetConnMaxIdleTime(time.Hour)

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqldb, err := db.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

func redact(dbURL string) string {
	if i := strings.Index(dbURL, "@"); i >= 0 {
		if j := strings.Index(dbURL, "://"); j >= 0 && j < i {
			return dbURL[:j+3] + "***" + dbURL[i:]
		}
	}
	return dbURL
}
