package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// SQLiteStore implements Sink using a local SQLite database.
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode and foreign keys, and runs any pending schema
// migrations. With reset, an existing database file is removed first
// so every run starts from an empty schema.
func NewSQLiteStore(dbPath string, reset bool, batchSize int, log *zap.SugaredLogger) (*SQLiteStore, error) {
	log = log.Named("store.sqlite")

	if dbPath != memoryPath {
		if reset {
			if err := removeDatabase(dbPath); err != nil {
				return nil, err
			}
			log.Infow("removed existing database", "path", dbPath)
		}
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps the pragmas below (and an in-memory
	// database) shared by every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{sqlStore{db: db, log: log, batchSize: batchSize}}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// runMigrations applies every migration newer than the recorded schema
// version. Each one runs in its own transaction together with its
// schema_version row.
func (s *SQLiteStore) runMigrations() error {
	applied, err := s.schemaVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= applied {
			continue
		}

		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("migration v%d: begin: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration v%d: commit: %w", m.version, err)
		}
		s.log.Debugw("applied migration", "version", m.version)
	}
	return nil
}

// schemaVersion returns the highest applied migration, or 0 for a
// database that has never been migrated.
func (s *SQLiteStore) schemaVersion() (int, error) {
	var exists bool
	if err := s.db.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')`,
	); err != nil {
		return 0, fmt.Errorf("looking up schema_version: %w", err)
	}
	if !exists {
		return 0, nil
	}

	var v int
	if err := s.db.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// removeDatabase deletes the database file and its WAL side files.
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}
