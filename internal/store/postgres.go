package store

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

const (
	postgresMigrationsDir = "migrations/postgres"
	connectTimeout        = 10 * time.Second
)

// PostgresStore implements Sink on PostgreSQL through the pgx stdlib
// driver. The schema is managed by goose.
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects to dsn and migrates the schema to the latest
// version. With reset, every migration is rolled back first, which drops
// all generated data.
func NewPostgresStore(
	ctx context.Context,
	dsn string,
	reset bool,
	batchSize int,
	log *zap.SugaredLogger,
) (*PostgresStore, error) {
	log = log.Named("store.postgres")

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	db := sqlx.NewDb(stdlib.OpenDB(*connCfg), "pgx")

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := migratePostgres(ctx, db, reset, log); err != nil {
		db.Close()
		return nil, err
	}

	log.Infow("postgres ready", "host", connCfg.Host, "port", connCfg.Port, "database", connCfg.Database)
	return &PostgresStore{sqlStore{db: db, log: log, batchSize: batchSize}}, nil
}

func migratePostgres(ctx context.Context, db *sqlx.DB, reset bool, log *zap.SugaredLogger) error {
	goose.SetBaseFS(postgresMigrations)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate dialect: %w", err)
	}

	if reset {
		if err := goose.ResetContext(ctx, db.DB, postgresMigrationsDir); err != nil {
			return fmt.Errorf("migrate reset: %w", err)
		}
	}
	if err := goose.UpContext(ctx, db.DB, postgresMigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	version, err := goose.EnsureDBVersionContext(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	log.Debugw("schema migrated", "version", version)
	return nil
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...any) { l.log.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...any) { l.log.Debugf(format, v...) }
