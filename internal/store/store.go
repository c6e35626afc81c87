// Package store persists generated datasets to a relational database and
// runs read-only verification queries against them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nhle/workspace-sim/internal/config"
	"github.com/nhle/workspace-sim/internal/model"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Sink writes a dataset and checks what was written.
type Sink interface {
	// Persist writes every table of ds in dependency order. Batch
	// failures are logged and counted in the returned stats; the error
	// is non-nil only when ctx is cancelled mid-write.
	Persist(ctx context.Context, ds *model.Dataset) ([]TableStats, error)

	// Verify runs the acceptance checks against stored data.
	Verify(ctx context.Context) (*Report, error)

	Close() error
}

// Open constructs the sink selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.SugaredLogger) (Sink, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := NewSQLiteStore(cfg.Path, cfg.Reset, cfg.BatchSize, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := NewPostgresStore(ctx, cfg.DSN, cfg.Reset, cfg.BatchSize, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// sqlStore holds the driver-independent write and verify logic. Queries
// are written with ? placeholders and rebound for the driver.
type sqlStore struct {
	db        *sqlx.DB
	log       *zap.SugaredLogger
	batchSize int
}

// Persist implements Sink.
func (s *sqlStore) Persist(ctx context.Context, ds *model.Dataset) ([]TableStats, error) {
	steps := []func() TableStats{
		func() TableStats { return writeTable(ctx, s, workspacesTable, []model.Workspace{ds.Workspace}) },
		func() TableStats { return writeTable(ctx, s, usersTable, ds.Users) },
		func() TableStats { return writeTable(ctx, s, teamsTable, ds.Teams) },
		func() TableStats { return writeTable(ctx, s, membershipsTable, ds.Memberships) },
		func() TableStats { return writeTable(ctx, s, projectsTable, ds.Projects) },
		func() TableStats { return writeTable(ctx, s, sectionsTable, ds.Sections) },
		func() TableStats { return writeTable(ctx, s, tasksTable, ds.Tasks) },
		func() TableStats { return writeTable(ctx, s, storiesTable, ds.Stories) },
	}

	stats := make([]TableStats, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("persisting dataset: %w", err)
		}
		st := step()
		stats = append(stats, st)
		s.log.Infow("table written",
			"table", st.Table,
			"rows", st.Rows,
			"written", st.Written,
			"failed_batches", st.FailedBatches,
		)
	}
	return stats, nil
}

// Close closes the underlying database connection.
func (s *sqlStore) Close() error {
	return s.db.Close()
}
