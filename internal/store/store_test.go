package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/workspace-sim/internal/config"
	"github.com/nhle/workspace-sim/internal/logger"
	"github.com/nhle/workspace-sim/internal/model"
	"github.com/nhle/workspace-sim/internal/store"
	"github.com/nhle/workspace-sim/tests/testutil"
)

func expectedCounts(ds *model.Dataset) map[string]int64 {
	return map[string]int64{
		"workspaces":       1,
		"users":            int64(len(ds.Users)),
		"teams":            int64(len(ds.Teams)),
		"team_memberships": int64(len(ds.Memberships)),
		"projects":         int64(len(ds.Projects)),
		"sections":         int64(len(ds.Sections)),
		"tasks":            int64(len(ds.Tasks)),
		"stories":          int64(len(ds.Stories)),
	}
}

func TestPersistAndVerify(t *testing.T) {
	ctx := context.Background()
	ds := testutil.NewDataset(t, 80, 11)
	s := testutil.NewTestStore(t, 500)

	stats, err := s.Persist(ctx, ds)
	require.NoError(t, err)
	require.Len(t, stats, len(store.Tables))

	want := expectedCounts(ds)
	for i, st := range stats {
		require.Equal(t, store.Tables[i], st.Table)
		require.Zero(t, st.FailedBatches, st.Table)
		require.Equal(t, st.Rows, st.Written, st.Table)
		require.EqualValues(t, want[st.Table], st.Written, st.Table)
	}

	report, err := s.Verify(ctx)
	require.NoError(t, err)

	for _, c := range report.Counts {
		require.Equal(t, want[c.Name], c.Value, c.Name)
	}
	require.Zero(t, report.OrphanTotal())
	require.Zero(t, report.CompletedBeforeCreated)
	require.Zero(t, report.PlaceholderRows)
	require.Less(t, report.WeekendRate(), store.MaxWeekendRate)
	require.InDelta(t, 0.10, report.NullDescriptionRate(), 0.05)
	require.True(t, report.Passed())
}

func TestPersistSmallBatches(t *testing.T) {
	ctx := context.Background()
	ds := testutil.NewDataset(t, 20, 12)
	s := testutil.NewTestStore(t, 7)

	stats, err := s.Persist(ctx, ds)
	require.NoError(t, err)
	for _, st := range stats {
		require.Equal(t, st.Rows, st.Written, st.Table)
	}
}

func TestPersistStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := testutil.NewTestStore(t, 500)
	_, err := s.Persist(ctx, testutil.NewDataset(t, 5, 13))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := store.Open(ctx, config.StoreConfig{Driver: "mongo"}, logger.Nop())
	require.ErrorIs(t, err, store.ErrUnknownDriver)

	path := filepath.Join(t.TempDir(), "out", "sim.sqlite")
	cfg := config.StoreConfig{Driver: config.DriverSQLite, Path: path, BatchSize: 100, Reset: true}

	s, err := store.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	_, err = s.Persist(ctx, testutil.NewDataset(t, 10, 14))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	cfg.Reset = false
	s, err = store.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	report, err := s.Verify(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(10), countOf(report, "users"))
	require.NoError(t, s.Close())

	cfg.Reset = true
	s, err = store.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()
	report, err = s.Verify(ctx)
	require.NoError(t, err)
	require.Zero(t, countOf(report, "users"))
}

func countOf(r *store.Report, table string) int64 {
	for _, c := range r.Counts {
		if c.Name == table {
			return c.Value
		}
	}
	return -1
}
