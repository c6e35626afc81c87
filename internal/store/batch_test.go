package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/workspace-sim/internal/logger"
	"github.com/nhle/workspace-sim/internal/model"
)

func newMemoryStore(t *testing.T, batchSize int) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(memoryPath, false, batchSize, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestWriteTableSkipsFailedBatch(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, 2)
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	ws := model.Workspace{ID: model.NewID(), Name: "Acme", Domain: "acme.test", CreatedAt: now}
	st := writeTable(ctx, &s.sqlStore, workspacesTable, []model.Workspace{ws})
	require.Equal(t, 1, st.Written)

	user := func(wsID string) model.User {
		id := model.NewID()
		return model.User{
			ID: id, WorkspaceID: wsID, Email: id + "@acme.test", Name: "U",
			Department: model.DepartmentSales, Role: model.RoleMember, JoinedAt: now,
		}
	}
	users := []model.User{
		user(ws.ID), user(ws.ID),
		user(ws.ID), user("missing-workspace"),
		user(ws.ID),
	}

	st = writeTable(ctx, &s.sqlStore, usersTable, users)
	require.Equal(t, TableStats{Table: "users", Rows: 5, Written: 3, FailedBatches: 1}, st)

	var n int
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM users"))
	require.Equal(t, 3, n, "the failed batch is rolled back as a whole")
}

func TestWriteTableDuplicateKeyInLaterBatch(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, 1)
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	a := model.Workspace{ID: "ws-a", Name: "A", Domain: "a.test", CreatedAt: now}
	b := model.Workspace{ID: "ws-b", Name: "B", Domain: "b.test", CreatedAt: now}

	st := writeTable(ctx, &s.sqlStore, workspacesTable, []model.Workspace{a, a, b})
	require.Equal(t, 2, st.Written)
	require.Equal(t, 1, st.FailedBatches)
}

func TestInsertQuery(t *testing.T) {
	require.Equal(t,
		"INSERT INTO team_memberships (team_id, user_id, role) VALUES (?, ?, ?)",
		membershipsTable.insertQuery(),
	)
}

func TestFirstRow(t *testing.T) {
	m := model.TeamMembership{TeamID: "t1", UserID: "u1", Role: model.MembershipLead}
	require.Equal(t, map[string]any{"team_id": "t1", "user_id": "u1", "role": "Lead"}, firstRow(membershipsTable, m))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newMemoryStore(t, 10)
	require.NoError(t, s.runMigrations())

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	require.Equal(t, migrations[len(migrations)-1].version, version)
}

func TestReportPassed(t *testing.T) {
	r := &Report{
		Counts: []Count{
			{Name: tableWorkspaces, Value: 1},
			{Name: tableUsers, Value: 10},
			{Name: tableTasks, Value: 100},
		},
		Tasks:        100,
		WeekendTasks: 2,
	}
	require.True(t, r.Passed())
	require.InDelta(t, 0.02, r.WeekendRate(), 1e-9)

	r.Orphans = []Count{{Name: "tasks.project_id", Value: 1}}
	require.False(t, r.Passed())

	require.Zero(t, (&Report{}).NullDescriptionRate())
}

func TestReportEmptyStoreFails(t *testing.T) {
	s := newMemoryStore(t, 10)

	r, err := s.Verify(context.Background())
	require.NoError(t, err)
	require.Zero(t, r.OrphanTotal())
	require.Equal(t, []string{tableWorkspaces, tableUsers, tableTasks}, r.EmptyTables())
	require.False(t, r.Passed())
}
