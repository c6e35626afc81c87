package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/workspace-sim/internal/content"
	"github.com/nhle/workspace-sim/internal/dates"
)

// MaxWeekendRate is the highest share of weekend-created tasks a healthy
// dataset may have.
const MaxWeekendRate = 0.05

// Count is a named row count.
type Count struct {
	Name  string
	Value int64
}

// Report is the result of Verify.
type Report struct {
	Counts                 []Count
	Orphans                []Count
	Tasks                  int64
	WeekendTasks           int64
	CompletedBeforeCreated int64
	NullDescriptions       int64
	PlaceholderRows        int64
}

// WeekendRate is the share of tasks created on a Saturday or Sunday.
func (r *Report) WeekendRate() float64 {
	return ratio(r.WeekendTasks, r.Tasks)
}

// NullDescriptionRate is the share of tasks without a description.
func (r *Report) NullDescriptionRate() float64 {
	return ratio(r.NullDescriptions, r.Tasks)
}

// OrphanTotal sums every orphan check.
func (r *Report) OrphanTotal() int64 {
	var n int64
	for _, o := range r.Orphans {
		n += o.Value
	}
	return n
}

// requiredTables must hold rows for a report to pass.
var requiredTables = []string{tableWorkspaces, tableUsers, tableTasks}

// EmptyTables lists the required tables that hold no rows.
func (r *Report) EmptyTables() []string {
	var empty []string
	for _, table := range requiredTables {
		var n int64
		for _, c := range r.Counts {
			if c.Name == table {
				n = c.Value
			}
		}
		if n == 0 {
			empty = append(empty, table)
		}
	}
	return empty
}

// Passed reports whether every acceptance check holds. A store without
// workspaces, users or tasks never passes.
func (r *Report) Passed() bool {
	return len(r.EmptyTables()) == 0 &&
		r.OrphanTotal() == 0 &&
		r.CompletedBeforeCreated == 0 &&
		r.PlaceholderRows == 0 &&
		r.WeekendRate() < MaxWeekendRate
}

func ratio(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

type orphanCheck struct {
	name  string
	query string
}

var orphanChecks = []orphanCheck{
	{"tasks.project_id", `SELECT COUNT(*) FROM tasks t LEFT JOIN projects p ON t.project_id = p.id WHERE p.id IS NULL`},
	{"tasks.section_id", `SELECT COUNT(*) FROM tasks t LEFT JOIN sections s ON t.section_id = s.id WHERE s.id IS NULL`},
	{"tasks.assignee_id", `SELECT COUNT(*) FROM tasks t LEFT JOIN users u ON t.assignee_id = u.id WHERE t.assignee_id IS NOT NULL AND u.id IS NULL`},
	{"stories.target_id", `SELECT COUNT(*) FROM stories st LEFT JOIN tasks t ON st.target_id = t.id WHERE t.id IS NULL`},
	{"stories.created_by", `SELECT COUNT(*) FROM stories st LEFT JOIN users u ON st.created_by = u.id WHERE u.id IS NULL`},
	{"team_memberships.user_id", `SELECT COUNT(*) FROM team_memberships m LEFT JOIN users u ON m.user_id = u.id WHERE u.id IS NULL`},
	{"team_memberships.team_id", `SELECT COUNT(*) FROM team_memberships m LEFT JOIN teams t ON m.team_id = t.id WHERE t.id IS NULL`},
	{"projects.team_id", `SELECT COUNT(*) FROM projects p LEFT JOIN teams t ON p.team_id = t.id WHERE p.team_id IS NOT NULL AND t.id IS NULL`},
	{"projects.owner_id", `SELECT COUNT(*) FROM projects p LEFT JOIN users u ON p.owner_id = u.id WHERE p.owner_id IS NOT NULL AND u.id IS NULL`},
	{"sections.project_id", `SELECT COUNT(*) FROM sections s LEFT JOIN projects p ON s.project_id = p.id WHERE p.id IS NULL`},
}

// placeholderColumns are the free-text columns scanned for leaked
// placeholder markers.
var placeholderColumns = []struct{ table, column string }{
	{tableProjects, "name"},
	{tableProjects, "description"},
	{tableTasks, "name"},
	{tableTasks, "description"},
	{tableStories, "text"},
}

// Verify implements Sink. It only reads.
func (s *sqlStore) Verify(ctx context.Context) (*Report, error) {
	r := &Report{}

	for _, table := range Tables {
		var n int64
		if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		r.Counts = append(r.Counts, Count{Name: table, Value: n})
		if table == tableTasks {
			r.Tasks = n
		}
	}

	for _, c := range orphanChecks {
		var n int64
		if err := s.db.GetContext(ctx, &n, c.query); err != nil {
			return nil, fmt.Errorf("orphan check %s: %w", c.name, err)
		}
		r.Orphans = append(r.Orphans, Count{Name: c.name, Value: n})
	}

	weekend, err := s.countWeekendTasks(ctx)
	if err != nil {
		return nil, err
	}
	r.WeekendTasks = weekend

	err = s.db.GetContext(ctx, &r.CompletedBeforeCreated,
		"SELECT COUNT(*) FROM tasks WHERE completed_at IS NOT NULL AND completed_at < created_at")
	if err != nil {
		return nil, fmt.Errorf("completion order check: %w", err)
	}

	err = s.db.GetContext(ctx, &r.NullDescriptions, "SELECT COUNT(*) FROM tasks WHERE description IS NULL")
	if err != nil {
		return nil, fmt.Errorf("null description check: %w", err)
	}

	for _, col := range placeholderColumns {
		for _, marker := range content.PlaceholderMarkers {
			query := s.db.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s LIKE ?", col.table, col.column))
			var n int64
			if err := s.db.GetContext(ctx, &n, query, "%"+marker+"%"); err != nil {
				return nil, fmt.Errorf("placeholder check %s.%s: %w", col.table, col.column, err)
			}
			r.PlaceholderRows += n
		}
	}

	s.log.Infow("verification finished",
		"tasks", r.Tasks,
		"orphans", r.OrphanTotal(),
		"weekend_rate", r.WeekendRate(),
		"completed_before_created", r.CompletedBeforeCreated,
		"placeholders", r.PlaceholderRows,
		"empty_tables", r.EmptyTables(),
		"passed", r.Passed(),
	)
	return r, nil
}

// countWeekendTasks classifies creation days in Go so the check is the
// same on every driver.
func (s *sqlStore) countWeekendTasks(ctx context.Context) (int64, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT created_at FROM tasks")
	if err != nil {
		return 0, fmt.Errorf("querying task creation times: %w", err)
	}
	defer rows.Close()

	var n int64
	for rows.Next() {
		var created time.Time
		if err := rows.Scan(&created); err != nil {
			return 0, fmt.Errorf("scanning created_at: %w", err)
		}
		if dates.IsWeekend(created.UTC()) {
			n++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating task creation times: %w", err)
	}
	return n, nil
}
