package store

import (
	"context"
	"fmt"
	"strings"
)

// TableStats summarizes one table's write.
type TableStats struct {
	Table         string
	Rows          int
	Written       int
	FailedBatches int
}

// table describes how rows of type T map to a database table.
type table[T any] struct {
	name    string
	columns []string
	values  func(T) []any
}

func (t table[T]) insertQuery() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(t.columns, ", "), marks)
}

// writeTable inserts rows in batches of s.batchSize, one transaction per
// batch. A failing batch is rolled back, logged with its index and first
// row, and skipped; later batches still run.
func writeTable[T any](ctx context.Context, s *sqlStore, t table[T], rows []T) TableStats {
	stats := TableStats{Table: t.name, Rows: len(rows)}
	query := s.db.Rebind(t.insertQuery())

	for start, batch := 0, 0; start < len(rows); start, batch = start+s.batchSize, batch+1 {
		if ctx.Err() != nil {
			break
		}
		end := min(start+s.batchSize, len(rows))
		chunk := rows[start:end]

		if err := insertBatch(ctx, s, query, t, chunk); err != nil {
			stats.FailedBatches++
			s.log.Errorw("batch insert failed",
				"table", t.name,
				"batch", batch,
				"size", len(chunk),
				"first_row", firstRow(t, chunk[0]),
				"error", err,
			)
			continue
		}
		stats.Written += len(chunk)
	}

	return stats
}

func insertBatch[T any](ctx context.Context, s *sqlStore, query string, t table[T], chunk []T) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", t.name, err)
	}
	defer stmt.Close()

	for i, row := range chunk {
		if _, err := stmt.ExecContext(ctx, t.values(row)...); err != nil {
			return fmt.Errorf("inserting row %d into %s: %w", i, t.name, err)
		}
	}

	return tx.Commit()
}

// firstRow renders a row as column=value pairs for diagnostics.
func firstRow[T any](t table[T], row T) map[string]any {
	vals := t.values(row)
	out := make(map[string]any, len(t.columns))
	for i, col := range t.columns {
		out[col] = vals[i]
	}
	return out
}
