package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leshuiju/shipment-entry/internal/entity"
)

// RunStore persists processing-run summaries for the history view.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert records one completed run.
func (s *RunStore) Insert(ctx context.Context, run entity.RunSummary) error {
	const q = `
INSERT INTO runs (id, created_at, mode, success, input_length, parsed_count, processed_count, output_file)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		run.ID, run.CreatedAt, run.Mode, boolToInt(run.Success),
		run.InputLength, run.ParsedCount, run.ProcessedCount, run.OutputFile,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (s *RunStore) ListRecent(ctx context.Context, limit int) ([]entity.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, created_at, mode, success, input_length, parsed_count, processed_count, output_file
FROM runs ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []entity.RunSummary
	for rows.Next() {
		var run entity.RunSummary
		var success int
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Mode, &success,
			&run.InputLength, &run.ParsedCount, &run.ProcessedCount, &run.OutputFile); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Success = success != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
