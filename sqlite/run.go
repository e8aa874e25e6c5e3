package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/datescrub"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ datescrub.RunService = (*RunService)(nil)

// RunService implements datescrub.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a run and its documents in a single transaction.
func (s *RunService) CreateRun(ctx context.Context, run *datescrub.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, input_path, output_path, input_digest, output_digest, window_start, window_end, assets, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.InputPath, run.OutputPath, run.InputDigest, run.OutputDigest,
		formatTime(run.Window.Start), formatTime(run.Window.End), run.Assets, formatTime(run.CreatedAt))
	if err != nil {
		return err
	}

	for i, doc := range run.Documents {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_documents (run_id, position, name, entries, discarded, input_hash, output_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, doc.Name, doc.Entries, doc.Discarded, doc.InputHash, doc.OutputHash)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run and its documents by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*datescrub.Run, error) {
	runs, err := s.FindRuns(ctx, datescrub.RunFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, datescrub.Errorf(datescrub.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter datescrub.RunFilter) ([]*datescrub.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, input_path, output_path, input_digest, output_digest, window_start, window_end, assets, created_at
		FROM runs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.InputPath != nil {
		query.WriteString(" AND input_path = ?")
		args = append(args, *filter.InputPath)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	runs, err := s.scanRuns(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.Documents, err = s.findDocuments(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *RunService) scanRuns(ctx context.Context, query string, args ...any) ([]*datescrub.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*datescrub.Run
	for rows.Next() {
		var run datescrub.Run
		var start, end, createdAt string

		if err := rows.Scan(&run.ID, &run.InputPath, &run.OutputPath, &run.InputDigest, &run.OutputDigest,
			&start, &end, &run.Assets, &createdAt); err != nil {
			return nil, err
		}

		if run.Window.Start, err = parseTime(start, "window_start"); err != nil {
			return nil, err
		}
		if run.Window.End, err = parseTime(end, "window_end"); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func (s *RunService) findDocuments(ctx context.Context, runID string) ([]datescrub.DocumentResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, entries, discarded, input_hash, output_hash
		FROM run_documents
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []datescrub.DocumentResult
	for rows.Next() {
		var doc datescrub.DocumentResult
		if err := rows.Scan(&doc.Name, &doc.Entries, &doc.Discarded, &doc.InputHash, &doc.OutputHash); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
