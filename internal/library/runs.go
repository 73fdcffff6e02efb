package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one invocation of a scan over a root path.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Scanned    int
	Failed     int
	Skipped    int
}

// Finished reports whether FinishRun was recorded for the run.
func (r *Run) Finished() bool {
	return r != nil && r.FinishedAt != nil
}

// BeginRun records the start of a scan of root.
func (s *Store) BeginRun(ctx context.Context, root string) (*Run, error) {
	run := &Run{ID: uuid.NewString(), Root: root, StartedAt: time.Now().UTC()}
	_, err := s.exec(ctx,
		"INSERT INTO scan_runs (id, root, started_at) VALUES (?, ?, ?)",
		run.ID, run.Root, run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun stores the run's final counters and completion time.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("finish run: run is nil")
	}
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	res, err := s.exec(ctx,
		"UPDATE scan_runs SET finished_at = ?, scanned = ?, failed = ?, skipped = ? WHERE id = ?",
		nullableTime(run.FinishedAt), run.Scanned, run.Failed, run.Skipped, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// GetRun fetches a scan run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, root, started_at, finished_at, scanned, failed, skipped FROM scan_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently started scan run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, root, started_at, finished_at, scanned, failed, skipped FROM scan_runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.Root, &startedRaw, &finishedRaw, &run.Scanned, &run.Failed, &run.Skipped); err != nil {
		return nil, err
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}
