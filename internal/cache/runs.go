package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records one check invocation against the cache.
type Run struct {
	ID          string
	ConfigHash  string
	StartedAt   time.Time
	CompletedAt *time.Time
	Files       int
	Hits        int
}

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// StartRun creates a run for the given configuration hash.
func (s *Store) StartRun(ctx context.Context, configHash string) (*Run, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	run := &Run{
		ID:         generateID(),
		ConfigHash: configHash,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, config_hash, started_at) VALUES (?, ?, ?)`,
		run.ID, run.ConfigHash, run.StartedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun records the totals of a run.
func (s *Store) CompleteRun(ctx context.Context, id string, files, hits int) error {
	if s.db == nil {
		return ErrClosed
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = ?, files = ?, hits = ? WHERE id = ?`,
		time.Now().UTC().Unix(), files, hits, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	run := &Run{}
	var started int64
	var completed sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, config_hash, started_at, completed_at, files, hits FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.ConfigHash, &started, &completed, &run.Files, &run.Hits)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.StartedAt = time.Unix(started, 0).UTC()
	if completed.Valid {
		t := time.Unix(completed.Int64, 0).UTC()
		run.CompletedAt = &t
	}
	return run, nil
}

// LatestRun returns the most recently started run, or nil when there is none.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return s.GetRun(ctx, id)
}
