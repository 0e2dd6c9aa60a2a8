package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

// record is the stored form of a diagnostic.
type record struct {
	RuleID   string        `json:"rule"`
	Code     string        `json:"code"`
	Severity lint.Severity `json:"severity"`
	Message  string        `json:"message"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Offset   int           `json:"offset"`
	Ptr      int           `json:"ptr"`
	Fix      *lint.Fix     `json:"fix,omitempty"`
	DocURL   string        `json:"doc_url,omitempty"`
}

func toRecords(diags []lint.Diagnostic) []record {
	out := make([]record, len(diags))
	for i, d := range diags {
		out[i] = record{
			RuleID:   d.RuleID,
			Code:     d.Code,
			Severity: d.Severity,
			Message:  d.Message,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Offset:   d.Pos.Offset,
			Ptr:      d.Ptr,
			Fix:      d.Fix,
			DocURL:   d.DocumentationURL,
		}
	}
	return out
}

func fromRecords(recs []record) []lint.Diagnostic {
	out := make([]lint.Diagnostic, len(recs))
	for i, r := range recs {
		out[i] = lint.Diagnostic{
			RuleID:           r.RuleID,
			Code:             r.Code,
			Source:           r.RuleID + "." + r.Code,
			Severity:         r.Severity,
			Message:          r.Message,
			Pos:              token.Position{Line: r.Line, Column: r.Column, Offset: r.Offset},
			Ptr:              r.Ptr,
			Fix:              r.Fix,
			DocumentationURL: r.DocURL,
		}
	}
	return out
}

// Get returns the cached diagnostics of path if they were computed for key.
// A miss, including a stale entry, reports false.
func (s *Store) Get(ctx context.Context, path string, key Key) ([]lint.Diagnostic, bool, error) {
	if s.db == nil {
		return nil, false, ErrClosed
	}

	var content, config, data string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash, config_hash, diagnostics FROM results WHERE path = ?`, path,
	).Scan(&content, &config, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get result: %w", err)
	}
	if content != key.Content || config != key.Config {
		s.logger.Debug("stale cache entry", slog.String("path", path))
		return nil, false, nil
	}

	var recs []record
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, false, fmt.Errorf("decode result of %s: %w", path, err)
	}
	return fromRecords(recs), true, nil
}

// Put stores the diagnostics of path computed for key, replacing any earlier
// entry. runID may be empty.
func (s *Store) Put(ctx context.Context, path string, key Key, runID string, diags []lint.Diagnostic) error {
	if s.db == nil {
		return ErrClosed
	}

	data, err := json.Marshal(toRecords(diags))
	if err != nil {
		return fmt.Errorf("encode result of %s: %w", path, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (path, content_hash, config_hash, diagnostics, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			config_hash = excluded.config_hash,
			diagnostics = excluded.diagnostics,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`,
		path, key.Content, key.Config, string(data), nullString(runID), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

// Forget removes the entry of path.
func (s *Store) Forget(ctx context.Context, path string) error {
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}

// Clear removes every entry and run.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	for _, q := range []string{`DELETE FROM results`, `DELETE FROM runs`} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}

// nullString returns a sql.NullString for optional string fields.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
