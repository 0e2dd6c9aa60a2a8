package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/internal/testutil"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Memory, WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDiagnostics() []lint.Diagnostic {
	return []lint.Diagnostic{
		{
			RuleID:   "CodingStandard.Arrays.Array",
			Code:     "NoComma",
			Source:   "CodingStandard.Arrays.Array.NoComma",
			Severity: lint.SeverityError,
			Message:  "Each array item in a multi-line array declaration must end in a comma",
			Pos:      token.Position{Line: 3, Column: 7, Offset: 24},
			Ptr:      11,
			Fix:      &lint.Fix{Edits: []lint.Edit{{Op: lint.InsertAfter, Index: 11, Text: ","}}},
		},
		{
			RuleID:   "CodingStandard.PHP.NoSilencedErrors",
			Code:     "Discouraged",
			Source:   "CodingStandard.PHP.NoSilencedErrors.Discouraged",
			Severity: lint.SeverityWarning,
			Message:  "Silencing errors is discouraged; found: @foo()...",
			Pos:      token.Position{Line: 5, Column: 1, Offset: 40},
			Ptr:      20,
		},
	}
}

func TestOpen_Migrates(t *testing.T) {
	s := setupTestStore(t)

	v, err := s.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	key := Key{Content: ContentHash("<?php\n"), Config: "cfg"}

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a.php", key, "", sampleDiagnostics()))
	require.NoError(t, s.Close())

	// Reopening applies no migration twice and keeps results.
	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, ok, err := s.Get(ctx, "a.php", key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 2)
}

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	key := Key{Content: ContentHash("<?php\n$a = 1;\n"), Config: "c1"}

	_, ok, err := s.Get(ctx, "a.php", key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache")

	want := sampleDiagnostics()
	require.NoError(t, s.Put(ctx, "a.php", key, "", want))

	got, ok, err := s.Get(ctx, "a.php", key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	tests := []struct {
		name string
		key  Key
	}{
		{"content changed", Key{Content: ContentHash("<?php\n$a = 2;\n"), Config: "c1"}},
		{"config changed", Key{Content: key.Content, Config: "c2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "a.php", tt.key)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	// A clean file is cached as an empty result, which is still a hit.
	require.NoError(t, s.Put(ctx, "a.php", key, "", nil))
	got, ok, err = s.Get(ctx, "a.php", key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Forget(ctx, "a.php"))
	_, ok, err = s.Get(ctx, "a.php", key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Runs(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	run, err := s.StartRun(ctx, "c1")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	key := Key{Content: ContentHash("x"), Config: "c1"}
	require.NoError(t, s.Put(ctx, "a.php", key, run.ID, nil))
	require.NoError(t, s.CompleteRun(ctx, run.ID, 3, 2))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ConfigHash)
	assert.Equal(t, 3, got.Files)
	assert.Equal(t, 2, got.Hits)
	assert.NotNil(t, got.CompletedAt)

	latest, err = s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)

	_, err = s.GetRun(ctx, "missing")
	require.ErrorIs(t, err, ErrRunNotFound)
	require.ErrorIs(t, s.CompleteRun(ctx, "missing", 0, 0), ErrRunNotFound)

	require.NoError(t, s.Clear(ctx))
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Closed(t *testing.T) {
	s, err := Open(context.Background(), Memory)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), "a.php", Key{})
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Put(context.Background(), "a.php", Key{}, "", nil), ErrClosed)
}

func TestConfigHash(t *testing.T) {
	a, err := ConfigHash("1.0", []string{"B", "A"}, map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	b, err := ConfigHash("1.0", []string{"A", "B"}, map[string]any{"y": 2, "x": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := ConfigHash("1.1", []string{"A", "B"}, map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = ConfigHash("1.0", nil, map[string]any{"f": func() {}})
	assert.Error(t, err)

	assert.Len(t, ContentHash(""), 64)
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
}
