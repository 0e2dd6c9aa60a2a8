package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/sniff/internal/testutil"
)

func TestWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeFile(t, dir, "src/a.php", "<?php\n")
	writeFile(t, dir, "vendor/b.php", "<?php\n")

	w, err := NewWatcher([]string{dir}, []string{"php"}, []string{"vendor"}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	changed := make(chan []string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { changed <- paths })
	}()

	writeFile(t, dir, "vendor/b.php", "<?php\n$x;\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "src/a.php", "<?php\n$a;\n")

	select {
	case paths := <-changed:
		assert.Equal(t, []string{filepath.Join(dir, "src", "a.php")}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_Missing(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing")}, nil, nil, nil)
	assert.Error(t, err)
}
