package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"src/a.php",
		"src/b.JS",
		"src/c.txt",
		"src/nested/d.inc",
		"vendor/e.php",
		"build/gen/f.php",
		"build/g.php",
	} {
		writeFile(t, dir, name, "<?php\n")
	}
	p := func(name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }

	files, err := Discover([]string{dir}, []string{"php", ".inc", "js"}, []string{"vendor", "build/gen"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		p("build/g.php"),
		p("src/a.php"),
		p("src/b.JS"),
		p("src/nested/d.inc"),
	}, files)

	// explicit files are kept whatever their extension, and duplicates drop
	files, err = Discover([]string{p("src/c.txt"), p("src"), p("src/a.php")}, []string{"php"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{p("src/a.php"), p("src/c.txt")}, files)

	// an ignored directory named explicitly is still walked
	files, err = Discover([]string{p("vendor")}, []string{"php"}, []string{"vendor"})
	require.NoError(t, err)
	assert.Equal(t, []string{p("vendor/e.php")}, files)

	_, err = Discover([]string{p("missing")}, []string{"php"}, nil)
	assert.Error(t, err)
}

func TestIgnored(t *testing.T) {
	tests := []struct {
		rel, name string
		patterns  []string
		want      bool
	}{
		{"vendor", "vendor", []string{"vendor"}, true},
		{"src/vendor", "vendor", []string{"vendor"}, true},
		{"src/a.min.js", "a.min.js", []string{"*.min.js"}, true},
		{"build/gen", "gen", []string{"build/gen"}, true},
		{"src/gen", "gen", []string{"build/gen"}, false},
		{"src", "src", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ignored(tt.rel, tt.name, tt.patterns), tt.rel)
	}
}
