package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover expands paths into the files to check, sorted and without
// duplicates. Directories are walked for files with one of the configured
// extensions, skipping entries matched by the ignore patterns. Files named
// explicitly are always included.
func (e *Engine) Discover(paths []string) ([]string, error) {
	return Discover(paths, e.settings.Extensions, e.settings.Ignore)
}

// Discover is the settings-free form of Engine.Discover. An empty paths list
// means the working directory.
func Discover(paths, extensions, ignore []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	exts := extensionSet(extensions)

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}
			rel, _ := filepath.Rel(root, path)
			if Ignored(filepath.ToSlash(rel), d.Name(), ignore) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if hasExtension(path, exts) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// Ignored matches a pattern against the entry name, or against the slash
// separated path below the walked root when the pattern holds a slash.
func Ignored(rel, name string, patterns []string) bool {
	for _, p := range patterns {
		target := name
		if strings.Contains(p, "/") {
			target = rel
		}
		if ok, _ := filepath.Match(p, target); ok {
			return true
		}
	}
	return false
}

func extensionSet(extensions []string) map[string]bool {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return exts
}

func hasExtension(path string, exts map[string]bool) bool {
	return exts[strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))]
}
