package deploy

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// excludedNames are directory and file names never collected: version
// control metadata, dependency caches, virtual environments, build caches.
var excludedNames = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"__pycache__":  {},
	"venv":         {},
	".DS_Store":    {},
	".mypy_cache":  {},
}

// Collect walks root and returns the ordered set of eligible files.
// Directories in the exclusion set or starting with a dot are pruned
// entirely; files in the exclusion set, starting with a dot, or larger
// than the size ceiling are dropped silently — they are never eligible,
// so they never count as skipped. The walk is lexical, so collecting an
// unchanged tree twice yields the same ordered set. A local I/O error
// (missing or unreadable root) is fatal for the whole run.
func Collect(root string) (Snapshot, error) {
	var snap Snapshot

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, excluded := excludedNames[name]; excluded || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if _, excluded := excludedNames[name]; excluded || strings.HasPrefix(name, ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxFileSize {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		snap = append(snap, FileEntry{
			AbsPath: path,
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", root, err)
	}

	return snap, nil
}
