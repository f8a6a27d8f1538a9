package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ProjectMarkerFile marks a directory as the project root. Its content
// is not inspected.
const ProjectMarkerFile = "pyproject.toml"

// sourceExtension is the extension of candidate source files.
const sourceExtension = ".py"

// DefaultSkipPatterns contains directory names that are skipped by
// default during source file collection.
var DefaultSkipPatterns = []string{
	".git",
	"__pycache__",
	".venv",
	"venv",
	".tox",
	".mypy_cache",
	".pytest_cache",
	".cache",
	"node_modules",
	"dist",
	"build",
}

// FindProjectRoot walks the ancestors of startDir (inclusive) and
// returns the first directory containing the project marker file.
// The second return value is false when no marker was found; callers
// fall back to startDir.
func FindProjectRoot(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		marker := filepath.Join(dir, ProjectMarkerFile)
		if info, err := os.Stat(marker); err == nil && !info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// CollectSourceFiles enumerates candidate source files under root,
// honoring default skip directories, extra exclude directory names, and
// per-directory ignore files. Paths are returned relative to root in no
// guaranteed order; callers sort for determinism.
//
// Unreadable directories are reported as errors and skipped; collection
// itself never fails.
func CollectSourceFiles(ctx context.Context, root string, excludePatterns []string) ([]string, []error) {
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), excludePatterns...))
	ignores := &ignoreSet{}

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}
		relSlash := filepath.ToSlash(relPath)

		if d.IsDir() {
			if path != root {
				if skipSet[d.Name()] {
					return filepath.SkipDir
				}
				if ignores.Ignored(relSlash, true) {
					return filepath.SkipDir
				}
			}
			loadIgnoreFile(path, relSlash, ignores)
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), sourceExtension) {
			return nil
		}

		if ignores.Ignored(relSlash, false) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		errs = append(errs, err)
	}

	return files, errs
}

func loadIgnoreFile(dir, relSlash string, ignores *ignoreSet) {
	content, err := os.ReadFile(filepath.Join(dir, ignoreFileName))
	if err != nil {
		return
	}

	baseDir := relSlash
	if baseDir == "." {
		baseDir = ""
	}
	ignores.add(parseIgnoreFile(string(content), baseDir))
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}
