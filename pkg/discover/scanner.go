// Package discover statically discovers tests in a Python project tree:
// it locates the project root, enumerates candidate source files, parses
// each file with tree-sitter, classifies test-marked functions, and
// extracts the assertions each test body is expected to evaluate.
package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/quiverhq/quiver/pkg/domain"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS
	// as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default discovery timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

var (
	// ErrScanCancelled is returned when discovery is cancelled via context.
	ErrScanCancelled = errors.New("discover: scan cancelled")
	// ErrScanTimeout is returned when discovery exceeds the timeout.
	ErrScanTimeout = errors.New("discover: scan timeout")
)

// Scanner performs test discovery over a project tree.
//
// Per-file failures (unreadable files, syntax errors) degrade output:
// the file contributes zero tests and is recorded in the result's
// Errors. Discovery itself fails only on cancellation or timeout.
type Scanner struct {
	options *ScanOptions
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{options: options}
}

// Discover runs the complete discovery pass:
//  1. Enumerate candidate source files under root
//  2. Analyze files in parallel
//  3. Order results by file path, tests in definition order per file
func (s *Scanner) Discover(ctx context.Context, root string) (*domain.DiscoveryResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := &domain.DiscoveryResult{
		Files:  []domain.FileDiscovery{},
		Errors: []domain.DiscoveryError{},
	}

	files, errs := CollectSourceFiles(ctx, root, s.options.ExcludePatterns)
	for _, err := range errs {
		result.Errors = append(result.Errors, domain.DiscoveryError{Message: err.Error()})
	}

	files = s.filterFiles(root, files)
	sort.Strings(files)

	if len(files) > 0 {
		discovered, fileErrors := s.analyzeFilesParallel(ctx, root, files)
		result.Files = discovered
		result.Errors = append(result.Errors, fileErrors...)
	}

	result.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

func (s *Scanner) filterFiles(root string, files []string) []string {
	filtered := files[:0]
	for _, file := range files {
		if len(s.options.Patterns) > 0 && !matchesAnyPattern(file, s.options.Patterns) {
			continue
		}
		if s.options.MaxFileSize > 0 {
			info, err := os.Stat(filepath.Join(root, file))
			if err == nil && info.Size() > s.options.MaxFileSize {
				continue
			}
		}
		filtered = append(filtered, file)
	}
	return filtered
}

func (s *Scanner) analyzeFilesParallel(ctx context.Context, root string, files []string) ([]domain.FileDiscovery, []domain.DiscoveryError) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	// Indexed slots keep the output in sorted-file order, not
	// completion order.
	discoveries := make([]*domain.FileDiscovery, len(files))
	fileErrors := make([]*domain.DiscoveryError, len(files))

	for i, file := range files {
		i, file := i, file

		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			tests, err := s.analyzeFile(gCtx, root, file)
			if err != nil {
				fileErrors[i] = &domain.DiscoveryError{
					FilePath: filepath.ToSlash(file),
					Message:  err.Error(),
				}
				return nil
			}

			if len(tests) > 0 {
				discoveries[i] = &domain.FileDiscovery{
					FilePath: filepath.ToSlash(file),
					Tests:    tests,
				}
			}
			return nil
		})
	}

	_ = g.Wait()

	var (
		results []domain.FileDiscovery
		errs    []domain.DiscoveryError
	)
	for i := range files {
		if discoveries[i] != nil {
			results = append(results, *discoveries[i])
		}
		if fileErrors[i] != nil {
			errs = append(errs, *fileErrors[i])
		}
	}
	return results, errs
}

func (s *Scanner) analyzeFile(ctx context.Context, root, relPath string) ([]domain.TestItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return AnalyzeSource(ctx, content, relPath)
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	relSlash := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relSlash)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Discover runs a discovery pass with a one-off scanner.
func Discover(ctx context.Context, root string, opts ...ScanOption) (*domain.DiscoveryResult, error) {
	return NewScanner(opts...).Discover(ctx, root)
}
