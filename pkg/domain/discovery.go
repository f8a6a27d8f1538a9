package domain

import "time"

// FileDiscovery groups the tests found in one source file, in
// definition order.
type FileDiscovery struct {
	FilePath string     `json:"file_path"`
	Tests    []TestItem `json:"tests"`
}

// DiscoveryError describes a per-file discovery failure. Such failures
// are local: the file contributes zero tests and discovery continues.
type DiscoveryError struct {
	FilePath   string `json:"file_path"`
	Message    string `json:"message"`
	LineNumber int    `json:"line_number,omitempty"`
}

// Error implements the error interface.
func (e DiscoveryError) Error() string {
	if e.FilePath == "" {
		return e.Message
	}
	return e.FilePath + ": " + e.Message
}

// DiscoveryResult is the outcome of one discovery pass. Files are
// ordered by path for determinism.
type DiscoveryResult struct {
	Files    []FileDiscovery  `json:"files"`
	Errors   []DiscoveryError `json:"errors"`
	Duration time.Duration    `json:"duration"`
}

// Tests flattens the discovered items in file order.
func (r *DiscoveryResult) Tests() []TestItem {
	var tests []TestItem
	for _, f := range r.Files {
		tests = append(tests, f.Tests...)
	}
	return tests
}

// CountTests returns the total number of discovered tests.
func (r *DiscoveryResult) CountTests() int {
	count := 0
	for _, f := range r.Files {
		count += len(f.Tests)
	}
	return count
}
