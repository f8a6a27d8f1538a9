package domain

import "time"

// TestResult is produced exactly once per executed TestItem by the
// execution collaborator. It owns its own copy of the item.
type TestResult struct {
	Test    TestItem    `json:"test"`
	Outcome TestOutcome `json:"outcome"`
	// Duration is the wall-clock execution time, never negative.
	Duration time.Duration `json:"duration"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
}

// RunSummary aggregates the outcomes of one run.
type RunSummary struct {
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Add folds one result into the summary.
func (s *RunSummary) Add(result *TestResult) {
	switch result.Outcome.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
	s.Duration += result.Duration
}

// Total returns the number of tests counted in the summary.
func (s RunSummary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Summarize folds all results of a run into a RunSummary.
func Summarize(results []TestResult) RunSummary {
	var summary RunSummary
	for i := range results {
		summary.Add(&results[i])
	}
	return summary
}
