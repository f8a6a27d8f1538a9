// Package run drives the test lifecycle: it feeds discovered tests to
// an execution backend and relays each event to a reporter in the
// contract order.
package run

import (
	"context"

	"github.com/quiverhq/quiver/pkg/domain"
	"github.com/quiverhq/quiver/pkg/report"
)

// Executor is the execution collaborator boundary. It must produce
// exactly one result per item, with a non-negative duration and a
// terminal outcome. This repo ships no executor; callers supply one.
type Executor interface {
	Execute(ctx context.Context, test domain.TestItem) domain.TestResult
}

// ExecutorFunc adapts a function into an Executor.
type ExecutorFunc func(ctx context.Context, test domain.TestItem) domain.TestResult

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, test domain.TestItem) domain.TestResult {
	return f(ctx, test)
}

// Driver sequences one run's reporter callbacks. Reporting is
// sequential by contract: each callback returns before the next begins.
type Driver struct {
	reporter report.Reporter
}

// NewDriver creates a driver that reports through reporter.
func NewDriver(reporter report.Reporter) *Driver {
	return &Driver{reporter: reporter}
}

// Run executes all tests in order and returns the folded summary.
// Each result owns a clone of its item, so results outlive the
// discovery pass.
func (d *Driver) Run(ctx context.Context, tests []domain.TestItem, executor Executor) domain.RunSummary {
	d.reporter.OnRunStart(tests)

	var summary domain.RunSummary
	for i := range tests {
		result := executor.Execute(ctx, tests[i].Clone())
		summary.Add(&result)
		d.reporter.OnTestComplete(&result)
	}

	d.reporter.OnRunComplete(summary)
	return summary
}

// Collect reports a collection-only run: discovery happened, nothing
// executes. Mutually exclusive with Run for a given reporter instance.
func (d *Driver) Collect(tests []domain.TestItem) {
	d.reporter.OnCollectComplete(tests)
}
