package run

import (
	"context"
	"testing"
	"time"

	"github.com/quiverhq/quiver/pkg/domain"
)

// recordingReporter captures the callback sequence for ordering checks.
type recordingReporter struct {
	events    []string
	started   []domain.TestItem
	completed []domain.TestResult
	summary   domain.RunSummary
	collected []domain.TestItem
}

func (r *recordingReporter) OnRunStart(tests []domain.TestItem) {
	r.events = append(r.events, "run_start")
	r.started = tests
}

func (r *recordingReporter) OnTestComplete(result *domain.TestResult) {
	r.events = append(r.events, "test_complete")
	r.completed = append(r.completed, *result)
}

func (r *recordingReporter) OnRunComplete(summary domain.RunSummary) {
	r.events = append(r.events, "run_complete")
	r.summary = summary
}

func (r *recordingReporter) OnCollectComplete(tests []domain.TestItem) {
	r.events = append(r.events, "collect_complete")
	r.collected = tests
}

func makeTests(names ...string) []domain.TestItem {
	tests := make([]domain.TestItem, len(names))
	for i, name := range names {
		tests[i] = domain.TestItem{Name: name, ModulePath: "pkg.demo", FilePath: "pkg/demo.py", LineNumber: i + 1}
	}
	return tests
}

func TestDriverRun(t *testing.T) {
	t.Run("should invoke callbacks in contract order", func(t *testing.T) {
		reporter := &recordingReporter{}
		driver := NewDriver(reporter)

		executor := ExecutorFunc(func(ctx context.Context, test domain.TestItem) domain.TestResult {
			return domain.TestResult{Test: test, Outcome: domain.Passed(), Duration: time.Millisecond}
		})

		driver.Run(context.Background(), makeTests("test_a", "test_b"), executor)

		want := []string{"run_start", "test_complete", "test_complete", "run_complete"}
		if len(reporter.events) != len(want) {
			t.Fatalf("expected %d events, got %v", len(want), reporter.events)
		}
		for i, event := range want {
			if reporter.events[i] != event {
				t.Errorf("event %d = %q, want %q", i, reporter.events[i], event)
			}
		}
	})

	t.Run("should execute tests in discovery order", func(t *testing.T) {
		reporter := &recordingReporter{}
		driver := NewDriver(reporter)

		executor := ExecutorFunc(func(ctx context.Context, test domain.TestItem) domain.TestResult {
			return domain.TestResult{Test: test, Outcome: domain.Passed()}
		})

		driver.Run(context.Background(), makeTests("test_a", "test_b", "test_c"), executor)

		got := make([]string, len(reporter.completed))
		for i, result := range reporter.completed {
			got[i] = result.Test.Name
		}
		want := []string{"test_a", "test_b", "test_c"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("execution order = %v, want %v", got, want)
			}
		}
	})

	t.Run("should fold outcomes into the summary", func(t *testing.T) {
		reporter := &recordingReporter{}
		driver := NewDriver(reporter)

		outcomes := map[string]domain.TestOutcome{
			"test_a": domain.Passed(),
			"test_b": domain.Failed("boom", nil),
			"test_c": domain.Skipped("later"),
		}
		executor := ExecutorFunc(func(ctx context.Context, test domain.TestItem) domain.TestResult {
			return domain.TestResult{Test: test, Outcome: outcomes[test.Name], Duration: 10 * time.Millisecond}
		})

		summary := driver.Run(context.Background(), makeTests("test_a", "test_b", "test_c"), executor)

		if summary.Passed != 1 || summary.Failed != 1 || summary.Skipped != 1 {
			t.Errorf("summary = %+v", summary)
		}
		if summary.Duration != 30*time.Millisecond {
			t.Errorf("duration = %v, want 30ms", summary.Duration)
		}
		if reporter.summary != summary {
			t.Errorf("reported summary %+v differs from returned %+v", reporter.summary, summary)
		}
	})

	t.Run("should hand each executor an independent item", func(t *testing.T) {
		reporter := &recordingReporter{}
		driver := NewDriver(reporter)

		tests := makeTests("test_a")
		tests[0].ExpectedAssertions = []domain.ExpectedAssertion{{Subject: "a", Matcher: "to_be_true", Line: 2}}

		executor := ExecutorFunc(func(ctx context.Context, test domain.TestItem) domain.TestResult {
			test.ExpectedAssertions[0].Subject = "mutated"
			return domain.TestResult{Test: test, Outcome: domain.Passed()}
		})

		driver.Run(context.Background(), tests, executor)

		if tests[0].ExpectedAssertions[0].Subject != "a" {
			t.Error("executor mutation leaked into the discovered item")
		}
	})
}

func TestDriverCollect(t *testing.T) {
	reporter := &recordingReporter{}
	driver := NewDriver(reporter)

	driver.Collect(makeTests("test_a", "test_b"))

	if len(reporter.events) != 1 || reporter.events[0] != "collect_complete" {
		t.Fatalf("unexpected events: %v", reporter.events)
	}
	if len(reporter.collected) != 2 {
		t.Errorf("expected 2 collected tests, got %d", len(reporter.collected))
	}
}
