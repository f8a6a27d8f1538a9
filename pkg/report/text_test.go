package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/quiverhq/quiver/pkg/domain"
)

func init() {
	// Deterministic output regardless of the test environment.
	color.NoColor = true
}

func makeItem(name, file string, line int) domain.TestItem {
	return domain.TestItem{
		Name:       name,
		ModulePath: strings.TrimSuffix(strings.ReplaceAll(file, "/", "."), ".py"),
		FilePath:   file,
		LineNumber: line,
	}
}

func passedResult(name, file string, d time.Duration) domain.TestResult {
	return domain.TestResult{
		Test:     makeItem(name, file, 1),
		Outcome:  domain.Passed(),
		Duration: d,
	}
}

func TestTextReporter(t *testing.T) {
	t.Run("should group consecutive tests by file", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextReporter(&buf, VerbosityNormal)

		r.OnRunStart(nil)
		for _, result := range []domain.TestResult{
			passedResult("test_a", "tests/alpha.py", time.Millisecond),
			passedResult("test_b", "tests/alpha.py", time.Millisecond),
			passedResult("test_c", "tests/beta.py", time.Millisecond),
		} {
			r.OnTestComplete(&result)
		}
		r.OnRunComplete(domain.RunSummary{Passed: 3, Duration: 3 * time.Millisecond})

		out := buf.String()
		if strings.Count(out, "tests/alpha.py:") != 1 {
			t.Errorf("expected exactly one alpha.py header in:\n%s", out)
		}
		if strings.Count(out, "tests/beta.py:") != 1 {
			t.Errorf("expected exactly one beta.py header in:\n%s", out)
		}
		if !strings.Contains(out, "quiver test v"+Version) {
			t.Errorf("missing run header in:\n%s", out)
		}
		if !strings.Contains(out, "Ran 3 tests.") {
			t.Errorf("missing summary in:\n%s", out)
		}
	})

	t.Run("should hide passed and skipped tests when quiet", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextReporter(&buf, VerbosityQuiet)

		passed := passedResult("test_pass", "a.py", time.Millisecond)
		skipped := domain.TestResult{
			Test:    makeItem("test_skip", "a.py", 2),
			Outcome: domain.Skipped("later"),
		}
		failed := domain.TestResult{
			Test:    makeItem("test_fail", "a.py", 3),
			Outcome: domain.Failed("boom", nil),
		}

		r.OnRunStart(nil)
		r.OnTestComplete(&passed)
		r.OnTestComplete(&skipped)
		r.OnTestComplete(&failed)
		r.OnRunComplete(domain.RunSummary{Passed: 1, Failed: 1, Skipped: 1})

		out := buf.String()
		if strings.Contains(out, "test_pass") || strings.Contains(out, "test_skip") {
			t.Errorf("quiet output should omit passed and skipped tests:\n%s", out)
		}
		if !strings.Contains(out, "test_fail") {
			t.Errorf("quiet output must keep failures:\n%s", out)
		}
	})

	t.Run("should prefer the display name", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextReporter(&buf, VerbosityNormal)

		result := passedResult("test_addition", "a.py", time.Millisecond)
		result.Test.DisplayName = "adds two numbers"
		r.OnTestComplete(&result)

		out := buf.String()
		if !strings.Contains(out, "adds two numbers") {
			t.Errorf("expected display name in:\n%s", out)
		}
		if strings.Contains(out, "test_addition") {
			t.Errorf("raw name should be replaced by display name:\n%s", out)
		}
	})

	t.Run("should correlate expected assertions when verbose", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextReporter(&buf, VerbosityVerbose)

		result := domain.TestResult{
			Test: makeItem("test_math", "a.py", 1),
			Outcome: domain.Failed("1 assertion failed", []domain.Assertion{
				{Expression: "expect(b).to_equal(2)", Line: 6, Expected: "2", Received: "3"},
			}),
		}
		result.Test.ExpectedAssertions = []domain.ExpectedAssertion{
			{Subject: "a", Matcher: "to_be_true", Line: 5},
			{Subject: "b", Matcher: "to_equal", Args: []string{"2"}, Line: 6},
		}

		r.OnTestComplete(&result)

		var passLine, failLine string
		for _, line := range strings.Split(buf.String(), "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.Contains(trimmed, "to_be_true") {
				passLine = trimmed
			}
			if strings.Contains(trimmed, "to_equal") && (strings.HasPrefix(trimmed, "✓") || strings.HasPrefix(trimmed, "✗")) {
				failLine = trimmed
			}
		}
		if !strings.HasPrefix(passLine, "✓") {
			t.Errorf("assertion on line 5 should be marked passed:\n%s", buf.String())
		}
		if !strings.HasPrefix(failLine, "✗") {
			t.Errorf("assertion on line 6 should be marked failed:\n%s", buf.String())
		}
	})

	t.Run("should append diagnostics for failed assertions", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextReporter(&buf, VerbosityNormal)

		result := domain.TestResult{
			Test: makeItem("test_math", "a.py", 1),
			Outcome: domain.Failed("1 assertion failed", []domain.Assertion{
				{Expression: "expect(b).to_equal(2)", Line: 6, SpanOffset: 7, SpanLength: 1, Expected: "2", Received: "3"},
			}),
		}
		r.OnTestComplete(&result)

		out := buf.String()
		if !strings.Contains(out, "expected 2, received 3") {
			t.Errorf("missing diagnostic annotation in:\n%s", out)
		}
		if !strings.Contains(out, "1/1 assertions failed") {
			t.Errorf("missing tally in:\n%s", out)
		}
	})

	t.Run("should list collected tests grouped by file", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextReporter(&buf, VerbosityNormal)

		r.OnCollectComplete([]domain.TestItem{
			makeItem("test_a", "tests/alpha.py", 1),
			makeItem("test_b", "tests/alpha.py", 5),
			makeItem("test_c", "tests/beta.py", 1),
		})

		out := buf.String()
		if !strings.Contains(out, "tests/alpha.py:") || !strings.Contains(out, "tests/beta.py:") {
			t.Errorf("missing file headers in:\n%s", out)
		}
		if !strings.Contains(out, "3 tests collected.") {
			t.Errorf("missing tally in:\n%s", out)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{17 * time.Millisecond, "17.00ms"},
		{999*time.Millisecond + 500*time.Microsecond, "999.50ms"},
		{time.Second, "1.00s"},
		{2500 * time.Millisecond, "2.50s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
