package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/quiverhq/quiver/pkg/domain"
)

func TestJUnitReporter(t *testing.T) {
	t.Run("should buffer results into one suite", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewJUnitReporter(&buf)

		r.OnRunStart(nil)

		passed := domain.TestResult{
			Test:     makeItem("test_pass", "a.py", 1),
			Outcome:  domain.Passed(),
			Duration: 12 * time.Millisecond,
		}
		failed := domain.TestResult{
			Test:    makeItem("test_fail", "a.py", 5),
			Outcome: domain.Failed("expected 1, got 2", nil),
		}
		skipped := domain.TestResult{
			Test:    makeItem("test_skip", "a.py", 9),
			Outcome: domain.Skipped("later"),
		}
		r.OnTestComplete(&passed)

		if buf.Len() != 0 {
			t.Fatalf("nothing should be written before the run completes, got %q", buf.String())
		}

		r.OnTestComplete(&failed)
		r.OnTestComplete(&skipped)
		r.OnRunComplete(domain.RunSummary{Passed: 1, Failed: 1, Skipped: 1, Duration: 12 * time.Millisecond})

		out := buf.String()
		if !strings.Contains(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
			t.Errorf("missing XML declaration in:\n%s", out)
		}
		if !strings.Contains(out, `<testsuite name="quiver" tests="3" failures="1" skipped="1" time="0.012">`) {
			t.Errorf("unexpected suite attributes in:\n%s", out)
		}
		if !strings.Contains(out, `<testcase name="test_pass" classname="a" time="0.012"/>`) {
			t.Errorf("passed case should be self-closing in:\n%s", out)
		}
		if !strings.Contains(out, `<failure message="expected 1, got 2"/>`) {
			t.Errorf("missing failure element in:\n%s", out)
		}
		if !strings.Contains(out, "<skipped/>") {
			t.Errorf("missing skipped element in:\n%s", out)
		}
		if !strings.Contains(out, "</testsuite>") {
			t.Errorf("suite not closed in:\n%s", out)
		}
	})

	t.Run("should escape XML metacharacters", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewJUnitReporter(&buf)

		result := domain.TestResult{
			Test:    makeItem("test_escape", "a.py", 1),
			Outcome: domain.Failed(`a & b < "c"`, nil),
		}
		result.Test.DisplayName = "a & b"

		r.OnTestComplete(&result)
		r.OnRunComplete(domain.RunSummary{Failed: 1})

		out := buf.String()
		if !strings.Contains(out, `name="a &amp; b"`) {
			t.Errorf("display name not escaped in:\n%s", out)
		}
		if !strings.Contains(out, `message="a &amp; b &lt; &quot;c&quot;"`) {
			t.Errorf("failure message not escaped in:\n%s", out)
		}
	})

	t.Run("should mark every collected test skipped", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewJUnitReporter(&buf)

		r.OnCollectComplete([]domain.TestItem{
			makeItem("test_a", "a.py", 1),
			makeItem("test_b", "b.py", 1),
		})

		out := buf.String()
		if !strings.Contains(out, `tests="2" failures="0" skipped="2"`) {
			t.Errorf("unexpected suite attributes in:\n%s", out)
		}
		if got := strings.Count(out, "<skipped/>"); got != 2 {
			t.Errorf("expected 2 skipped elements, got %d in:\n%s", got, out)
		}
	})
}
