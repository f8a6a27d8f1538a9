package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/quiverhq/quiver/pkg/domain"
)

// JUnitReporter buffers all completions and emits one <testsuite>
// element when the run completes. The strict non-interleaving of
// reporter callbacks makes the buffering safe.
type JUnitReporter struct {
	w       io.Writer
	results []domain.TestResult
}

// NewJUnitReporter creates a JUnit-XML backend writing to w.
func NewJUnitReporter(w io.Writer) *JUnitReporter {
	return &JUnitReporter{w: w}
}

func (r *JUnitReporter) OnRunStart(tests []domain.TestItem) {}

func (r *JUnitReporter) OnTestComplete(result *domain.TestResult) {
	r.results = append(r.results, *result)
}

func (r *JUnitReporter) OnRunComplete(summary domain.RunSummary) {
	fmt.Fprintln(r.w, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(r.w, "<testsuite name=\"quiver\" tests=\"%d\" failures=\"%d\" skipped=\"%d\" time=\"%.3f\">\n",
		summary.Total(), summary.Failed, summary.Skipped, summary.Duration.Seconds())

	for i := range r.results {
		r.writeTestCase(&r.results[i])
	}

	fmt.Fprintln(r.w, "</testsuite>")
}

// OnCollectComplete emits a suite whose cases are all skipped, since a
// collection-only run executes nothing.
func (r *JUnitReporter) OnCollectComplete(tests []domain.TestItem) {
	fmt.Fprintln(r.w, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(r.w, "<testsuite name=\"quiver\" tests=\"%d\" failures=\"0\" skipped=\"%d\" time=\"0.000\">\n",
		len(tests), len(tests))
	for i := range tests {
		test := &tests[i]
		fmt.Fprintf(r.w, "  <testcase name=\"%s\" classname=\"%s\" time=\"0.000\">\n",
			xmlEscape(test.DisplayLabel()), xmlEscape(test.ModulePath))
		fmt.Fprintln(r.w, "    <skipped/>")
		fmt.Fprintln(r.w, "  </testcase>")
	}
	fmt.Fprintln(r.w, "</testsuite>")
}

func (r *JUnitReporter) writeTestCase(result *domain.TestResult) {
	name := xmlEscape(result.Test.DisplayLabel())
	classname := xmlEscape(result.Test.ModulePath)
	seconds := result.Duration.Seconds()

	switch result.Outcome.Status {
	case domain.StatusPassed:
		fmt.Fprintf(r.w, "  <testcase name=\"%s\" classname=\"%s\" time=\"%.3f\"/>\n",
			name, classname, seconds)

	case domain.StatusFailed:
		fmt.Fprintf(r.w, "  <testcase name=\"%s\" classname=\"%s\" time=\"%.3f\">\n",
			name, classname, seconds)
		fmt.Fprintf(r.w, "    <failure message=\"%s\"/>\n", xmlEscape(result.Outcome.Message()))
		fmt.Fprintln(r.w, "  </testcase>")

	case domain.StatusSkipped:
		fmt.Fprintf(r.w, "  <testcase name=\"%s\" classname=\"%s\" time=\"%.3f\">\n",
			name, classname, seconds)
		fmt.Fprintln(r.w, "    <skipped/>")
		fmt.Fprintln(r.w, "  </testcase>")
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
