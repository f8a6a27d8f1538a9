package report

import (
	"fmt"
	"io"

	"github.com/quiverhq/quiver/pkg/domain"
)

// DotReporter prints one glyph per completed test with no line breaks
// until the run completes, then a summary block.
type DotReporter struct {
	w io.Writer
}

// NewDotReporter creates a dot-progress backend writing to w.
func NewDotReporter(w io.Writer) *DotReporter {
	return &DotReporter{w: w}
}

func (r *DotReporter) OnRunStart(tests []domain.TestItem) {
	fmt.Fprintf(r.w, "%s %s\n\n",
		textBold.Sprint("quiver test"),
		textDim.Sprintf("v%s", Version))
}

func (r *DotReporter) OnTestComplete(result *domain.TestResult) {
	switch result.Outcome.Status {
	case domain.StatusPassed:
		fmt.Fprint(r.w, glyphPass.Sprint("."))
	case domain.StatusFailed:
		fmt.Fprint(r.w, glyphFail.Sprint("F"))
	case domain.StatusSkipped:
		fmt.Fprint(r.w, glyphSkip.Sprint("s"))
	}
}

func (r *DotReporter) OnRunComplete(summary domain.RunSummary) {
	fmt.Fprint(r.w, "\n\n")
	fmt.Fprintf(r.w, " %s\n", glyphPass.Sprintf("%d pass", summary.Passed))
	if summary.Failed > 0 {
		fmt.Fprintf(r.w, " %s\n", glyphFail.Sprintf("%d fail", summary.Failed))
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(r.w, " %s\n", glyphSkip.Sprintf("%d skip", summary.Skipped))
	}
	fmt.Fprintf(r.w, "Ran %d tests. [%s]\n", summary.Total(), formatDuration(summary.Duration))
}

func (r *DotReporter) OnCollectComplete(tests []domain.TestItem) {
	fmt.Fprintf(r.w, "%d tests collected.\n", len(tests))
}
