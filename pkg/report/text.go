package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/quiverhq/quiver/pkg/domain"
)

// Verbosity controls how much the text backend prints.
type Verbosity int

// Verbosity levels for the text backend.
const (
	// VerbosityQuiet suppresses passed and skipped lines; failures are
	// always shown.
	VerbosityQuiet Verbosity = iota - 1
	// VerbosityNormal prints one line per test.
	VerbosityNormal
	// VerbosityVerbose additionally prints one line per expected
	// assertion, correlated to runtime failures by source line.
	VerbosityVerbose
)

var (
	glyphPass = color.New(color.FgGreen)
	glyphFail = color.New(color.FgRed)
	glyphSkip = color.New(color.FgYellow, color.Faint)
	textBold  = color.New(color.Bold)
	textDim   = color.New(color.Faint)
)

// TextReporter renders a human-readable run log, grouping consecutive
// completions by file.
type TextReporter struct {
	w           io.Writer
	verbosity   Verbosity
	currentFile string
	sawFile     bool
}

// NewTextReporter creates a text backend writing to w.
func NewTextReporter(w io.Writer, verbosity Verbosity) *TextReporter {
	return &TextReporter{w: w, verbosity: verbosity}
}

func (r *TextReporter) OnRunStart(tests []domain.TestItem) {
	r.writeHeader()
}

func (r *TextReporter) OnTestComplete(result *domain.TestResult) {
	r.switchFile(result.Test.FilePath)

	display := result.Test.DisplayLabel()

	switch result.Outcome.Status {
	case domain.StatusPassed:
		if r.verbosity > VerbosityQuiet {
			fmt.Fprintf(r.w, "%s %s %s\n",
				glyphPass.Sprint("✓"),
				textBold.Sprint(display),
				textDim.Sprintf("[%s]", formatDuration(result.Duration)))
			if r.verbosity >= VerbosityVerbose {
				r.writeExpectedAssertions(result)
			}
		}

	case domain.StatusFailed:
		fmt.Fprintf(r.w, "%s %s %s\n",
			glyphFail.Sprint("✗"),
			textBold.Sprint(display),
			textDim.Sprintf("[%s]", formatDuration(result.Duration)))
		if r.verbosity >= VerbosityVerbose {
			r.writeExpectedAssertions(result)
		}
		if assertions := result.Outcome.FailedAssertions(); len(assertions) > 0 {
			fmt.Fprint(r.w, RenderAssertions(result.Test.FilePath, assertions))
		}

	case domain.StatusSkipped:
		if r.verbosity > VerbosityQuiet {
			fmt.Fprintf(r.w, "%s %s\n", glyphSkip.Sprint("»"), textDim.Sprint(display))
		}
	}
}

func (r *TextReporter) OnRunComplete(summary domain.RunSummary) {
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, " %s\n", glyphPass.Sprintf("%d pass", summary.Passed))
	if summary.Failed > 0 {
		fmt.Fprintf(r.w, " %s\n", glyphFail.Sprintf("%d fail", summary.Failed))
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(r.w, " %s\n", glyphSkip.Sprintf("%d skip", summary.Skipped))
	}
	fmt.Fprintf(r.w, "Ran %d tests. [%s]\n", summary.Total(), formatDuration(summary.Duration))
}

func (r *TextReporter) OnCollectComplete(tests []domain.TestItem) {
	r.writeHeader()

	currentFile := ""
	sawFile := false
	for i := range tests {
		test := &tests[i]
		if test.FilePath != currentFile || !sawFile {
			if sawFile {
				fmt.Fprintln(r.w)
			}
			if test.FilePath != "" {
				fmt.Fprintf(r.w, "%s:\n", test.FilePath)
			}
			currentFile = test.FilePath
			sawFile = true
		}
		fmt.Fprintf(r.w, "  %s\n", textDim.Sprint(test.DisplayLabel()))
	}

	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%d tests collected.\n", len(tests))
}

func (r *TextReporter) writeHeader() {
	fmt.Fprintf(r.w, "%s %s\n\n",
		textBold.Sprint("quiver test"),
		textDim.Sprintf("v%s", Version))
}

// switchFile prints a file header when consecutive completions cross a
// file boundary.
func (r *TextReporter) switchFile(file string) {
	if file == r.currentFile && r.sawFile {
		return
	}
	if r.sawFile && r.verbosity > VerbosityQuiet {
		fmt.Fprintln(r.w)
	}
	if file != "" && r.verbosity > VerbosityQuiet {
		fmt.Fprintf(r.w, "%s:\n", file)
	}
	r.currentFile = file
	r.sawFile = true
}

// writeExpectedAssertions prints one line per statically predicted
// assertion, marked failed when a runtime failure shares its source
// line.
func (r *TextReporter) writeExpectedAssertions(result *domain.TestResult) {
	failedLines := make(map[int]bool)
	for _, a := range result.Outcome.FailedAssertions() {
		failedLines[a.Line] = true
	}

	for _, expected := range result.Test.ExpectedAssertions {
		text := expected.Label
		if text == "" {
			text = expected.String()
		}
		if failedLines[expected.Line] {
			fmt.Fprintf(r.w, "  %s %s\n", glyphFail.Sprint("✗"), textDim.Sprint(text))
		} else {
			fmt.Fprintf(r.w, "  %s %s\n", glyphPass.Sprint("✓"), textDim.Sprint(text))
		}
	}
}

func formatDuration(d time.Duration) string {
	ms := d.Seconds() * 1000
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
