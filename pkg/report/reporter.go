// Package report renders test lifecycle events through pluggable output
// backends: human-readable text, JSON lines, dot progress, and
// JUnit XML.
//
// Backends are driven sequentially: each callback completes before the
// next begins. Sink write failures are swallowed so a run never aborts
// because its reporter could not write.
package report

import (
	"fmt"
	"io"

	"github.com/quiverhq/quiver/pkg/domain"
)

// Version is stamped into run headers. Overridden by the CLI at build
// time.
var Version = "dev"

// Reporter receives the lifecycle events of one run.
//
// For an execution run the driver invokes OnRunStart exactly once, then
// OnTestComplete once per executed test in execution order, then
// OnRunComplete exactly once. For a collection-only run the driver
// invokes only OnCollectComplete.
type Reporter interface {
	OnRunStart(tests []domain.TestItem)
	OnTestComplete(result *domain.TestResult)
	OnRunComplete(summary domain.RunSummary)
	OnCollectComplete(tests []domain.TestItem)
}

// Format selects an output backend.
type Format string

// Available backend formats.
const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatDot   Format = "dot"
	FormatJUnit Format = "junit"
)

// New constructs the backend for a format, writing to w. The text
// backend honors the verbosity; other backends ignore it.
func New(format Format, w io.Writer, verbosity Verbosity) (Reporter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(w, verbosity), nil
	case FormatJSON:
		return NewJSONReporter(w), nil
	case FormatDot:
		return NewDotReporter(w), nil
	case FormatJUnit:
		return NewJUnitReporter(w), nil
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}
