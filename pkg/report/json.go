package report

import (
	"encoding/json"
	"io"

	"github.com/quiverhq/quiver/pkg/domain"
)

// Event discriminator values of the JSON-lines schema.
const (
	eventRunStart        = "run_start"
	eventTestComplete    = "test_complete"
	eventRunComplete     = "run_complete"
	eventCollectComplete = "collect_complete"
)

// JSONReporter emits one self-describing event object per line, tagged
// by an "event" discriminator.
type JSONReporter struct {
	enc *json.Encoder
}

// NewJSONReporter creates a JSON-lines backend writing to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

type runStartEvent struct {
	Event string            `json:"event"`
	Tests []domain.TestItem `json:"tests"`
}

type testCompleteEvent struct {
	Event  string             `json:"event"`
	Result *domain.TestResult `json:"result"`
}

type runCompleteEvent struct {
	Event   string            `json:"event"`
	Summary domain.RunSummary `json:"summary"`
}

type collectCompleteEvent struct {
	Event string            `json:"event"`
	Tests []domain.TestItem `json:"tests"`
}

func (r *JSONReporter) OnRunStart(tests []domain.TestItem) {
	r.writeEvent(runStartEvent{Event: eventRunStart, Tests: tests})
}

func (r *JSONReporter) OnTestComplete(result *domain.TestResult) {
	r.writeEvent(testCompleteEvent{Event: eventTestComplete, Result: result})
}

func (r *JSONReporter) OnRunComplete(summary domain.RunSummary) {
	r.writeEvent(runCompleteEvent{Event: eventRunComplete, Summary: summary})
}

func (r *JSONReporter) OnCollectComplete(tests []domain.TestItem) {
	r.writeEvent(collectCompleteEvent{Event: eventCollectComplete, Tests: tests})
}

// writeEvent ignores encode errors to keep reporting best-effort.
func (r *JSONReporter) writeEvent(event any) {
	_ = r.enc.Encode(event)
}
