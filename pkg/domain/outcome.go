package domain

// Status is the terminal classification of an executed test.
type Status string

// Outcome status values.
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Assertion is a runtime-observed assertion failure produced by the
// execution collaborator.
type Assertion struct {
	// Expression is the source text of the failing assertion.
	Expression string `json:"expression"`
	// File is the path of the file containing the assertion, if known.
	File string `json:"file,omitempty"`
	// Line is the 1-based line of the assertion.
	Line int `json:"line"`
	// SpanOffset and SpanLength locate the failing sub-expression
	// within Expression.
	SpanOffset int `json:"span_offset"`
	SpanLength int `json:"span_length"`
	// Expected and Received describe the value mismatch.
	Expected string `json:"expected"`
	Received string `json:"received"`
}

// OutcomeDetail carries the variant-specific payload of an outcome.
// Message and Assertions are set for failed outcomes, Reason for
// skipped ones.
type OutcomeDetail struct {
	Message    string      `json:"message,omitempty"`
	Assertions []Assertion `json:"assertions,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

// TestOutcome is the terminal, immutable result classification of one
// test. It serializes as a status discriminator with a variant payload:
// {"status":"failed","detail":{"message":...,"assertions":[...]}}.
type TestOutcome struct {
	Status Status         `json:"status"`
	Detail *OutcomeDetail `json:"detail,omitempty"`
}

// Passed constructs a passing outcome.
func Passed() TestOutcome {
	return TestOutcome{Status: StatusPassed}
}

// Failed constructs a failing outcome with its message and any
// runtime-observed assertion failures.
func Failed(message string, assertions []Assertion) TestOutcome {
	return TestOutcome{
		Status: StatusFailed,
		Detail: &OutcomeDetail{Message: message, Assertions: assertions},
	}
}

// Skipped constructs a skipped outcome. The reason may be empty.
func Skipped(reason string) TestOutcome {
	return TestOutcome{
		Status: StatusSkipped,
		Detail: &OutcomeDetail{Reason: reason},
	}
}

// FailedAssertions returns the runtime assertion failures, or nil for
// non-failed outcomes.
func (o TestOutcome) FailedAssertions() []Assertion {
	if o.Status != StatusFailed || o.Detail == nil {
		return nil
	}
	return o.Detail.Assertions
}

// Message returns the failure message, or empty for non-failed outcomes.
func (o TestOutcome) Message() string {
	if o.Status != StatusFailed || o.Detail == nil {
		return ""
	}
	return o.Detail.Message
}
