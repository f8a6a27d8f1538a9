// Package domain defines the core types shared by discovery, execution,
// and reporting: statically discovered test items, runtime outcomes, and
// run summaries.
package domain

import "fmt"

// ExpectedAssertion is a statically predicted assertion call inside a
// test body, in the shape expect(subject).[not_.]matcher(args...).
type ExpectedAssertion struct {
	// Subject is the verbatim source text of the value under test.
	Subject string `json:"subject"`
	// Matcher is the name of the comparison applied (e.g. "to_equal").
	Matcher string `json:"matcher"`
	// Negated is true when the chain passed through the not_ accessor.
	Negated bool `json:"negated"`
	// Args holds the verbatim source text of each matcher argument.
	Args []string `json:"args"`
	// Line is the 1-based source line of the assertion call.
	// It correlates the prediction to runtime failures; correlation is
	// ambiguous when two assertion calls share a line.
	Line int `json:"line"`
	// Label is an optional human label from the entry call.
	Label string `json:"label,omitempty"`
}

// String renders the assertion back into its canonical source form.
func (a ExpectedAssertion) String() string {
	not := ""
	if a.Negated {
		not = "not_."
	}
	args := ""
	for i, arg := range a.Args {
		if i > 0 {
			args += ", "
		}
		args += arg
	}
	return fmt.Sprintf("expect(%s).%s%s(%s)", a.Subject, not, a.Matcher, args)
}

// TestItem is a statically discovered test.
//
// Items are produced once by discovery and are immutable afterward.
// FilePath and LineNumber are both set in the normal file-backed case
// and both zero otherwise.
type TestItem struct {
	// Name is the function's source identifier, unique within its file.
	Name string `json:"name"`
	// ModulePath is the dotted path derived from the file location
	// relative to the project root. Always non-empty.
	ModulePath string `json:"module_path"`
	// FilePath is the project-root-relative path, or empty when the
	// item was not derived from a file.
	FilePath string `json:"file_path,omitempty"`
	// LineNumber is the 1-based line of the function definition.
	LineNumber int `json:"line_number,omitempty"`
	// DisplayName is an optional human label. Renderers fall back to
	// Name when it is empty.
	DisplayName string `json:"display_name,omitempty"`
	// ExpectedAssertions lists predicted assertions in source order.
	ExpectedAssertions []ExpectedAssertion `json:"expected_assertions"`
}

// ID returns a stable identifier: "file::name" for file-backed items,
// "module::name" otherwise.
func (t *TestItem) ID() string {
	if t.FilePath != "" {
		return t.FilePath + "::" + t.Name
	}
	return t.ModulePath + "::" + t.Name
}

// DisplayLabel returns the display name, falling back to the source name.
func (t *TestItem) DisplayLabel() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}

// Clone returns a deep copy. TestResult holds a clone so results stay
// valid independent of the discovery pass that produced the item.
func (t *TestItem) Clone() TestItem {
	clone := *t
	if t.ExpectedAssertions != nil {
		clone.ExpectedAssertions = make([]ExpectedAssertion, len(t.ExpectedAssertions))
		copy(clone.ExpectedAssertions, t.ExpectedAssertions)
		for i := range clone.ExpectedAssertions {
			src := t.ExpectedAssertions[i].Args
			if src == nil {
				continue
			}
			args := make([]string, len(src))
			copy(args, src)
			clone.ExpectedAssertions[i].Args = args
		}
	}
	return clone
}
