package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quiverhq/quiver/pkg/domain"
)

// RenderAssertions renders failed assertions as framed source-span
// blocks followed by a tally line. Each block shows the failing
// expression with the offending sub-range underlined and an
// "expected X, received Y" annotation. Empty input renders nothing.
func RenderAssertions(file string, assertions []domain.Assertion) string {
	if len(assertions) == 0 {
		return ""
	}

	var b strings.Builder
	for _, assertion := range assertions {
		renderAssertion(file, assertion, &b)
	}
	fmt.Fprintf(&b, "  %d/%d assertions failed\n", len(assertions), len(assertions))

	return b.String()
}

func renderAssertion(file string, a domain.Assertion, b *strings.Builder) {
	name := file
	if a.File != "" {
		name = a.File
	}
	if name == "" {
		name = "<unknown>"
	}

	offset, length := clampSpan(a.Expression, a.SpanOffset, a.SpanLength)
	pad := strings.Repeat(" ", offset)

	fmt.Fprintf(b, "  × assertion failed\n")
	fmt.Fprintf(b, "   ╭─[%s:%d:%d]\n", name, a.Line, a.SpanOffset+1)
	fmt.Fprintf(b, "   │ %s\n", a.Expression)
	fmt.Fprintf(b, "   · %s%s\n", pad, underline(length))
	fmt.Fprintf(b, "   · %s╰── expected %s, received %s\n", pad, a.Expected, a.Received)
	fmt.Fprintf(b, "   ╰────\n")
}

// clampSpan converts a byte span over the expression into rune counts
// bounded by the expression length, so malformed spans never break the
// frame.
func clampSpan(expression string, offset, length int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(expression) {
		offset = len(expression)
	}
	end := offset + length
	if length < 0 || end > len(expression) {
		end = len(expression)
	}

	runeOffset := utf8.RuneCountInString(expression[:offset])
	runeLength := utf8.RuneCountInString(expression[offset:end])
	if runeLength < 1 {
		runeLength = 1
	}
	return runeOffset, runeLength
}

func underline(length int) string {
	if length <= 1 {
		return "┬"
	}
	return "┬" + strings.Repeat("─", length-1)
}
