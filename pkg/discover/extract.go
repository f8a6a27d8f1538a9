package discover

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/quiverhq/quiver/pkg/discover/pyast"
	"github.com/quiverhq/quiver/pkg/domain"
)

const (
	// expectName is the assertion entry call.
	expectName = "expect"
	// negateName is the negation accessor between entry and matcher.
	negateName = "not_"
	// labelKeyword carries an explicit label on entry calls and markers.
	labelKeyword = "name"
	// maxEntryArgs caps recognized entry-call arity: expect(subject) or
	// expect(subject, label). Other arities are not recognized.
	maxEntryArgs = 2
)

// AnalyzeSource parses one file's text and returns its test items in
// definition order. A parse failure wraps ErrParse; callers treat it as
// zero tests in the file.
func AnalyzeSource(ctx context.Context, source []byte, relPath string) ([]domain.TestItem, error) {
	tree, err := ParseSource(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	shadowed := shadowedNames(root, source)

	var items []domain.TestItem
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != pyast.NodeDecoratedDefinition {
			continue
		}

		def := pyast.GetDecoratedDefinition(child)
		if def == nil || def.Type() != pyast.NodeFunctionDefinition {
			continue
		}

		marker := classifyTest(pyast.GetDecorators(child), source, shadowed)
		if marker == nil {
			continue
		}

		if item := buildItem(def, marker, source, relPath); item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

func buildItem(def, marker *sitter.Node, source []byte, relPath string) *domain.TestItem {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	body := def.ChildByFieldName("body")

	return &domain.TestItem{
		Name:               NodeText(nameNode, source),
		ModulePath:         ModulePathFor(relPath),
		FilePath:           filepath.ToSlash(relPath),
		LineNumber:         NodeLine(def),
		DisplayName:        displayName(marker, body, source),
		ExpectedAssertions: extractAssertions(body, source),
	}
}

// ModulePathFor derives the dotted module path from a root-relative
// source file path.
func ModulePathFor(relPath string) string {
	p := filepath.ToSlash(relPath)
	p = strings.TrimSuffix(p, sourceExtension)
	return strings.ReplaceAll(p, "/", ".")
}

// displayName derives the optional human label for a test, in strict
// precedence order: name= keyword on the classifying marker call, then
// its first positional literal string, then the docstring's first line.
func displayName(marker, body *sitter.Node, source []byte) string {
	if marker.Type() == pyast.NodeCall {
		if args := marker.ChildByFieldName("arguments"); args != nil {
			if value := pyast.KeywordArg(args, labelKeyword, source); value != nil {
				if s, ok := pyast.StringLiteralValue(value, source); ok {
					return s
				}
			}
			if pos := pyast.PositionalArgs(args); len(pos) > 0 {
				if s, ok := pyast.StringLiteralValue(pos[0], source); ok {
					return s
				}
			}
		}
	}

	if doc, ok := pyast.Docstring(body, source); ok {
		firstLine, _, _ := strings.Cut(doc, "\n")
		if trimmed := strings.TrimSpace(firstLine); trimmed != "" {
			return trimmed
		}
	}

	return ""
}

// extractAssertions scans a test body for assertion-shaped calls, in
// source order. Recursion descends through every statement and
// expression form but stops at nested definitions, which are separate
// scopes.
func extractAssertions(body *sitter.Node, source []byte) []domain.ExpectedAssertion {
	assertions := []domain.ExpectedAssertion{}
	if body == nil {
		return assertions
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		scanForAssertions(body.NamedChild(i), source, 0, &assertions)
	}
	return assertions
}

func scanForAssertions(node *sitter.Node, source []byte, depth int, out *[]domain.ExpectedAssertion) {
	if depth > MaxTreeDepth {
		return
	}

	switch node.Type() {
	case pyast.NodeFunctionDefinition, pyast.NodeClassDefinition, pyast.NodeDecoratedDefinition:
		return
	}

	if node.Type() == pyast.NodeCall {
		if assertion := matchAssertion(node, source); assertion != nil {
			*out = append(*out, *assertion)
		}
	}

	// Descend regardless of recognition so nested and composed
	// expressions are still scanned.
	for i := 0; i < int(node.NamedChildCount()); i++ {
		scanForAssertions(node.NamedChild(i), source, depth+1, out)
	}
}

// matchAssertion recognizes calls shaped as
// expect(subject[, label]).[not_.]matcher(args...) and returns the
// extracted assertion, or nil when the call has a different shape.
func matchAssertion(call *sitter.Node, source []byte) *domain.ExpectedAssertion {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != pyast.NodeAttribute {
		return nil
	}

	matcherNode := fn.ChildByFieldName("attribute")
	receiver := fn.ChildByFieldName("object")
	if matcherNode == nil || receiver == nil {
		return nil
	}

	negated := false
	if receiver.Type() == pyast.NodeAttribute {
		accessor := receiver.ChildByFieldName("attribute")
		if accessor == nil || NodeText(accessor, source) != negateName {
			return nil
		}
		negated = true
		receiver = receiver.ChildByFieldName("object")
		if receiver == nil {
			return nil
		}
	}

	if receiver.Type() != pyast.NodeCall {
		return nil
	}
	entryFn := receiver.ChildByFieldName("function")
	if entryFn == nil || entryFn.Type() != pyast.NodeIdentifier || NodeText(entryFn, source) != expectName {
		return nil
	}

	entryArgs := receiver.ChildByFieldName("arguments")
	if entryArgs == nil {
		return nil
	}
	if n := pyast.ArgCount(entryArgs); n < 1 || n > maxEntryArgs {
		return nil
	}

	positional := pyast.PositionalArgs(entryArgs)
	if len(positional) == 0 {
		return nil
	}
	subject := NodeText(positional[0], source)

	label := ""
	if value := pyast.KeywordArg(entryArgs, labelKeyword, source); value != nil {
		if s, ok := pyast.StringLiteralValue(value, source); ok {
			label = s
		}
	} else if len(positional) >= 2 {
		if s, ok := pyast.StringLiteralValue(positional[1], source); ok {
			label = s
		}
	}

	var args []string
	if outerArgs := call.ChildByFieldName("arguments"); outerArgs != nil {
		for _, arg := range pyast.PositionalArgs(outerArgs) {
			args = append(args, NodeText(arg, source))
		}
	}

	return &domain.ExpectedAssertion{
		Subject: subject,
		Matcher: NodeText(matcherNode, source),
		Negated: negated,
		Args:    args,
		Line:    NodeLine(call),
		Label:   label,
	}
}
