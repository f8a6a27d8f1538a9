package discover

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/quiverhq/quiver/pkg/discover/pyast"
)

// markerName is the decorator name that identifies a test function.
const markerName = "test"

// shadowedNames returns the set of names redefined at module top level:
// function and class definitions (decorated or not) and assignment
// targets, including annotated assignments. The set is a pure function
// of one file's syntax tree; classifiers receive it explicitly.
func shadowedNames(root *sitter.Node, source []byte) map[string]bool {
	names := make(map[string]bool)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)

		switch child.Type() {
		case pyast.NodeFunctionDefinition, pyast.NodeClassDefinition:
			addDefinitionName(child, source, names)

		case pyast.NodeDecoratedDefinition:
			if def := pyast.GetDecoratedDefinition(child); def != nil {
				addDefinitionName(def, source, names)
			}

		case pyast.NodeExpressionStatement:
			for j := 0; j < int(child.NamedChildCount()); j++ {
				stmt := child.NamedChild(j)
				if stmt.Type() == pyast.NodeAssignment {
					collectAssignTargets(stmt, source, names)
				}
			}
		}
	}

	return names
}

func addDefinitionName(def *sitter.Node, source []byte, names map[string]bool) {
	nameNode := def.ChildByFieldName("name")
	if nameNode != nil {
		names[NodeText(nameNode, source)] = true
	}
}

func collectAssignTargets(assign *sitter.Node, source []byte, names map[string]bool) {
	if left := assign.ChildByFieldName("left"); left != nil {
		addTargetNames(left, source, names)
	}

	// Chained form: a = b = value parses with the inner assignment on
	// the right.
	if right := assign.ChildByFieldName("right"); right != nil && right.Type() == pyast.NodeAssignment {
		collectAssignTargets(right, source, names)
	}
}

func addTargetNames(target *sitter.Node, source []byte, names map[string]bool) {
	switch target.Type() {
	case pyast.NodeIdentifier:
		names[NodeText(target, source)] = true
	case "tuple", "list", "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(target.NamedChildCount()); i++ {
			addTargetNames(target.NamedChild(i), source, names)
		}
	}
}

// isTestMarker decides whether a decorator expression denotes the test
// marker:
//   - a bare reference counts unless the marker name is shadowed at
//     module top level,
//   - a qualified reference (owner.test, owner a bare name) counts
//     regardless of shadowing, since qualification disambiguates intent,
//   - a call form recurses into its callee.
func isTestMarker(expr *sitter.Node, source []byte, shadowed map[string]bool) bool {
	if expr == nil {
		return false
	}

	switch expr.Type() {
	case pyast.NodeIdentifier:
		return NodeText(expr, source) == markerName && !shadowed[markerName]

	case pyast.NodeAttribute:
		attrNode := expr.ChildByFieldName("attribute")
		objNode := expr.ChildByFieldName("object")
		if attrNode == nil || objNode == nil {
			return false
		}
		return NodeText(attrNode, source) == markerName && objNode.Type() == pyast.NodeIdentifier

	case pyast.NodeCall:
		return isTestMarker(expr.ChildByFieldName("function"), source, shadowed)
	}

	return false
}

// classifyTest returns the expression of the first decorator that
// denotes a test marker, or nil when the definition is not a test.
func classifyTest(decorators []*sitter.Node, source []byte, shadowed map[string]bool) *sitter.Node {
	for _, dec := range decorators {
		expr := pyast.DecoratorExpression(dec)
		if isTestMarker(expr, source, shadowed) {
			return expr
		}
	}
	return nil
}
