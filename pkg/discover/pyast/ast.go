// Package pyast provides Python AST node-type constants and traversal
// helpers shared by the discovery passes.
package pyast

import sitter "github.com/smacker/go-tree-sitter"

// Python AST node types.
const (
	NodeAssignment          = "assignment"
	NodeAttribute           = "attribute"
	NodeArgumentList        = "argument_list"
	NodeBlock               = "block"
	NodeCall                = "call"
	NodeClassDefinition     = "class_definition"
	NodeDecorator           = "decorator"
	NodeDecoratedDefinition = "decorated_definition"
	NodeExpressionStatement = "expression_statement"
	NodeFunctionDefinition  = "function_definition"
	NodeIdentifier          = "identifier"
	NodeKeywordArgument     = "keyword_argument"
	NodeReturnStatement     = "return_statement"
	NodeString              = "string"
	NodeStringContent       = "string_content"
)

// GetDecoratedDefinition extracts the actual definition from a
// decorated_definition node.
func GetDecoratedDefinition(node *sitter.Node) *sitter.Node {
	definition := node.ChildByFieldName("definition")
	if definition != nil {
		return definition
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeFunctionDefinition || child.Type() == NodeClassDefinition {
			return child
		}
	}
	return nil
}

// GetDecorators extracts all decorator nodes from a decorated_definition.
func GetDecorators(node *sitter.Node) []*sitter.Node {
	var decorators []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeDecorator {
			decorators = append(decorators, child)
		}
	}
	return decorators
}

// DecoratorExpression returns the expression a decorator applies
// (the part after "@"), or nil.
func DecoratorExpression(node *sitter.Node) *sitter.Node {
	return node.NamedChild(0)
}

// IsStringLiteral reports whether the node is a plain string literal.
func IsStringLiteral(node *sitter.Node) bool {
	return node != nil && node.Type() == NodeString
}

// StringLiteralValue returns the content of a string literal without
// quotes or prefixes. Escape sequences are kept verbatim.
func StringLiteralValue(node *sitter.Node, source []byte) (string, bool) {
	if !IsStringLiteral(node) {
		return "", false
	}

	value := ""
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == NodeStringContent {
			value += string(source[child.StartByte():child.EndByte()])
		}
	}
	return value, true
}

// PositionalArgs returns the non-keyword arguments of a call's
// argument_list, in order.
func PositionalArgs(argumentList *sitter.Node) []*sitter.Node {
	var args []*sitter.Node
	for i := 0; i < int(argumentList.NamedChildCount()); i++ {
		child := argumentList.NamedChild(i)
		if child.Type() == NodeKeywordArgument || child.Type() == "comment" {
			continue
		}
		args = append(args, child)
	}
	return args
}

// KeywordArg returns the value node of the named keyword argument, or nil.
func KeywordArg(argumentList *sitter.Node, name string, source []byte) *sitter.Node {
	for i := 0; i < int(argumentList.NamedChildCount()); i++ {
		child := argumentList.NamedChild(i)
		if child.Type() != NodeKeywordArgument {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		if string(source[nameNode.StartByte():nameNode.EndByte()]) == name {
			return child.ChildByFieldName("value")
		}
	}
	return nil
}

// ArgCount returns the number of positional plus keyword arguments of a
// call's argument_list.
func ArgCount(argumentList *sitter.Node) int {
	count := 0
	for i := 0; i < int(argumentList.NamedChildCount()); i++ {
		if argumentList.NamedChild(i).Type() == "comment" {
			continue
		}
		count++
	}
	return count
}

// Docstring returns a function body's docstring when the body's first
// statement is a string literal.
func Docstring(body *sitter.Node, source []byte) (string, bool) {
	if body == nil || body.NamedChildCount() == 0 {
		return "", false
	}

	first := body.NamedChild(0)
	if first.Type() != NodeExpressionStatement || first.NamedChildCount() == 0 {
		return "", false
	}

	return StringLiteralValue(first.NamedChild(0), source)
}
