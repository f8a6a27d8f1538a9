package discover

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

// ErrParse marks a file whose syntax tree could not be built. Callers
// treat it as "zero tests in this file", never as a fatal error.
var ErrParse = errors.New("discover: parse failed")

var (
	pyLang   *sitter.Language
	langOnce sync.Once
)

func pythonLanguage() *sitter.Language {
	langOnce.Do(func() {
		pyLang = python.GetLanguage()
	})
	return pyLang
}

// ParseSource parses Python source into a syntax tree.
//
// A fresh parser is created per call: a cancelled ParseCtx leaves the
// parser's internal cancel flag set, so reuse after cancellation fails.
// Caller MUST call tree.Close() to free resources.
//
// Trees containing syntax errors are rejected with ErrParse so a
// half-parsed file never contributes partial results.
func ParseSource(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(pythonLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: source contains syntax errors", ErrParse)
	}

	return tree, nil
}

// NodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
func NodeText(node *sitter.Node, source []byte) (result string) {
	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	if start > sourceLen || end > sourceLen {
		return ""
	}

	// Content() reaches into tree-sitter's C layer, which can read past
	// the slice bounds when a parser was reused across goroutines.
	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// NodeLine returns the 1-based source line of the node's start.
func NodeLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
