// Package codeblock pulls fenced code out of model replies and checks the
// syntax of C snippets with tree-sitter.
package codeblock

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

const fence = "```"

// Block is one fenced code block.
type Block struct {
	Lang string `json:"lang"`
	Code string `json:"code"`
}

// Diagnostic points at a syntax problem inside a block.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Extract returns the fenced blocks in text, in order. An unterminated
// fence runs to the end of the text.
func Extract(text string) []Block {
	var blocks []Block
	var current *Block
	var body []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, fence) {
			if current != nil {
				body = append(body, line)
			}
			continue
		}

		if current == nil {
			current = &Block{Lang: strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, fence)))}
			body = body[:0]
			continue
		}

		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, *current)
		current = nil
	}

	if current != nil {
		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, *current)
	}

	return blocks
}

// Code joins every block's code. Text without fences is returned trimmed.
func Code(text string) string {
	blocks := Extract(text)
	if len(blocks) == 0 {
		return strings.TrimSpace(text)
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Code)
	}
	return strings.Join(parts, "\n\n")
}

// Checkable reports whether CheckSyntax understands the block's language.
func Checkable(b Block) bool {
	switch b.Lang {
	case "c", "h":
		return true
	default:
		return false
	}
}

// CheckSyntax parses a C block and reports every ERROR or MISSING node.
// Blocks in other languages return no diagnostics and ok=false.
func CheckSyntax(b Block) ([]Diagnostic, bool, error) {
	if !Checkable(b) {
		return nil, false, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()

	language := sitter.NewLanguage(tree_sitter_c.Language())
	if err := parser.SetLanguage(language); err != nil {
		return nil, false, fmt.Errorf("failed to load C grammar: %w", err)
	}

	content := []byte(b.Code)
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, false, fmt.Errorf("failed to parse %s block", b.Lang)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, true, nil
	}

	return collectErrors(root, content), true, nil
}

func collectErrors(node *sitter.Node, content []byte) []Diagnostic {
	var diags []Diagnostic

	if node.IsMissing() {
		pos := node.StartPosition()
		diags = append(diags, Diagnostic{
			Line:    int(pos.Row) + 1,
			Column:  int(pos.Column) + 1,
			Message: fmt.Sprintf("missing %s", node.Kind()),
		})
	} else if node.IsError() {
		pos := node.StartPosition()
		diags = append(diags, Diagnostic{
			Line:    int(pos.Row) + 1,
			Column:  int(pos.Column) + 1,
			Message: fmt.Sprintf("unexpected %q", snippet(node.Utf8Text(content))),
		})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}
		diags = append(diags, collectErrors(child, content)...)
	}

	return diags
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
