//go:build cgo

// Package jsdoc implements the default JavaScript Parser on top of
// tree-sitter, following the same binding used by SimplyLiz-CodeMCP and
// mvp-joe-canopy for multi-language source inspection: a *sitter.Node
// tree walked by field name and node type, gated behind the same
// `cgo` build constraint those bindings require (the grammars are
// compiled C).
package jsdoc

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/warning"
)

// Node wraps a *sitter.Node so it satisfies parse.Node.
type Node struct {
	raw    *sitter.Node
	source []byte
}

func (n *Node) NodeType() string { return n.raw.Type() }

func (n *Node) ByteRange() (int, int) {
	return int(n.raw.StartByte()), int(n.raw.EndByte())
}

func (n *Node) Children() []parse.Node {
	count := int(n.raw.ChildCount())
	out := make([]parse.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.raw.Child(i)
		if c == nil {
			continue
		}
		out = append(out, &Node{raw: c, source: n.source})
	}
	return out
}

// Text returns the node's exact source text.
func (n *Node) Text() string {
	start, end := n.ByteRange()
	return string(n.source[start:end])
}

// ChildByFieldName mirrors sitter.Node's named-field lookup.
func (n *Node) ChildByFieldName(name string) *Node {
	c := n.raw.ChildByFieldName(name)
	if c == nil {
		return nil
	}
	return &Node{raw: c, source: n.source}
}

// Raw exposes the underlying tree-sitter node for scanners that need
// grammar-specific traversal tree-sitter's own API doesn't generalize
// (e.g. call-expression argument lists).
func (n *Node) Raw() *sitter.Node { return n.raw }

// IsAvailable reports whether this cgo-backed parser is compiled in.
func IsAvailable() bool { return true }

// Parse parses contents as JavaScript.
func Parse(ctx context.Context, contents, url string, inline *parse.InlineInfo) (*parse.ParsedDocument, error) {
	source := []byte(contents)
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &parse.Failure{Warning: warning.Warning{
			Code:     "js-parse-error",
			Message:  err.Error(),
			Severity: warning.Error,
			SourceRange: warning.SourceRange{
				File:  url,
				Start: warning.Position{Line: 1, Column: 1},
			},
		}}
	}

	root := &Node{raw: tree.RootNode(), source: source}
	return parse.NewParsedDocument(url, url, contents, root, inline), nil
}
