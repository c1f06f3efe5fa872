// Package cssdoc implements the default CSS Parser.
//
// No CSS parsing library appears anywhere in the retrieved example
// corpus, so this is a small hand-written scanner built on the standard
// library only (see DESIGN.md for the grounding-ledger justification).
// It recognizes the one CSS construct spec.md's feature model needs: the
// `@import` at-rule, in both its `url(...)` and bare-string forms.
package cssdoc

import (
	"bytes"
	"context"

	"github.com/webtree-go/webtree/parse"
)

// Kind tags the variants of Node.
type Kind int

const (
	KindDocument Kind = iota
	KindImport
)

// Node is the AST node type produced by this package's Parser.
type Node struct {
	Kind     Kind
	URL      string
	URLStart int // byte offset of the unquoted URL text
	URLEnd   int
	Start    int // byte range of the whole @import statement
	End      int
	children []*Node
}

func (n *Node) NodeType() string {
	if n.Kind == KindImport {
		return "at-import"
	}
	return "document"
}

func (n *Node) ByteRange() (int, int) { return n.Start, n.End }

func (n *Node) Children() []parse.Node {
	out := make([]parse.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Parse scans contents for @import at-rules and comments.
func Parse(ctx context.Context, contents, url string, inline *parse.InlineInfo) (*parse.ParsedDocument, error) {
	data := []byte(contents)
	n := len(data)
	root := &Node{Kind: KindDocument, Start: 0, End: n}

	i := 0
	for i < n {
		if data[i] == '/' && i+1 < n && data[i+1] == '*' {
			end := bytes.Index(data[i+2:], []byte("*/"))
			if end == -1 {
				break
			}
			i = i + 2 + end + 2
			continue
		}
		if matchKeyword(data, i, "@import") {
			node, next := parseImport(data, i)
			root.children = append(root.children, node)
			i = next
			continue
		}
		i++
	}

	return parse.NewParsedDocument(url, url, contents, root, inline), nil
}

func matchKeyword(data []byte, i int, kw string) bool {
	if i+len(kw) > len(data) {
		return false
	}
	if !bytes.EqualFold(data[i:i+len(kw)], []byte(kw)) {
		return false
	}
	// Require a word boundary after the keyword.
	after := i + len(kw)
	if after < len(data) && isIdentByte(data[after]) {
		return false
	}
	return true
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// parseImport parses a single @import statement starting at i and returns
// the built Node plus the offset just past the statement (after the ';',
// or end of input if unterminated).
func parseImport(data []byte, i int) (*Node, int) {
	n := len(data)
	stmtStart := i
	j := i + len("@import")
	for j < n && isSpace(data[j]) {
		j++
	}

	var rawURL string
	var urlStart, urlEnd int

	switch {
	case j < n && (data[j] == '"' || data[j] == '\''):
		quote := data[j]
		k := j + 1
		for k < n && data[k] != quote {
			k++
		}
		urlStart, urlEnd = j+1, k
		rawURL = string(data[urlStart:urlEnd])
		if k < n {
			j = k + 1
		} else {
			j = k
		}

	case j+4 <= n && bytes.EqualFold(data[j:j+4], []byte("url(")):
		k := j + 4
		for k < n && data[k] != ')' {
			k++
		}
		inner := data[j+4 : k]
		s := string(inner)
		start := j + 4
		if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
			s = s[1 : len(s)-1]
			start++
		}
		urlStart, urlEnd = start, start+len(s)
		rawURL = s
		if k < n {
			j = k + 1
		} else {
			j = k
		}
	}

	semi := bytes.IndexByte(data[j:], ';')
	stmtEnd := n
	if semi != -1 {
		stmtEnd = j + semi + 1
	}

	return &Node{
		Kind:     KindImport,
		URL:      rawURL,
		URLStart: urlStart,
		URLEnd:   urlEnd,
		Start:    stmtStart,
		End:      stmtEnd,
	}, stmtEnd
}
