// Package htmldoc implements the default HTML Parser. It builds a small
// node tree on top of golang.org/x/net/html's low-level Tokenizer rather
// than its tree-building html.Parse, because the tokenizer hands back the
// raw bytes of every token as it streams them — which lets this package
// recover exact byte offsets per tag and (heuristically) per attribute.
// html.Parse's tree API does not retain that information at all.
package htmldoc

import (
	"context"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/warning"
)

// Kind tags the variants of Node.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindComment
)

// Attribute is an HTML attribute with a best-effort byte range for its
// value, recovered by re-scanning the owning tag's raw bytes (the
// tokenizer itself does not expose per-attribute offsets).
type Attribute struct {
	Key             string
	Value           string
	ValueStart      int
	ValueEnd        int
	HasValueOffsets bool
}

// Node is the AST node type produced by this package's Parser. It
// implements parse.Node so the generic ForEachNode/Visit walkers work
// over it without switching on concrete type.
type Node struct {
	Kind     Kind
	Tag      string // lowercased tag name, for KindElement
	Attrs    []Attribute
	Text     string // text or comment data
	Start    int
	End      int
	TagStart int // for KindElement: start of the opening tag
	TagEnd   int // for KindElement: end of the opening tag
	children []*Node
	parent   *Node
}

func (n *Node) NodeType() string {
	switch n.Kind {
	case KindElement:
		return "element:" + n.Tag
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	default:
		return "document"
	}
}

func (n *Node) ByteRange() (int, int) { return n.Start, n.End }

func (n *Node) Children() []parse.Node {
	out := make([]parse.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Parent returns the enclosing element, or nil at the document root.
func (n *Node) Parent() *Node { return n.parent }

// Attr looks up an attribute by key (case-sensitive; HTML attribute names
// are already lowercased by the tokenizer).
func (n *Node) Attr(key string) (Attribute, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// PrecedingComment returns the nearest immediately-preceding sibling
// comment node, or nil. Scanners use this to attribute a host comment to
// the first element-like feature that follows it (spec.md §4.2).
func (n *Node) PrecedingComment() *Node {
	if n.parent == nil {
		return nil
	}
	for i, sib := range n.parent.children {
		if sib == n {
			for j := i - 1; j >= 0; j-- {
				switch n.parent.children[j].Kind {
				case KindComment:
					return n.parent.children[j]
				case KindText:
					if strings.TrimSpace(n.parent.children[j].Text) == "" {
						continue
					}
					return nil
				default:
					return nil
				}
			}
			return nil
		}
	}
	return nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var attrPattern = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)\s*=\s*("[^"]*"|'[^']*'|[^\s"'=<>` + "`" + `]+)`)

// Parse tokenizes contents and builds a Node tree.
func Parse(ctx context.Context, contents, url string, inline *parse.InlineInfo) (*parse.ParsedDocument, error) {
	root := &Node{Kind: KindDocument, Start: 0}
	stack := []*Node{root}

	z := html.NewTokenizer(strings.NewReader(contents))
	offset := 0

	for {
		tt := z.Next()
		raw := z.Raw()
		start := offset
		end := offset + len(raw)
		offset = end

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, &parse.Failure{Warning: warning.Warning{
					Code:     "html-parse-error",
					Message:  err.Error(),
					Severity: warning.Error,
					SourceRange: warning.SourceRange{
						File:  url,
						Start: warning.Position{Line: 1, Column: 1},
					},
				}}
			}
			root.End = offset
			return parse.NewParsedDocument(url, url, contents, root, inline), nil

		case html.TextToken:
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &Node{Kind: KindText, Text: string(raw), Start: start, End: end, parent: parent})

		case html.CommentToken:
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &Node{Kind: KindComment, Text: z.Token().Data, Start: start, End: end, parent: parent})

		case html.DoctypeToken:
			// No feature of interest ever originates from a doctype; skip.

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			n := &Node{Kind: KindElement, Tag: strings.ToLower(tok.Data), Start: start, TagStart: start, TagEnd: end}
			n.Attrs = extractAttrs(tok, raw, start)
			parent := stack[len(stack)-1]
			n.parent = parent
			parent.children = append(parent.children, n)
			if tt == html.StartTagToken && !voidElements[n.Tag] {
				stack = append(stack, n)
			} else {
				n.End = end
			}

		case html.EndTagToken:
			tok := z.Token()
			name := strings.ToLower(tok.Data)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == name {
					stack[i].End = end
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// extractAttrs recovers a best-effort byte range for each attribute value
// by re-scanning the tag's raw bytes in order. The tokenizer preserves
// attribute order, so each tok.Attr entry is paired with the next regex
// match carrying the same attribute name; attributes written without a
// value (e.g. `async`) produce no match and get no value offsets.
func extractAttrs(tok html.Token, raw []byte, tagStart int) []Attribute {
	matches := attrPattern.FindAllSubmatchIndex(raw, -1)
	attrs := make([]Attribute, len(tok.Attr))
	next := 0
	for i, a := range tok.Attr {
		attrs[i] = Attribute{Key: a.Key, Value: a.Val}
		for j := next; j < len(matches); j++ {
			m := matches[j]
			if !strings.EqualFold(string(raw[m[2]:m[3]]), a.Key) {
				continue
			}
			next = j + 1
			valStart, valEnd := m[4], m[5]
			if valStart >= 0 && valEnd >= 0 {
				raw := raw[valStart:valEnd]
				if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') {
					valStart++
					valEnd--
				}
				attrs[i].ValueStart = tagStart + valStart
				attrs[i].ValueEnd = tagStart + valEnd
				attrs[i].HasValueOffsets = true
			}
			break
		}
	}
	return attrs
}
