// Package jsondoc implements the default JSON Parser using the standard
// library's streaming encoding/json.Decoder. Decoder.Token combined with
// Decoder.InputOffset recovers exact byte offsets as the document is
// decoded, which is the one property a JSON parsing library would need
// to add on top of — and no JSON library anywhere in the retrieved
// corpus does anything Decoder doesn't already give us, so stdlib is the
// right call here (recorded in DESIGN.md, not assumed silently).
package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/warning"
)

// Kind tags the variants of Node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// Node is the AST node type produced by this package's Parser. Ranges are
// an approximation: Decoder.InputOffset reports the offset immediately
// after a token, so End is exact but Start is the offset just after the
// preceding token: the member's key for an object member, the previous
// element (or the opening '[') for an array element, and 0 for the root.
// It may therefore include intervening whitespace or punctuation.
type Node struct {
	Kind     Kind
	Key      string // set when this node is an object member
	Value    string // decoded text for scalar kinds
	Start    int
	End      int
	children []*Node
}

func (n *Node) NodeType() string {
	switch n.Kind {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
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

// Parse decodes contents as JSON.
func Parse(ctx context.Context, contents, url string, inline *parse.InlineInfo) (*parse.ParsedDocument, error) {
	dec := json.NewDecoder(strings.NewReader(contents))
	dec.UseNumber()

	root, err := parseValue(dec, "", 0)
	if err != nil {
		return nil, &parse.Failure{Warning: warning.Warning{
			Code:     "json-parse-error",
			Message:  err.Error(),
			Severity: warning.Error,
			SourceRange: warning.SourceRange{
				File:  url,
				Start: warning.Position{Line: 1, Column: 1},
			},
		}}
	}
	return parse.NewParsedDocument(url, url, contents, root, inline), nil
}

func parseValue(dec *json.Decoder, key string, start int) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("jsondoc: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case json.Delim('{'):
			n := &Node{Kind: KindObject, Key: key, Start: start}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("jsondoc: %w", err)
				}
				k, _ := keyTok.(string)
				childStart := int(dec.InputOffset())
				child, err := parseValue(dec, k, childStart)
				if err != nil {
					return nil, err
				}
				n.children = append(n.children, child)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, fmt.Errorf("jsondoc: %w", err)
			}
			n.End = int(dec.InputOffset())
			return n, nil

		case json.Delim('['):
			n := &Node{Kind: KindArray, Key: key, Start: start}
			idx := 0
			for dec.More() {
				childStart := int(dec.InputOffset())
				child, err := parseValue(dec, strconv.Itoa(idx), childStart)
				if err != nil {
					return nil, err
				}
				n.children = append(n.children, child)
				idx++
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, fmt.Errorf("jsondoc: %w", err)
			}
			n.End = int(dec.InputOffset())
			return n, nil
		}

	case string:
		return &Node{Kind: KindString, Key: key, Value: t, Start: start, End: int(dec.InputOffset())}, nil
	case json.Number:
		return &Node{Kind: KindNumber, Key: key, Value: t.String(), Start: start, End: int(dec.InputOffset())}, nil
	case bool:
		return &Node{Kind: KindBool, Key: key, Value: strconv.FormatBool(t), Start: start, End: int(dec.InputOffset())}, nil
	case nil:
		return &Node{Kind: KindNull, Key: key, Start: start, End: int(dec.InputOffset())}, nil
	}

	return nil, fmt.Errorf("jsondoc: unexpected token %v", tok)
}
