// Package parse defines the parser contract and registry from spec.md
// §4.2/§6: a file-type tag maps to a Parser producing a ParsedDocument,
// an immutable product carrying the exact source text, a language-neutral
// node-walking capability, and an offset↔position translation table.
package parse

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/webtree-go/webtree/warning"
)

// Node is the minimal capability every language-specific AST node must
// offer so that ParsedDocument can walk a tree generically without
// switching on concrete variants — the same "dispatch on tags, not
// variants" discipline used for features (spec.md §9) applies here to
// nodes.
type Node interface {
	NodeType() string
	ByteRange() (start, end int)
	Children() []Node
}

// InlineInfo is supplied by a scanner when asking the parser registry to
// parse a sub-document extracted from a host document (e.g. a <script>
// body): it carries the translation needed to keep the inline document's
// ranges accurate in host-file coordinates, the host AST node that
// contains it, and a suggested filename for diagnostics.
type InlineInfo struct {
	LocationOffset warning.LocationOffset
	HostNode       Node
}

// ParsedDocument is the immutable product of a Parser.
type ParsedDocument struct {
	URL      string
	BaseURL  string
	Contents string
	AST      Node
	IsInline bool
	AstNode  Node // set when IsInline: the host node this doc was extracted from

	offsets *warning.OffsetIndex
}

// NewParsedDocument builds a ParsedDocument and its offset index. Parsers
// call this after producing ast from contents.
func NewParsedDocument(url, baseURL, contents string, ast Node, inline *InlineInfo) *ParsedDocument {
	doc := &ParsedDocument{
		URL:      url,
		BaseURL:  baseURL,
		Contents: contents,
		AST:      ast,
	}
	offset := warning.LocationOffset{}
	if inline != nil {
		doc.IsInline = true
		doc.AstNode = inline.HostNode
		offset = inline.LocationOffset
	}
	doc.offsets = warning.NewOffsetIndex([]byte(contents), url, offset)
	return doc
}

// OffsetToSourcePosition converts a byte offset into Contents to a
// LocationOffset-adjusted source position.
func (d *ParsedDocument) OffsetToSourcePosition(offset int) warning.Position {
	return d.offsets.OffsetToPosition(offset)
}

// SourcePositionToOffset is the inverse of OffsetToSourcePosition.
func (d *ParsedDocument) SourcePositionToOffset(pos warning.Position) (int, error) {
	return d.offsets.PositionToOffset(pos)
}

// OffsetsToSourceRange builds a SourceRange spanning [start, end).
func (d *ParsedDocument) OffsetsToSourceRange(start, end int) warning.SourceRange {
	return d.offsets.OffsetsToSourceRange(start, end)
}

// SourceRangeToOffsets is the inverse of OffsetsToSourceRange.
func (d *ParsedDocument) SourceRangeToOffsets(r warning.SourceRange) (start, end int, err error) {
	return d.offsets.SourceRangeToOffsets(r)
}

// SourceRangeForNode is a convenience wrapper around OffsetsToSourceRange
// for a Node produced by this document's AST.
func (d *ParsedDocument) SourceRangeForNode(n Node) warning.SourceRange {
	start, end := n.ByteRange()
	return d.OffsetsToSourceRange(start, end)
}

// ForEachNode visits every node of the AST in document order, depth
// first. Visiting stops early if cb returns false.
func (d *ParsedDocument) ForEachNode(cb func(Node) bool) {
	if d.AST == nil {
		return
	}
	var walk func(Node) bool
	walk = func(n Node) bool {
		if !cb(n) {
			return false
		}
		for _, c := range n.Children() {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(d.AST)
}

// Visitor is called for every node ForEachNode-style; Visit runs several
// visitors in one walk so a scanner can combine several concerns (e.g.
// "element tags" and "script bodies"). Visit ignores a visitor's bool
// result and always visits every node.
type Visitor func(Node) bool

// Visit runs each visitor over the AST in a single traversal.
func (d *ParsedDocument) Visit(visitors ...Visitor) {
	d.ForEachNode(func(n Node) bool {
		for _, v := range visitors {
			v(n)
		}
		return true
	})
}

// Stringify renders the document's AST back to source text. The default
// implementation simply returns Contents verbatim (byte-for-byte
// round-trip); parsers that build a lossy AST may override this by
// wrapping ParsedDocument and providing a dedicated renderer, but no
// default Parser in this module needs to, since every one of them keeps
// Contents as the source of truth.
func (d *ParsedDocument) Stringify(opts ...StringifyOption) string {
	cfg := &stringifyConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return d.Contents
}

type stringifyConfig struct{}

// StringifyOption configures Stringify. No options are defined yet; the
// type exists so callers can pass future options without breaking the
// signature, matching the functional-options idiom used elsewhere in
// this module.
type StringifyOption func(*stringifyConfig)

// Failure is raised by a Parser when it cannot produce a ParsedDocument.
// It carries a Warning so the caller can attach it to the containing
// document rather than aborting the whole analysis (spec.md §7).
type Failure struct {
	Warning warning.Warning
}

func (f *Failure) Error() string { return f.Warning.Error() }

// Parser is the contract external per-language parsers implement.
type Parser interface {
	Parse(ctx context.Context, contents, url string, inline *InlineInfo) (*ParsedDocument, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, contents, url string, inline *InlineInfo) (*ParsedDocument, error)

func (f ParserFunc) Parse(ctx context.Context, contents, url string, inline *InlineInfo) (*ParsedDocument, error) {
	return f(ctx, contents, url, inline)
}

// Registry maps a file-type tag ("html", "js", "css", "json", ...) to the
// Parser responsible for it.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register associates fileType with a Parser. Re-registering a type
// overwrites the previous parser, which is how callers override the
// default registry (spec.md §6, Analyzer option `parsers`).
func (r *Registry) Register(fileType string, p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[fileType] = p
}

// Lookup returns the Parser registered for fileType.
func (r *Registry) Lookup(fileType string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[fileType]
	return p, ok
}

// Types returns every registered file-type tag, sorted, mostly useful for
// diagnostics and tests.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Parse looks up the parser for fileType and runs it. ErrUnknownType is
// returned when no parser is registered — callers translate this into
// either a silent skip (transitive import) or a fatal analyze() error
// (root document), per spec.md §7.
func (r *Registry) Parse(ctx context.Context, fileType, contents, url string, inline *InlineInfo) (*ParsedDocument, error) {
	p, ok := r.Lookup(fileType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, fileType)
	}
	return p.Parse(ctx, contents, url, inline)
}

// ErrUnknownType is returned by Registry.Parse when fileType has no
// registered Parser.
var ErrUnknownType = fmt.Errorf("parse: unknown file type")
