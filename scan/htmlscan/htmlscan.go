// Package htmlscan implements the default Scanner for HTML documents,
// grounded in the same tag-oriented traversal doITmagic-rag-code-mcp
// uses over its goquery tree, adapted here to walk parse/htmldoc's
// tokenizer-built tree instead so byte ranges stay available.
package htmlscan

import (
	"context"
	"strings"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/parse/htmldoc"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// Scanner is the default HTML Scanner: it recognizes `<link>` imports,
// inline `<script>`/`<style>` sub-documents, `<dom-module>` declarations,
// and references to custom elements used as tags.
type Scanner struct{}

func New() *Scanner { return &Scanner{} }

func (s *Scanner) Scan(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]scan.ScannedFeature, []warning.Warning, error) {
	var features []scan.ScannedFeature
	var warnings []warning.Warning

	doc.ForEachNode(func(n parse.Node) bool {
		hn, ok := n.(*htmldoc.Node)
		if !ok || hn.Kind != htmldoc.KindElement {
			return true
		}

		switch hn.Tag {
		case "link":
			if f := scanLink(doc, hn); f != nil {
				features = append(features, f)
			}
		case "script":
			features = append(features, scanScript(doc, hn)...)
		case "style":
			if f := scanInlineStyle(doc, hn); f != nil {
				features = append(features, f)
			}
		case "dom-module":
			if idAttr, ok := hn.Attr("id"); ok && idAttr.Value != "" {
				features = append(features, scan.NewDomModule(idAttr.Value, doc.SourceRangeForNode(hn)))
			}
		default:
			if isCustomElementTag(hn.Tag) {
				features = append(features, scan.NewScannedElementReference(hn.Tag, doc.SourceRangeForNode(hn)))
			}
		}

		// A standard element can opt into custom-element behavior via
		// `is="..."` (e.g. `<input is="iron-input">`) independently of
		// whether its own tag name is custom-element-shaped.
		if isAttr, ok := hn.Attr("is"); ok && isAttr.Value != "" {
			features = append(features, scan.NewScannedElementReference(isAttr.Value, doc.SourceRangeForNode(hn)))
		}
		return true
	})

	return features, warnings, nil
}

// scanLink classifies a <link> element by its rel attribute into an
// import feature (spec.md §3's ImportType* tags), or returns nil if rel
// isn't one this scanner recognizes.
func scanLink(doc *parse.ParsedDocument, hn *htmldoc.Node) scan.ScannedFeature {
	rel, _ := hn.Attr("rel")
	href, ok := hn.Attr("href")
	if !ok || href.Value == "" {
		return nil
	}

	var importType string
	switch strings.ToLower(strings.TrimSpace(rel.Value)) {
	case "import":
		importType = scan.ImportTypeHTMLImport
	case "lazy-import":
		importType = scan.ImportTypeLazyHTMLImport
	case "stylesheet":
		importType = scan.ImportTypeHTMLStyle
	default:
		return nil
	}

	urlRange := doc.SourceRangeForNode(hn)
	if href.HasValueOffsets {
		urlRange = doc.OffsetsToSourceRange(href.ValueStart, href.ValueEnd)
	}

	return scan.NewScannedImport(importType, href.Value, doc.SourceRangeForNode(hn), urlRange)
}

// scanScript returns either a ScannedImport (external script, `src` set)
// or a ScannedInlineDocument carrying the script body (spec.md §3).
func scanScript(doc *parse.ParsedDocument, hn *htmldoc.Node) []scan.ScannedFeature {
	if src, ok := hn.Attr("src"); ok && src.Value != "" {
		typ, ok := hn.Attr("type")
		if ok && typ.Value != "" && typ.Value != "text/javascript" && typ.Value != "application/javascript" && typ.Value != "module" {
			return nil
		}
		urlRange := doc.SourceRangeForNode(hn)
		if src.HasValueOffsets {
			urlRange = doc.OffsetsToSourceRange(src.ValueStart, src.ValueEnd)
		}
		return []scan.ScannedFeature{scan.NewScannedImport(scan.ImportTypeHTMLScript, src.Value, doc.SourceRangeForNode(hn), urlRange)}
	}

	text, start := innerText(hn)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pos := doc.OffsetToSourcePosition(start)
	offset := warning.LocationOffset{Line: pos.Line - 1, Column: pos.Column - 1, Filename: doc.URL}
	comment := ""
	if c := hn.PrecedingComment(); c != nil {
		comment = strings.TrimSpace(c.Text)
	}

	inline := scan.NewScannedInlineDocument(scan.InlineTypeJS, text, offset, doc.SourceRangeForNode(hn))
	inline.AttachedComment = comment
	return []scan.ScannedFeature{inline}
}

func scanInlineStyle(doc *parse.ParsedDocument, hn *htmldoc.Node) scan.ScannedFeature {
	text, start := innerText(hn)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	pos := doc.OffsetToSourcePosition(start)
	offset := warning.LocationOffset{Line: pos.Line - 1, Column: pos.Column - 1, Filename: doc.URL}
	return scan.NewScannedInlineDocument(scan.InlineTypeCSS, text, offset, doc.SourceRangeForNode(hn))
}

// innerText concatenates the text-node children of an element and
// returns the byte offset the text begins at.
func innerText(hn *htmldoc.Node) (string, int) {
	var b strings.Builder
	start := hn.TagEnd
	first := true
	for _, c := range hn.Children() {
		child, ok := c.(*htmldoc.Node)
		if !ok || child.Kind != htmldoc.KindText {
			continue
		}
		if first {
			s, _ := child.ByteRange()
			start = s
			first = false
		}
		b.WriteString(child.Text)
	}
	return b.String(), start
}

// isCustomElementTag reports whether tag could name a custom element:
// lowercase, contains a hyphen, per the Custom Elements specification.
func isCustomElementTag(tag string) bool {
	return strings.Contains(tag, "-")
}
