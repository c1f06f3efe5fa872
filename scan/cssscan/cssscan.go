// Package cssscan implements the default Scanner for CSS documents,
// grounded in the same tag-dispatch traversal htmlscan uses over
// parse/htmldoc, walking parse/cssdoc's @import-only AST instead.
package cssscan

import (
	"context"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/parse/cssdoc"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// Scanner recognizes `@import` at-rules as css-import edges.
type Scanner struct{}

func New() *Scanner { return &Scanner{} }

func (s *Scanner) Scan(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]scan.ScannedFeature, []warning.Warning, error) {
	var features []scan.ScannedFeature

	doc.ForEachNode(func(n parse.Node) bool {
		cn, ok := n.(*cssdoc.Node)
		if !ok || cn.Kind != cssdoc.KindImport || cn.URL == "" {
			return true
		}
		urlRange := doc.OffsetsToSourceRange(cn.URLStart, cn.URLEnd)
		features = append(features, scan.NewScannedImport(scan.ImportTypeCSSImport, cn.URL, doc.SourceRangeForNode(cn), urlRange))
		return true
	})

	return features, nil, nil
}
