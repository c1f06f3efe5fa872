//go:build !cgo

// Package jsscan implements the default Scanner for JavaScript documents.
// This build has no tree-sitter grammar available (see parse/jsdoc's
// stub), so the scanner is a no-op that reports nothing rather than
// failing the whole document scan.
package jsscan

import (
	"context"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// Scanner is the no-op JavaScript Scanner used in non-cgo builds.
type Scanner struct{}

func New() *Scanner { return &Scanner{} }

func (s *Scanner) Scan(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]scan.ScannedFeature, []warning.Warning, error) {
	return nil, nil, nil
}
