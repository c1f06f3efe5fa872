//go:build !cgo

// Package jsdoc provides tree-sitter based JavaScript parsing. This stub
// is used when CGO is not available, mirroring the fallback pattern used
// for the same tree-sitter dependency elsewhere in the example corpus
// (SimplyLiz-CodeMCP's internal/symbols/stub.go).
package jsdoc

import (
	"context"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/warning"
)

// IsAvailable reports whether the cgo-backed parser is compiled in.
func IsAvailable() bool { return false }

// Parse always fails: this build has no JavaScript grammar available.
func Parse(ctx context.Context, contents, url string, inline *parse.InlineInfo) (*parse.ParsedDocument, error) {
	return nil, &parse.Failure{Warning: warning.Warning{
		Code:     "js-parser-unavailable",
		Message:  "javascript parsing requires a cgo-enabled build",
		Severity: warning.Error,
		SourceRange: warning.SourceRange{
			File:  url,
			Start: warning.Position{Line: 1, Column: 1},
		},
	}}
}
