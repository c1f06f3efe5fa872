package webtree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// fileTypeFor maps a URL's extension to a parser/scanner registry tag
// (spec.md §6's file-type tags).
func fileTypeFor(url string) string {
	switch strings.ToLower(filepath.Ext(url)) {
	case ".html", ".htm":
		return "html"
	case ".js", ".mjs":
		return "js"
	case ".css":
		return "css"
	case ".json":
		return "json"
	case ".ts":
		return "typescript"
	default:
		return ""
	}
}

// scan parses and scans url, memoized per-URL via the analysis cache,
// then ensures its dependencies have been scanned exactly once per
// generation. visited is the per-top-level-call recursion guard: a URL
// already in visited is a cycle back to a document currently being
// constructed upstack, so this returns whatever is already published in
// the scanned cache (possibly nothing, if even that publish hasn't
// happened yet) rather than recursing again (spec.md §4.4).
func (a *Analyzer) scan(ctx context.Context, url string, visited map[string]bool) (*scan.ScannedDocument, error) {
	if visited[url] {
		sdoc, _ := a.cache.Scanned.Lookup(url)
		return sdoc, nil
	}
	visited[url] = true

	if _, ok := a.cache.Scanned.Lookup(url); ok {
		a.logger.DebugContext(ctx, "scan CACHE HIT", slog.String("url", url))
	} else {
		a.logger.DebugContext(ctx, "scan CACHE MISS", slog.String("url", url))
	}

	sdoc, err := a.cache.Scanned.GetOrCreate(url, func() (*scan.ScannedDocument, error) {
		return a.scanUncached(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	if _, err := a.cache.DependenciesScanned.GetOrCreate(url, func() (bool, error) {
		a.scanDependencies(ctx, sdoc, visited)
		return true, nil
	}); err != nil {
		return nil, err
	}

	return sdoc, nil
}

func (a *Analyzer) scanUncached(ctx context.Context, url string) (*scan.ScannedDocument, error) {
	contents, err := a.loader.Load(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("webtree: load %s: %w", url, err)
	}

	fileType := fileTypeFor(url)
	var parsed *parse.ParsedDocument
	var perr error
	a.measure("parse", url, func() {
		parsed, perr = a.parsers.Parse(ctx, fileType, contents, url, nil)
	})
	if perr != nil {
		if errors.Is(perr, parse.ErrUnknownType) {
			a.logger.DebugContext(ctx, "no parser registered for file type, skipping", slog.String("url", url), slog.String("fileType", fileType))
			return nil, perr
		}
		a.logger.WarnContext(ctx, "failed to parse document", slog.String("url", url), slog.Any("error", perr))
		sdoc := scan.NewScannedDocument(
			parse.NewParsedDocument(url, url, contents, nil, nil),
			nil,
			[]warning.Warning{parseFailureWarning(perr, url)},
		)
		a.cache.ScannedDocuments.Set(url, sdoc)
		return sdoc, nil
	}

	sdoc := a.scanDocument(ctx, fileType, parsed, "")
	a.cache.ScannedDocuments.Set(url, sdoc)
	return sdoc, nil
}

func parseFailureWarning(err error, url string) warning.Warning {
	var pf *parse.Failure
	if errors.As(err, &pf) {
		return pf.Warning
	}
	return warning.Warning{
		Code:     "parse-error",
		Message:  err.Error(),
		Severity: warning.Error,
		SourceRange: warning.SourceRange{
			File:  url,
			Start: warning.Position{Line: 1, Column: 1},
		},
	}
}

// scanDocument runs the registered scanners for fileType over parsed and
// wraps the result into a ScannedDocument (spec.md §4.4's _scanDocument).
func (a *Analyzer) scanDocument(ctx context.Context, fileType string, parsed *parse.ParsedDocument, attachedComment string) *scan.ScannedDocument {
	var features []scan.ScannedFeature
	var warnings []warning.Warning
	a.measure("scan", parsed.URL, func() {
		features, warnings = a.scanners.Scan(ctx, fileType, parsed, attachedComment)
	})
	return scan.NewScannedDocument(parsed, features, warnings)
}

// scanDependencies recurses into every ScannedInlineDocument and
// ScannedImport feature of sdoc in parallel, filling in each one's
// scannedDocument slot before returning (spec.md §4.4, §9's note that the
// assignment must be awaited rather than fire-and-forget).
func (a *Analyzer) scanDependencies(ctx context.Context, sdoc *scan.ScannedDocument, visited map[string]bool) {
	var wg sync.WaitGroup

	for _, f := range sdoc.Features {
		switch feat := f.(type) {
		case *scan.ScannedInlineDocument:
			wg.Add(1)
			go func(feat *scan.ScannedInlineDocument) {
				defer wg.Done()
				a.scanInlineDocument(ctx, sdoc, feat)
			}(feat)

		case *scan.ScannedImport:
			if feat.Type == scan.ImportTypeLazyHTMLImport {
				a.logger.DebugContext(ctx, "lazy html import, not following eagerly", slog.String("url", feat.URL))
				continue
			}
			wg.Add(1)
			// Each import recursion gets its own copy of visited extended
			// with everything seen so far: siblings exploring disjoint
			// subgraphs shouldn't suppress each other's cycle detection,
			// but anything on the path to sdoc itself must still be shared.
			childVisited := cloneVisited(visited)
			go func(feat *scan.ScannedImport) {
				defer wg.Done()
				a.scanImport(ctx, sdoc, feat, childVisited)
			}(feat)
		}
	}

	wg.Wait()
}

func cloneVisited(visited map[string]bool) map[string]bool {
	out := make(map[string]bool, len(visited))
	for k, v := range visited {
		out[k] = v
	}
	return out
}

func (a *Analyzer) scanInlineDocument(ctx context.Context, parent *scan.ScannedDocument, feat *scan.ScannedInlineDocument) {
	inline := &parse.InlineInfo{LocationOffset: feat.LocationOffset, HostNode: feat.ASTNode}
	parsed, err := a.parsers.Parse(ctx, feat.Type, feat.Contents, parent.Document.URL, inline)
	if err != nil {
		if errors.Is(err, parse.ErrUnknownType) {
			a.logger.DebugContext(ctx, "no parser registered for inline document type, skipping", slog.String("url", parent.Document.URL), slog.String("type", feat.Type))
			return
		}
		a.logger.WarnContext(ctx, "failed to parse inline document, skipping", slog.String("url", parent.Document.URL), slog.Any("error", err))
		parent.AddWarning(parseFailureWarning(err, parent.Document.URL))
		return
	}

	childSdoc := a.scanDocument(ctx, feat.Type, parsed, feat.AttachedComment)
	feat.SetScannedDocument(childSdoc)
}

func (a *Analyzer) scanImport(ctx context.Context, parent *scan.ScannedDocument, feat *scan.ScannedImport, visited map[string]bool) {
	target := a.resolveURL(feat.URL)

	nested, err := a.scan(ctx, target, visited)
	if err != nil {
		if errors.Is(err, parse.ErrUnknownType) {
			a.logger.DebugContext(ctx, "no parser registered for import target, skipping", slog.String("url", target))
			return
		}
		a.logger.WarnContext(ctx, "could not load import target, skipping", slog.String("url", target), slog.Any("error", err))
		parent.AddWarning(warning.Warning{
			Code:        warning.CodeCouldNotLoad,
			Message:     fmt.Sprintf("could not load %q: %v", feat.URL, err),
			SourceRange: feat.URLSourceRange,
			Severity:    warning.Error,
		})
		return
	}
	if nested != nil {
		feat.SetScannedDocument(nested)
	}
}
