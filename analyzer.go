// Package webtree analyzes a tree of HTML/JS/CSS/JSON documents into a
// resolved, queryable document graph: parse each document, scan it for
// declarations and references, and resolve those into a fixed point
// across the (possibly cyclic) import graph.
//
// The orchestration here follows the same functional-options,
// context-carrying-I/O shape podhmo-go-scan's root Scanner/ModuleWalker
// types use (see options.go), generalized from "walk a Go module" to
// "walk a document import graph."
package webtree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/webtree-go/webtree/cache"
	"github.com/webtree-go/webtree/docgraph"
	"github.com/webtree-go/webtree/loader"
	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/parse/cssdoc"
	"github.com/webtree-go/webtree/parse/htmldoc"
	"github.com/webtree-go/webtree/parse/jsdoc"
	"github.com/webtree-go/webtree/parse/jsondoc"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/scan/cssscan"
	"github.com/webtree-go/webtree/scan/htmlscan"
	"github.com/webtree-go/webtree/scan/jsscan"
)

// Analyzer owns the loader, registries, and cache for one logical
// analysis context (spec.md §4.4). It is safe for concurrent use: all
// cache mutation goes through cache.Cache's singleflight-guarded maps.
type Analyzer struct {
	loader    loader.Loader
	resolver  loader.Resolver
	parsers   *parse.Registry
	scanners  *scan.Registry
	lazyEdges map[string][]string
	logger    *slog.Logger

	telemetryEnabled bool
	telemetry        *telemetryRecorder

	cache *cache.Cache
}

// New constructs an Analyzer over ld, applying opts in order. ld is
// required; everything else has a working default (spec.md §6).
func New(ld loader.Loader, opts ...Option) (*Analyzer, error) {
	if ld == nil {
		return nil, fmt.Errorf("webtree: New: loader is required")
	}

	a := &Analyzer{
		loader:    ld,
		parsers:   defaultParsers(),
		scanners:  defaultScanners(),
		lazyEdges: map[string][]string{},
		logger:    slog.Default(),
		cache:     cache.New(),
		telemetry: newTelemetryRecorder(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("webtree: New: %w", err)
		}
	}
	return a, nil
}

func defaultParsers() *parse.Registry {
	r := parse.NewRegistry()
	r.Register("html", parse.ParserFunc(htmldoc.Parse))
	r.Register("css", parse.ParserFunc(cssdoc.Parse))
	r.Register("js", parse.ParserFunc(jsdoc.Parse))
	r.Register("json", parse.ParserFunc(jsondoc.Parse))
	// typescript is accepted as a parser target but has no scanner in the
	// default registry below: jsdoc's tree-sitter grammar is permissive
	// enough to produce a tree for .ts sources (it just won't recognize
	// TS-only syntax as anything but opaque nodes), so a .ts document
	// still parses successfully instead of failing with ErrUnknownType.
	r.Register("typescript", parse.ParserFunc(jsdoc.Parse))
	return r
}

func defaultScanners() *scan.Registry {
	r := scan.NewRegistry()
	r.Register("html", htmlscan.New())
	r.Register("js", jsscan.New())
	r.Register("css", cssscan.New())
	return r
}

// Load returns the text contents of url, applying providedContents as an
// overlay first if given (spec.md §6).
func (a *Analyzer) Load(ctx context.Context, url string, providedContents ...string) (string, error) {
	resolved := a.resolveURL(url)
	if len(providedContents) > 0 {
		if ov, ok := a.loader.(overlaySetter); ok {
			ov.SetOverlay(resolved, providedContents[0])
		}
	}
	return a.loader.Load(ctx, resolved)
}

type overlaySetter interface {
	SetOverlay(url, contents string)
}

// ClearCaches drops every cached parse/scan/analysis result and advances
// the generation counter (spec.md §4.3, §6).
func (a *Analyzer) ClearCaches() {
	a.cache.ClearCaches()
}

// TelemetryMeasurements returns every per-operation timing recorded so
// far (spec.md §6). Empty unless telemetry was enabled via WithTelemetry.
func (a *Analyzer) TelemetryMeasurements() []Measurement {
	return a.telemetry.Snapshot()
}

func (a *Analyzer) resolveURL(raw string) string {
	if a.resolver != nil && a.resolver.CanResolve(raw) {
		return a.resolver.Resolve(raw)
	}
	type pathResolver interface{ Resolve(string) string }
	if pr, ok := a.loader.(pathResolver); ok {
		return pr.Resolve(raw)
	}
	return raw
}

func (a *Analyzer) isExternal(url string) bool {
	type externalChecker interface{ IsExternal(string) bool }
	if ec, ok := a.loader.(externalChecker); ok {
		return ec.IsExternal(url)
	}
	return false
}

// Analyze scans and resolves url into a Document (spec.md §4.4). If
// contents is provided, it is installed as an overlay for url and the
// cache is forked as though the file had just changed, so the new
// contents (and not any stale cached parse of the old file) drive the
// analysis.
func (a *Analyzer) Analyze(ctx context.Context, url string, contents ...string) (*docgraph.Document, error) {
	resolved := a.resolveURL(url)

	if len(contents) > 0 {
		if ov, ok := a.loader.(overlaySetter); ok {
			ov.SetOverlay(resolved, contents[0])
		}
		dependants := a.cache.GetImportersOf(resolved, true)
		a.cache = a.cache.OnPathChanged(resolved, dependants)
		a.logger.DebugContext(ctx, "Analyze CACHE INVALIDATED", slog.String("url", resolved), slog.Int("dependants", len(dependants)))
	}

	if _, ok := a.cache.Analyzed.Lookup(resolved); ok {
		a.logger.DebugContext(ctx, "Analyze CACHE HIT", slog.String("url", resolved))
	} else {
		a.logger.DebugContext(ctx, "Analyze CACHE MISS", slog.String("url", resolved))
	}

	doc, err := a.cache.Analyzed.GetOrCreate(resolved, func() (*docgraph.Document, error) {
		return a.analyzeUncached(ctx, resolved)
	})
	if err != nil {
		a.logger.WarnContext(ctx, "failed to analyze", slog.String("url", resolved), slog.Any("error", err))
	}
	return doc, err
}

func (a *Analyzer) analyzeUncached(ctx context.Context, resolved string) (*docgraph.Document, error) {
	sdoc, err := a.scan(ctx, resolved, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return a.materialize(sdoc, map[string]bool{}), nil
}

// materialize walks the scanned import graph reachable from sdoc,
// ensuring every node has a cached docgraph.Document and is resolved.
// Cycles within one descent terminate via visited: once this call tree
// has started materializing a URL, revisiting it returns nil instead of
// recursing again (spec.md §4.5's early-exit guard, applied at
// construction time rather than only inside Document.Resolve). visited
// alone does not protect against two different top-level Analyze() calls
// racing to materialize the same shared nested URL, since each has its
// own fresh visited map; that race is closed by cache.LockAnalyzing,
// which serializes construction of a given URL's Document across
// goroutines the same way cache.Analyzed.GetOrCreate serializes the root
// URL (singleflight can't be reused here directly: a cyclic import graph
// would have a goroutine re-enter Do for a key it is itself still
// computing, which deadlocks).
func (a *Analyzer) materialize(sdoc *scan.ScannedDocument, visited map[string]bool) *docgraph.Document {
	url := sdoc.Document.URL
	if d, ok := a.cache.Analyzed.Lookup(url); ok {
		return d
	}
	if visited[url] {
		return nil
	}
	visited[url] = true

	unlock := a.cache.LockAnalyzing(url)
	defer unlock()

	if d, ok := a.cache.Analyzed.Lookup(url); ok {
		return d
	}

	doc := docgraph.NewDocument(url, sdoc, a.cache, a.resolveURL, a.isExternal(url), a.lazyEdges[url])
	a.cache.Analyzed.Set(url, doc)

	for _, f := range sdoc.Features {
		imp, ok := f.(*scan.ScannedImport)
		if !ok || imp.Type == scan.ImportTypeLazyHTMLImport {
			continue
		}
		if nested := imp.ScannedDocument(); nested != nil {
			a.materialize(nested, visited)
		}
	}

	a.measure("resolve", url, func() { doc.Resolve() })
	return doc
}
