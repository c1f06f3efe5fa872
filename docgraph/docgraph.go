// Package docgraph implements the resolved document graph: the
// fixed-point resolution state machine (spec.md §4.5) and the query
// surface (spec.md §4.6) over a connected component of Documents.
//
// A Document keeps its resolved features in a lock-guarded slice that
// keeps growing while it resolves. Queries scan that slice on every call;
// no per-kind or per-id lookup map is built.
package docgraph

import (
	"sync"

	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// State is a Document's place in the resolution state machine.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unresolved"
	}
}

// QueryOptions governs how far a query travels across the import graph
// (spec.md §4.6).
type QueryOptions struct {
	// Imported, when true, walks the transitive import graph instead of
	// restricting the query to the document itself.
	Imported bool
	// LazyImports, when true, also follows lazy-import edges. Ignored
	// unless Imported is also true. Analyze neither scans nor analyzes
	// lazy-import targets, so such a document is included only when a
	// Document for its URL already exists in the lookup.
	LazyImports bool
	// ExternalPackages, when true, includes documents flagged external
	// (outside the project root). Ignored unless Imported is also true.
	ExternalPackages bool
}

// DocumentLookup resolves a canonical URL to the Document already built
// for it. Implemented by the cache/analyzer layer; Document holds one as
// a lookup-only back-reference, never ownership (spec.md §9).
type DocumentLookup interface {
	DocumentByURL(url string) (*Document, bool)
}

// Document is the resolved form of a ScannedDocument: a node in the
// document graph with its own feature index plus the machinery to
// resolve against sibling documents, including ones still mid-resolution
// on a cyclic import graph (spec.md §4.5).
type Document struct {
	url          string
	scanned      *scan.ScannedDocument
	lookup       DocumentLookup
	resolveURL   func(raw string) string
	external     bool
	lazyEdgeURLs []string

	mu       sync.RWMutex
	state    State
	features []scan.Feature
	warnings []warning.Warning
}

// NewDocument builds a Document wrapping the given scan result.
// resolveURL canonicalizes a raw import/reference URL relative to this
// document (spec.md §4.3); if nil, raw URLs are used unchanged.
// lazyEdgeURLs are supplemental dependency edges from the analyzer's
// lazy-edge map (spec.md §9, "a supplemental input telling the importer
// graph about edges not statically present in sources"); they are
// walked by transitive queries exactly like a lazy-html-import, i.e.
// only when QueryOptions.LazyImports is set.
func NewDocument(url string, scanned *scan.ScannedDocument, lookup DocumentLookup, resolveURL func(string) string, external bool, lazyEdgeURLs []string) *Document {
	if resolveURL == nil {
		resolveURL = func(raw string) string { return raw }
	}
	return &Document{url: url, scanned: scanned, lookup: lookup, resolveURL: resolveURL, external: external, lazyEdgeURLs: lazyEdgeURLs}
}

func (d *Document) URL() string { return d.url }

func (d *Document) External() bool { return d.external }

func (d *Document) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Scanned returns the ScannedDocument this Document resolves.
func (d *Document) Scanned() *scan.ScannedDocument { return d.scanned }

// Resolve runs the resolution state machine: it walks the document's
// nested scanned features in order, calling Resolve on each and
// appending the result to the document's local feature index as it
// goes, so later features (and documents observing this one mid-pass)
// see earlier ones immediately.
//
// Calling Resolve on a document that is already Resolving or Resolved is
// a no-op: this is the early-exit guard that terminates resolution on a
// cyclic import graph (spec.md §4.5, §9).
func (d *Document) Resolve() []warning.Warning {
	d.mu.Lock()
	if d.state != Unresolved {
		d.mu.Unlock()
		return nil
	}
	d.state = Resolving
	d.mu.Unlock()

	ctx := &resolveContext{doc: d}
	nested := d.scanned.GetNestedFeatures()

	var warnings []warning.Warning
	for _, sf := range nested {
		feat, ws := sf.Resolve(ctx)
		warnings = append(warnings, ws...)
		if feat == nil {
			continue
		}
		d.mu.Lock()
		d.features = append(d.features, feat)
		d.mu.Unlock()
	}
	warnings = append(warnings, d.scanned.Warnings...)

	d.mu.Lock()
	d.warnings = warnings
	d.state = Resolved
	d.mu.Unlock()
	return warnings
}

// localFeatures returns a snapshot of the features resolved so far. Safe
// to call while Resolve is still running on this document or another one
// observing it transitively (spec.md §9's "may be incomplete, this is
// intentional").
func (d *Document) localFeatures() []scan.Feature {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]scan.Feature, len(d.features))
	copy(out, d.features)
	return out
}

func (d *Document) localWarnings() []warning.Warning {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]warning.Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// GetByKind returns every feature of the given kind visible under opts.
func (d *Document) GetByKind(kind scan.Kind, opts QueryOptions) []scan.Feature {
	var out []scan.Feature
	for _, doc := range d.transitiveDocuments(opts) {
		for _, f := range doc.localFeatures() {
			if f.Kinds()[kind] {
				out = append(out, f)
			}
		}
	}
	return out
}

// GetById returns every feature of the given kind carrying id as one of
// its identifiers, visible under opts.
func (d *Document) GetById(kind scan.Kind, id string, opts QueryOptions) []scan.Feature {
	var out []scan.Feature
	for _, f := range d.GetByKind(kind, opts) {
		if f.Identifiers()[id] {
			out = append(out, f)
		}
	}
	return out
}

// GetOnlyAtID returns the single feature of the given kind/id visible
// under opts. It reports false when zero or more than one match, per
// spec.md §4.6's "undefined rather than ambiguous" rule.
func (d *Document) GetOnlyAtID(kind scan.Kind, id string, opts QueryOptions) (scan.Feature, bool) {
	matches := d.GetById(kind, id, opts)
	if len(matches) != 1 {
		return nil, false
	}
	return matches[0], true
}

// GetFeatures returns every feature visible under opts, in document
// order within each document and breadth-first import order across
// documents.
func (d *Document) GetFeatures(opts QueryOptions) []scan.Feature {
	var out []scan.Feature
	for _, doc := range d.transitiveDocuments(opts) {
		out = append(out, doc.localFeatures()...)
	}
	return out
}

// GetWarnings returns every warning visible under opts.
func (d *Document) GetWarnings(opts QueryOptions) []warning.Warning {
	var out []warning.Warning
	for _, doc := range d.transitiveDocuments(opts) {
		out = append(out, doc.localWarnings()...)
	}
	return out
}

// transitiveDocuments walks the import graph breadth-first starting at
// d, applying the LazyImports/ExternalPackages filters, and terminating
// on cycles via a visited set keyed by canonical URL (not identity,
// since two Documents are never built for the same URL but a cycle can
// still reach d itself).
func (d *Document) transitiveDocuments(opts QueryOptions) []*Document {
	if !opts.Imported {
		return []*Document{d}
	}

	visited := map[string]bool{d.url: true}
	queue := []*Document{d}
	var out []*Document

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)

		for _, f := range cur.localFeatures() {
			imp, ok := f.(*scan.ImportFeature)
			if !ok {
				continue
			}
			if imp.IsLazy() && !opts.LazyImports {
				continue
			}
			target, ok := cur.lookup.DocumentByURL(imp.URL)
			if !ok {
				continue
			}
			if target.external && !opts.ExternalPackages {
				continue
			}
			if visited[target.url] {
				continue
			}
			visited[target.url] = true
			queue = append(queue, target)
		}

		if opts.LazyImports {
			for _, u := range cur.lazyEdgeURLs {
				target, ok := cur.lookup.DocumentByURL(u)
				if !ok || visited[target.url] {
					continue
				}
				if target.external && !opts.ExternalPackages {
					continue
				}
				visited[target.url] = true
				queue = append(queue, target)
			}
		}
	}
	return out
}

// resolveContext adapts a Document to scan.ResolveContext.
type resolveContext struct {
	doc *Document
}

func (c *resolveContext) DocumentURL() string { return c.doc.url }

func (c *resolveContext) GetOnlyAtID(kind scan.Kind, id string, imported bool) (scan.Feature, bool) {
	return c.doc.GetOnlyAtID(kind, id, QueryOptions{Imported: imported, LazyImports: imported, ExternalPackages: imported})
}

func (c *resolveContext) ResolveURL(raw string) string {
	return c.doc.resolveURL(raw)
}
