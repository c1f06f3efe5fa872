// Package cache implements the incremental analysis cache: one
// singleflight-guarded map per pipeline stage (spec.md §3/§9), plus the
// fork/invalidate/clear operations spec.md §6 describes for incremental
// re-analysis after a file changes.
//
// The "publish the in-flight work slot before the first suspension
// point" discipline spec.md §9 calls for is implemented with
// golang.org/x/sync/singleflight: concurrent callers requesting the same
// key block on the same in-flight call instead of racing to recompute
// it, the same dedup primitive used for exactly this kind of
// cyclic-graph-safe memoization elsewhere in the Go ecosystem.
package cache

import (
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/webtree-go/webtree/docgraph"
	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/scan"
)

// promiseCache memoizes the result of a keyed, possibly-concurrent
// computation. Once a key resolves, every caller (past or future) sees
// the same value; concurrent first-callers for the same key share one
// underlying computation via singleflight.
type promiseCache[T any] struct {
	mu    sync.RWMutex
	m     map[string]T
	group singleflight.Group
}

func newPromiseCache[T any]() *promiseCache[T] {
	return &promiseCache[T]{m: make(map[string]T)}
}

// GetOrCreate returns the cached value for key, computing it with create
// if absent. Concurrent calls for the same absent key share one call to
// create.
func (c *promiseCache[T]) GetOrCreate(key string, create func() (T, error)) (T, error) {
	c.mu.RLock()
	if v, ok := c.m[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		if v, ok := c.m[key]; ok {
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		val, err := create()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.m[key] = val
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Lookup returns the cached value for key without computing it.
func (c *promiseCache[T]) Lookup(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *promiseCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

func (c *promiseCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

func (c *promiseCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]T)
}

// Snapshot returns a shallow copy of the cache's current contents.
func (c *promiseCache[T]) Snapshot() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]T, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out
}

// fork returns a new promiseCache holding a copy of this one's entries.
// The copy is at the map level only (structural sharing of the values
// themselves) so mutating the fork never affects the original.
func (c *promiseCache[T]) fork() *promiseCache[T] {
	return &promiseCache[T]{m: c.Snapshot()}
}

// Cache holds the five keyed maps the analysis pipeline shares across
// calls: parsed documents, per-document scan results, scan results with
// inline sub-documents already attached, a dependency-scan completion
// marker, and resolved documents (spec.md §3).
type Cache struct {
	genMu      sync.Mutex
	generation int

	Parsed              *promiseCache[*parse.ParsedDocument]
	Scanned             *promiseCache[*scan.ScannedDocument]
	ScannedDocuments    *promiseCache[*scan.ScannedDocument]
	DependenciesScanned *promiseCache[bool]
	Analyzed            *promiseCache[*docgraph.Document]

	analyzingLocks sync.Map // url string -> *sync.Mutex
}

// LockAnalyzing returns an unlock func after acquiring the per-URL lock
// that guards Document construction for url in the Analyzed cache. It
// exists because Analyzed's own construction (docgraph.NewDocument plus a
// recursive walk of imports before the final Resolve) cannot go through
// promiseCache.GetOrCreate the way the other sub-caches do: that
// recursion can revisit url itself on an import cycle, and singleflight
// deadlocks if the same goroutine re-enters Do for a key it is still
// computing. Callers are expected to pair this with their own
// recursion-local visited set to skip re-locking a URL already being
// materialized by the same call tree; LockAnalyzing only has to
// serialize separate top-level Analyze() calls that reach the same URL
// from different goroutines.
func (c *Cache) LockAnalyzing(url string) func() {
	muAny, _ := c.analyzingLocks.LoadOrStore(url, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		Parsed:              newPromiseCache[*parse.ParsedDocument](),
		Scanned:             newPromiseCache[*scan.ScannedDocument](),
		ScannedDocuments:    newPromiseCache[*scan.ScannedDocument](),
		DependenciesScanned: newPromiseCache[bool](),
		Analyzed:            newPromiseCache[*docgraph.Document](),
	}
}

// Generation reports how many times ClearCaches has run against this
// Cache (and, transitively, any Cache it was forked from).
func (c *Cache) Generation() int {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.generation
}

// Fork returns a new Cache whose sub-caches start as a snapshot of this
// one's. Mutating the fork never affects the original.
func (c *Cache) Fork() *Cache {
	return &Cache{
		generation:          c.Generation(),
		Parsed:              c.Parsed.fork(),
		Scanned:             c.Scanned.fork(),
		ScannedDocuments:    c.ScannedDocuments.fork(),
		DependenciesScanned: c.DependenciesScanned.fork(),
		Analyzed:            c.Analyzed.fork(),
	}
}

// OnPathChanged returns a fork of c with changedURL and every URL in
// dependants evicted from every sub-cache, so the next access to any of
// them recomputes from scratch while every untouched entry is reused
// (spec.md §6).
func (c *Cache) OnPathChanged(changedURL string, dependants []string) *Cache {
	forked := c.Fork()
	urls := make([]string, 0, len(dependants)+1)
	urls = append(urls, changedURL)
	urls = append(urls, dependants...)
	for _, u := range urls {
		forked.Parsed.Delete(u)
		forked.Scanned.Delete(u)
		forked.ScannedDocuments.Delete(u)
		forked.DependenciesScanned.Delete(u)
		forked.Analyzed.Delete(u)
	}
	return forked
}

// ClearCaches drops every entry in every sub-cache and advances the
// generation counter (spec.md §6). It mutates c in place; existing forks
// of c are unaffected.
func (c *Cache) ClearCaches() {
	c.genMu.Lock()
	c.generation++
	c.genMu.Unlock()

	c.Parsed.Clear()
	c.Scanned.Clear()
	c.ScannedDocuments.Clear()
	c.DependenciesScanned.Clear()
	c.Analyzed.Clear()
}

// GetImportersOf returns every URL, among documents already analyzed,
// that imports changedURL — directly, or (when transitive is true)
// through a chain of imports (spec.md §6, used to compute the
// `dependants` argument to OnPathChanged).
func (c *Cache) GetImportersOf(changedURL string, transitive bool) []string {
	importedBy := map[string][]string{} // target URL -> URLs that import it
	for url, doc := range c.Analyzed.Snapshot() {
		for _, f := range doc.GetFeatures(docgraph.QueryOptions{}) {
			imp, ok := f.(*scan.ImportFeature)
			if !ok {
				continue
			}
			importedBy[imp.URL] = append(importedBy[imp.URL], url)
		}
	}

	visited := map[string]bool{}
	queue := append([]string{}, importedBy[changedURL]...)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if visited[u] {
			continue
		}
		visited[u] = true
		if transitive {
			queue = append(queue, importedBy[u]...)
		}
	}

	out := make([]string, 0, len(visited))
	for u := range visited {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// DocumentByURL implements docgraph.DocumentLookup over the analyzed
// cache, so Documents resolving against one another can find their
// siblings without any of them owning the Cache.
func (c *Cache) DocumentByURL(url string) (*docgraph.Document, bool) {
	return c.Analyzed.Lookup(url)
}
