package webtree

import (
	"fmt"
	"log/slog"

	"github.com/webtree-go/webtree/loader"
	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/scan"
)

// Option configures an Analyzer at construction time, mirroring
// podhmo-go-scan's ModuleWalkerOption pattern (module_walker.go).
type Option func(*Analyzer) error

// WithResolver installs a url-reference Resolver used ahead of the
// loader's own Resolve method (spec.md §6's "a package-aware resolver
// may be layered in front of the loader's own path resolution").
func WithResolver(r loader.Resolver) Option {
	return func(a *Analyzer) error {
		if r == nil {
			return fmt.Errorf("WithResolver: resolver is nil")
		}
		a.resolver = r
		return nil
	}
}

// WithParsers replaces the default parser registry. Callers that only
// want to override one file type should build their own registry
// pre-populated with defaultParsers()'s entries and re-register just
// that type, the same way a caller of ModuleWalker would layer
// WithModuleWalkerOverlay on top of the defaults rather than replace
// the whole scanner.
func WithParsers(r *parse.Registry) Option {
	return func(a *Analyzer) error {
		if r == nil {
			return fmt.Errorf("WithParsers: registry is nil")
		}
		a.parsers = r
		return nil
	}
}

// WithScanners replaces the default scanner registry.
func WithScanners(r *scan.Registry) Option {
	return func(a *Analyzer) error {
		if r == nil {
			return fmt.Errorf("WithScanners: registry is nil")
		}
		a.scanners = r
		return nil
	}
}

// WithLazyEdges installs the supplemental lazy-dependency map (spec.md
// §9): url -> extra urls it depends on that aren't statically visible in
// source, consulted by transitive queries exactly like a
// lazy-html-import edge.
func WithLazyEdges(edges map[string][]string) Option {
	return func(a *Analyzer) error {
		for k, v := range edges {
			a.lazyEdges[k] = append([]string(nil), v...)
		}
		return nil
	}
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			return fmt.Errorf("WithLogger: logger is nil")
		}
		a.logger = logger
		return nil
	}
}

// WithTelemetry turns on per-operation timing collection (spec.md §6).
// Measurements are available afterward via Analyzer.TelemetryMeasurements.
func WithTelemetry(enabled bool) Option {
	return func(a *Analyzer) error {
		a.telemetryEnabled = enabled
		return nil
	}
}
