// Package loader implements the URL layer described in spec.md §4.1: an
// optional Resolver that canonicalizes logical URLs, and an authoritative
// Loader that fetches their contents. Both are intentionally small,
// swappable interfaces — the analyzer treats them as external
// collaborators and never assumes a particular transport.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resolver canonicalizes a logical URL. It is optional; when absent, URLs
// pass through the analyzer unchanged.
type Resolver interface {
	CanResolve(url string) bool
	Resolve(url string) string
}

// Loader is authoritative for all I/O. It MUST return byte-identical
// results for identical URLs within one cache generation — the analyzer's
// cache correctness depends on this.
type Loader interface {
	CanLoad(url string) bool
	Load(ctx context.Context, url string) (string, error)
}

// FS abstracts the filesystem operations FileLoader needs, so tests can
// substitute an in-memory tree instead of touching disk.
type FS interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
}

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// FileLoader resolves and loads file:// and bare-path URLs rooted at a
// project directory supplied by the caller.
type FileLoader struct {
	rootDir   string
	fsys      FS
	overrides []PathOverride

	mu      sync.RWMutex
	overlay map[string][]byte
}

// PathOverride remaps any URL with OldPrefix to NewPath, the way a go.mod
// replace directive remaps an import path to a different module or local
// directory. A relative NewPath is resolved against the loader's root
// directory and an absolute NewPath is used as is; there is no
// module-to-module form, since this loader's URLs are not Go import paths.
type PathOverride struct {
	OldPrefix string
	NewPath   string
}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithFS overrides the filesystem implementation (for tests).
func WithFS(fsys FS) Option {
	return func(l *FileLoader) { l.fsys = fsys }
}

// WithOverlay seeds the loader with in-memory content for specific URLs,
// bypassing the filesystem for those entries entirely.
func WithOverlay(overlay map[string][]byte) Option {
	return func(l *FileLoader) {
		for k, v := range overlay {
			l.overlay[k] = v
		}
	}
}

// WithPathOverrides installs URL-prefix remappings, checked in order
// before the loader's default root-relative resolution.
func WithPathOverrides(overrides []PathOverride) Option {
	return func(l *FileLoader) {
		l.overrides = append(l.overrides, overrides...)
	}
}

// LoadPathOverridesFile reads a JSON file of the form
// `[{"oldPrefix": "bower_components/", "newPath": "vendor/bower"}]` and
// returns the PathOverrides it describes. It is the analyzer-domain
// analog of parsing a go.mod replace block: same "old path remaps to a
// local directory" idea, expressed as a small JSON manifest instead of
// go.mod syntax since there is no go.mod here to read it from.
func LoadPathOverridesFile(path string) ([]PathOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading path overrides %q: %w", path, err)
	}
	var overrides []PathOverride
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("loader: parsing path overrides %q: %w", path, err)
	}
	return overrides, nil
}

// NewFileLoader creates a loader rooted at rootDir. rootDir should
// normally be the directory containing the entry document; RootDir()
// is later used by query operations to decide whether a document lies
// outside the project (QueryOptions.externalPackages).
func NewFileLoader(rootDir string, opts ...Option) (*FileLoader, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("loader: resolving root dir %q: %w", rootDir, err)
	}
	l := &FileLoader{
		rootDir: abs,
		fsys:    osFS{},
		overlay: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// RootDir returns the project root directory this loader was constructed
// with.
func (l *FileLoader) RootDir() string {
	return l.rootDir
}

// CanResolve reports whether a URL is one this resolver will canonicalize:
// every non-empty URL.
func (l *FileLoader) CanResolve(url string) bool {
	return url != ""
}

// Resolve canonicalizes url to an absolute, slash-normalized path rooted
// at l.rootDir (relative URLs) or left as-is if already absolute. Any
// matching PathOverride is applied first, the same way a go.mod replace
// directive takes priority over ordinary import-path resolution.
func (l *FileLoader) Resolve(url string) string {
	url = strings.TrimPrefix(url, "file://")

	for _, o := range l.overrides {
		if strings.HasPrefix(url, o.OldPrefix) {
			remainder := strings.TrimPrefix(url, o.OldPrefix)
			remainder = strings.TrimPrefix(remainder, "/")
			newPath := o.NewPath
			if !filepath.IsAbs(newPath) {
				newPath = filepath.Join(l.rootDir, newPath)
			}
			if remainder != "" {
				newPath = filepath.Join(newPath, remainder)
			}
			return filepath.Clean(newPath)
		}
	}

	if filepath.IsAbs(url) {
		return filepath.Clean(url)
	}
	return filepath.Clean(filepath.Join(l.rootDir, url))
}

// CanLoad reports whether this loader can serve url: always true, since
// FileLoader is the catch-all default.
func (l *FileLoader) CanLoad(url string) bool {
	return true
}

// Load returns the exact text of url. Overlay entries are checked first,
// so callers can pass modified-but-unsaved content for a URL without
// touching the filesystem.
func (l *FileLoader) Load(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.RLock()
	if content, ok := l.overlay[url]; ok {
		l.mu.RUnlock()
		return string(content), nil
	}
	l.mu.RUnlock()

	data, err := l.fsys.ReadFile(url)
	if err != nil {
		return "", fmt.Errorf("loader: reading %q: %w", url, err)
	}
	return string(data), nil
}

// SetOverlay replaces the in-memory content for a single URL. Used by the
// analyzer's explicit-contents analyze(url, contents) path (spec.md §4.1).
func (l *FileLoader) SetOverlay(url, contents string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.overlay[url] = []byte(contents)
}

// IsExternal reports whether url lies outside the project root, per
// QueryOptions.externalPackages (spec.md §4.5).
func (l *FileLoader) IsExternal(url string) bool {
	resolved := l.Resolve(url)
	rel, err := filepath.Rel(l.rootDir, resolved)
	if err != nil {
		return true
	}
	return strings.HasPrefix(rel, "..")
}
