// Package webtreetest is a small test harness for building a project
// tree on disk and analyzing it: it writes real temporary files rather
// than an in-memory filesystem, since loader.FileLoader is rooted in the
// OS filesystem.
package webtreetest

import (
	"os"
	"path/filepath"
	"testing"

	webtree "github.com/webtree-go/webtree"
	"github.com/webtree-go/webtree/loader"
)

// WriteFiles creates a temporary directory populated with files, keyed by
// path relative to the directory root. Cleanup is handled by t.TempDir.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%q): %v", path, err)
		}
	}
	return dir
}

// NewAnalyzer builds a FileLoader rooted at dir and an Analyzer over it,
// applying opts in order.
func NewAnalyzer(t *testing.T, dir string, opts ...webtree.Option) *webtree.Analyzer {
	t.Helper()
	ld, err := loader.NewFileLoader(dir)
	if err != nil {
		t.Fatalf("NewFileLoader(%q): %v", dir, err)
	}
	a, err := webtree.New(ld, opts...)
	if err != nil {
		t.Fatalf("webtree.New: %v", err)
	}
	return a
}

// Analyze runs WriteFiles then NewAnalyzer in one call and returns the
// Analyzer. It does not analyze anything itself: entry is not used, and
// the caller runs Analyzer.Analyze to get a Document.
func Analyze(t *testing.T, files map[string]string, entry string, opts ...webtree.Option) *webtree.Analyzer {
	t.Helper()
	dir := WriteFiles(t, files)
	return NewAnalyzer(t, dir, opts...)
}
