package webtree_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	webtree "github.com/webtree-go/webtree"
	"github.com/webtree-go/webtree/loader"
	"github.com/webtree-go/webtree/webtreetest"
)

func TestWithLogger_RecordsCacheHitAndMiss(t *testing.T) {
	var logBuf bytes.Buffer
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: logLevel}))

	dir := webtreetest.WriteFiles(t, map[string]string{
		"a.html": `<p>hello</p>`,
	})
	a := webtreetest.NewAnalyzer(t, dir, webtree.WithLogger(logger))

	if _, err := a.Analyze(context.Background(), "a.html"); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if _, err := a.Analyze(context.Background(), "a.html"); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	out := logBuf.String()
	if !strings.Contains(out, "Analyze CACHE MISS") {
		t.Errorf("log output missing CACHE MISS entry:\n%s", out)
	}
	if !strings.Contains(out, "Analyze CACHE HIT") {
		t.Errorf("log output missing CACHE HIT entry:\n%s", out)
	}
}

func TestWithLogger_RejectsNilLogger(t *testing.T) {
	dir := webtreetest.WriteFiles(t, map[string]string{"a.html": `<p>hello</p>`})
	ld, err := loader.NewFileLoader(dir)
	if err != nil {
		t.Fatalf("NewFileLoader() error = %v", err)
	}
	if _, err := webtree.New(ld, webtree.WithLogger(nil)); err == nil {
		t.Fatal("New() error = nil, want error for nil logger")
	}
}
