package cssscan

import (
	"context"
	"testing"

	"github.com/webtree-go/webtree/parse/cssdoc"
	"github.com/webtree-go/webtree/scan"
)

func TestScan_Import(t *testing.T) {
	doc, err := cssdoc.Parse(context.Background(), `@import "theme.css";`, "a.css", nil)
	if err != nil {
		t.Fatalf("cssdoc.Parse() error = %v", err)
	}

	s := New()
	features, warnings, err := s.Scan(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Scan() warnings = %v, want none", warnings)
	}
	if len(features) != 1 {
		t.Fatalf("Scan() features = %v, want 1 import", features)
	}
	imp, ok := features[0].(*scan.ScannedImport)
	if !ok {
		t.Fatalf("features[0] type = %T, want *scan.ScannedImport", features[0])
	}
	if imp.Type != scan.ImportTypeCSSImport {
		t.Errorf("imp.Type = %q, want %q", imp.Type, scan.ImportTypeCSSImport)
	}
	if imp.URL != "theme.css" {
		t.Errorf("imp.URL = %q, want %q", imp.URL, "theme.css")
	}
}

func TestScan_NoImportsYieldsNoFeatures(t *testing.T) {
	doc, err := cssdoc.Parse(context.Background(), `body { color: red; }`, "a.css", nil)
	if err != nil {
		t.Fatalf("cssdoc.Parse() error = %v", err)
	}

	s := New()
	features, _, err := s.Scan(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(features) != 0 {
		t.Fatalf("Scan() features = %v, want none", features)
	}
}
