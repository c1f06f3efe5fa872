//go:build cgo

package webtree_test

import (
	"context"
	"testing"

	"github.com/webtree-go/webtree/docgraph"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/webtreetest"
)

func TestAnalyze_PolymerElementFindableByIdAcrossImport(t *testing.T) {
	a := webtreetest.Analyze(t, map[string]string{
		"index.html": `<link rel="import" href="my-el.html">`,
		"my-el.html": `<dom-module id="my-el">
<script>
Polymer({
  is: 'my-el',
  properties: {
    name: { type: String }
  }
});
</script>
</dom-module>`,
	}, "index.html")

	doc, err := a.Analyze(context.Background(), "index.html")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	el, ok := doc.GetOnlyAtID(scan.KindPolymerElement, "my-el", docgraph.QueryOptions{Imported: true})
	if !ok {
		t.Fatalf("GetOnlyAtID(polymer-element, my-el, imported) not found")
	}
	pe, ok := el.(*scan.PolymerElement)
	if !ok {
		t.Fatalf("element type = %T, want *scan.PolymerElement", el)
	}
	if len(pe.Properties) != 1 || pe.Properties[0].Name != "name" {
		t.Errorf("pe.Properties = %v, want one property named name", pe.Properties)
	}

	// Without Imported, the element declared in the imported document is
	// invisible from index.html (spec.md §4.6).
	if _, ok := doc.GetOnlyAtID(scan.KindPolymerElement, "my-el", docgraph.QueryOptions{}); ok {
		t.Errorf("GetOnlyAtID(polymer-element, my-el) without Imported found the element, want not found")
	}
}

func TestAnalyze_TypeScriptDocumentParsesWithoutScanning(t *testing.T) {
	a := webtreetest.Analyze(t, map[string]string{
		"index.html": `<script type="module" src="app.ts"></script>`,
		"app.ts":     `const x: number = 1;`,
	}, "index.html")

	doc, err := a.Analyze(context.Background(), "index.html")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if warnings := doc.GetWarnings(docgraph.QueryOptions{Imported: true}); len(warnings) != 0 {
		t.Errorf("GetWarnings() = %v, want none: a .ts import should parse even though it has no scanner", warnings)
	}
}

func TestAnalyze_CustomElementReferenceResolvesToDefinition(t *testing.T) {
	a := webtreetest.Analyze(t, map[string]string{
		"index.html": `<link rel="import" href="my-el.html">
<my-el></my-el>`,
		"my-el.html": `<script>
customElements.define('my-el', class extends HTMLElement {});
</script>`,
	}, "index.html")

	doc, err := a.Analyze(context.Background(), "index.html")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	refs := doc.GetByKind(scan.KindElementReference, docgraph.QueryOptions{})
	if len(refs) != 1 {
		t.Fatalf("GetByKind(element-reference) = %v, want 1", refs)
	}
	ref, ok := refs[0].(*scan.ElementReference)
	if !ok {
		t.Fatalf("refs[0] type = %T, want *scan.ElementReference", refs[0])
	}
	if ref.Target == nil {
		t.Errorf("ref.Target = nil, want resolved to the customElements.define declaration")
	}
}
