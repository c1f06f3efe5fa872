package docgraph

import (
	"testing"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// fakeLookup is an in-memory DocumentLookup for tests that don't need
// the cache/loader/analyzer machinery.
type fakeLookup struct {
	docs map[string]*Document
}

func newFakeLookup() *fakeLookup { return &fakeLookup{docs: map[string]*Document{}} }

func (l *fakeLookup) DocumentByURL(url string) (*Document, bool) {
	d, ok := l.docs[url]
	return d, ok
}

func (l *fakeLookup) add(d *Document) { l.docs[d.url] = d }

func scannedDoc(url string, features ...scan.ScannedFeature) *scan.ScannedDocument {
	return scan.NewScannedDocument(&parse.ParsedDocument{URL: url}, features, nil)
}

func TestDocument_Resolve_CyclicImports(t *testing.T) {
	lookup := newFakeLookup()

	elA := scan.NewScannedElement("el-a", "", warning.SourceRange{File: "a.html"})
	impToB := scan.NewScannedImport(scan.ImportTypeHTMLImport, "b.html", warning.SourceRange{File: "a.html"}, warning.SourceRange{})
	docA := NewDocument("a.html", scannedDoc("a.html", elA, impToB), lookup, nil, false, nil)

	elB := scan.NewScannedElement("el-b", "", warning.SourceRange{File: "b.html"})
	impToA := scan.NewScannedImport(scan.ImportTypeHTMLImport, "a.html", warning.SourceRange{File: "b.html"}, warning.SourceRange{})
	docB := NewDocument("b.html", scannedDoc("b.html", elB, impToA), lookup, nil, false, nil)

	lookup.add(docA)
	lookup.add(docB)

	warningsA := docA.Resolve()
	if len(warningsA) != 0 {
		t.Fatalf("docA.Resolve() warnings = %v, want none", warningsA)
	}
	warningsB := docB.Resolve()
	if len(warningsB) != 0 {
		t.Fatalf("docB.Resolve() warnings = %v, want none", warningsB)
	}

	elements := docA.GetByKind(scan.KindElement, QueryOptions{Imported: true})
	if len(elements) != 2 {
		t.Fatalf("GetByKind(element, imported) from docA = %v, want 2 (both directions of the cycle)", elements)
	}

	elementsFromB := docB.GetByKind(scan.KindElement, QueryOptions{Imported: true})
	if len(elementsFromB) != 2 {
		t.Fatalf("GetByKind(element, imported) from docB = %v, want 2", elementsFromB)
	}
}

func TestDocument_GetByKind_LocalOnlyWithoutImported(t *testing.T) {
	lookup := newFakeLookup()
	elA := scan.NewScannedElement("el-a", "", warning.SourceRange{File: "a.html"})
	imp := scan.NewScannedImport(scan.ImportTypeHTMLImport, "b.html", warning.SourceRange{File: "a.html"}, warning.SourceRange{})
	docA := NewDocument("a.html", scannedDoc("a.html", elA, imp), lookup, nil, false, nil)

	elB := scan.NewScannedElement("el-b", "", warning.SourceRange{File: "b.html"})
	docB := NewDocument("b.html", scannedDoc("b.html", elB), lookup, nil, false, nil)
	lookup.add(docA)
	lookup.add(docB)

	docA.Resolve()
	docB.Resolve()

	local := docA.GetByKind(scan.KindElement, QueryOptions{})
	if len(local) != 1 {
		t.Fatalf("GetByKind(element, local) = %v, want 1 (el-a only)", local)
	}
}

func TestDocument_LazyImport_ExcludedByDefault(t *testing.T) {
	lookup := newFakeLookup()
	lazyImp := scan.NewScannedImport(scan.ImportTypeLazyHTMLImport, "lazy.html", warning.SourceRange{File: "a.html"}, warning.SourceRange{})
	docA := NewDocument("a.html", scannedDoc("a.html", lazyImp), lookup, nil, false, nil)

	elLazy := scan.NewScannedElement("el-lazy", "", warning.SourceRange{File: "lazy.html"})
	docLazy := NewDocument("lazy.html", scannedDoc("lazy.html", elLazy), lookup, nil, false, nil)
	lookup.add(docA)
	lookup.add(docLazy)

	docA.Resolve()
	docLazy.Resolve()

	withoutLazy := docA.GetByKind(scan.KindElement, QueryOptions{Imported: true})
	if len(withoutLazy) != 0 {
		t.Fatalf("GetByKind(element, imported) without LazyImports = %v, want none", withoutLazy)
	}

	withLazy := docA.GetByKind(scan.KindElement, QueryOptions{Imported: true, LazyImports: true})
	if len(withLazy) != 1 {
		t.Fatalf("GetByKind(element, imported+lazy) = %v, want 1", withLazy)
	}
}

func TestDocument_GetOnlyAtID_AmbiguousReturnsNotFound(t *testing.T) {
	lookup := newFakeLookup()
	el1 := scan.NewScannedElement("dup-el", "", warning.SourceRange{File: "a.html"})
	el2 := scan.NewScannedElement("dup-el", "", warning.SourceRange{File: "a.html"})
	docA := NewDocument("a.html", scannedDoc("a.html", el1, el2), lookup, nil, false, nil)
	lookup.add(docA)
	docA.Resolve()

	_, ok := docA.GetOnlyAtID(scan.KindElement, "dup-el", QueryOptions{})
	if ok {
		t.Fatalf("GetOnlyAtID() ok = true for a duplicated id, want false")
	}
}

func TestDocument_Resolve_IsIdempotent(t *testing.T) {
	lookup := newFakeLookup()
	el := scan.NewScannedElement("el-a", "", warning.SourceRange{File: "a.html"})
	docA := NewDocument("a.html", scannedDoc("a.html", el), lookup, nil, false, nil)
	lookup.add(docA)

	docA.Resolve()
	if got := docA.State(); got != Resolved {
		t.Fatalf("State() = %v, want Resolved", got)
	}
	// A second call must be a no-op, not re-append features.
	docA.Resolve()
	if got := len(docA.GetFeatures(QueryOptions{})); got != 1 {
		t.Fatalf("GetFeatures() = %d features after re-resolving, want 1", got)
	}
}

func TestDocument_References_ResolveAcrossImports(t *testing.T) {
	lookup := newFakeLookup()
	ref := scan.NewScannedElementReference("my-el", warning.SourceRange{File: "a.html"})
	imp := scan.NewScannedImport(scan.ImportTypeHTMLImport, "b.html", warning.SourceRange{File: "a.html"}, warning.SourceRange{})
	// The import must appear before the reference so the import edge is
	// already in the document's local index by the time the reference
	// resolves (features resolve in document order).
	docA := NewDocument("a.html", scannedDoc("a.html", imp, ref), lookup, nil, false, nil)

	el := scan.NewScannedElement("my-el", "", warning.SourceRange{File: "b.html"})
	docB := NewDocument("b.html", scannedDoc("b.html", el), lookup, nil, false, nil)
	lookup.add(docA)
	lookup.add(docB)

	docB.Resolve()
	warnings := docA.Resolve()
	if len(warnings) != 0 {
		t.Fatalf("docA.Resolve() warnings = %v, want the reference to resolve against the already-resolved import", warnings)
	}

	refs := docA.GetByKind(scan.KindReference, QueryOptions{})
	if len(refs) != 1 {
		t.Fatalf("GetByKind(reference) = %v, want 1", refs)
	}
	elementRef, ok := refs[0].(*scan.ElementReference)
	if !ok {
		t.Fatalf("refs[0] type = %T, want *scan.ElementReference", refs[0])
	}
	if elementRef.Target == nil {
		t.Errorf("elementRef.Target = nil, want resolved to my-el")
	}
}
