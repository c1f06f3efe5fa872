package scan

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/warning"
)

// fakeContext is a minimal ResolveContext for unit-testing Resolve in
// isolation from the document graph.
type fakeContext struct {
	url      string
	byKindID map[Kind]map[string]Feature
}

func newFakeContext(url string) *fakeContext {
	return &fakeContext{url: url, byKindID: map[Kind]map[string]Feature{}}
}

func (f *fakeContext) add(kind Kind, id string, feat Feature) {
	if f.byKindID[kind] == nil {
		f.byKindID[kind] = map[string]Feature{}
	}
	f.byKindID[kind][id] = feat
}

func (f *fakeContext) DocumentURL() string { return f.url }

func (f *fakeContext) GetOnlyAtID(kind Kind, id string, imported bool) (Feature, bool) {
	m, ok := f.byKindID[kind]
	if !ok {
		return nil, false
	}
	feat, ok := m[id]
	return feat, ok
}

func (f *fakeContext) ResolveURL(raw string) string { return raw }

func TestScannedDocument_GetNestedFeatures_FlattensInline(t *testing.T) {
	outer := NewScannedElement("my-el", "", warning.SourceRange{File: "a.html"})

	innerFeature := NewScannedElement("inner-el", "", warning.SourceRange{File: "a.html"})
	innerDoc := NewScannedDocument(&parse.ParsedDocument{URL: "a.html#1", IsInline: true}, []ScannedFeature{innerFeature}, nil)

	inline := NewScannedInlineDocument(InlineTypeJS, "<script>", warning.LocationOffset{}, warning.SourceRange{File: "a.html"})
	inline.SetScannedDocument(innerDoc)

	sd := NewScannedDocument(&parse.ParsedDocument{URL: "a.html"}, []ScannedFeature{outer, inline}, nil)

	got := sd.GetNestedFeatures()
	if len(got) != 2 {
		t.Fatalf("GetNestedFeatures() = %d features, want 2", len(got))
	}
	if got[0] != ScannedFeature(outer) {
		t.Errorf("got[0] = %v, want outer element", got[0])
	}
	if got[1] != ScannedFeature(innerFeature) {
		t.Errorf("got[1] = %v, want flattened inner element", got[1])
	}
}

func TestScannedDocument_GetNestedFeatures_StopsAtImportBoundary(t *testing.T) {
	imp := NewScannedImport(ImportTypeHTMLImport, "other.html", warning.SourceRange{}, warning.SourceRange{})
	// Even though an import target has been scanned, its features are not
	// spliced in: only inline documents flatten.
	imp.SetScannedDocument(NewScannedDocument(&parse.ParsedDocument{URL: "other.html"}, []ScannedFeature{
		NewScannedElement("should-not-appear", "", warning.SourceRange{}),
	}, nil))

	sd := NewScannedDocument(&parse.ParsedDocument{URL: "a.html"}, []ScannedFeature{imp}, nil)
	got := sd.GetNestedFeatures()
	if len(got) != 1 || got[0] != ScannedFeature(imp) {
		t.Fatalf("GetNestedFeatures() = %v, want [imp] unexpanded", got)
	}
}

func TestScannedReference_Resolve_Found(t *testing.T) {
	ctx := newFakeContext("a.html")
	target := &ElementFeature{TagName: "my-el"}
	ctx.add(KindElement, "my-el", target)

	sr := NewScannedReference("my-el", KindElement, warning.SourceRange{File: "a.html"})
	feat, warnings := sr.Resolve(ctx)
	if len(warnings) != 0 {
		t.Fatalf("Resolve() warnings = %v, want none", warnings)
	}
	ref, ok := feat.(*Reference)
	if !ok {
		t.Fatalf("Resolve() feature type = %T, want *Reference", feat)
	}
	if ref.Target != Feature(target) {
		t.Errorf("ref.Target = %v, want %v", ref.Target, target)
	}
}

func TestScannedReference_Resolve_NotFound(t *testing.T) {
	ctx := newFakeContext("a.html")
	sr := NewScannedReference("missing-el", KindElement, warning.SourceRange{File: "a.html"})
	_, warnings := sr.Resolve(ctx)
	if len(warnings) != 1 || warnings[0].Code != warning.CodeCouldNotResolveReference {
		t.Fatalf("Resolve() warnings = %v, want one could-not-resolve-reference warning", warnings)
	}
}

func TestScannedPolymerElement_Resolve_FlattensBehaviorsRecursively(t *testing.T) {
	ctx := newFakeContext("a.html")
	grandparent := &BehaviorFeature{Name: "GrandBehavior"}
	parentBehavior := &BehaviorFeature{Name: "ParentBehavior", BehaviorNames: []string{"GrandBehavior"}}
	ctx.add(KindBehavior, "GrandBehavior", grandparent)
	ctx.add(KindBehavior, "ParentBehavior", parentBehavior)

	spe := NewScannedPolymerElement("my-el", warning.SourceRange{File: "a.html"})
	spe.BehaviorNames = []string{"ParentBehavior"}

	feat, warnings := spe.Resolve(ctx)
	if len(warnings) != 0 {
		t.Fatalf("Resolve() warnings = %v, want none", warnings)
	}
	pe, ok := feat.(*PolymerElement)
	if !ok {
		t.Fatalf("Resolve() feature type = %T, want *PolymerElement", feat)
	}
	if len(pe.Behaviors) != 2 {
		t.Fatalf("pe.Behaviors = %v, want 2 entries (parent + grandparent)", pe.Behaviors)
	}
}

func TestScannedPolymerElement_Resolve_UnknownBehaviorWarns(t *testing.T) {
	ctx := newFakeContext("a.html")
	spe := NewScannedPolymerElement("my-el", warning.SourceRange{File: "a.html"})
	spe.BehaviorNames = []string{"Nope"}

	_, warnings := spe.Resolve(ctx)
	if len(warnings) != 1 || warnings[0].Code != warning.CodeBehaviorNotRecognized {
		t.Fatalf("Resolve() warnings = %v, want one behavior-not-recognized warning", warnings)
	}
}

func TestPolymerElement_Annotation_ParsesTagsFromJSDoc(t *testing.T) {
	ctx := newFakeContext("a.html")
	spe := NewScannedPolymerElement("my-el", warning.SourceRange{File: "a.html"})
	spe.JSDoc = "A demo element.\n@demo:demo/index.html\n@polymerBehavior\n"

	feat, _ := spe.Resolve(ctx)
	pe := feat.(*PolymerElement)

	if v, ok := pe.Annotation("demo"); !ok || v != "demo/index.html" {
		t.Errorf(`Annotation("demo") = (%q, %v), want ("demo/index.html", true)`, v, ok)
	}
	if v, ok := pe.Annotation("polymerBehavior"); !ok || v != "" {
		t.Errorf(`Annotation("polymerBehavior") = (%q, %v), want ("", true)`, v, ok)
	}
	if _, ok := pe.Annotation("missing"); ok {
		t.Error(`Annotation("missing") ok = true, want false`)
	}
}

func TestParseAnnotations_EmptyDoc(t *testing.T) {
	if got := ParseAnnotations(""); len(got) != 0 {
		t.Errorf("ParseAnnotations(\"\") = %v, want empty", got)
	}
}

func TestRegistry_Scan_AttributesLeadingComment(t *testing.T) {
	reg := NewRegistry()
	reg.Register("js", ScannerFunc(func(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]ScannedFeature, []warning.Warning, error) {
		return []ScannedFeature{NewScannedElement("my-el", "", warning.SourceRange{File: doc.URL})}, nil, nil
	}))

	doc := &parse.ParsedDocument{URL: "a.js"}
	features, warnings := reg.Scan(context.Background(), "js", doc, "A leading doc comment.")
	if len(warnings) != 0 {
		t.Fatalf("Scan() warnings = %v, want none", warnings)
	}
	if len(features) != 1 {
		t.Fatalf("Scan() features = %v, want 1", features)
	}
	el, ok := features[0].(*ScannedElement)
	if !ok {
		t.Fatalf("features[0] type = %T, want *ScannedElement", features[0])
	}
	if el.JSDoc != "A leading doc comment." {
		t.Errorf("el.JSDoc = %q, want attributed comment", el.JSDoc)
	}
}

func TestBase_KindsAndIdentifiers(t *testing.T) {
	b := NewBase([]Kind{KindElement, KindPolymerElement}, []string{"my-el", ""}, warning.SourceRange{File: "a.html"})
	if !b.Kinds()[KindElement] || !b.Kinds()[KindPolymerElement] {
		t.Errorf("Kinds() = %v, want both kinds set", b.Kinds())
	}
	if diff := cmp.Diff(map[string]bool{"my-el": true}, b.Identifiers(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Identifiers() mismatch (-want +got):\n%s", diff)
	}
}
