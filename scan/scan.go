// Package scan defines the scanner contract and registry from spec.md
// §4.2/§6, the ScannedFeature/Feature capability set from §3/§9, and the
// ScannedDocument container with its nested-feature flattening.
//
// ScannedFeature and its resolved counterpart Feature live in the same
// package deliberately (spec.md §9's "polymorphic records behind a small
// capability set" note): the analysis-cache and document-graph packages
// both need to talk about features without talking about each other, so
// the feature vocabulary sits below both.
package scan

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/warning"
)

// Kind is a string tag attached to a feature; a feature may carry several
// (spec.md's GLOSSARY: "Kind").
type Kind string

const (
	KindImport           Kind = "import"
	KindInlineDocument   Kind = "inline-document"
	KindElement          Kind = "element"
	KindPolymerElement   Kind = "polymer-element"
	KindBehavior         Kind = "behavior"
	KindElementMixin     Kind = "element-mixin"
	KindNamespace        Kind = "namespace"
	KindFunction         Kind = "function"
	KindReference        Kind = "reference"
	KindElementReference Kind = "element-reference"
	KindDomModule        Kind = "dom-module"
)

// Import type tags (spec.md §3).
const (
	ImportTypeHTMLImport     = "html-import"
	ImportTypeHTMLScript     = "html-script"
	ImportTypeHTMLStyle      = "html-style"
	ImportTypeJSImport       = "js-import"
	ImportTypeCSSImport      = "css-import"
	ImportTypeLazyHTMLImport = "lazy-html-import"
)

// InlineType tags the language of an inline sub-document.
const (
	InlineTypeJS  = "js"
	InlineTypeCSS = "css"
)

// Feature is the resolved counterpart of a ScannedFeature.
type Feature interface {
	Kinds() map[Kind]bool
	Identifiers() map[string]bool
	SourceRange() warning.SourceRange
}

// ResolveContext is the capability a ScannedFeature needs from the
// document being resolved in order to produce its resolved Feature.
// GetOnlyAtID implements the getOnlyAtId semantics of spec.md §4.5/§4.6:
// imported=false searches only features already added to the local
// document's index during this resolution pass (earlier-ordered
// features only); imported=true additionally searches transitively
// imported documents, including ones still mid-resolution (whose index
// may be incomplete — spec.md §9's fixed-point design note).
type ResolveContext interface {
	DocumentURL() string
	GetOnlyAtID(kind Kind, id string, imported bool) (Feature, bool)
	// ResolveURL canonicalizes a raw import/reference URL relative to the
	// document being resolved (spec.md §4.3's loader Resolve step).
	ResolveURL(raw string) string
}

// ScannedFeature is the language-neutral, tagged record every scanner
// emits (spec.md §3).
type ScannedFeature interface {
	Kinds() map[Kind]bool
	Identifiers() map[string]bool
	SourceRange() warning.SourceRange
	Warnings() []warning.Warning
	Resolve(ctx ResolveContext) (Feature, []warning.Warning)
}

// Base is embedded by every concrete ScannedFeature/Feature to satisfy
// the shared capability set without repeating bookkeeping.
type Base struct {
	KindSet         map[Kind]bool
	IdentifierSet   map[string]bool
	Range           warning.SourceRange
	FeatureWarnings []warning.Warning
	ASTNode         parse.Node
	JSDoc           string
}

func NewBase(kinds []Kind, ids []string, r warning.SourceRange) Base {
	ks := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		ks[k] = true
	}
	idset := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			idset[id] = true
		}
	}
	return Base{KindSet: ks, IdentifierSet: idset, Range: r}
}

func (b *Base) Kinds() map[Kind]bool             { return b.KindSet }
func (b *Base) Identifiers() map[string]bool     { return b.IdentifierSet }
func (b *Base) SourceRange() warning.SourceRange { return b.Range }
func (b *Base) Warnings() []warning.Warning      { return b.FeatureWarnings }

// AddWarning appends a warning to the feature's own warning list, used by
// Resolve implementations that downgrade to a degraded feature rather
// than failing outright (spec.md §7, "Resolution failure").
func (b *Base) AddWarning(w warning.Warning) {
	b.FeatureWarnings = append(b.FeatureWarnings, w)
}

// IsElementLike reports whether kinds contains "element", which governs
// attached-comment attribution (spec.md §4.2).
func IsElementLike(kinds map[Kind]bool) bool {
	return kinds[KindElement]
}

// ScannedDocument is the product of scanning one ParsedDocument: its own
// feature list plus any warnings raised while scanning it (spec.md §3).
type ScannedDocument struct {
	Document *parse.ParsedDocument
	Features []ScannedFeature
	Warnings []warning.Warning
	IsInline bool

	mu sync.Mutex
}

// NewScannedDocument builds a ScannedDocument.
func NewScannedDocument(doc *parse.ParsedDocument, features []ScannedFeature, warnings []warning.Warning) *ScannedDocument {
	return &ScannedDocument{Document: doc, Features: features, Warnings: warnings, IsInline: doc.IsInline}
}

// AddWarning appends a warning. Used when a dependency-scan failure
// (inline-document scan error) is folded into the parent rather than
// surfaced directly (spec.md §4.4).
func (sd *ScannedDocument) AddWarning(w warning.Warning) {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	sd.Warnings = append(sd.Warnings, w)
}

// GetNestedFeatures flattens inline sub-documents into the feature
// stream: every ScannedInlineDocument feature whose ScannedDocument slot
// has been populated is replaced, in place, by that sub-document's own
// nested features (recursively). Flattening stops at ScannedImport
// boundaries — imports are followed via the import graph, not inlined
// here (spec.md §3).
func (sd *ScannedDocument) GetNestedFeatures() []ScannedFeature {
	out := make([]ScannedFeature, 0, len(sd.Features))
	for _, f := range sd.Features {
		if inline, ok := f.(*ScannedInlineDocument); ok {
			if inline.scannedDocument() != nil {
				out = append(out, inline.scannedDocument().GetNestedFeatures()...)
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// ScannedImport records a cross-document edge declared in source
// (spec.md §3). Type is one of the ImportType* tags.
type ScannedImport struct {
	Base
	Type            string
	URL             string
	URLSourceRange  warning.SourceRange
	scannedDocMu    sync.Mutex
	scannedDocument *ScannedDocument
}

// NewScannedImport builds a ScannedImport.
func NewScannedImport(typ, url string, r, urlRange warning.SourceRange) *ScannedImport {
	si := &ScannedImport{Type: typ, URL: url, URLSourceRange: urlRange}
	si.Base = NewBase([]Kind{KindImport}, []string{url}, r)
	return si
}

// SetScannedDocument assigns the nested document once the recursive scan
// of the import target has completed. A fire-and-forget assignment here
// would race with readers; callers MUST await the scan before calling
// this, and scanImport (see the root package) does exactly that.
func (si *ScannedImport) SetScannedDocument(sd *ScannedDocument) {
	si.scannedDocMu.Lock()
	defer si.scannedDocMu.Unlock()
	si.scannedDocument = sd
}

func (si *ScannedImport) ScannedDocument() *ScannedDocument {
	si.scannedDocMu.Lock()
	defer si.scannedDocMu.Unlock()
	return si.scannedDocument
}

func (si *ScannedImport) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &ImportFeature{Base: si.Base, Type: si.Type, URL: ctx.ResolveURL(si.URL), RawURL: si.URL}, nil
}

// ImportFeature is the resolved counterpart of ScannedImport. It carries
// only the target URL, not a pointer to the target Document: the
// document graph (package docgraph) resolves URL → Document lazily at
// query time through its own lookup, which keeps this package free of a
// dependency on docgraph. URL is canonicalized against the owning
// document; RawURL is the literal text that appeared in source.
type ImportFeature struct {
	Base
	Type   string
	URL    string
	RawURL string
}

// IsLazy reports whether this import should not be followed eagerly.
func (f *ImportFeature) IsLazy() bool { return f.Type == ImportTypeLazyHTMLImport }

// ScannedInlineDocument marks a sub-document extracted from a host
// document (spec.md §3). scannedDocument is populated asynchronously by
// the dependency scan and consumed by GetNestedFeatures.
type ScannedInlineDocument struct {
	Base
	Type            string // InlineType*
	Contents        string
	LocationOffset  warning.LocationOffset
	AttachedComment string

	mu   sync.Mutex
	sdoc *ScannedDocument
}

// NewScannedInlineDocument builds a ScannedInlineDocument.
func NewScannedInlineDocument(typ, contents string, offset warning.LocationOffset, r warning.SourceRange) *ScannedInlineDocument {
	sid := &ScannedInlineDocument{Type: typ, Contents: contents, LocationOffset: offset}
	sid.Base = NewBase([]Kind{KindInlineDocument}, nil, r)
	return sid
}

func (sid *ScannedInlineDocument) SetScannedDocument(sd *ScannedDocument) {
	sid.mu.Lock()
	defer sid.mu.Unlock()
	sid.sdoc = sd
}

func (sid *ScannedInlineDocument) scannedDocument() *ScannedDocument {
	sid.mu.Lock()
	defer sid.mu.Unlock()
	return sid.sdoc
}

// Resolve is never actually invoked in a correct pipeline: GetNestedFeatures
// splices this marker's nested features into the stream before Document.resolve
// ever walks it. It is implemented anyway so ScannedInlineDocument satisfies
// ScannedFeature uniformly.
func (sid *ScannedInlineDocument) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return nil, nil
}

// DomModule models a Polymer `<dom-module id="...">` declaration.
type DomModule struct {
	Base
	ID string
}

func NewDomModule(id string, r warning.SourceRange) *DomModule {
	dm := &DomModule{ID: id}
	dm.Base = NewBase([]Kind{KindDomModule}, []string{id}, r)
	return dm
}

func (dm *DomModule) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &DomModuleFeature{Base: dm.Base, ID: dm.ID}, nil
}

type DomModuleFeature struct {
	Base
	ID string
}

// ScannedElement models a plain custom element (customElements.define).
type ScannedElement struct {
	Base
	TagName    string
	ClassName  string
	Attributes []string
}

func NewScannedElement(tagName, className string, r warning.SourceRange) *ScannedElement {
	ids := []string{tagName}
	if className != "" {
		ids = append(ids, className)
	}
	se := &ScannedElement{TagName: tagName, ClassName: className}
	se.Base = NewBase([]Kind{KindElement}, ids, r)
	return se
}

func (se *ScannedElement) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &ElementFeature{Base: se.Base, TagName: se.TagName, ClassName: se.ClassName, Attributes: se.Attributes}, nil
}

type ElementFeature struct {
	Base
	TagName    string
	ClassName  string
	Attributes []string
}

// PropertyInfo, ObserverInfo, ListenerInfo model the Polymer-specific
// declarations carried by a ScannedPolymerElement (spec.md §4.6).
type PropertyInfo struct {
	Name       string
	Type       string
	Node       parse.Node
	Expression string
}

type ObserverInfo struct {
	Expression string
	Node       parse.Node
	Parsed     *DataBindingExpression
}

// DataBindingExpression is a minimal parsed form of a Polymer
// `{{expr}}`/`[[expr]]` observer/listener body: the bare identifier or
// dotted-path text plus whether it used the two-way (`{{`) delimiter.
type DataBindingExpression struct {
	Path     string
	TwoWay   bool
}

type ListenerInfo struct {
	Event      string
	Handler    string
}

// ScannedPolymerElement models a `Polymer({is: '...', ...})` declaration.
type ScannedPolymerElement struct {
	Base
	TagName       string
	ClassName     string
	Properties    []PropertyInfo
	Methods       []string
	Observers     []ObserverInfo
	Listeners     []ListenerInfo
	BehaviorNames []string
	LocalIDs      []string
	DomModuleID   string
	ScriptNode    parse.Node
}

func NewScannedPolymerElement(tagName string, r warning.SourceRange) *ScannedPolymerElement {
	spe := &ScannedPolymerElement{TagName: tagName}
	spe.Base = NewBase([]Kind{KindElement, KindPolymerElement}, []string{tagName}, r)
	return spe
}

func (spe *ScannedPolymerElement) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	var warnings []warning.Warning
	behaviors, behaviorWarnings := resolveBehaviors(ctx, spe.BehaviorNames, spe.Range, map[string]bool{})
	warnings = append(warnings, behaviorWarnings...)

	var domModule *DomModuleFeature
	if spe.DomModuleID != "" {
		if f, ok := ctx.GetOnlyAtID(KindDomModule, spe.DomModuleID, false); ok {
			if dm, ok := f.(*DomModuleFeature); ok {
				domModule = dm
			}
		}
	}

	return &PolymerElement{
		Base:        spe.Base,
		TagName:     spe.TagName,
		ClassName:   spe.ClassName,
		Properties:  spe.Properties,
		Methods:     spe.Methods,
		Observers:   spe.Observers,
		Listeners:   spe.Listeners,
		Behaviors:   behaviors,
		LocalIDs:    spe.LocalIDs,
		DomModule:   domModule,
		ScriptNode:  spe.ScriptNode,
	}, warnings
}

// resolveBehaviors recursively flattens a behavior assignment list
// against the document's behavior index, deduplicating by identity and
// emitting a warning for any unresolved name (spec.md §4.6).
func resolveBehaviors(ctx ResolveContext, names []string, r warning.SourceRange, seen map[string]bool) ([]*BehaviorFeature, []warning.Warning) {
	var out []*BehaviorFeature
	var warnings []warning.Warning
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		f, ok := ctx.GetOnlyAtID(KindBehavior, name, true)
		if !ok {
			warnings = append(warnings, warning.Warning{
				Code:        warning.CodeBehaviorNotRecognized,
				Message:     fmt.Sprintf("behavior %q is not recognized", name),
				SourceRange: r,
				Severity:    warning.WarningSeverity,
			})
			continue
		}
		bf, ok := f.(*BehaviorFeature)
		if !ok {
			continue
		}
		out = append(out, bf)
		nested, nestedWarnings := resolveBehaviors(ctx, bf.BehaviorNames, r, seen)
		out = append(out, nested...)
		warnings = append(warnings, nestedWarnings...)
	}
	return out, warnings
}

// PolymerElement is the resolved counterpart of ScannedPolymerElement.
type PolymerElement struct {
	Base
	TagName    string
	ClassName  string
	Properties []PropertyInfo
	Methods    []string
	Observers  []ObserverInfo
	Listeners  []ListenerInfo
	Behaviors  []*BehaviorFeature
	LocalIDs   []string
	DomModule  *DomModuleFeature
	ScriptNode parse.Node

	annotationsOnce sync.Once
	annotations     map[string]string
}

// Annotation extracts the value of a single `@name[:value]` tag from the
// element's attached JSDoc comment, e.g. `@demo:demo/index.html` or the
// bare `@polymerBehavior`. Mirrors podhmo-go-scan's TypeInfo.Annotation:
// a tag with no `:value` part is present with an empty value, and a
// missing tag reports ok=false.
func (pe *PolymerElement) Annotation(name string) (value string, ok bool) {
	pe.annotationsOnce.Do(func() {
		pe.annotations = ParseAnnotations(pe.JSDoc)
	})
	value, ok = pe.annotations[name]
	return value, ok
}

// ParseAnnotations scans a JSDoc comment body for `@name[:value]` tags,
// one per line, and returns them as a name-to-value map. A tag with no
// `:value` suffix maps to the empty string.
func ParseAnnotations(doc string) map[string]string {
	out := make(map[string]string)
	if doc == "" {
		return out
	}
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			continue
		}
		name, value, hasValue := strings.Cut(line[1:], ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if hasValue {
			out[name] = strings.TrimSpace(value)
		} else {
			out[name] = ""
		}
	}
	return out
}

// ScannedBehavior models a Polymer behavior object, referenced by name
// from elsewhere (spec.md GLOSSARY).
type ScannedBehavior struct {
	Base
	Name          string
	Properties    []PropertyInfo
	BehaviorNames []string // behaviors this behavior itself composes
}

func NewScannedBehavior(name string, r warning.SourceRange) *ScannedBehavior {
	sb := &ScannedBehavior{Name: name}
	sb.Base = NewBase([]Kind{KindBehavior}, []string{name}, r)
	return sb
}

func (sb *ScannedBehavior) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &BehaviorFeature{Base: sb.Base, Name: sb.Name, Properties: sb.Properties, BehaviorNames: sb.BehaviorNames}, nil
}

type BehaviorFeature struct {
	Base
	Name          string
	Properties    []PropertyInfo
	BehaviorNames []string
}

// ScannedElementMixin models a mixin function (spec.md §3).
type ScannedElementMixin struct {
	Base
	Name string
}

func NewScannedElementMixin(name string, r warning.SourceRange) *ScannedElementMixin {
	sem := &ScannedElementMixin{Name: name}
	sem.Base = NewBase([]Kind{KindElementMixin}, []string{name}, r)
	return sem
}

func (sem *ScannedElementMixin) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &ElementMixinFeature{Base: sem.Base, Name: sem.Name}, nil
}

type ElementMixinFeature struct {
	Base
	Name string
}

// ScannedNamespace models a JS namespace object literal assignment
// (`window.Foo = {...}` / `namespace Foo {...}`).
type ScannedNamespace struct {
	Base
	Name string
}

func NewScannedNamespace(name string, r warning.SourceRange) *ScannedNamespace {
	sn := &ScannedNamespace{Name: name}
	sn.Base = NewBase([]Kind{KindNamespace}, []string{name}, r)
	return sn
}

func (sn *ScannedNamespace) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &NamespaceFeature{Base: sn.Base, Name: sn.Name}, nil
}

type NamespaceFeature struct {
	Base
	Name string
}

// ScannedFunction models a top-level function declaration.
type ScannedFunction struct {
	Base
	Name   string
	Params []string
}

func NewScannedFunction(name string, params []string, r warning.SourceRange) *ScannedFunction {
	sf := &ScannedFunction{Name: name, Params: params}
	sf.Base = NewBase([]Kind{KindFunction}, []string{name}, r)
	return sf
}

func (sf *ScannedFunction) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	return &FunctionFeature{Base: sf.Base, Name: sf.Name, Params: sf.Params}, nil
}

type FunctionFeature struct {
	Base
	Name   string
	Params []string
}

// ScannedReference records "some identifier appears here and refers to
// something by name" (spec.md §4.6 / GLOSSARY). RefKind is the Kind the
// reference is expected to resolve against (e.g. KindElement).
type ScannedReference struct {
	Base
	Identifier string
	RefKind    Kind
}

func NewScannedReference(identifier string, refKind Kind, r warning.SourceRange) *ScannedReference {
	sr := &ScannedReference{Identifier: identifier, RefKind: refKind}
	sr.Base = NewBase([]Kind{KindReference}, nil, r)
	return sr
}

func (sr *ScannedReference) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	target, ok := ctx.GetOnlyAtID(sr.RefKind, sr.Identifier, true)
	rf := &Reference{Base: sr.Base, Identifier: sr.Identifier, RefKind: sr.RefKind, Target: target}
	if !ok {
		return rf, []warning.Warning{{
			Code:        warning.CodeCouldNotResolveReference,
			Message:     fmt.Sprintf("could not resolve reference to %q", sr.Identifier),
			SourceRange: sr.Range,
			Severity:    warning.WarningSeverity,
		}}
	}
	return rf, nil
}

// Reference is the resolved counterpart of ScannedReference. Target is
// nil when resolution failed to find exactly one match.
type Reference struct {
	Base
	Identifier string
	RefKind    Kind
	Target     Feature
}

// ScannedElementReference records a use of a custom element in markup
// (e.g. `<my-el>`), resolved the same way as ScannedReference but always
// against KindElement.
type ScannedElementReference struct {
	*ScannedReference
}

func NewScannedElementReference(tagName string, r warning.SourceRange) *ScannedElementReference {
	ser := &ScannedElementReference{ScannedReference: NewScannedReference(tagName, KindElement, r)}
	ser.KindSet[KindElementReference] = true
	return ser
}

func (ser *ScannedElementReference) Resolve(ctx ResolveContext) (Feature, []warning.Warning) {
	feat, warnings := ser.ScannedReference.Resolve(ctx)
	if ref, ok := feat.(*Reference); ok {
		return &ElementReference{Reference: *ref}, warnings
	}
	return feat, warnings
}

type ElementReference struct {
	Reference
}

// Scanner is the contract external per-language scanners implement.
type Scanner interface {
	Scan(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]ScannedFeature, []warning.Warning, error)
}

// ScannerFunc adapts a function to the Scanner interface.
type ScannerFunc func(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]ScannedFeature, []warning.Warning, error)

func (f ScannerFunc) Scan(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]ScannedFeature, []warning.Warning, error) {
	return f(ctx, doc, attachedComment)
}

// Registry maps a file-type tag to an ordered set of scanners
// (spec.md §4.2: "the concatenation of their outputs is the feature list
// of the scanned document").
type Registry struct {
	mu       sync.RWMutex
	scanners map[string][]Scanner
}

func NewRegistry() *Registry {
	return &Registry{scanners: make(map[string][]Scanner)}
}

// Register appends a scanner to fileType's ordered list.
func (r *Registry) Register(fileType string, s Scanner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanners[fileType] = append(r.scanners[fileType], s)
}

// Lookup returns the ordered scanner list for fileType (possibly empty).
func (r *Registry) Lookup(fileType string) []Scanner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Scanner, len(r.scanners[fileType]))
	copy(out, r.scanners[fileType])
	return out
}

// Types returns every file type with at least one registered scanner,
// sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.scanners))
	for k := range r.scanners {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Scan runs every registered scanner for fileType in order and
// concatenates their output. If the first emitted feature is
// element-like and attachedComment is non-empty, attachedComment is
// attributed to it as documentation (spec.md §4.2).
func (r *Registry) Scan(ctx context.Context, fileType string, doc *parse.ParsedDocument, attachedComment string) ([]ScannedFeature, []warning.Warning) {
	var features []ScannedFeature
	var warnings []warning.Warning
	for _, s := range r.Lookup(fileType) {
		fs, ws, err := s.Scan(ctx, doc, attachedComment)
		if err != nil {
			warnings = append(warnings, warning.Warning{
				Code:     "scan-error",
				Message:  err.Error(),
				Severity: warning.Error,
				SourceRange: warning.SourceRange{
					File:  doc.URL,
					Start: warning.Position{Line: 1, Column: 1},
				},
			})
			continue
		}
		features = append(features, fs...)
		warnings = append(warnings, ws...)
	}
	if attachedComment != "" && len(features) > 0 && IsElementLike(features[0].Kinds()) {
		attributeComment(features[0], attachedComment)
	}
	return features, warnings
}

// attributeComment sets the JSDoc field on a feature's embedded Base via
// an interface assertion on the unexported setJSDoc method that Base
// provides, since Go has no way to reach an embedded field through the
// ScannedFeature interface alone.
func attributeComment(f ScannedFeature, comment string) {
	type jsdocSetter interface{ setJSDoc(string) }
	if s, ok := f.(jsdocSetter); ok {
		s.setJSDoc(comment)
	}
}

func (b *Base) setJSDoc(s string) { b.JSDoc = s }
