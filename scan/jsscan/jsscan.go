//go:build cgo

// Package jsscan implements the default Scanner for JavaScript documents
// on top of parse/jsdoc's tree-sitter AST, following the same
// node-type/field-name traversal SimplyLiz-CodeMCP uses to pull symbols
// out of a *sitter.Node tree.
package jsscan

import (
	"context"
	"strings"

	"github.com/webtree-go/webtree/parse"
	"github.com/webtree-go/webtree/parse/jsdoc"
	"github.com/webtree-go/webtree/scan"
	"github.com/webtree-go/webtree/warning"
)

// Scanner is the default JavaScript Scanner.
type Scanner struct{}

func New() *Scanner { return &Scanner{} }

func (s *Scanner) Scan(ctx context.Context, doc *parse.ParsedDocument, attachedComment string) ([]scan.ScannedFeature, []warning.Warning, error) {
	var features []scan.ScannedFeature

	doc.ForEachNode(func(n parse.Node) bool {
		jn, ok := n.(*jsdoc.Node)
		if !ok {
			return true
		}

		switch jn.NodeType() {
		case "import_statement":
			if f := scanImportStatement(doc, jn); f != nil {
				features = append(features, f)
			}
		case "call_expression":
			features = append(features, scanCallExpression(doc, jn)...)
		case "function_declaration":
			if f := scanFunctionDeclaration(doc, jn); f != nil {
				features = append(features, f)
			}
		case "variable_declarator":
			if f := scanMixinDeclarator(doc, jn); f != nil {
				features = append(features, f)
			}
		case "assignment_expression":
			if f := scanNamespaceAssignment(doc, jn); f != nil {
				features = append(features, f)
			}
		}
		return true
	})

	return features, nil, nil
}

func stringLiteralValue(n *jsdoc.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	typ := n.NodeType()
	if typ != "string" && typ != "template_string" {
		return "", false
	}
	text := n.Text()
	if len(text) >= 2 {
		return text[1 : len(text)-1], true
	}
	return "", false
}

func scanImportStatement(doc *parse.ParsedDocument, jn *jsdoc.Node) scan.ScannedFeature {
	source := jn.ChildByFieldName("source")
	url, ok := stringLiteralValue(source)
	if !ok || url == "" {
		return nil
	}
	r := doc.SourceRangeForNode(jn)
	urlRange := r
	if source != nil {
		urlRange = doc.SourceRangeForNode(source)
	}
	return scan.NewScannedImport(scan.ImportTypeJSImport, url, r, urlRange)
}

func scanCallExpression(doc *parse.ParsedDocument, jn *jsdoc.Node) []scan.ScannedFeature {
	callee := jn.ChildByFieldName("function")
	if callee == nil {
		return nil
	}
	name := callee.Text()

	switch {
	case name == "require":
		if arg := firstArgument(jn); arg != nil {
			if url, ok := stringLiteralValue(arg); ok && url != "" {
				r := doc.SourceRangeForNode(jn)
				return []scan.ScannedFeature{scan.NewScannedImport(scan.ImportTypeJSImport, url, r, doc.SourceRangeForNode(arg))}
			}
		}

	case name == "customElements.define":
		args := argumentList(jn)
		if len(args) < 1 {
			return nil
		}
		tag, ok := stringLiteralValue(args[0])
		if !ok || tag == "" {
			return nil
		}
		className := ""
		if len(args) >= 2 {
			className = args[1].Text()
		}
		return []scan.ScannedFeature{scan.NewScannedElement(tag, className, doc.SourceRangeForNode(jn))}

	case name == "Polymer" || name == "Polymer.Element" || name == "Polymer.LegacyElementMixin":
		args := argumentList(jn)
		if len(args) < 1 {
			return nil
		}
		return []scan.ScannedFeature{scanPolymerObject(doc, jn, args[0])}

	case callee.NodeType() == "identifier":
		// A bare top-level identifier call target (e.g. `someHelper()`)
		// that isn't one of the recognized declarations above refers to
		// a function defined elsewhere in the document graph.
		return []scan.ScannedFeature{scan.NewScannedReference(name, scan.KindFunction, doc.SourceRangeForNode(callee))}
	}

	return nil
}

func firstArgument(call *jsdoc.Node) *jsdoc.Node {
	args := argumentList(call)
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// argumentList returns the positional argument nodes of a call
// expression, skipping the punctuation children tree-sitter includes in
// the "arguments" node (parens, commas).
func argumentList(call *jsdoc.Node) []*jsdoc.Node {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var out []*jsdoc.Node
	for _, c := range argsNode.Children() {
		child, ok := c.(*jsdoc.Node)
		if !ok {
			continue
		}
		switch child.NodeType() {
		case "(", ")", ",":
			continue
		}
		out = append(out, child)
	}
	return out
}

// scanPolymerObject extracts is/properties/observers/listeners/behaviors
// from the object literal passed to Polymer({...}) (spec.md §4.6).
func scanPolymerObject(doc *parse.ParsedDocument, call *jsdoc.Node, obj *jsdoc.Node) scan.ScannedFeature {
	tagName := ""
	var props []scan.PropertyInfo
	var methods []string
	var observers []scan.ObserverInfo
	var listeners []scan.ListenerInfo
	var behaviors []string

	if obj.NodeType() == "object" {
		for _, c := range obj.Children() {
			pair, ok := c.(*jsdoc.Node)
			if !ok || pair.NodeType() != "pair" {
				continue
			}
			key := pair.ChildByFieldName("key")
			value := pair.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			keyName := strings.Trim(key.Text(), `"'`)

			switch keyName {
			case "is":
				if v, ok := stringLiteralValue(value); ok {
					tagName = v
				}
			case "properties":
				props = scanProperties(value)
			case "observers":
				observers = scanObservers(value)
			case "listeners":
				listeners = scanListeners(value)
			case "behaviors":
				behaviors = scanIdentifierArray(value)
			default:
				if value.NodeType() == "function" || value.NodeType() == "method_definition" || value.NodeType() == "arrow_function" {
					methods = append(methods, keyName)
				}
			}
		}
	}

	spe := scan.NewScannedPolymerElement(tagName, doc.SourceRangeForNode(call))
	spe.DomModuleID = tagName
	spe.Properties = props
	spe.Methods = methods
	spe.Observers = observers
	spe.Listeners = listeners
	spe.BehaviorNames = behaviors
	spe.ScriptNode = call
	return spe
}

func scanProperties(node *jsdoc.Node) []scan.PropertyInfo {
	var out []scan.PropertyInfo
	if node.NodeType() != "object" {
		return out
	}
	for _, c := range node.Children() {
		pair, ok := c.(*jsdoc.Node)
		if !ok || pair.NodeType() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil {
			continue
		}
		name := strings.Trim(key.Text(), `"'`)
		typ := ""
		if value != nil {
			typ = findPropertyType(value)
		}
		out = append(out, scan.PropertyInfo{Name: name, Type: typ, Node: pair})
	}
	return out
}

func findPropertyType(value *jsdoc.Node) string {
	if value.NodeType() != "object" {
		return ""
	}
	for _, c := range value.Children() {
		pair, ok := c.(*jsdoc.Node)
		if !ok || pair.NodeType() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		if key != nil && strings.Trim(key.Text(), `"'`) == "type" {
			if v := pair.ChildByFieldName("value"); v != nil {
				return v.Text()
			}
		}
	}
	return ""
}

func scanObservers(node *jsdoc.Node) []scan.ObserverInfo {
	var out []scan.ObserverInfo
	if node.NodeType() != "array" {
		return out
	}
	for _, c := range node.Children() {
		el, ok := c.(*jsdoc.Node)
		if !ok {
			continue
		}
		if expr, ok := stringLiteralValue(el); ok {
			out = append(out, scan.ObserverInfo{Expression: expr, Node: el})
		}
	}
	return out
}

func scanListeners(node *jsdoc.Node) []scan.ListenerInfo {
	var out []scan.ListenerInfo
	if node.NodeType() != "object" {
		return out
	}
	for _, c := range node.Children() {
		pair, ok := c.(*jsdoc.Node)
		if !ok || pair.NodeType() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		handler, _ := stringLiteralValue(value)
		out = append(out, scan.ListenerInfo{Event: strings.Trim(key.Text(), `"'`), Handler: handler})
	}
	return out
}

func scanIdentifierArray(node *jsdoc.Node) []string {
	var out []string
	if node.NodeType() != "array" {
		return out
	}
	for _, c := range node.Children() {
		el, ok := c.(*jsdoc.Node)
		if !ok {
			continue
		}
		switch el.NodeType() {
		case "identifier", "member_expression":
			out = append(out, el.Text())
		}
	}
	return out
}

func scanFunctionDeclaration(doc *parse.ParsedDocument, jn *jsdoc.Node) scan.ScannedFeature {
	nameNode := jn.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Text()
	if name == "" {
		return nil
	}
	params := paramNames(jn.ChildByFieldName("parameters"))
	return scan.NewScannedFunction(name, params, doc.SourceRangeForNode(jn))
}

func paramNames(params *jsdoc.Node) []string {
	if params == nil {
		return nil
	}
	var out []string
	for _, c := range params.Children() {
		p, ok := c.(*jsdoc.Node)
		if !ok || p.NodeType() != "identifier" {
			continue
		}
		out = append(out, p.Text())
	}
	return out
}

// scanMixinDeclarator recognizes the community mixin-function idiom:
// `const FooMixin = (superClass) => class extends superClass {...}`.
func scanMixinDeclarator(doc *parse.ParsedDocument, jn *jsdoc.Node) scan.ScannedFeature {
	nameNode := jn.ChildByFieldName("name")
	valueNode := jn.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return nil
	}
	name := nameNode.Text()
	if !strings.HasSuffix(name, "Mixin") {
		return nil
	}
	if valueNode.NodeType() != "arrow_function" {
		return nil
	}
	return scan.NewScannedElementMixin(name, doc.SourceRangeForNode(jn))
}

// scanNamespaceAssignment recognizes `window.Foo = {...}` / `Foo.Bar = {...}`
// top-level namespace object assignments.
func scanNamespaceAssignment(doc *parse.ParsedDocument, jn *jsdoc.Node) scan.ScannedFeature {
	left := jn.ChildByFieldName("left")
	right := jn.ChildByFieldName("right")
	if left == nil || right == nil || right.NodeType() != "object" {
		return nil
	}
	if left.NodeType() != "member_expression" {
		return nil
	}
	property := left.ChildByFieldName("property")
	object := left.ChildByFieldName("object")
	if property == nil {
		return nil
	}
	name := property.Text()
	if object != nil && object.Text() != "window" {
		name = object.Text() + "." + name
	}
	return scan.NewScannedNamespace(name, doc.SourceRangeForNode(jn))
}
