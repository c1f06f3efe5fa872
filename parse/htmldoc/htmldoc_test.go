package htmldoc

import (
	"context"
	"testing"

	"github.com/webtree-go/webtree/parse"
)

func TestParse_AttributeValueOffsets(t *testing.T) {
	contents := `<link rel="import" href="foo.html">`
	doc, err := Parse(context.Background(), contents, "a.html", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var link *Node
	doc.ForEachNode(func(n parse.Node) bool {
		hn, ok := n.(*Node)
		if ok && hn.Tag == "link" {
			link = hn
		}
		return true
	})
	if link == nil {
		t.Fatal("did not find <link> node")
	}

	href, ok := link.Attr("href")
	if !ok {
		t.Fatal("link has no href attribute")
	}
	if !href.HasValueOffsets {
		t.Fatal("href.HasValueOffsets = false, want true")
	}
	if got := contents[href.ValueStart:href.ValueEnd]; got != "foo.html" {
		t.Errorf("contents[ValueStart:ValueEnd] = %q, want %q", got, "foo.html")
	}
}

func TestParse_PrecedingCommentAttribution(t *testing.T) {
	contents := `<!-- doc comment --><my-el></my-el>`
	doc, err := Parse(context.Background(), contents, "a.html", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var el *Node
	doc.ForEachNode(func(n parse.Node) bool {
		hn, ok := n.(*Node)
		if ok && hn.Tag == "my-el" {
			el = hn
		}
		return true
	})
	if el == nil {
		t.Fatal("did not find <my-el> node")
	}

	comment := el.PrecedingComment()
	if comment == nil {
		t.Fatal("PrecedingComment() = nil, want the leading comment")
	}
	if got := comment.Text; got != " doc comment " {
		t.Errorf("comment.Text = %q, want %q", got, " doc comment ")
	}
}

func TestParse_VoidElementsDoNotNest(t *testing.T) {
	contents := `<div><br><span>x</span></div>`
	doc, err := Parse(context.Background(), contents, "a.html", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var span *Node
	doc.ForEachNode(func(n parse.Node) bool {
		hn, ok := n.(*Node)
		if ok && hn.Tag == "span" {
			span = hn
		}
		return true
	})
	if span == nil {
		t.Fatal("did not find <span> node")
	}
	if span.Parent() == nil || span.Parent().Tag != "div" {
		t.Errorf("span.Parent() = %v, want <div> (br must not have swallowed span as a child)", span.Parent())
	}
}
