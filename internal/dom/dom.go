// Package dom is a small element-tree view over a parsed HTML document.
//
// Extraction heuristics only need to ask an element for its tag, attributes,
// text, children and following siblings, so they are written against the
// Element interface instead of a concrete parser node type.
package dom

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element is one element node of a document.
type Element interface {
	// Tag is the lowercased element name ("p", "ul", "h2").
	Tag() string
	Attr(name string) (string, bool)
	// Text joins every descendant text node with sep, like a flattened
	// rendering of the element. Script and style bodies are skipped.
	Text(sep string) string
	// HTML is the serialized outer markup.
	HTML() string
	Children() []Element
	NextSiblings() []Element
	// Find returns the descendants matching a CSS selector in document order.
	Find(selector string) []Element
}

// Document is a parsed page.
type Document struct {
	doc *goquery.Document
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ParseString parses HTML held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root is the document node itself; Find on it searches the whole page.
func (d *Document) Root() Element {
	return &node{sel: d.doc.Selection}
}

// Find searches the whole document.
func (d *Document) Find(selector string) []Element {
	return wrap(d.doc.Find(selector))
}

// First returns the first element matching selector, or nil.
func (d *Document) First(selector string) Element {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return &node{sel: sel}
}

// Text is the whole page flattened with single spaces between text nodes.
func (d *Document) Text() string {
	return textOf(d.doc.Get(0), " ")
}

// After returns up to limit elements that follow el in document order,
// starting with el's own descendants.
func (d *Document) After(el Element, limit int) []Element {
	start, ok := el.(*node)
	if !ok || limit <= 0 {
		return nil
	}
	target := start.sel.Get(0)

	var out []Element
	seen := false
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == target {
			seen = true
		} else if seen && n.Type == html.ElementNode {
			out = append(out, &node{sel: d.doc.FindNodes(n)})
			if len(out) >= limit {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(d.doc.Get(0))
	return out
}

type node struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &node{sel: s})
	})
	return out
}

func (n *node) Tag() string {
	return strings.ToLower(goquery.NodeName(n.sel))
}

func (n *node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *node) Text(sep string) string {
	return textOf(n.sel.Get(0), sep)
}

func (n *node) HTML() string {
	h, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return h
}

func (n *node) Children() []Element {
	return wrap(n.sel.Children())
}

func (n *node) NextSiblings() []Element {
	return wrap(n.sel.NextAll())
}

func (n *node) Find(selector string) []Element {
	return wrap(n.sel.Find(selector))
}

var skipText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

func textOf(root *html.Node, sep string) string {
	if root == nil {
		return ""
	}
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			if skipText[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, sep)
}
