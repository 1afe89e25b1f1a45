package crawler

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page, queryable by tag name.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. Standard library extension, well-maintained
//
// Malformed input degrades to a best-effort tree rather than an error, so
// broken pages simply yield fewer matched elements.
type Document struct {
	root *html.Node
}

// ParseDocument parses HTML content into a Document.
func ParseDocument(content io.Reader) (*Document, error) {
	root, err := html.Parse(content)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Element is a single HTML element within a Document.
type Element struct {
	node *html.Node
}

// ElementsByTag returns all elements with the given tag name, in document
// order. Tag names are matched case-insensitively; the parser lowercases
// element names, so the lookup key is lowercased once up front.
func (d *Document) ElementsByTag(name string) []*Element {
	name = strings.ToLower(name)
	var elements []*Element

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == name {
			elements = append(elements, &Element{node: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)

	return elements
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of the element and its
// descendants.
func (e *Element) Text() string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)

	return sb.String()
}
