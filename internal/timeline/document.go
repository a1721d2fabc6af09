package timeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is a read-only element of a parsed article.
type Node interface {
	// Tag returns the lower-case element name.
	Tag() string
	// Text returns the concatenated text content of the element and its descendants.
	Text() string
	// HTML returns the inner markup of the element.
	HTML() string
	// QueryAll returns descendants matching a CSS selector in document order.
	QueryAll(selector string) []Node
	// Children returns direct child elements matching a CSS selector.
	Children(selector string) []Node
	// NextElement returns the next element sibling.
	NextElement() (Node, bool)
	// Parent returns the parent element.
	Parent() (Node, bool)
	// HasClass reports whether the element carries the class.
	HasClass(class string) bool
}

// Document is a parsed, read-only article tree.
type Document interface {
	QueryAll(selector string) []Node
}

// ParseHTML parses article markup into a Document.
func ParseHTML(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewDocument(goquery.NewDocumentFromNode(root)), nil
}

// ParseHTMLString parses article markup held in a string.
func ParseHTMLString(markup string) (Document, error) {
	return ParseHTML(strings.NewReader(markup))
}

// NewDocument wraps an already parsed goquery document.
func NewDocument(doc *goquery.Document) Document {
	return &selectionNode{sel: doc.Selection}
}

// selectionNode adapts a single-element goquery selection. The document root is the
// selection over the html.DocumentNode.
type selectionNode struct {
	sel *goquery.Selection
}

func (n *selectionNode) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n *selectionNode) Text() string {
	return n.sel.Text()
}

func (n *selectionNode) HTML() string {
	markup, err := n.sel.Html()
	if err != nil {
		return ""
	}
	return markup
}

func (n *selectionNode) QueryAll(selector string) []Node {
	return wrap(n.sel.Find(selector))
}

func (n *selectionNode) Children(selector string) []Node {
	return wrap(n.sel.ChildrenFiltered(selector))
}

func (n *selectionNode) NextElement() (Node, bool) {
	next := n.sel.Next()
	if next.Length() == 0 {
		return nil, false
	}
	return &selectionNode{sel: next}, true
}

func (n *selectionNode) Parent() (Node, bool) {
	parent := n.sel.Parent()
	if parent.Length() == 0 {
		return nil, false
	}
	return &selectionNode{sel: parent}, true
}

func (n *selectionNode) HasClass(class string) bool {
	return n.sel.HasClass(class)
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &selectionNode{sel: s})
	})
	return nodes
}
