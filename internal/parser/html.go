package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dgallion1/tgschema/internal/doctree"
	"github.com/dgallion1/tgschema/internal/schema"
)

// ContentID is the id of the element whose children form the document stream.
const ContentID = "dev_page_content"

// LoadHTML parses an HTML page and returns the element children of the
// content container in document order.
func LoadHTML(r io.Reader) ([]doctree.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	content := goquery.NewDocumentFromNode(root).Find("#" + ContentID).First()
	if content.Length() == 0 {
		return nil, &schema.StructuralError{Reason: fmt.Sprintf("content container #%s not found", ContentID)}
	}
	return wrap(content.Children()), nil
}

// htmlNode adapts a single-element goquery selection to doctree.Node.
type htmlNode struct {
	sel *goquery.Selection
}

func (n htmlNode) Tag() string {
	return strings.ToLower(goquery.NodeName(n.sel))
}

func (n htmlNode) Text() string {
	return normalizeSpace(n.sel.Text())
}

func (n htmlNode) InnerHTML() (string, error) {
	return n.sel.Html()
}

func (n htmlNode) OuterHTML() (string, error) {
	return goquery.OuterHtml(n.sel)
}

func (n htmlNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n htmlNode) Find(selector string) []doctree.Node {
	return wrap(n.sel.Find(selector))
}

func wrap(sel *goquery.Selection) []doctree.Node {
	nodes := make([]doctree.Node, 0, sel.Length())
	for i := range sel.Length() {
		nodes = append(nodes, htmlNode{sel: sel.Eq(i)})
	}
	return nodes
}

// normalizeSpace collapses runs of whitespace and trims the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
