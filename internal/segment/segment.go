// Package segment groups the flat sibling stream of the reference page into
// one DocItem per h4 heading.
package segment

import (
	"strings"

	"github.com/dgallion1/tgschema/internal/doctree"
	"github.com/dgallion1/tgschema/internal/schema"
)

// StartHeading is the h3 text prefix after which items are collected.
const StartHeading = "Getting updates"

// TableClass is the class attribute an item table must carry.
const TableClass = "table"

type state int

const (
	beforeStart state = iota
	scanning
)

// collector is the fold accumulator: every step returns an updated value.
type collector struct {
	state    state
	previous string // tag of the previous node while scanning
	current  *doctree.DocItem
	items    []*doctree.DocItem
	index    map[string]*doctree.DocItem
}

// Segment walks nodes in order and returns the items in the order their
// headings first appeared. A heading seen twice folds into the first item.
func Segment(nodes []doctree.Node) ([]*doctree.DocItem, error) {
	c := collector{index: make(map[string]*doctree.DocItem)}
	for _, n := range nodes {
		var err error
		if c, err = c.step(n); err != nil {
			return nil, err
		}
	}
	if c.state == beforeStart {
		return nil, &schema.StructuralError{Reason: "no h3 heading starting with " + StartHeading}
	}
	return c.items, nil
}

func (c collector) step(n doctree.Node) (collector, error) {
	tag := n.Tag()

	if c.state == beforeStart {
		if tag == "h3" && hasPrefixFold(n.Text(), StartHeading) {
			c.state = scanning
		}
		return c, nil
	}

	if tag == "h4" {
		var err error
		if c, err = c.open(n); err != nil {
			return c, err
		}
	}

	if c.current != nil && collects(c.previous) {
		switch {
		case tag == "p":
			inner, err := n.InnerHTML()
			if err != nil {
				return c, err
			}
			c.current.Descriptions = append(c.current.Descriptions, inner)
		case tag == "table" && hasClass(n, TableClass):
			if c.current.Table != nil {
				return c, &schema.StructuralError{Item: c.current.Name, Reason: "duplicate table", Markup: outer(n)}
			}
			c.current.Table = n
		}
	}

	c.previous = tag
	return c, nil
}

// open makes the heading's item current, creating it on first sight.
func (c collector) open(h doctree.Node) (collector, error) {
	name := h.Text()
	if name == "" {
		return c, &schema.StructuralError{Reason: "empty item heading", Markup: outer(h)}
	}

	link, ok := firstHref(h)
	if !ok {
		return c, &schema.StructuralError{Item: name, Reason: "heading has no anchor link", Markup: outer(h)}
	}

	item, seen := c.index[name]
	if !seen {
		item = &doctree.DocItem{Name: name}
		c.index[name] = item
		c.items = append(c.items, item)
	}
	item.IsType = schema.IsTypeName(name)
	item.Link = link
	c.current = item
	return c, nil
}

// collects reports whether a node following prev belongs to the current item.
func collects(prev string) bool {
	switch prev {
	case "h4", "p", "blockquote":
		return true
	}
	return false
}

func firstHref(n doctree.Node) (string, bool) {
	anchors := n.Find("a")
	if len(anchors) == 0 {
		return "", false
	}
	return anchors[0].Attr("href")
}

func hasClass(n doctree.Node, class string) bool {
	v, _ := n.Attr("class")
	return v == class
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func outer(n doctree.Node) string {
	s, err := n.OuterHTML()
	if err != nil {
		return n.Text()
	}
	return s
}
