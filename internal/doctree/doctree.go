package doctree

// Node is the minimal document capability the engine depends on.
type Node interface {
	Tag() string                     // Lower-case element name, e.g. "h4"
	Text() string                    // Whitespace-normalised text content
	InnerHTML() (string, error)      // Markup of the children
	OuterHTML() (string, error)      // Markup including the node itself
	Attr(name string) (string, bool) // Attribute value by name
	Find(selector string) []Node     // Descendants matching a CSS selector, document order
}

// DocItem groups the nodes that describe one heading (a type or a method).
type DocItem struct {
	Name         string   // Heading text
	IsType       bool     // Upper-case first letter means a type entity
	Link         string   // href of the heading's first anchor
	Descriptions []string // Inner markup of each description paragraph
	Table        Node     // At most one field/parameter table
}
