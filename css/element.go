// Package css compiles a restricted style sheet syntax into selectors and
// resolves which declaration blocks apply to a markup element.
package css

// Node is any item of the markup tree. Only elements take part in matching,
// text, CDATA, comments and processing instructions are skipped when siblings
// are scanned.
type Node interface {
	// AsElement returns the element behind the node or nil when node is not an element.
	AsElement() Element
	PrevSibling() Node
	NextSibling() Node
}

// Element is the read-only view of a markup element the engine consumes.
//
// Implementations must be comparable: two values referring to the same tree
// node must be equal when compared with ==.
type Element interface {
	Node
	Tag() string
	// Attr returns attribute value or empty string when attribute is absent.
	Attr(name string) string
	HasAttr(name string) bool
	// Parent returns nil for the root element.
	Parent() Element
	FirstChild() Node
}

// firstElementChild returns the first child of e which is an element.
func firstElementChild(e Element) Element {
	for n := e.FirstChild(); n != nil; n = n.NextSibling() {
		if el := n.AsElement(); el != nil {
			return el
		}
	}
	return nil
}

// prevElementSibling returns the nearest preceding sibling of e which is an element.
func prevElementSibling(e Element) Element {
	for n := e.PrevSibling(); n != nil; n = n.PrevSibling() {
		if el := n.AsElement(); el != nil {
			return el
		}
	}
	return nil
}
