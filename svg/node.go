// Package svg connects the css engine to SVG documents read with etree.
package svg

import (
	"github.com/beevik/etree"

	"svgcss/css"
)

// element adapts etree element to css.Element. Values wrapping the same
// pointer compare equal.
type element struct {
	e *etree.Element
}

// other is any non-element token: character data (including CDATA),
// comments, directives and processing instructions.
type other struct {
	t etree.Token
}

// Wrap returns css view of etree element, nil for nil.
func Wrap(e *etree.Element) css.Element {
	if e == nil {
		return nil
	}
	return element{e}
}

// Unwrap returns etree element behind css.Element created by Wrap.
func Unwrap(e css.Element) *etree.Element {
	if el, ok := e.(element); ok {
		return el.e
	}
	return nil
}

func nodeFor(t etree.Token) css.Node {
	switch v := t.(type) {
	case nil:
		return nil
	case *etree.Element:
		return element{v}
	default:
		return other{t}
	}
}

// sibling returns token at offset delta from t in its parent's child list.
func sibling(t etree.Token, delta int) css.Node {
	p := t.Parent()
	if p == nil {
		return nil
	}
	i := t.Index() + delta
	if i < 0 || i >= len(p.Child) {
		return nil
	}
	return nodeFor(p.Child[i])
}

// isDocument reports whether e is the document node itself. etree keeps it
// as an element without tag.
func isDocument(e *etree.Element) bool {
	return e.Tag == "" && e.Parent() == nil
}

func (o other) AsElement() css.Element { return nil }
func (o other) PrevSibling() css.Node  { return sibling(o.t, -1) }
func (o other) NextSibling() css.Node  { return sibling(o.t, 1) }

func (n element) AsElement() css.Element { return n }
func (n element) PrevSibling() css.Node  { return sibling(n.e, -1) }
func (n element) NextSibling() css.Node  { return sibling(n.e, 1) }

// Tag returns local name, namespace prefix is ignored.
func (n element) Tag() string {
	return n.e.Tag
}

// Attr prefers attribute without namespace prefix and falls back to the
// first prefixed one with the same local name.
func (n element) Attr(name string) string {
	if a := n.attr(name); a != nil {
		return a.Value
	}
	return ""
}

func (n element) HasAttr(name string) bool {
	return n.attr(name) != nil
}

func (n element) attr(name string) *etree.Attr {
	var prefixed *etree.Attr
	for i := range n.e.Attr {
		a := &n.e.Attr[i]
		if a.Key != name {
			continue
		}
		if a.Space == "" {
			return a
		}
		if prefixed == nil && a.Space != "xmlns" {
			prefixed = a
		}
	}
	return prefixed
}

func (n element) Parent() css.Element {
	p := n.e.Parent()
	if p == nil || isDocument(p) {
		return nil
	}
	return element{p}
}

func (n element) FirstChild() css.Node {
	if len(n.e.Child) == 0 {
		return nil
	}
	return nodeFor(n.e.Child[0])
}
