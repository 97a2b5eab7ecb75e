package css_test

import (
	"svgcss/css"
)

// node is a minimal markup tree used by the tests.
type node struct {
	tag      string
	attrs    map[string]string
	text     bool
	parent   *node
	children []*node
}

// ref wraps node so that it satisfies css.Element and stays comparable.
type ref struct{ n *node }

func el(tag string, attrs map[string]string, kids ...*node) *node {
	n := &node{tag: tag, attrs: attrs, children: kids}
	for _, k := range kids {
		k.parent = n
	}
	return n
}

func text() *node {
	return &node{text: true}
}

func wrap(n *node) css.Element {
	return ref{n}
}

func nodeOf(n *node) css.Node {
	if n == nil {
		return nil
	}
	return ref{n}
}

func (r ref) AsElement() css.Element {
	if r.n.text {
		return nil
	}
	return r
}

func (r ref) index() int {
	if r.n.parent == nil {
		return -1
	}
	for i, c := range r.n.parent.children {
		if c == r.n {
			return i
		}
	}
	return -1
}

func (r ref) PrevSibling() css.Node {
	i := r.index()
	if i <= 0 {
		return nil
	}
	return nodeOf(r.n.parent.children[i-1])
}

func (r ref) NextSibling() css.Node {
	i := r.index()
	if i < 0 || i+1 >= len(r.n.parent.children) {
		return nil
	}
	return nodeOf(r.n.parent.children[i+1])
}

func (r ref) Tag() string { return r.n.tag }

func (r ref) Attr(name string) string { return r.n.attrs[name] }

func (r ref) HasAttr(name string) bool {
	_, ok := r.n.attrs[name]
	return ok
}

func (r ref) Parent() css.Element {
	if r.n.parent == nil {
		return nil
	}
	return ref{r.n.parent}
}

func (r ref) FirstChild() css.Node {
	if len(r.n.children) == 0 {
		return nil
	}
	return nodeOf(r.n.children[0])
}

func attrs(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
