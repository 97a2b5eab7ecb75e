package svg

import (
	"github.com/beevik/etree"

	"svgcss/css"
)

// Inline returns copy of doc where every resolved element carries its
// computed declarations in the style attribute. When keepStyle is false
// <style> elements are removed from the copy. Source document is left
// untouched, results have to come from resolving the same document.
func Inline(doc *etree.Document, results []Resolved, keepStyle bool) *etree.Document {
	out := doc.Copy()

	origs, copies := collect(doc), collect(out)
	index := make(map[*etree.Element]int, len(origs))
	for i, it := range origs {
		index[it.el] = i
	}

	for _, r := range results {
		i, ok := index[r.el]
		if !ok || i >= len(copies) || len(r.Computed) == 0 {
			continue
		}
		copies[i].el.CreateAttr("style", css.FormatDeclarations(r.Computed))
	}

	if !keepStyle {
		for _, it := range copies {
			if isStyleElement(it.el) {
				if p := it.el.Parent(); p != nil {
					p.RemoveChild(it.el)
				}
			}
		}
	}
	return out
}
