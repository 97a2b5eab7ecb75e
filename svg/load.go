package svg

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"svgcss/css"
)

// ErrNoRoot is returned when document has no root element.
var ErrNoRoot = errors.New("document has no root element")

// Load reads SVG document. Non UTF-8 encodings declared in the XML prolog
// are converted.
func Load(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader,
		ValidateInput: false,
		Permissive:    true,
	}
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read SVG: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return doc, nil
}

// charsetReader converts declared encoding to UTF-8. Input declaring a
// UTF-16 or UTF-32 encoding has already been decoded by the caller, XML
// decoder cannot read it otherwise.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	if strings.HasPrefix(l, "utf-16") || strings.HasPrefix(l, "utf-32") || strings.HasPrefix(l, "ucs-") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// isStyleElement reports whether e carries CSS: <style> with no type or type text/css.
func isStyleElement(e *etree.Element) bool {
	if e.Tag != "style" {
		return false
	}
	t := strings.TrimSpace(e.SelectAttrValue("type", ""))
	return t == "" || strings.EqualFold(t, "text/css")
}

// StyleSources returns text of every <style> element in document order.
// Plain text and CDATA sections are concatenated, comments are skipped.
func StyleSources(doc *etree.Document) []string {
	var sources []string
	for _, it := range collect(doc) {
		if !isStyleElement(it.el) {
			continue
		}
		var sb strings.Builder
		for _, t := range it.el.Child {
			if cd, ok := t.(*etree.CharData); ok {
				sb.WriteString(cd.Data)
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			sources = append(sources, s)
		}
	}
	return sources
}

// Stylesheet parses all style sources of the document as a single sheet.
// Parser may be nil.
func Stylesheet(doc *etree.Document, parser *css.Parser, source string) *css.Stylesheet {
	if parser == nil {
		parser = css.NewParser(nil)
	}
	return parser.Parse(strings.Join(StyleSources(doc), "\n"), source)
}

// item is an element with its location in the document.
type item struct {
	el   *etree.Element
	path string
}

// collect returns all elements of the document in document order (pre-order).
func collect(doc *etree.Document) []item {
	var items []item
	if doc == nil {
		return items
	}

	var walk func(e *etree.Element, path string)
	walk = func(e *etree.Element, path string) {
		items = append(items, item{el: e, path: path})
		seen := make(map[string]int)
		for _, c := range e.ChildElements() {
			tag := c.FullTag()
			seen[tag]++
			walk(c, path+"/"+tag+"["+strconv.Itoa(seen[tag])+"]")
		}
	}
	if root := doc.Root(); root != nil {
		walk(root, "/"+root.FullTag())
	}
	return items
}

// Count returns number of elements in the document.
func Count(doc *etree.Document) int {
	return len(collect(doc))
}

func logFields(doc *etree.Document, sheet *css.Stylesheet) []zap.Field {
	fields := []zap.Field{
		zap.Int("elements", Count(doc)),
		zap.Int("rules", sheet.Len()),
	}
	if sheet != nil {
		fields = append(fields, zap.Int("warnings", len(sheet.Warnings)))
	}
	return fields
}
