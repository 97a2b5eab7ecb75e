package svg_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"svgcss/css"
	"svgcss/svg"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <style type="text/css"><![CDATA[
    rect { fill: red }
    #b { fill: blue }
  ]]></style>
  <style>g > circle { stroke: black }</style>
  <style type="text/less">rect { fill: pink }</style>
  <g id="layer">
    <!-- shapes -->
    <rect id="a" class="x y"/>
    <rect id="b" style="stroke: green"/>
    <circle/>
    <use xlink:href="#a"/>
  </g>
</svg>
`

func load(t *testing.T, src string) *etree.Document {
	t.Helper()
	doc, err := svg.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return doc
}

func byID(t *testing.T, doc *etree.Document, id string) css.Element {
	t.Helper()
	e := doc.FindElement("//*[@id='" + id + "']")
	if e == nil {
		t.Fatalf("element #%s not found", id)
	}
	return svg.Wrap(e)
}

func TestLoad_Errors(t *testing.T) {
	if _, err := svg.Load(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := svg.Load(strings.NewReader("<!-- nothing -->")); !errors.Is(err, svg.ErrNoRoot) {
		t.Errorf("Load() error = %v, want %v", err, svg.ErrNoRoot)
	}
}

func TestLoad_Charset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"windows-1251\"?>\n<svg><text id=\"t\" class=\"\xe0\xe1\">x</text></svg>"
	doc := load(t, src)
	if got := byID(t, doc, "t").Attr("class"); got != "аб" {
		t.Errorf("class = %q, want %q", got, "аб")
	}
}

func TestLoad_DecodedUnicode(t *testing.T) {
	for _, enc := range []string{"UTF-16", "utf-16le", "UTF-32BE"} {
		t.Run(enc, func(t *testing.T) {
			src := "<?xml version=\"1.0\" encoding=\"" + enc + "\"?>\n<svg><g id=\"t\" class=\"ж\"/></svg>"
			doc := load(t, src)
			if got := byID(t, doc, "t").Attr("class"); got != "ж" {
				t.Errorf("class = %q, want %q", got, "ж")
			}
		})
	}
}

func TestStyleSources(t *testing.T) {
	doc := load(t, sample)
	got := svg.StyleSources(doc)
	want := []string{
		"rect { fill: red }\n    #b { fill: blue }",
		"g > circle { stroke: black }",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StyleSources() mismatch (-want +got):\n%s", diff)
	}

	sheet := svg.Stylesheet(doc, css.NewParser(zaptest.NewLogger(t)), "sample.svg")
	if sheet.Len() != 3 {
		t.Errorf("Stylesheet().Len() = %d, want 3", sheet.Len())
	}
}

func TestElementAdapter(t *testing.T) {
	doc := load(t, sample)
	root := svg.Wrap(doc.Root())
	a, b := byID(t, doc, "a"), byID(t, doc, "b")

	if root.Parent() != nil {
		t.Error("root element must have no parent")
	}
	if a.Parent() != byID(t, doc, "layer") {
		t.Error("parent of #a must be #layer")
	}
	if a != svg.Wrap(svg.Unwrap(a)) {
		t.Error("wrapped elements must be comparable")
	}

	// whitespace and comment precede #a
	fc := css.PseudoAtom(":first-child")
	if !fc.Matches(a) || fc.Matches(b) {
		t.Error(":first-child must skip text and comments")
	}
	adj, err := css.Compile("rect + rect")
	if err != nil {
		t.Fatal(err)
	}
	if !adj.Matches(b) || adj.Matches(a) {
		t.Error("adjacent sibling must skip text between elements")
	}

	use := svg.Wrap(doc.FindElement("//use"))
	if !use.HasAttr("href") || use.Attr("href") != "#a" {
		t.Errorf("prefixed attribute lookup failed: %q", use.Attr("href"))
	}
	if root.HasAttr("xlink") {
		t.Error("namespace declaration must not be visible as attribute")
	}
	if root.Tag() != "svg" {
		t.Errorf("Tag() = %q, want svg", root.Tag())
	}
}

func TestElementAdapter_PrefixedTag(t *testing.T) {
	doc := load(t, `<s:svg xmlns:s="http://www.w3.org/2000/svg"><s:rect id="r" href="plain" s:href="prefixed"/></s:svg>`)
	r := byID(t, doc, "r")
	if r.Tag() != "rect" {
		t.Errorf("Tag() = %q, want rect", r.Tag())
	}
	if r.Attr("href") != "plain" {
		t.Errorf("Attr(href) = %q, want unprefixed value", r.Attr("href"))
	}
}

func TestResolve(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc := load(t, sample)
	sheet := svg.Stylesheet(doc, nil, "")

	res, err := svg.NewResolver(2, zaptest.NewLogger(t)).Resolve(context.Background(), doc, sheet)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	paths := make([]string, 0, len(res))
	for _, r := range res {
		paths = append(paths, r.Path)
	}
	wantPaths := []string{
		"/svg",
		"/svg/style[1]",
		"/svg/style[2]",
		"/svg/style[3]",
		"/svg/g[1]",
		"/svg/g[1]/rect[1]",
		"/svg/g[1]/rect[2]",
		"/svg/g[1]/circle[1]",
		"/svg/g[1]/use[1]",
	}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	want := []svg.Resolved{
		{
			Path: "/svg/g[1]/rect[1]", Tag: "rect", ID: "a",
			Blocks:   []string{"fill: red"},
			Computed: []css.Declaration{{Property: "fill", Value: "red"}},
		},
		{
			Path: "/svg/g[1]/rect[2]", Tag: "rect", ID: "b",
			Blocks:   []string{"fill: red", "stroke: green"},
			Computed: []css.Declaration{{Property: "fill", Value: "red"}, {Property: "stroke", Value: "green"}},
		},
		{
			Path: "/svg/g[1]/circle[1]", Tag: "circle",
			Blocks:   []string{"stroke: black"},
			Computed: []css.Declaration{{Property: "stroke", Value: "black"}},
		},
	}
	if diff := cmp.Diff(want, res[5:8], cmpopts.IgnoreUnexported(svg.Resolved{})); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}

	for _, r := range res {
		e := r.Element()
		if e == nil || e.Tag() != r.Tag {
			t.Errorf("Element() of %s does not match result", r.Path)
		}
	}
	if (svg.Resolved{}).Element() != nil {
		t.Error("Element() of empty result must be nil")
	}
}

func TestResolve_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc := load(t, sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svg.Resolve(ctx, doc, svg.Stylesheet(doc, nil, ""), 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want %v", err, context.Canceled)
	}
}

func TestResolve_NoStylesheet(t *testing.T) {
	doc := load(t, sample)
	res, err := svg.Resolve(context.Background(), doc, nil, 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res[6].Blocks; len(got) != 1 || got[0] != "stroke: green" {
		t.Errorf("inline style only expected, got %v", got)
	}
}

func TestInline(t *testing.T) {
	doc := load(t, sample)
	before, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}

	res, err := svg.Resolve(context.Background(), doc, svg.Stylesheet(doc, nil, ""), 4)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	out := svg.Inline(doc, res, false)

	after, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("Inline modified source document")
	}

	// only the text/less element survives
	if n := len(out.FindElements("//style")); n != 1 {
		t.Errorf("found %d style elements, want 1", n)
	}
	tests := []struct {
		id, want string
	}{
		{"a", "fill:red"},
		{"b", "fill:red;stroke:green"},
	}
	for _, tt := range tests {
		if got := out.FindElement("//*[@id='" + tt.id + "']").SelectAttrValue("style", ""); got != tt.want {
			t.Errorf("#%s style = %q, want %q", tt.id, got, tt.want)
		}
	}
	if out.FindElement("//g").SelectAttr("style") != nil {
		t.Error("element without declarations must not get style attribute")
	}

	kept := svg.Inline(doc, res, true)
	if n := len(kept.FindElements("//style")); n != 3 {
		t.Errorf("found %d style elements, want 3", n)
	}
}
