package css_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svgcss/css"
)

func TestCompileSimple(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []css.Atom
		priority int
	}{
		{
			name:     "universal",
			fragment: "*",
			want:     []css.Atom{css.Universal()},
			priority: 0,
		},
		{
			name:     "type",
			fragment: "rect",
			want:     []css.Atom{css.TypeAtom("rect")},
			priority: 1,
		},
		{
			name:     "id only",
			fragment: "#foo",
			want:     []css.Atom{css.IDAtom("foo")},
			priority: 100,
		},
		{
			name:     "class only",
			fragment: ".bar",
			want:     []css.Atom{css.AttrAtom("class", css.AttrInList, "bar")},
			priority: 10,
		},
		{
			name:     "everything",
			fragment: "div#foo.bar[baz=qux]:first-child",
			want: []css.Atom{
				css.TypeAtom("div"),
				css.IDAtom("foo"),
				css.AttrAtom("class", css.AttrInList, "bar"),
				css.AttrAtom("baz", css.AttrEquals, "qux"),
				css.PseudoAtom(":first-child"),
			},
			priority: 1 + 100 + 10 + 10 + 10,
		},
		{
			name:     "adjacent attributes",
			fragment: "[a][b~=c]",
			want: []css.Atom{
				css.AttrAtom("a", css.AttrExists, ""),
				css.AttrAtom("b", css.AttrInList, "c"),
			},
			priority: 20,
		},
		{
			name:     "attribute then class",
			fragment: "path[d].x",
			want: []css.Atom{
				css.TypeAtom("path"),
				css.AttrAtom("d", css.AttrExists, ""),
				css.AttrAtom("class", css.AttrInList, "x"),
			},
			priority: 21,
		},
		{
			name:     "universal with class",
			fragment: "*.a",
			want:     []css.Atom{css.Universal(), css.AttrAtom("class", css.AttrInList, "a")},
			priority: 10,
		},
		{
			name:     "unknown pseudo compiles",
			fragment: "a:hover",
			want:     []css.Atom{css.TypeAtom("a"), css.PseudoAtom(":hover")},
			priority: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := css.CompileSimple(tt.fragment)
			if err != nil {
				t.Fatalf("CompileSimple(%q) error = %v", tt.fragment, err)
			}
			if diff := cmp.Diff(tt.want, sel.Atoms); diff != "" {
				t.Errorf("atoms mismatch (-want +got):\n%s", diff)
			}
			if got := sel.Priority(); got != tt.priority {
				t.Errorf("Priority() = %d, want %d", got, tt.priority)
			}
		})
	}
}

func TestCompileSimple_Errors(t *testing.T) {
	tests := []struct {
		fragment string
		want     error
	}{
		{"", css.ErrEmptySelector},
		{"rect[fill", css.ErrUnterminatedAttribute},
		{"rect#", css.ErrEmptyToken},
		{"a..b", css.ErrEmptyToken},
		{"p::before", css.ErrEmptyToken},
		{"[a]b", css.ErrUnexpectedCharacter},
		{"a b", css.ErrCombinatorInFragment},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			_, err := css.CompileSimple(tt.fragment)
			if !errors.Is(err, tt.want) {
				t.Errorf("CompileSimple(%q) error = %v, want %v", tt.fragment, err, tt.want)
			}
		})
	}
}

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		content string
		want    css.Atom
	}{
		{"lang", css.AttrAtom("lang", css.AttrExists, "")},
		{"lang=en-US", css.AttrAtom("lang", css.AttrEquals, "en-US")},
		{`lang="en-US"`, css.AttrAtom("lang", css.AttrEquals, "en-US")},
		{"class~=b", css.AttrAtom("class", css.AttrInList, "b")},
		{`class~="b"`, css.AttrAtom("class", css.AttrInList, "b")},
		{"lang|=en", css.AttrAtom("lang", css.AttrStartsWith, "en-")},
		{"=x", css.AttrAtom("", css.AttrUnknown, "x")},
		{"~=x", css.AttrAtom("", css.AttrUnknown, "x")},
		{"", css.AttrAtom("", css.AttrUnknown, "")},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, css.ParseAttribute(tt.content)); diff != "" {
				t.Errorf("ParseAttribute(%q) mismatch (-want +got):\n%s", tt.content, diff)
			}
		})
	}
}

func TestAttributeSelectorsAgainstElement(t *testing.T) {
	e := wrap(el("text", attrs("lang", "en-US", "class", "a b c")))
	short := wrap(el("text", attrs("lang", "en")))

	tests := []struct {
		fragment string
		elem     css.Element
		want     bool
	}{
		{"[lang]", e, true},
		{"[lang=en-US]", e, true},
		{"[lang=en]", e, false},
		{"[lang|=en]", e, true},
		{"[lang|=en]", short, false},
		{"[class~=b]", e, true},
		{"[class~=d]", e, false},
		{".a.c", e, true},
		{".a.d", e, false},
		{"[=en]", e, false},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			sel, err := css.CompileSimple(tt.fragment)
			if err != nil {
				t.Fatalf("CompileSimple(%q) error = %v", tt.fragment, err)
			}
			if got := sel.Matches(tt.elem); got != tt.want {
				t.Errorf("%q Matches() = %v, want %v", tt.fragment, got, tt.want)
			}
		})
	}
}
