package css_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"svgcss/css"
)

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  []css.Declaration
	}{
		{
			name:  "simple",
			block: "fill:red; stroke-width: 2",
			want: []css.Declaration{
				{Property: "fill", Value: "red"},
				{Property: "stroke-width", Value: "2"},
			},
		},
		{
			name:  "property case folded",
			block: "FILL: Red;",
			want:  []css.Declaration{{Property: "fill", Value: "Red"}},
		},
		{
			name:  "function value",
			block: "fill: rgb(1, 2,   3); stroke: #fff",
			want: []css.Declaration{
				{Property: "fill", Value: "rgb(1, 2, 3)"},
				{Property: "stroke", Value: "#fff"},
			},
		},
		{
			name:  "multi token value",
			block: "font:  12px   serif",
			want:  []css.Declaration{{Property: "font", Value: "12px serif"}},
		},
		{
			name:  "empty",
			block: "  ",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, css.ParseDeclarations(tt.block)); diff != "" {
				t.Errorf("ParseDeclarations(%q) mismatch (-want +got):\n%s", tt.block, diff)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	got := css.Merge([]string{"fill:red; stroke:blue", "opacity: .5", "fill:green"})
	want := []css.Declaration{
		{Property: "fill", Value: "green"},
		{Property: "stroke", Value: "blue"},
		{Property: "opacity", Value: ".5"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
	if s, want := css.FormatDeclarations(got), "fill:green;stroke:blue;opacity:.5"; s != want {
		t.Errorf("FormatDeclarations() = %q, want %q", s, want)
	}
}

func TestMerge_FollowsCascade(t *testing.T) {
	sheet := css.ParseStylesheet("rect { fill:red; stroke:black } #a { fill:blue }")
	e := wrap(el("rect", attrs("id", "a", "style", "stroke:none")))

	// inline style takes the id slot
	got := css.FormatDeclarations(css.Merge(sheet.Match(e)))
	if want := "fill:red;stroke:none"; got != want {
		t.Errorf("computed style = %q, want %q", got, want)
	}
}
