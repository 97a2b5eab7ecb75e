package debug

import (
	"errors"
	"strings"
	"testing"
)

func TestNewTreeWriter(t *testing.T) {
	tests := []struct {
		indent int
		want   string
	}{
		{0, "  "},
		{-1, "  "},
		{1, " "},
		{4, "    "},
	}
	for _, tt := range tests {
		tw := NewTreeWriter(tt.indent)
		if tw.w == nil {
			t.Fatal("TreeWriter builder is nil")
		}
		if tw.indent != tt.want {
			t.Errorf("NewTreeWriter(%d) indent = %q, want %q", tt.indent, tw.indent, tt.want)
		}
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 2, 0, "test", nil, "test\n"},
		{"depth 1", 2, 1, "indented", nil, "  indented\n"},
		{"depth 2", 2, 2, "double indent", nil, "    double indent\n"},
		{"wide indent", 4, 2, "x", nil, "        x\n"},
		{"with formatting", 2, 1, "value: %d", []any{42}, "  value: 42\n"},
		{"multiple args", 2, 0, "%s = %d", []any{"count", 5}, "count = 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter(tt.indent)
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "style", "", "style: \n"},
		{"plain", 1, "style", "fill: red", "  style: \"fill: red\"\n"},
		{"quotes and newline", 0, "text", "a \"b\"\nc", "text: \"a \\\"b\\\"\\nc\"\n"},
		{"unicode", 0, "text", "жук", "text: \"жук\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter(2)
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_List(t *testing.T) {
	tw := NewTreeWriter(2)
	tw.List(0, "empty", nil)
	tw.List(1, "blocks", []string{"fill: red", "stroke: blue"})

	want := "  blocks:\n    - fill: red\n    - stroke: blue\n"
	if got := tw.String(); got != want {
		t.Errorf("List() = %q, want %q", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestTreeWriter_WriteTo(t *testing.T) {
	tw := NewTreeWriter(2)
	tw.Line(0, "root")
	tw.Line(1, "child")

	var sb strings.Builder
	n, err := tw.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if sb.String() != tw.String() || n != int64(len(tw.String())) {
		t.Errorf("WriteTo() wrote %d bytes %q", n, sb.String())
	}

	if _, err := tw.WriteTo(failingWriter{}); err == nil {
		t.Error("WriteTo() expected error from failing writer")
	}
}
