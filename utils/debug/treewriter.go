// Package debug renders human readable indented dumps.
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const defaultIndent = 2

// TreeWriter accumulates indented lines.
type TreeWriter struct {
	w      *strings.Builder
	indent string
}

// NewTreeWriter creates writer indenting every level by indent spaces,
// non-positive values select the default.
func NewTreeWriter(indent int) *TreeWriter {
	if indent <= 0 {
		indent = defaultIndent
	}
	return &TreeWriter{
		w:      &strings.Builder{},
		indent: strings.Repeat(" ", indent),
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

// WriteTo writes accumulated text to w.
func (tw TreeWriter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, tw.w.String())
	return int64(n), err
}

func (tw TreeWriter) pad(depth int) {
	for range depth {
		tw.w.WriteString(tw.indent)
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label followed by quoted value, empty value is left as is.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// List writes label and then every item one level deeper. Nothing is
// written for empty list.
func (tw TreeWriter) List(depth int, label string, items []string) {
	if len(items) == 0 {
		return
	}
	tw.Line(depth, "%s:", label)
	for _, it := range items {
		tw.Line(depth+1, "- %s", it)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
