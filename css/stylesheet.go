package css

import (
	"fmt"
	"io"
	"strings"
)

// Rule pairs a selector group with its declaration block. Declarations are
// kept as opaque text.
type Rule struct {
	Group        SelectorGroup
	Declarations string
}

// Stylesheet is a compiled style sheet. It is not modified after parsing and
// may be matched from multiple goroutines at once.
type Stylesheet struct {
	Rules    []Rule   // Rules in source order
	Warnings []string // Selectors and rules which were dropped

	// raw selector text -> declarations, last one wins
	bySelector map[string]string
}

// Len returns number of rules.
func (s *Stylesheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}

// Lookup returns declarations of the last rule listing selector verbatim
// (after trimming) in its selector list. No cascading is performed.
func (s *Stylesheet) Lookup(selector string) (string, bool) {
	if s == nil || s.bySelector == nil {
		return "", false
	}
	d, ok := s.bySelector[strings.TrimSpace(selector)]
	return d, ok
}

// Concat returns a stylesheet holding rules of all sheets in order, as if
// they were parsed one after another. Each sheet keeps its own parsing
// outcome: a blank body stops only the sheet it appears in.
func Concat(sheets ...*Stylesheet) *Stylesheet {
	out := &Stylesheet{
		Rules:      make([]Rule, 0),
		Warnings:   make([]string, 0),
		bySelector: make(map[string]string),
	}
	for _, s := range sheets {
		if s == nil {
			continue
		}
		out.Rules = append(out.Rules, s.Rules...)
		out.Warnings = append(out.Warnings, s.Warnings...)
		for sel, decls := range s.bySelector {
			out.bySelector[sel] = decls
		}
	}
	return out
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Rules whose selectors were all dropped are skipped.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	if s == nil {
		return 0, nil
	}
	var total int64
	for _, rule := range s.Rules {
		if len(rule.Group) == 0 {
			continue
		}
		n, err := fmt.Fprintf(w, "%s { %s }\n", rule.Group, rule.Declarations)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func (s *Stylesheet) warn(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}
