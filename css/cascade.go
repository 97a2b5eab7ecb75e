package css

import (
	"maps"
	"slices"
	"strings"
)

// InlinePriority is the key inline style attribute is stored under. It
// equals IDPriority, inline style is inserted last and replaces id rules.
const InlinePriority = IDPriority

// Match returns declaration blocks applying to e ordered by ascending
// priority. Every matching selector stores its rule under its own priority,
// a later rule with the same priority replaces an earlier one. The inline
// style attribute is stored last under InlinePriority. Consumers apply the
// blocks in order so later entries override earlier ones.
func (s *Stylesheet) Match(e Element) []string {
	if e == nil {
		return nil
	}

	byPriority := make(map[int]string)
	if s != nil {
		for _, rule := range s.Rules {
			for _, sel := range rule.Group {
				if sel.Matches(e) {
					byPriority[sel.Priority()] = rule.Declarations
				}
			}
		}
	}
	if inline := strings.TrimSpace(e.Attr("style")); inline != "" {
		byPriority[InlinePriority] = inline
	}

	out := make([]string, 0, len(byPriority))
	for _, p := range slices.Sorted(maps.Keys(byPriority)) {
		out = append(out, byPriority[p])
	}
	return out
}

// MatchStyles is the functional form of Stylesheet.Match.
func MatchStyles(s *Stylesheet, e Element) []string {
	return s.Match(e)
}

// MatchTrace describes a single selector match evaluated by Trace.
type MatchTrace struct {
	Priority     int
	Selector     string // empty for inline style
	Declarations string
	Inline       bool
	Replaced     bool // later match with the same priority took the slot
}

// Trace evaluates e the same way Match does and reports every match in
// evaluation order, marking the ones that lost their priority slot.
func (s *Stylesheet) Trace(e Element) []MatchTrace {
	if e == nil {
		return nil
	}

	var (
		trace []MatchTrace
		slot  = make(map[int]int)
	)
	add := func(t MatchTrace) {
		if i, ok := slot[t.Priority]; ok {
			trace[i].Replaced = true
		}
		slot[t.Priority] = len(trace)
		trace = append(trace, t)
	}

	if s != nil {
		for _, rule := range s.Rules {
			for _, sel := range rule.Group {
				if sel.Matches(e) {
					add(MatchTrace{Priority: sel.Priority(), Selector: sel.String(), Declarations: rule.Declarations})
				}
			}
		}
	}
	if inline := strings.TrimSpace(e.Attr("style")); inline != "" {
		add(MatchTrace{Priority: InlinePriority, Declarations: inline, Inline: true})
	}
	return trace
}
