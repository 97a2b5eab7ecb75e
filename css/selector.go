package css

import (
	"fmt"
	"strings"
)

// Selector is a compiled selector: either SimpleSelector or ComplexSelector.
type Selector interface {
	Matches(e Element) bool
	Priority() int
	String() string

	isSelector()
}

// Combinator is the tree relationship between two simple selectors.
type Combinator int

const (
	Descendant      Combinator = iota // "a b"
	Child                             // "a > b"
	AdjacentSibling                   // "a + b"
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case AdjacentSibling:
		return "+"
	default:
		return " "
	}
}

func parseCombinator(text string) (Combinator, error) {
	switch text {
	case " ":
		return Descendant, nil
	case ">":
		return Child, nil
	case "+":
		return AdjacentSibling, nil
	default:
		return Descendant, fmt.Errorf("%w: unknown combinator %q", ErrBadTokenSequence, text)
	}
}

// ComplexSelector is a chain of simple selectors joined by combinators.
// Combinators[i] sits between Selectors[i] and Selectors[i+1].
type ComplexSelector struct {
	Selectors   []SimpleSelector
	Combinators []Combinator
}

func (ComplexSelector) isSelector() {}

// Matches walks from the rightmost selector, which must match e itself,
// towards the leftmost one following combinators through the tree.
func (cs ComplexSelector) Matches(e Element) bool {
	if len(cs.Selectors)-len(cs.Combinators) != 1 || e == nil {
		return false
	}

	last := len(cs.Selectors) - 1
	if !cs.Selectors[last].Matches(e) {
		return false
	}

	cur := e
	for i := last - 1; i >= 0; i-- {
		next := cs.Selectors[i]
		switch cs.Combinators[i] {
		case Descendant:
			var found Element
			for a := cur.Parent(); a != nil; a = a.Parent() {
				if next.Matches(a) {
					found = a
					break
				}
			}
			if found == nil {
				return false
			}
			cur = found
		case Child:
			p := cur.Parent()
			if p == nil || !next.Matches(p) {
				return false
			}
			cur = p
		case AdjacentSibling:
			s := prevElementSibling(cur)
			if s == nil || !next.Matches(s) {
				return false
			}
			cur = s
		default:
			return false
		}
	}
	return true
}

// Priority returns sum of all member selector priorities.
func (cs ComplexSelector) Priority() int {
	var p int
	for _, s := range cs.Selectors {
		p += s.Priority()
	}
	return p
}

func (cs ComplexSelector) String() string {
	var sb strings.Builder
	for i, s := range cs.Selectors {
		if i > 0 && i-1 < len(cs.Combinators) {
			sb.WriteString(cs.Combinators[i-1].String())
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Compile turns one selector (no commas) into either simple or complex selector.
func Compile(text string) (Selector, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	switch len(tokens) {
	case 0:
		return nil, ErrEmptySelector
	case 1:
		if tokens[0].Kind != TokenSelector {
			return nil, ErrBadTokenSequence
		}
		return CompileSimple(tokens[0].Text)
	case 2:
		return nil, fmt.Errorf("%w: %q", ErrSelectorCountViolation, text)
	}

	cs := ComplexSelector{
		Selectors:   make([]SimpleSelector, 0, len(tokens)/2+1),
		Combinators: make([]Combinator, 0, len(tokens)/2),
	}
	for i, t := range tokens {
		// even positions are selectors, odd are combinators
		wantSelector := i%2 == 0
		if (t.Kind == TokenSelector) != wantSelector {
			return nil, fmt.Errorf("%w: %q", ErrBadTokenSequence, text)
		}
		if wantSelector {
			s, err := CompileSimple(t.Text)
			if err != nil {
				return nil, err
			}
			cs.Selectors = append(cs.Selectors, s)
			continue
		}
		c, err := parseCombinator(t.Text)
		if err != nil {
			return nil, err
		}
		cs.Combinators = append(cs.Combinators, c)
	}
	if len(cs.Selectors)-len(cs.Combinators) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrSelectorCountViolation, text)
	}
	return cs, nil
}

// SelectorGroup holds comma separated alternatives of a single rule.
type SelectorGroup []Selector

// Matches reports whether any member matches.
func (g SelectorGroup) Matches(e Element) bool {
	for _, s := range g {
		if s.Matches(e) {
			return true
		}
	}
	return false
}

// MatchPriority returns the highest priority among matching members.
func (g SelectorGroup) MatchPriority(e Element) (int, bool) {
	var (
		best  int
		found bool
	)
	for _, s := range g {
		if s.Matches(e) {
			if p := s.Priority(); !found || p > best {
				best = p
			}
			found = true
		}
	}
	return best, found
}

func (g SelectorGroup) String() string {
	parts := make([]string, 0, len(g))
	for _, s := range g {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
