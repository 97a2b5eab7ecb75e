package css

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySelector          = errors.New("empty selector")
	ErrEmptyToken             = errors.New("empty name in selector")
	ErrUnterminatedAttribute  = errors.New("unterminated attribute selector")
	ErrUnexpectedCharacter    = errors.New("unexpected character in selector")
	ErrCombinatorInFragment   = errors.New("combinator inside simple selector")
	ErrBadTokenSequence       = errors.New("selector and combinator tokens are out of order")
	ErrLeadingCombinator      = errors.New("selector starts with combinator")
	ErrDoubleCombinator       = errors.New("more than one combinator between selectors")
	ErrTrailingCombinator     = errors.New("selector ends with combinator")
	ErrSelectorCountViolation = errors.New("selector and combinator counts do not agree")
)

// SimpleSelector is a sequence of atoms, all of which have to match.
type SimpleSelector struct {
	Atoms []Atom
}

func (SimpleSelector) isSelector() {}

// Matches reports whether element satisfies every atom. Empty selector never matches.
func (s SimpleSelector) Matches(e Element) bool {
	if len(s.Atoms) == 0 || e == nil {
		return false
	}
	for _, a := range s.Atoms {
		if !a.Matches(e) {
			return false
		}
	}
	return true
}

// Priority returns sum of atom priorities.
func (s SimpleSelector) Priority() int {
	var p int
	for _, a := range s.Atoms {
		p += a.Priority()
	}
	return p
}

func (s SimpleSelector) String() string {
	var sb strings.Builder
	for _, a := range s.Atoms {
		sb.WriteString(a.String())
	}
	return sb.String()
}

// scanner states of the simple selector compiler
type scanState int

const (
	scanNone scanState = iota // between tokens, only a marker may follow
	scanType
	scanID
	scanClass
	scanPseudo
	scanAttr
)

// sentinel terminates the scanned fragment so the final token is emitted by the loop.
const sentinel = 0

func isMarker(c byte) bool {
	return c == '#' || c == '[' || c == ':' || c == '.'
}

// CompileSimple compiles one selector fragment without combinators
// (e.g. "rect#a.b[c=d]:first-child") into a SimpleSelector.
func CompileSimple(fragment string) (SimpleSelector, error) {
	if fragment == "" {
		return SimpleSelector{}, ErrEmptySelector
	}
	if fragment == "*" {
		return SimpleSelector{Atoms: []Atom{Universal()}}, nil
	}
	if strings.ContainsAny(fragment, " \t\n\r\f>+") {
		return SimpleSelector{}, fmt.Errorf("%w: %q", ErrCombinatorInFragment, fragment)
	}

	var (
		atoms []Atom
		token strings.Builder
		state = scanType
		input = fragment + string(rune(sentinel))
	)

	for i := 0; i < len(input); i++ {
		c := input[i]

		if state == scanAttr {
			switch c {
			case ']':
				atoms = append(atoms, ParseAttribute(token.String()))
				token.Reset()
				state = scanNone
			case sentinel:
				return SimpleSelector{}, fmt.Errorf("%w: %q", ErrUnterminatedAttribute, fragment)
			default:
				token.WriteByte(c)
			}
			continue
		}

		if !isMarker(c) && c != sentinel {
			if state == scanNone {
				return SimpleSelector{}, fmt.Errorf("%w: %q in %q", ErrUnexpectedCharacter, c, fragment)
			}
			token.WriteByte(c)
			continue
		}

		// token boundary
		switch {
		case state == scanNone:
		case state == scanType && i == 0:
			// fragment starts with a marker, there is no type
		case token.Len() == 0:
			return SimpleSelector{}, fmt.Errorf("%w: %q", ErrEmptyToken, fragment)
		default:
			atoms = append(atoms, emitAtom(state, token.String()))
		}
		token.Reset()

		switch c {
		case '#':
			state = scanID
		case '.':
			state = scanClass
		case ':':
			state = scanPseudo
		case '[':
			state = scanAttr
		}
	}

	if len(atoms) == 0 {
		return SimpleSelector{}, fmt.Errorf("%w: %q", ErrEmptySelector, fragment)
	}
	return SimpleSelector{Atoms: atoms}, nil
}

func emitAtom(state scanState, token string) Atom {
	switch state {
	case scanID:
		return IDAtom(token)
	case scanClass:
		return AttrAtom("class", AttrInList, token)
	case scanPseudo:
		return PseudoAtom(token)
	default:
		if token == "*" {
			return Universal()
		}
		return TypeAtom(token)
	}
}

// ParseAttribute builds attribute atom from bracket content without
// surrounding '[' and ']'. Malformed content produces atom which never matches.
func ParseAttribute(content string) Atom {
	p := strings.IndexByte(content, '=')
	if p < 0 {
		if name := strings.TrimSpace(content); name != "" {
			return AttrAtom(name, AttrExists, "")
		}
		return AttrAtom(content, AttrUnknown, "")
	}

	value := unquote(content[p+1:])
	if p == 0 {
		return AttrAtom("", AttrUnknown, value)
	}

	name, mode := content[:p], AttrEquals
	switch name[len(name)-1] {
	case '~':
		name, mode = name[:len(name)-1], AttrInList
	case '|':
		// language subtag convention: "en" matches "en-US"
		name, mode, value = name[:len(name)-1], AttrStartsWith, value+"-"
	}
	if name = strings.TrimSpace(name); name == "" {
		return AttrAtom("", AttrUnknown, value)
	}
	return AttrAtom(name, mode, value)
}

// unquote removes one pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
