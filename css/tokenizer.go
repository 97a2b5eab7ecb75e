package css

import (
	"fmt"
)

// TokenKind distinguishes selector fragments from combinators.
type TokenKind int

const (
	TokenSelector   TokenKind = iota // simple selector fragment
	TokenCombinator                  // " ", ">" or "+"
)

func (k TokenKind) String() string {
	if k == TokenCombinator {
		return "combinator"
	}
	return "selector"
}

// Token is a piece of a selector produced by Tokenize.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isCombinatorChar(c byte) bool {
	return isSpace(c) || c == '>' || c == '+'
}

// Tokenize splits selector into alternating selector and combinator tokens.
// Runs of whitespace around '>' or '+' collapse into that combinator, a run
// of whitespace alone is the descendant combinator. On error no tokens are
// returned.
func Tokenize(selector string) ([]Token, error) {
	if selector == "" {
		return nil, ErrEmptySelector
	}
	if isCombinatorChar(selector[0]) {
		return nil, fmt.Errorf("%w: %q", ErrLeadingCombinator, selector)
	}

	var (
		tokens     []Token
		start      int
		inFragment = true
		comb       byte
	)

	for i := 0; i < len(selector); i++ {
		c := selector[i]

		if inFragment {
			if !isCombinatorChar(c) {
				continue
			}
			tokens = append(tokens, Token{Kind: TokenSelector, Text: selector[start:i]})
			inFragment, comb = false, 0
		}

		switch {
		case isSpace(c):
		case c == '>' || c == '+':
			if comb != 0 {
				return nil, fmt.Errorf("%w: %q", ErrDoubleCombinator, selector)
			}
			comb = c
		default:
			text := " "
			if comb != 0 {
				text = string(comb)
			}
			tokens = append(tokens, Token{Kind: TokenCombinator, Text: text})
			inFragment, start = true, i
		}
	}

	if inFragment {
		return append(tokens, Token{Kind: TokenSelector, Text: selector[start:]}), nil
	}
	if comb != 0 {
		return nil, fmt.Errorf("%w: %q", ErrTrailingCombinator, selector)
	}
	// trailing whitespace only
	return tokens, nil
}
