package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is a single property: value pair. Value is kept as written.
type Declaration struct {
	Property string `yaml:"property"`
	Value    string `yaml:"value"`
}

func (d Declaration) String() string {
	return d.Property + ":" + d.Value
}

// ParseDeclarations splits a declaration block ("fill:red; stroke-width: 2")
// into declarations in source order. Broken declarations are skipped.
func ParseDeclarations(block string) []Declaration {
	var decls []Declaration

	parser := css.NewParser(parse.NewInputString(block), true)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil {
				// io.EOF or unrecoverable input
				return decls
			}
		case css.DeclarationGrammar:
			if value := joinValue(parser.Values()); value != "" {
				decls = append(decls, Declaration{Property: strings.ToLower(string(data)), Value: value})
			}
		case css.CustomPropertyGrammar:
			if value := joinValue(parser.Values()); value != "" {
				decls = append(decls, Declaration{Property: string(data), Value: value})
			}
		}
	}
}

// joinValue builds raw value string, whitespace runs become single space.
func joinValue(tokens []css.Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// Merge applies declaration blocks in order, later values replace earlier
// ones. Properties keep the position they were first seen at.
func Merge(blocks []string) []Declaration {
	var (
		out   []Declaration
		index = make(map[string]int)
	)
	for _, block := range blocks {
		for _, d := range ParseDeclarations(block) {
			if i, ok := index[d.Property]; ok {
				out[i].Value = d.Value
				continue
			}
			index[d.Property] = len(out)
			out = append(out, d)
		}
	}
	return out
}

// FormatDeclarations renders declarations as inline style text.
func FormatDeclarations(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ";")
}
