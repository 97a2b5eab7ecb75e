package css

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// shortest span between delimiters
	commentSpan = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Parser parses style sheet text into compiled rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new style sheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseStylesheet parses src without logging.
func ParseStylesheet(src string) *Stylesheet {
	return NewParser(nil).Parse(src)
}

// Parse parses style sheet text into a Stylesheet. It never fails: rules and
// selectors which cannot be compiled are dropped and listed in Warnings.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(src string, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Rules:      make([]Rule, 0),
		Warnings:   make([]string, 0),
		bySelector: make(map[string]string),
	}

	log := p.log
	if len(source) > 0 && source[0] != "" {
		log = log.With(zap.String("source", source[0]))
	}
	log.Debug("Parsing stylesheet", zap.Int("bytes", len(src)))

	text := strings.TrimSpace(whitespaceRun.ReplaceAllString(src, " "))
	text = commentSpan.ReplaceAllString(text, "")

	for block := range strings.SplitSeq(text, "}") {
		if strings.TrimSpace(block) == "" {
			continue
		}

		pattern, decls, found := strings.Cut(block, "{")
		if !found {
			sheet.warn("malformed rule: %q", strings.TrimSpace(block))
			log.Debug("Skipping malformed rule", zap.String("rule", block))
			continue
		}
		pattern, decls = strings.TrimSpace(pattern), strings.TrimSpace(decls)
		if decls == "" {
			// NOTE: stop at the first rule with blank body, remaining text is
			// not looked at. Keeps results identical to older style engines.
			sheet.warn("empty declaration block for %q, ignoring rest of stylesheet", pattern)
			log.Debug("Empty declaration block, stop parsing", zap.String("selector", pattern))
			break
		}
		if pattern == "" {
			sheet.warn("rule without selector: %q", decls)
			log.Debug("Skipping rule without selector", zap.String("declarations", decls))
			continue
		}

		group := make(SelectorGroup, 0, strings.Count(pattern, ",")+1)
		for raw := range strings.SplitSeq(pattern, ",") {
			raw = strings.TrimSpace(raw)
			if raw != "" {
				sheet.bySelector[raw] = decls
			}
			sel, err := Compile(raw)
			if err != nil {
				sheet.warn("unsupported selector %q: %v", raw, err)
				log.Debug("Skipping selector", zap.String("selector", raw), zap.Error(err))
				continue
			}
			group = append(group, sel)
		}
		sheet.Rules = append(sheet.Rules, Rule{Group: group, Declarations: decls})
	}

	log.Debug("Stylesheet parsed", zap.Int("rules", len(sheet.Rules)), zap.Int("warnings", len(sheet.Warnings)))
	return sheet
}
