package resolve

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
	yaml "gopkg.in/yaml.v3"

	"svgcss/config"
	"svgcss/css"
	"svgcss/state"
	"svgcss/svg"
	"svgcss/utils/debug"
)

// buildOutputPath returns output file path for source. "src" is relative
// path of the source (base name for a single file), output keeps its
// directory unless NoDirs is requested. Name is transliterated when
// configured and always cleaned.
func buildOutputPath(src, dst string, format config.OutputFmt, env *state.LocalEnv) string {
	outDir := dst
	if !env.NoDirs {
		outDir = filepath.Join(dst, filepath.Dir(src))
	}

	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Output.FileNameTransliterate {
		baseName = slug.Make(baseName)
	}
	return filepath.Join(outDir, config.CleanFileName(baseName)+format.Ext())
}

// cascade is everything produced for a single document.
type cascade struct {
	src     string
	doc     *etree.Document
	sheet   *css.Stylesheet
	results []svg.Resolved
}

func writeOutput(w io.Writer, c *cascade, format config.OutputFmt, cfg *config.Config) error {
	switch format {
	case config.OutputFmtTree:
		return writeTree(w, c, &cfg.Output)
	case config.OutputFmtYaml:
		return writeYAML(w, c, &cfg.Output)
	case config.OutputFmtSvg:
		return writeSVG(w, c, cfg)
	}
	// this should never happen
	panic(fmt.Sprintf("unsupported output format %s", format))
}

func writeTree(w io.Writer, c *cascade, cfg *config.OutputConfig) error {
	tw := debug.NewTreeWriter(cfg.Indent)

	tw.Line(0, "source: %s", c.src)
	tw.Line(0, "rules: %d", c.sheet.Len())
	if c.sheet != nil {
		tw.List(0, "warnings", c.sheet.Warnings)
	}

	for _, r := range c.results {
		depth := strings.Count(r.Path, "/") - 1
		label := r.Tag
		if r.ID != "" {
			label += "#" + r.ID
		}
		tw.Line(depth, "%s", label)
		if len(r.Computed) > 0 {
			tw.TextBlock(depth+1, "style", css.FormatDeclarations(r.Computed))
		}
		if !cfg.Trace {
			continue
		}
		for _, m := range c.sheet.Trace(r.Element()) {
			sel := m.Selector
			if m.Inline {
				sel = "style attribute"
			}
			mark := ""
			if m.Replaced {
				mark = " (replaced)"
			}
			tw.Line(depth+1, "[%d] %s { %s }%s", m.Priority, sel, m.Declarations, mark)
		}
	}

	_, err := tw.WriteTo(w)
	return err
}

type (
	yamlElement struct {
		svg.Resolved `yaml:",inline"`
		Trace        []yamlTrace `yaml:"trace,omitempty"`
	}

	yamlTrace struct {
		Priority     int    `yaml:"priority"`
		Selector     string `yaml:"selector,omitempty"`
		Declarations string `yaml:"declarations"`
		Inline       bool   `yaml:"inline,omitempty"`
		Replaced     bool   `yaml:"replaced,omitempty"`
	}

	yamlReport struct {
		Source   string        `yaml:"source"`
		Rules    int           `yaml:"rules"`
		Warnings []string      `yaml:"warnings,omitempty"`
		Elements []yamlElement `yaml:"elements"`
	}
)

func writeYAML(w io.Writer, c *cascade, cfg *config.OutputConfig) error {
	rpt := yamlReport{
		Source:   c.src,
		Rules:    c.sheet.Len(),
		Elements: make([]yamlElement, 0, len(c.results)),
	}
	if c.sheet != nil {
		rpt.Warnings = c.sheet.Warnings
	}
	for _, r := range c.results {
		el := yamlElement{Resolved: r}
		if cfg.Trace {
			for _, m := range c.sheet.Trace(r.Element()) {
				el.Trace = append(el.Trace, yamlTrace(m))
			}
		}
		rpt.Elements = append(rpt.Elements, el)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(cfg.Indent)
	if err := enc.Encode(&rpt); err != nil {
		return fmt.Errorf("unable to encode cascade: %w", err)
	}
	return enc.Close()
}

func writeSVG(w io.Writer, c *cascade, cfg *config.Config) error {
	out := svg.Inline(c.doc, c.results, cfg.Cascade.KeepStyleElements)
	out.Indent(cfg.Output.Indent)
	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	return nil
}
