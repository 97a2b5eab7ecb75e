package svg

import (
	"context"
	"runtime"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"svgcss/css"
)

// Resolved is the cascade result for a single element.
type Resolved struct {
	Path     string            `yaml:"path"`
	Tag      string            `yaml:"tag"`
	ID       string            `yaml:"id,omitempty"`
	Blocks   []string          `yaml:"blocks,omitempty"`
	Computed []css.Declaration `yaml:"computed,omitempty"`

	el *etree.Element
}

// Element returns the document element result was computed for.
func (r Resolved) Element() css.Element {
	if r.el == nil {
		return nil
	}
	return Wrap(r.el)
}

// Resolver matches every element of a document against a stylesheet.
type Resolver struct {
	workers int
	log     *zap.Logger
}

// NewResolver creates resolver running at most workers matches at once,
// zero or less means number of CPUs.
func NewResolver(workers int, log *zap.Logger) *Resolver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{workers: workers, log: log.Named("resolver")}
}

// Resolve is a shortcut for NewResolver(workers, nil).Resolve.
func Resolve(ctx context.Context, doc *etree.Document, sheet *css.Stylesheet, workers int) ([]Resolved, error) {
	return NewResolver(workers, nil).Resolve(ctx, doc, sheet)
}

// Resolve computes matching declaration blocks and merged declarations for
// all elements of doc. Results are in document order. Document must not be
// modified while Resolve runs.
func (r *Resolver) Resolve(ctx context.Context, doc *etree.Document, sheet *css.Stylesheet) ([]Resolved, error) {
	items := collect(doc)
	results := make([]Resolved, len(items))

	r.log.Debug("Resolving styles", logFields(doc, sheet)...)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, it := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			blocks := sheet.Match(Wrap(it.el))
			results[i] = Resolved{
				Path:     it.path,
				Tag:      it.el.FullTag(),
				ID:       it.el.SelectAttrValue("id", ""),
				Blocks:   blocks,
				Computed: css.Merge(blocks),
				el:       it.el,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.log.Debug("Styles resolved", zap.Int("elements", len(results)))
	return results, nil
}
