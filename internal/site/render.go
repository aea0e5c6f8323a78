package site

import (
	"fmt"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/glossary"
	"github.com/mrryf/thesisweb/internal/htmltext"
	"github.com/mrryf/thesisweb/internal/sanitize"
)

// Enhancer runs the per-section HTML pipeline: sanitize, link citations,
// annotate glossary terms, render.
type Enhancer struct {
	linker    *citations.Linker
	annotator *glossary.Annotator
	cited     map[string]int
}

// NewEnhancer returns an Enhancer linking citations to refsPage.
func NewEnhancer(dict *glossary.Dictionary, cache *citations.Cache, refsPage string) *Enhancer {
	return &Enhancer{
		linker: citations.NewLinker(cache, refsPage,
			citations.WithAncestorExclude("a", "pre", "code")),
		annotator: glossary.NewAnnotator(dict,
			glossary.WithExcludeAncestors("pre", "code"),
			glossary.WithExcludeClass("a", citations.LinkClass)),
		cited: make(map[string]int),
	}
}

// Enhance processes one section body. Citations are linked before terms
// are annotated and citation link text is never annotated, so a surname
// that is also a glossary term cannot split a citation. Highlighted code
// is left alone by both passes.
func (e *Enhancer) Enhance(raw string) (string, error) {
	root, err := htmltext.Parse(sanitize.HTML(raw))
	if err != nil {
		return "", fmt.Errorf("parsing section: %w", err)
	}

	for id, n := range e.linker.Link(root) {
		e.cited[id] += n
	}
	teardown := e.annotator.Annotate(root)
	defer teardown()

	out, err := htmltext.RenderChildren(root)
	if err != nil {
		return "", fmt.Errorf("rendering section: %w", err)
	}
	return out, nil
}

// Markers returns the number of glossary markers inserted so far.
func (e *Enhancer) Markers() int { return e.annotator.Markers() }

// Cited returns how often each reference was cited so far.
func (e *Enhancer) Cited() map[string]int { return e.cited }
