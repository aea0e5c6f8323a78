package citations

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/mrryf/thesisweb/internal/htmltext"
)

// LinkClass is the class carried by citation links.
const LinkClass = "citation"

// Linker wraps in-text citations in links to the bibliography page.
type Linker struct {
	cache    *Cache
	refsPage string
	skip     htmltext.Skip
}

// LinkerOption configures a Linker.
type LinkerOption func(*Linker)

// WithAncestorExclude skips text nested anywhere below one of tags, not
// only their direct text.
func WithAncestorExclude(tags ...string) LinkerOption {
	return func(l *Linker) {
		l.skip = htmltext.AnyOf(l.skip, htmltext.AncestorIn(htmltext.NewExcludeSet(tags...)))
	}
}

// NewLinker links citations to refsPage, e.g. "literatur.html"; each link
// targets the "#ref-<id>" anchor there.
func NewLinker(cache *Cache, refsPage string, opts ...LinkerOption) *Linker {
	exclude := append([]string{"a"}, htmltext.DefaultExclude...)
	l := &Linker{
		cache:    cache,
		refsPage: refsPage,
		skip:     htmltext.ParentIn(htmltext.NewExcludeSet(exclude...)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Link rewrites the text leaves under root and returns how often each
// reference id was cited. Text content is preserved exactly.
func (l *Linker) Link(root *html.Node) map[string]int {
	cited := make(map[string]int)
	re := l.cache.Pattern()
	if re == nil {
		return cited
	}
	m := l.cache.CitationMap()

	for _, leaf := range htmltext.TextLeavesFunc(root, l.skip) {
		text := leaf.Data
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		var nodes []*html.Node
		last := 0
		for _, loc := range locs {
			if loc[0] > last {
				nodes = append(nodes, htmltext.NewText(text[last:loc[0]]))
			}
			match := text[loc[0]:loc[1]]
			id, ok := m[match]
			if !ok {
				nodes = append(nodes, htmltext.NewText(match))
			} else {
				a := htmltext.NewElement("a",
					"class", LinkClass,
					"href", l.refsPage+"#ref-"+id,
					"data-reference-id", id,
				)
				a.AppendChild(htmltext.NewText(match))
				nodes = append(nodes, a)
				cited[id]++
			}
			last = loc[1]
		}
		if last < len(text) {
			nodes = append(nodes, htmltext.NewText(text[last:]))
		}
		htmltext.Replace(leaf, nodes)
	}
	return cited
}

// LinkHTML parses a sanitized fragment, links it and renders it back.
func (l *Linker) LinkHTML(fragment string) (string, map[string]int, error) {
	root, err := htmltext.Parse(fragment)
	if err != nil {
		return "", nil, err
	}
	cited := l.Link(root)
	out, err := htmltext.RenderChildren(root)
	if err != nil {
		return "", nil, fmt.Errorf("citations: %w", err)
	}
	return out, cited, nil
}
