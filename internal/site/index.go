package site

import (
	"strings"
	"sync"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/glossary"
)

// Index answers read-only lookups over the current build: full-text
// search, glossary terms and citations. Update swaps in a new build, so
// readers never see a half-loaded state.
type Index struct {
	mu     sync.RWMutex
	search []SearchEntry
	dict   *glossary.Dictionary
	refs   *citations.Cache
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		dict: glossary.NewDictionary(nil),
		refs: citations.NewCache(nil),
	}
}

// NewIndexFor builds an index for c.
func NewIndexFor(c *content.Content) *Index {
	idx := NewIndex()
	idx.Update(c, BuildSearchIndex(c))
	return idx
}

// Update replaces the indexed content.
func (i *Index) Update(c *content.Content, entries []SearchEntry) {
	dict := c.Dictionary()
	refs := citations.NewCache(c.References)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.search = entries
	i.dict = dict
	i.refs = refs
}

// Search ranks sections against q.
func (i *Index) Search(q string, limit int) []SearchEntry {
	i.mu.RLock()
	entries := i.search
	i.mu.RUnlock()
	return Search(entries, q, limit)
}

// Terms lists all glossary terms alphabetically.
func (i *Index) Terms() []glossary.Term {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dict.Terms()
}

// Term looks a glossary term up case-insensitively.
func (i *Index) Term(name string) (glossary.Term, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dict.Lookup(strings.TrimSpace(name))
}

// Resolve finds the reference behind an in-text citation such as
// "(Davis, 1989)".
func (i *Index) Resolve(citation string) (citations.Reference, bool) {
	i.mu.RLock()
	refs := i.refs
	i.mu.RUnlock()
	return refs.Resolve(citation)
}

// Reference finds a reference by id.
func (i *Index) Reference(id string) (citations.Reference, bool) {
	i.mu.RLock()
	refs := i.refs
	i.mu.RUnlock()
	return refs.ByID(id)
}
