// Package citations derives in-text citation variants from bibliographic
// references and links them in rendered content.
package citations

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ReferenceType classifies a bibliography entry.
type ReferenceType string

const (
	TypeArticle    ReferenceType = "article"
	TypeBook       ReferenceType = "book"
	TypeConference ReferenceType = "conference"
	TypeThesis     ReferenceType = "thesis"
	TypeWeb        ReferenceType = "web"
)

// Reference is one bibliography entry, in the shape of references.json.
type Reference struct {
	ID        string        `json:"id"`
	Authors   []string      `json:"authors"`
	Year      int           `json:"year"`
	Title     string        `json:"title"`
	Journal   string        `json:"journal,omitempty"`
	Volume    string        `json:"volume,omitempty"`
	Issue     string        `json:"issue,omitempty"`
	Pages     string        `json:"pages,omitempty"`
	DOI       string        `json:"doi,omitempty"`
	URL       string        `json:"url,omitempty"`
	Type      ReferenceType `json:"type"`
	Publisher string        `json:"publisher,omitempty"`
	BookTitle string        `json:"booktitle,omitempty"`
}

// Cache owns a reference list together with everything derived from it:
// memoized surnames, the citation map and the compiled citation pattern.
// Derived data is built on first use and kept until Clear or
// SetReferences is called.
type Cache struct {
	mu          sync.Mutex
	refs        []Reference
	surnames    map[string]string
	citationMap map[string]string
	pattern     *regexp.Regexp
}

// NewCache wraps refs. The slice is not copied.
func NewCache(refs []Reference) *Cache {
	return &Cache{refs: refs, surnames: make(map[string]string)}
}

// References returns the wrapped reference list.
func (c *Cache) References() []Reference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}

// SetReferences replaces the reference list and drops all derived data.
func (c *Cache) SetReferences(refs []Reference) {
	c.mu.Lock()
	c.refs = refs
	c.mu.Unlock()
	c.Clear()
}

// Clear drops the memoized surnames, citation map and pattern.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surnames = make(map[string]string)
	c.citationMap = nil
	c.pattern = nil
}

// Surname extracts the family name of an author. "Last, First" yields the
// text before the first comma; anything else is read as "First Last" and
// yields the last whitespace-separated token.
func (c *Cache) Surname(author string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surname(author)
}

func (c *Cache) surname(author string) string {
	if s, ok := c.surnames[author]; ok {
		return s
	}
	var last string
	if i := strings.Index(author, ","); i >= 0 {
		last = strings.TrimSpace(author[:i])
	} else if parts := strings.Fields(author); len(parts) > 0 {
		last = parts[len(parts)-1]
	}
	c.surnames[author] = last
	return last
}

// CitationMap maps every recognized in-text citation variant to a
// reference id. The returned map is shared and must not be modified.
func (c *Cache) CitationMap() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.citationMapLocked()
}

func (c *Cache) citationMapLocked() map[string]string {
	if c.citationMap != nil {
		return c.citationMap
	}

	m := make(map[string]string)
	for _, ref := range c.refs {
		if ref.Year <= 0 || len(ref.Authors) == 0 {
			continue
		}
		last := c.surname(ref.Authors[0])
		year := strconv.Itoa(ref.Year)

		var keys []string
		switch len(ref.Authors) {
		case 1:
			keys = []string{
				last + ", " + year,
				last + " (" + year + ")",
				"(" + last + ", " + year + ")",
				// page-number continuations, e.g. "Kelle, 2008, S. 174"
				last + ", " + year + ",",
				"(" + last + ", " + year + ",",
				"(vgl. " + last + ", " + year,
				"(cf. " + last + ", " + year,
				"(see " + last + ", " + year,
			}
		case 2:
			second := c.surname(ref.Authors[1])
			keys = []string{
				last + " & " + second + ", " + year,
				last + " and " + second + ", " + year,
				"(" + last + " & " + second + ", " + year + ")",
				"(" + last + " and " + second + ", " + year + ")",
				"(" + last + " & " + second + ", " + year + ",",
				"(" + last + " and " + second + ", " + year + ",",
			}
		default:
			keys = []string{
				last + " et al., " + year,
				last + " et al. (" + year + ")",
				"(" + last + " et al., " + year + ")",
				"(" + last + " et al., " + year + ",",
			}
		}
		for _, k := range keys {
			m[k] = ref.ID
		}
	}

	c.citationMap = m
	return m
}

// Pattern returns a regular expression matching any citation map key,
// longest key first. It is nil when the map is empty.
func (c *Cache) Pattern() *regexp.Regexp {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pattern != nil {
		return c.pattern
	}
	m := c.citationMapLocked()
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	alts := make([]string, len(keys))
	for i, k := range keys {
		alt := regexp.QuoteMeta(k)
		if isWordByte(k[0]) {
			alt = `\b` + alt
		}
		if isWordByte(k[len(k)-1]) {
			alt += `\b`
		}
		alts[i] = alt
	}
	c.pattern = regexp.MustCompile(strings.Join(alts, "|"))
	return c.pattern
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// ByID finds a reference by id.
func (c *Cache) ByID(id string) (Reference, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ref := range c.refs {
		if ref.ID == id {
			return ref, true
		}
	}
	return Reference{}, false
}

// Resolve finds the reference an in-text citation points to.
func (c *Cache) Resolve(citation string) (Reference, bool) {
	id, ok := c.CitationMap()[strings.TrimSpace(citation)]
	if !ok {
		return Reference{}, false
	}
	return c.ByID(id)
}

// FormatAuthors renders an author list for display: up to maxDisplay
// authors are listed APA-style, longer lists collapse to "First et al.".
func FormatAuthors(authors []string, maxDisplay int) string {
	n := len(authors)
	switch {
	case n == 0:
		return ""
	case n > maxDisplay:
		return authors[0] + " et al."
	case n == 1:
		return authors[0]
	case n == 2:
		return authors[0] + " & " + authors[1]
	default:
		return strings.Join(authors[:n-1], ", ") + ", & " + authors[n-1]
	}
}

// FormatShortCitation renders "(Author, Year)"-style text without the
// parentheses, using the part of each author before the first comma.
func FormatShortCitation(ref Reference) string {
	first := func(i int) string { return strings.Split(ref.Authors[i], ",")[0] }

	var authors string
	switch len(ref.Authors) {
	case 0:
		authors = ""
	case 1:
		authors = first(0)
	case 2:
		authors = first(0) + " & " + first(1)
	default:
		authors = first(0) + " et al."
	}
	return authors + ", " + strconv.Itoa(ref.Year)
}
