// Package content models the thesis: site metadata, pages with numbered
// sections, figures, glossary terms and references, loaded from a content
// directory.
package content

import (
	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/glossary"
	"github.com/mrryf/thesisweb/internal/walker"
)

// Site holds the global metadata from site.yaml.
type Site struct {
	Title     string     `yaml:"title" json:"title"`
	Subtitle  string     `yaml:"subtitle" json:"subtitle,omitempty"`
	Author    string     `yaml:"author" json:"author,omitempty"`
	Language  string     `yaml:"language" json:"language"`
	GitHubURL string     `yaml:"github_url" json:"githubUrl,omitempty"`
	Nav       []NavItem  `yaml:"nav" json:"nav"`
	Downloads []Download `yaml:"downloads" json:"downloads,omitempty"`
}

// NavItem is one entry of the main navigation.
type NavItem struct {
	Title    string `yaml:"title" json:"title"`
	Href     string `yaml:"href" json:"href"`
	Icon     string `yaml:"icon" json:"icon,omitempty"`
	External bool   `yaml:"external" json:"external,omitempty"`
}

// Download is a file offered on the downloads page.
type Download struct {
	Title       string `yaml:"title" json:"title"`
	Href        string `yaml:"href" json:"href"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Page is one content page, e.g. the pre-study, with its sections.
type Page struct {
	Slug        string    `yaml:"slug" json:"slug"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description,omitempty"`
	Sections    []Section `yaml:"sections" json:"sections"`

	// Source is the page file relative to the content directory.
	Source string `yaml:"-" json:"-"`
}

// Section is a numbered top-level part of a page.
type Section struct {
	ID          string       `yaml:"id" json:"id"`
	Number      string       `yaml:"number" json:"number"`
	Title       string       `yaml:"title" json:"title"`
	Content     string       `yaml:"content" json:"content"`
	Markdown    string       `yaml:"markdown" json:"-"`
	WordCount   int          `yaml:"word_count" json:"wordCount"`
	Subsections []Subsection `yaml:"subsections" json:"subsections,omitempty"`
	Figures     []string     `yaml:"figures" json:"figures,omitempty"`
}

// Subsection is a titled block inside a section.
type Subsection struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Content  string `yaml:"content" json:"content"`
	Markdown string `yaml:"markdown" json:"-"`
}

// Figure is an image referenced by sections.
type Figure struct {
	ID      string `yaml:"id" json:"id"`
	Src     string `yaml:"src" json:"src"`
	Caption string `yaml:"caption" json:"caption"`
	Alt     string `yaml:"alt" json:"alt"`
}

// Content is everything loaded from one content directory.
type Content struct {
	Dir        string
	Site       Site
	Pages      []Page
	Glossary   []glossary.Term
	Figures    []Figure
	References []citations.Reference

	// Files lists every file under Dir; Fingerprint digests them.
	Files       []walker.FileInfo
	Fingerprint string
}

// Dictionary builds the glossary dictionary.
func (c *Content) Dictionary() *glossary.Dictionary {
	return glossary.NewDictionary(c.Glossary)
}

// Page returns the page with the given slug.
func (c *Content) Page(slug string) (*Page, bool) {
	for i := range c.Pages {
		if c.Pages[i].Slug == slug {
			return &c.Pages[i], true
		}
	}
	return nil, false
}

// Figure returns the figure with the given id.
func (c *Content) Figure(id string) (Figure, bool) {
	for _, f := range c.Figures {
		if f.ID == id {
			return f, true
		}
	}
	return Figure{}, false
}

// WordCount sums the section word counts of the page.
func (p *Page) WordCount() int {
	n := 0
	for _, s := range p.Sections {
		n += s.WordCount
	}
	return n
}

// TotalWordCount sums the word counts of all pages.
func (c *Content) TotalWordCount() int {
	n := 0
	for i := range c.Pages {
		n += c.Pages[i].WordCount()
	}
	return n
}
