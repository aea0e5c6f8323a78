package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/htmltext"
	"github.com/mrryf/thesisweb/internal/sanitize"
	"github.com/mrryf/thesisweb/internal/walker"
)

// Well-known files at the root of a content directory.
const (
	SiteFile       = "site.yaml"
	GlossaryFile   = "glossary.yaml"
	FiguresFile    = "figures.yaml"
	ReferencesFile = "references.json"
)

// DefaultPagePatterns selects page files when LoadOptions.Pages is empty.
var DefaultPagePatterns = []string{"pages/**/*.yaml", "pages/**/*.yml"}

// DefaultWordsPerMinute is the reading speed behind ReadingTime.
const DefaultWordsPerMinute = 200

// LoadOptions controls which files Load reads.
type LoadOptions struct {
	Pages   []string // Globs selecting page files.
	Exclude []string // Globs for files to ignore entirely.
}

// Load reads a content directory. site.yaml is required; the glossary,
// figure and reference files are optional.
func Load(dir string, opts LoadOptions) (*Content, error) {
	files, err := walker.Walk(walker.WalkerConfig{RootDir: dir, Exclude: opts.Exclude})
	if err != nil {
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	c := &Content{
		Dir:         dir,
		Files:       files,
		Fingerprint: walker.Fingerprint(files),
	}

	if err := readYAML(filepath.Join(dir, SiteFile), &c.Site); err != nil {
		return nil, err
	}
	if c.Site.Language == "" {
		c.Site.Language = "de"
	}
	if err := readOptionalYAML(filepath.Join(dir, GlossaryFile), &c.Glossary); err != nil {
		return nil, err
	}
	if err := readOptionalYAML(filepath.Join(dir, FiguresFile), &c.Figures); err != nil {
		return nil, err
	}
	if err := readReferences(filepath.Join(dir, ReferencesFile), &c.References); err != nil {
		return nil, err
	}

	patterns := opts.Pages
	if len(patterns) == 0 {
		patterns = DefaultPagePatterns
	}
	for _, f := range files {
		if f.Kind != walker.KindYAML || !walker.MatchesInclude(f.RelPath, patterns) {
			continue
		}
		page, err := loadPage(f)
		if err != nil {
			return nil, err
		}
		c.Pages = append(c.Pages, page)
	}
	sortPages(c.Pages, c.Site.Nav)

	return c, nil
}

func loadPage(f walker.FileInfo) (Page, error) {
	var p Page
	if err := readYAML(f.Path, &p); err != nil {
		return Page{}, err
	}
	p.Source = f.RelPath
	if p.Slug == "" {
		p.Slug = strings.TrimSuffix(path.Base(f.RelPath), path.Ext(f.RelPath))
	}
	for i := range p.Sections {
		if err := prepareSection(&p.Sections[i]); err != nil {
			return Page{}, fmt.Errorf("%s: section %q: %w", f.RelPath, p.Sections[i].ID, err)
		}
	}
	return p, nil
}

// prepareSection renders markdown bodies and fills in a missing word count.
func prepareSection(s *Section) error {
	if s.Content == "" && s.Markdown != "" {
		out, err := RenderMarkdown(s.Markdown)
		if err != nil {
			return err
		}
		s.Content = out
	}
	for i := range s.Subsections {
		sub := &s.Subsections[i]
		if sub.Content == "" && sub.Markdown != "" {
			out, err := RenderMarkdown(sub.Markdown)
			if err != nil {
				return fmt.Errorf("subsection %q: %w", sub.ID, err)
			}
			sub.Content = out
		}
	}
	if s.WordCount == 0 {
		s.WordCount = CountWords(*s)
	}
	return nil
}

// CountWords counts the words of a section body and its subsections as
// they read after sanitization.
func CountWords(s Section) int {
	n := htmltext.WordCount(sanitize.HTML(s.Content))
	for _, sub := range s.Subsections {
		n += htmltext.WordCount(sanitize.HTML(sub.Content))
	}
	return n
}

// ReadingTime returns whole minutes needed to read words at wpm words per
// minute, rounded up. A non-positive wpm uses DefaultWordsPerMinute.
func ReadingTime(words, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / float64(wpm)))
}

// sortPages orders pages by their position in the navigation; pages not in
// the navigation follow, ordered by slug.
func sortPages(pages []Page, nav []NavItem) {
	pos := make(map[string]int, len(nav))
	for i, item := range nav {
		pos[strings.Trim(item.Href, "/")] = i
	}
	rank := func(p Page) int {
		if i, ok := pos[p.Slug]; ok {
			return i
		}
		return len(nav)
	}
	sort.SliceStable(pages, func(i, j int) bool {
		ri, rj := rank(pages[i]), rank(pages[j])
		if ri != rj {
			return ri < rj
		}
		return pages[i].Slug < pages[j].Slug
	})
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readOptionalYAML(path string, v any) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return readYAML(path, v)
}

func readReferences(path string, refs *[]citations.Reference) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", ReferencesFile, err)
	}
	if err := json.Unmarshal(data, refs); err != nil {
		return fmt.Errorf("parsing %s: %w", ReferencesFile, err)
	}
	for i := range *refs {
		CleanReference(&(*refs)[i])
	}
	return nil
}

// leftToRightMark is the invisible U+200E that reference managers leave in
// exported titles and author names.
const leftToRightMark = "\u200e"

// CleanReference strips left-to-right marks and surrounding whitespace from
// every text field of ref.
func CleanReference(ref *citations.Reference) {
	clean := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, leftToRightMark, ""))
	}
	ref.ID = clean(ref.ID)
	for i, a := range ref.Authors {
		ref.Authors[i] = clean(a)
	}
	ref.Title = clean(ref.Title)
	ref.Journal = clean(ref.Journal)
	ref.Volume = clean(ref.Volume)
	ref.Issue = clean(ref.Issue)
	ref.Pages = clean(ref.Pages)
	ref.DOI = clean(ref.DOI)
	ref.URL = clean(ref.URL)
	ref.Publisher = clean(ref.Publisher)
	ref.BookTitle = clean(ref.BookTitle)
}
