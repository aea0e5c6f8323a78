package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/glossary"
	"github.com/mrryf/thesisweb/internal/progress"
	"github.com/mrryf/thesisweb/internal/walker"
)

// Output file names.
const (
	IndexFile       = "index.html"
	GlossaryFile    = "glossar.html"
	ReferencesFile  = "literatur.html"
	DownloadsFile   = "downloads.html"
	SearchIndexFile = "search-index.json"
	ManifestFile    = "manifest.json"
)

// Options configures a Generator.
type Options struct {
	OutputDir      string
	WordsPerMinute int
	// ReferencesPage is the bibliography file citations link to.
	ReferencesPage string
	// LiveReload, when set, is the websocket path pages connect to.
	LiveReload string
	// ArchivePath, when set, receives a tar.xz of the generated site.
	ArchivePath string
	Reporter    progress.Reporter
}

// Generator renders loaded thesis content into a static site.
type Generator struct {
	content *content.Content
	opts    Options
	dict    *glossary.Dictionary
	cache   *citations.Cache
}

// Result summarizes a build.
type Result struct {
	Pages       int
	Markers     int
	Cited       map[string]int
	Files       []string
	Search      []SearchEntry
	Manifest    Manifest
	ArchivePath string
}

// NewGenerator prepares a generator for c.
func NewGenerator(c *content.Content, opts Options) *Generator {
	if opts.ReferencesPage == "" {
		opts.ReferencesPage = ReferencesFile
	}
	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = content.DefaultWordsPerMinute
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	return &Generator{
		content: c,
		opts:    opts,
		dict:    c.Dictionary(),
		cache:   citations.NewCache(c.References),
	}
}

// layoutData is shared by every page kind.
type layoutData struct {
	Site           content.Site
	Title          string
	Description    string
	PagePath       string
	Nav            []navView
	TOC            template.HTML
	Assets         Assets
	LiveReload     string
	ReferencesPage string
}

type navView struct {
	Title    string
	Href     string
	External bool
	Active   bool
}

type sectionView struct {
	ID          string
	Number      string
	Title       string
	Body        template.HTML
	WordCount   int
	ReadingTime int
	Figures     []content.Figure
	Subsections []subsectionView
}

type subsectionView struct {
	ID     string
	Number string
	Title  string
	Body   template.HTML
}

type pageData struct {
	layoutData
	ReadingTime int
	Sections    []sectionView
}

type pageSummary struct {
	Title       string
	Description string
	Href        string
	Sections    int
	ReadingTime int
}

type indexData struct {
	layoutData
	WordCount   int
	ReadingTime int
	Pages       []pageSummary
}

type termView struct {
	Term       string
	Definition string
	Anchor     string
}

type glossaryData struct {
	layoutData
	Terms []termView
}

type referenceView struct {
	ID      string
	Authors string
	Year    int
	Title   string
	Source  string
	DOI     string
	URL     string
	Cited   int
}

type referencesData struct {
	layoutData
	References []referenceView
}

// Generate builds the full static site.
func (g *Generator) Generate() (*Result, error) {
	out := g.opts.OutputDir
	if out == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	tmpls, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	assets, err := WriteAssets(out)
	if err != nil {
		return nil, fmt.Errorf("writing assets: %w", err)
	}
	res := &Result{Files: []string{assets.Style, assets.Script}}

	enhancer := NewEnhancer(g.dict, g.cache, g.opts.ReferencesPage)
	pages := g.content.Pages
	g.opts.Reporter.Start(len(pages))

	for i := range pages {
		p := &pages[i]
		g.opts.Reporter.Update(i+1, p.Title)
		data, err := g.pageData(p, enhancer, assets)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", p.Slug, err)
		}
		name := pageFile(p.Slug)
		if err := writeTemplate(filepath.Join(out, name), tmpls["page"], data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		res.Files = append(res.Files, name)
	}
	g.opts.Reporter.Finish()

	res.Pages = len(pages)
	res.Markers = enhancer.Markers()
	res.Cited = enhancer.Cited()

	if err := writeTemplate(filepath.Join(out, IndexFile), tmpls["index"], g.indexData(assets)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", IndexFile, err)
	}
	if err := writeTemplate(filepath.Join(out, GlossaryFile), tmpls["glossary"], g.glossaryData(assets)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", GlossaryFile, err)
	}
	if err := writeTemplate(filepath.Join(out, g.opts.ReferencesPage), tmpls["references"], g.referencesData(assets, res.Cited)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", g.opts.ReferencesPage, err)
	}
	if err := writeTemplate(filepath.Join(out, DownloadsFile), tmpls["downloads"], g.layout("Downloads", "", DownloadsFile, assets)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", DownloadsFile, err)
	}
	res.Files = append(res.Files, IndexFile, GlossaryFile, g.opts.ReferencesPage, DownloadsFile)

	res.Search = BuildSearchIndex(g.content)
	if err := WriteSearchIndex(res.Search, filepath.Join(out, SearchIndexFile)); err != nil {
		return nil, fmt.Errorf("writing search index: %w", err)
	}
	res.Files = append(res.Files, SearchIndexFile)

	if err := g.copyStatic(out); err != nil {
		return nil, err
	}

	sort.Strings(res.Files)
	res.Manifest = Manifest{
		BuildID:            uuid.NewString(),
		GeneratedAt:        time.Now().UTC(),
		ContentFingerprint: g.content.Fingerprint,
		Pages:              res.Pages,
		GlossaryTerms:      g.dict.Len(),
		References:         len(g.content.References),
		Markers:            res.Markers,
		Files:              res.Files,
	}
	if err := WriteManifest(res.Manifest, filepath.Join(out, ManifestFile)); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	if g.opts.ArchivePath != "" {
		if err := Archive(out, g.opts.ArchivePath); err != nil {
			return nil, fmt.Errorf("archiving site: %w", err)
		}
		res.ArchivePath = g.opts.ArchivePath
	}
	return res, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}
	mains := map[string]string{
		"index":      indexMain,
		"page":       pageMain,
		"glossary":   glossaryMain,
		"references": referencesMain,
		"downloads":  downloadsMain,
	}
	out := make(map[string]*template.Template, len(mains))
	for name, main := range mains {
		t, err := template.Must(base.Clone()).Parse(main)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func writeTemplate(path string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (g *Generator) layout(title, description, file string, assets Assets) layoutData {
	var nav []navView
	for _, item := range g.content.Site.Nav {
		href := navHref(item.Href, item.External)
		nav = append(nav, navView{
			Title:    item.Title,
			Href:     href,
			External: item.External,
			Active:   href == file,
		})
	}
	return layoutData{
		Site:           g.content.Site,
		Title:          title,
		Description:    description,
		PagePath:       file,
		Nav:            nav,
		Assets:         assets,
		LiveReload:     g.opts.LiveReload,
		ReferencesPage: g.opts.ReferencesPage,
	}
}

func (g *Generator) pageData(p *content.Page, e *Enhancer, assets Assets) (pageData, error) {
	data := pageData{
		layoutData:  g.layout(p.Title, p.Description, pageFile(p.Slug), assets),
		ReadingTime: content.ReadingTime(p.WordCount(), g.opts.WordsPerMinute),
	}
	data.TOC = template.HTML(TOCHTML(BuildTOC(p)))

	for _, s := range p.Sections {
		body, err := e.Enhance(s.Content)
		if err != nil {
			return pageData{}, fmt.Errorf("section %s: %w", s.ID, err)
		}
		view := sectionView{
			ID:          s.ID,
			Number:      s.Number,
			Title:       s.Title,
			Body:        template.HTML(body),
			WordCount:   s.WordCount,
			ReadingTime: content.ReadingTime(s.WordCount, g.opts.WordsPerMinute),
		}
		for _, fid := range s.Figures {
			if f, ok := g.content.Figure(fid); ok {
				view.Figures = append(view.Figures, f)
			}
		}
		for i, sub := range s.Subsections {
			body, err := e.Enhance(sub.Content)
			if err != nil {
				return pageData{}, fmt.Errorf("subsection %s: %w", sub.ID, err)
			}
			num := ""
			if s.Number != "" {
				num = fmt.Sprintf("%s.%d", s.Number, i+1)
			}
			view.Subsections = append(view.Subsections, subsectionView{
				ID:     sub.ID,
				Number: num,
				Title:  sub.Title,
				Body:   template.HTML(body),
			})
		}
		data.Sections = append(data.Sections, view)
	}
	return data, nil
}

func (g *Generator) indexData(assets Assets) indexData {
	c := g.content
	data := indexData{
		layoutData:  g.layout("", c.Site.Subtitle, IndexFile, assets),
		WordCount:   c.TotalWordCount(),
		ReadingTime: content.ReadingTime(c.TotalWordCount(), g.opts.WordsPerMinute),
	}
	for i := range c.Pages {
		p := &c.Pages[i]
		data.Pages = append(data.Pages, pageSummary{
			Title:       p.Title,
			Description: p.Description,
			Href:        pageFile(p.Slug),
			Sections:    len(p.Sections),
			ReadingTime: content.ReadingTime(p.WordCount(), g.opts.WordsPerMinute),
		})
	}
	return data
}

func (g *Generator) glossaryData(assets Assets) glossaryData {
	data := glossaryData{layoutData: g.layout("Glossar", "", GlossaryFile, assets)}
	for _, t := range g.dict.Terms() {
		data.Terms = append(data.Terms, termView{
			Term:       t.Term,
			Definition: t.Definition,
			Anchor:     "term-" + anchor(t.Term),
		})
	}
	return data
}

func (g *Generator) referencesData(assets Assets, cited map[string]int) referencesData {
	refs := make([]citations.Reference, len(g.content.References))
	copy(refs, g.content.References)
	sort.SliceStable(refs, func(i, j int) bool {
		ai, aj := sortAuthor(g.cache, refs[i]), sortAuthor(g.cache, refs[j])
		if ai != aj {
			return ai < aj
		}
		return refs[i].Year < refs[j].Year
	})

	data := referencesData{layoutData: g.layout("Literatur", "", g.opts.ReferencesPage, assets)}
	for _, r := range refs {
		data.References = append(data.References, referenceView{
			ID:      r.ID,
			Authors: citations.FormatAuthors(r.Authors, 20),
			Year:    r.Year,
			Title:   r.Title,
			Source:  referenceSource(r),
			DOI:     r.DOI,
			URL:     r.URL,
			Cited:   cited[r.ID],
		})
	}
	return data
}

func sortAuthor(cache *citations.Cache, r citations.Reference) string {
	if len(r.Authors) == 0 {
		return strings.ToLower(r.Title)
	}
	return strings.ToLower(cache.Surname(r.Authors[0]))
}

// referenceSource renders where a work appeared: journal with volume,
// issue and pages, or the book title or publisher.
func referenceSource(r citations.Reference) string {
	switch {
	case r.Journal != "":
		s := r.Journal
		if r.Volume != "" {
			s += ", " + r.Volume
			if r.Issue != "" {
				s += "(" + r.Issue + ")"
			}
		}
		if r.Pages != "" {
			s += ", " + r.Pages
		}
		return s
	case r.BookTitle != "":
		return r.BookTitle
	default:
		return r.Publisher
	}
}

// anchor lower-cases s and replaces runs of non-alphanumerics with "-".
func anchor(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r > 127 {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// copyStatic copies images and documents from the content directory into
// the output, keeping their relative paths.
func (g *Generator) copyStatic(out string) error {
	for _, f := range g.content.Files {
		if f.Kind != walker.KindImage && f.Kind != walker.KindDocument {
			continue
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		dst := filepath.Join(out, filepath.FromSlash(f.RelPath))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("copying %s: %w", f.RelPath, err)
		}
	}
	return nil
}
