package site

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/htmltext"
	"github.com/mrryf/thesisweb/internal/sanitize"
)

const (
	maxSearchContent = 2000
	maxSearchSummary = 200
)

// SearchEntry is one searchable section of the site.
type SearchEntry struct {
	Path    string `json:"path"`
	Page    string `json:"page"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// BuildSearchIndex extracts the plain text of every section.
func BuildSearchIndex(c *content.Content) []SearchEntry {
	var entries []SearchEntry
	for i := range c.Pages {
		p := &c.Pages[i]
		for _, s := range p.Sections {
			parts := []string{plainText(s.Content)}
			for _, sub := range s.Subsections {
				parts = append(parts, sub.Title, plainText(sub.Content))
			}
			text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")

			title := s.Title
			if s.Number != "" {
				title = s.Number + " " + s.Title
			}
			entries = append(entries, SearchEntry{
				Path:    pageFile(p.Slug) + "#" + s.ID,
				Page:    p.Title,
				Section: s.ID,
				Title:   title,
				Summary: truncate(text, maxSearchSummary),
				Content: truncate(text, maxSearchContent),
			})
		}
	}
	return entries
}

func plainText(fragment string) string {
	root, err := htmltext.Parse(sanitize.HTML(fragment))
	if err != nil {
		return ""
	}
	return htmltext.TextContent(root)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// Search ranks entries against q. Every query word must occur in the title
// or content, case-insensitively; title hits weigh more than body hits.
func Search(entries []SearchEntry, q string, limit int) []SearchEntry {
	words := strings.Fields(strings.ToLower(q))
	if len(words) == 0 {
		return nil
	}

	type scored struct {
		entry SearchEntry
		score int
	}
	var hits []scored
	for _, e := range entries {
		title := strings.ToLower(e.Title)
		body := strings.ToLower(e.Content)
		score := 0
		for _, w := range words {
			t := strings.Count(title, w)
			b := strings.Count(body, w)
			if t == 0 && b == 0 {
				score = 0
				break
			}
			score += 10*t + b
		}
		if score > 0 {
			hits = append(hits, scored{e, score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].entry.Path < hits[j].entry.Path
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]SearchEntry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ReadSearchIndex loads an index written by WriteSearchIndex.
func ReadSearchIndex(path string) ([]SearchEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []SearchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
