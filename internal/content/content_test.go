package content

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/glossary"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "thesis")
}

func loadTestdata(t *testing.T) *Content {
	t.Helper()
	c, err := Load(testdataDir(t), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return c
}

func TestLoad(t *testing.T) {
	c := loadTestdata(t)

	if c.Site.Title != "Vertrauen in KI-Assistenten" {
		t.Errorf("Site.Title = %q", c.Site.Title)
	}
	if len(c.Glossary) != 5 {
		t.Errorf("len(Glossary) = %d, want 5", len(c.Glossary))
	}
	if len(c.References) != 4 {
		t.Errorf("len(References) = %d, want 4", len(c.References))
	}
	if len(c.Figures) != 1 {
		t.Errorf("len(Figures) = %d, want 1", len(c.Figures))
	}
	if c.Fingerprint == "" {
		t.Error("Fingerprint is empty")
	}

	// Navigation order, not file order.
	var slugs []string
	for _, p := range c.Pages {
		slugs = append(slugs, p.Slug)
	}
	if strings.Join(slugs, ",") != "vorstudie,forschung" {
		t.Errorf("page order = %v", slugs)
	}
}

func TestLoadRendersMarkdownAndCountsWords(t *testing.T) {
	c := loadTestdata(t)
	p, ok := c.Page("vorstudie")
	if !ok {
		t.Fatal("page vorstudie not loaded")
	}

	theory := p.Sections[1]
	if !strings.Contains(theory.Content, "<strong>Framing</strong>") {
		t.Errorf("markdown not rendered: %q", theory.Content)
	}
	if !strings.Contains(theory.Content, `class="chroma"`) {
		t.Errorf("code block not highlighted with classes: %q", theory.Content)
	}
	if theory.WordCount == 0 {
		t.Error("missing word count was not computed")
	}

	forschung, _ := c.Page("forschung")
	if forschung.Sections[0].WordCount != 100 {
		t.Errorf("explicit word_count overwritten: %d", forschung.Sections[0].WordCount)
	}
	if c.TotalWordCount() != p.WordCount()+100 {
		t.Errorf("TotalWordCount = %d", c.TotalWordCount())
	}
}

func TestLoadMissingSite(t *testing.T) {
	if _, err := Load(t.TempDir(), LoadOptions{}); err == nil {
		t.Error("Load() without site.yaml should fail")
	}
}

func TestLoadSlugFromFileName(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, SiteFile), "title: T\n")
	mustWrite(t, filepath.Join(dir, "pages", "methodik.yaml"), "title: Methodik\nsections: []\n")

	c, err := Load(dir, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c.Pages) != 1 || c.Pages[0].Slug != "methodik" {
		t.Errorf("pages = %+v", c.Pages)
	}
	if c.Site.Language != "de" {
		t.Errorf("default language = %q", c.Site.Language)
	}
}

func TestCleanReference(t *testing.T) {
	ref := citations.Reference{
		ID:      "x\u200e",
		Authors: []string{"\u200eDavis, F."},
		Title:   " Titel\u200e ",
	}
	CleanReference(&ref)
	if ref.ID != "x" || ref.Authors[0] != "Davis, F." || ref.Title != "Titel" {
		t.Errorf("CleanReference = %+v", ref)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words, wpm, want int
	}{
		{850, 200, 5},
		{200, 200, 1},
		{201, 200, 2},
		{0, 200, 0},
		{450, 0, 3},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.words, tt.wpm); got != tt.want {
			t.Errorf("ReadingTime(%d, %d) = %d, want %d", tt.words, tt.wpm, got, tt.want)
		}
	}
}

func TestCheckTestdata(t *testing.T) {
	issues := Check(loadTestdata(t))

	if HasErrors(issues) {
		t.Errorf("unexpected errors: %v", issues)
	}
	var unused []string
	for _, i := range issues {
		if i.Code == "reference-unused" {
			unused = append(unused, i.Location)
		}
	}
	if strings.Join(unused, ",") != "references.json#druckman2001" {
		t.Errorf("unused references = %v", unused)
	}
}

func TestCheckFindsProblems(t *testing.T) {
	c := &Content{
		Site: Site{Nav: []NavItem{{Title: "A", Href: "/a"}}},
		Pages: []Page{{
			Slug:   "a",
			Source: "pages/a.yaml",
			Sections: []Section{
				{ID: "s1", Content: "<p>x</p>", Figures: []string{"missing"}},
				{ID: "s1", Content: "<p>y</p>"},
				{ID: "s2"},
			},
		}, {
			Slug:     "b",
			Source:   "pages/b.yaml",
			Sections: []Section{{ID: "s1", Content: "<p>z</p>"}},
		}},
		Glossary: []glossary.Term{{Term: "KI"}, {Term: "ki"}},
		References: []citations.Reference{
			{ID: "r1", Year: 0, Authors: []string{"A"}},
			{ID: "r1", Year: 2000},
		},
	}

	codes := make(map[string]int)
	for _, i := range Check(c) {
		codes[i.Code]++
	}
	want := map[string]int{
		"unknown-figure":            1,
		"duplicate-section":         1,
		"empty-section":             1,
		"duplicate-term":            1,
		"duplicate-reference":       1,
		"reference-missing-year":    1,
		"reference-missing-authors": 1,
		"nav-unknown-page":          1,
	}
	for code, n := range want {
		if codes[code] != n {
			t.Errorf("%s: got %d issues, want %d", code, codes[code], n)
		}
	}

	issues := Check(c)
	if issues[0].Severity != SeverityError {
		t.Errorf("errors should sort first, got %v", issues[0])
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
