package citations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrryf/thesisweb/internal/htmltext"
)

func testReferences() []Reference {
	return []Reference{
		{ID: "davis1989", Authors: []string{"Davis, Fred"}, Year: 1989, Title: "Perceived usefulness", Type: TypeArticle},
		{ID: "kahneman1979", Authors: []string{"Daniel Kahneman", "Amos Tversky"}, Year: 1979, Title: "Prospect theory", Type: TypeArticle},
		{ID: "cunningham2025", Authors: []string{"Cunningham, A.", "Miller, B.", "Chen, C."}, Year: 2025, Title: "ChatGPT usage", Type: TypeWeb},
		{ID: "noyear", Authors: []string{"Anon, A."}, Year: 0, Title: "Undated"},
		{ID: "noauthors", Year: 2020, Title: "Orphan"},
	}
}

func TestSurname(t *testing.T) {
	c := NewCache(nil)
	tests := []struct{ author, want string }{
		{"Davis, Fred", "Davis"},
		{"  Venkatesh , V.", "Venkatesh"},
		{"Daniel Kahneman", "Kahneman"},
		{"Ludwig van  Beethoven ", "Beethoven"},
		{"Plato", "Plato"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Surname(tt.author), "Surname(%q)", tt.author)
	}
}

func TestCitationMapSingleAuthor(t *testing.T) {
	m := NewCache(testReferences()).CitationMap()

	for _, key := range []string{
		"Davis, 1989", "Davis (1989)", "(Davis, 1989)",
		"Davis, 1989,", "(Davis, 1989,",
		"(vgl. Davis, 1989", "(cf. Davis, 1989", "(see Davis, 1989",
	} {
		assert.Equal(t, "davis1989", m[key], "key %q", key)
	}
}

func TestCitationMapTwoAuthors(t *testing.T) {
	m := NewCache(testReferences()).CitationMap()

	for _, key := range []string{
		"Kahneman & Tversky, 1979", "Kahneman and Tversky, 1979",
		"(Kahneman & Tversky, 1979)", "(Kahneman and Tversky, 1979)",
		"(Kahneman & Tversky, 1979,", "(Kahneman and Tversky, 1979,",
	} {
		assert.Equal(t, "kahneman1979", m[key], "key %q", key)
	}
	assert.NotContains(t, m, "Kahneman et al., 1979")
	assert.NotContains(t, m, "Kahneman, 1979")
}

func TestCitationMapThreeOrMoreAuthors(t *testing.T) {
	m := NewCache(testReferences()).CitationMap()

	for _, key := range []string{
		"Cunningham et al., 2025", "Cunningham et al. (2025)",
		"(Cunningham et al., 2025)", "(Cunningham et al., 2025,",
	} {
		assert.Equal(t, "cunningham2025", m[key], "key %q", key)
	}
	for key := range m {
		if strings.HasPrefix(strings.TrimPrefix(key, "("), "Cunningham") {
			assert.Contains(t, key, "et al.", "only et al. forms expected, got %q", key)
		}
	}
}

func TestCitationMapSkipsInvalidReferences(t *testing.T) {
	m := NewCache(testReferences()).CitationMap()
	for key, id := range m {
		assert.NotEqual(t, "noyear", id, "key %q", key)
		assert.NotEqual(t, "noauthors", id, "key %q", key)
	}
	assert.Len(t, m, 8+6+4)
}

func TestCitationMapIsCachedUntilCleared(t *testing.T) {
	refs := testReferences()
	c := NewCache(refs)
	first := c.CitationMap()
	require.Contains(t, first, "Davis, 1989")

	// Mutating the underlying slice is invisible until the cache is cleared.
	refs[0].Year = 1990
	assert.Contains(t, c.CitationMap(), "Davis, 1989")
	assert.NotContains(t, c.CitationMap(), "Davis, 1990")

	c.Clear()
	assert.Contains(t, c.CitationMap(), "Davis, 1990")
	assert.NotContains(t, c.CitationMap(), "Davis, 1989")
}

func TestSetReferencesInvalidates(t *testing.T) {
	c := NewCache(testReferences())
	require.NotEmpty(t, c.CitationMap())
	require.NotNil(t, c.Pattern())

	c.SetReferences(nil)
	assert.Empty(t, c.CitationMap())
	assert.Nil(t, c.Pattern())
}

func TestResolveAndByID(t *testing.T) {
	c := NewCache(testReferences())

	ref, ok := c.Resolve(" (Davis, 1989) ")
	require.True(t, ok)
	assert.Equal(t, "davis1989", ref.ID)

	_, ok = c.Resolve("(Nobody, 2000)")
	assert.False(t, ok)

	ref, ok = c.ByID("noyear")
	require.True(t, ok)
	assert.Equal(t, "Undated", ref.Title)
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		authors []string
		max     int
		want    string
	}{
		{nil, 3, ""},
		{[]string{"A"}, 3, "A"},
		{[]string{"A", "B"}, 3, "A & B"},
		{[]string{"A", "B", "C"}, 3, "A, B, & C"},
		{[]string{"A", "B", "C", "D"}, 3, "A et al."},
		{[]string{"A", "B"}, 1, "A et al."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAuthors(tt.authors, tt.max), "authors %v", tt.authors)
	}
}

func TestFormatShortCitation(t *testing.T) {
	refs := testReferences()
	assert.Equal(t, "Davis, 1989", FormatShortCitation(refs[0]))
	assert.Equal(t, "Daniel Kahneman & Amos Tversky, 1979", FormatShortCitation(refs[1]))
	assert.Equal(t, "Cunningham et al., 2025", FormatShortCitation(refs[2]))
}

func TestLinkerWrapsCitations(t *testing.T) {
	l := NewLinker(NewCache(testReferences()), "literatur.html")

	in := `<p>Laut (Davis, 1989) und Kahneman and Tversky, 1979 sowie (vgl. Davis, 1989, S. 12).</p>`
	out, cited, err := l.LinkHTML(in)
	require.NoError(t, err)

	assert.Equal(t, 2, cited["davis1989"])
	assert.Equal(t, 1, cited["kahneman1979"])
	assert.Contains(t, out, `<a class="citation" href="literatur.html#ref-davis1989" data-reference-id="davis1989">(Davis, 1989)</a>`)
	assert.Contains(t, out, `>(vgl. Davis, 1989</a>, S. 12)`)
}

func TestLinkerPreservesTextAndSkipsLinksAndCode(t *testing.T) {
	l := NewLinker(NewCache(testReferences()), "literatur.html")
	in := `<p><a href="/x">Davis, 1989</a> <code>Davis, 1989</code> McDavis, 1989 Davis, 1989</p>`

	root, err := htmltext.Parse(in)
	require.NoError(t, err)
	before := htmltext.TextContent(root)

	cited := l.Link(root)
	assert.Equal(t, before, htmltext.TextContent(root))
	assert.Equal(t, 1, cited["davis1989"], "only the bare trailing citation qualifies")
}

func TestLinkerAncestorExcludeSkipsHighlightedCode(t *testing.T) {
	in := `<pre><code><span class="s">Davis, 1989</span></code></pre><p><a href="/x"><em>Davis, 1989</em></a> Davis, 1989</p>`

	_, cited, err := NewLinker(NewCache(testReferences()), "literatur.html").LinkHTML(in)
	require.NoError(t, err)
	assert.Equal(t, 3, cited["davis1989"], "direct-parent rule alone reaches nested text")

	_, cited, err = NewLinker(NewCache(testReferences()), "literatur.html", WithAncestorExclude("a", "pre", "code")).LinkHTML(in)
	require.NoError(t, err)
	assert.Equal(t, 1, cited["davis1989"])
}

func TestLinkerEmptyReferences(t *testing.T) {
	out, cited, err := NewLinker(NewCache(nil), "literatur.html").LinkHTML(`<p>(Davis, 1989)</p>`)
	require.NoError(t, err)
	assert.Empty(t, cited)
	assert.Equal(t, `<p>(Davis, 1989)</p>`, out)
}
