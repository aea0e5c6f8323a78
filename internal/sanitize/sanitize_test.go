package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLKeepsAllowedMarkup(t *testing.T) {
	in := `<p class="lead">Die <strong>Akzeptanz</strong> von <em>KI</em></p><ul><li>eins</li></ul><pre><code>x := 1</code></pre>`
	assert.Equal(t, in, HTML(in))
}

func TestHTMLRemovesScript(t *testing.T) {
	out := HTML(`<p>ok</p><script>alert(1)</script>`)
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "<p>ok</p>")
}

func TestHTMLDropsDataAndEventAttributes(t *testing.T) {
	out := HTML(`<span data-glossary-term="x" onclick="steal()">KI</span>`)
	assert.NotContains(t, out, "data-")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "KI")
}

func TestHTMLLinks(t *testing.T) {
	in := `<a href="https://example.org" target="_blank" rel="noopener">x</a>`
	assert.Equal(t, in, HTML(in))
	assert.Equal(t, `<a href="kapitel.html">y</a>`, HTML(`<a href="kapitel.html">y</a>`), "no rel added")

	out := HTML(`<a href="https://example.org">x</a>`)
	assert.NotContains(t, out, "nofollow")

	out = HTML(`<a href="javascript:alert(1)">x</a>`)
	assert.NotContains(t, out, "javascript")
}

func TestHTMLStripsDisallowedTagsKeepsText(t *testing.T) {
	out := HTML(`<div><img src="x.png">Text <iframe src="x"></iframe>bleibt</div>`)
	assert.NotContains(t, out, "<div")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "iframe")
	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "bleibt")
}

func TestHrefOnlyOnLinks(t *testing.T) {
	out := HTML(`<span href="https://example.org">x</span>`)
	assert.NotContains(t, out, "href")
}
