// Package sanitize restricts untrusted HTML to the small set of tags and
// attributes thesis content is allowed to use.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedElements lists the tags that survive sanitization.
var AllowedElements = []string{
	"p", "br", "strong", "em", "u", "a", "ul", "ol", "li",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "code", "pre", "span",
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared content policy.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = NewPolicy()
	})
	return policy
}

// NewPolicy builds the content policy: allow-listed tags, class on any of
// them, href/target/rel on links and standard URL schemes only. Author rel
// values are kept as written. Data attributes and inline handlers are
// dropped.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedElements...)
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("class").Globally()
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)
	return p
}

// HTML sanitizes s with the shared policy.
func HTML(s string) string {
	return Policy().Sanitize(s)
}
