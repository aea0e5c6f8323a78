package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/htmltext"
	"github.com/mrryf/thesisweb/internal/sanitize"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding of Check.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Location string   `json:"location"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Code, i.Location, i.Message)
}

// Check validates content consistency. Issues are ordered errors first,
// then by code and location.
func Check(c *Content) []Issue {
	var issues []Issue
	add := func(sev Severity, code, loc, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Code: code, Location: loc, Message: fmt.Sprintf(format, args...)})
	}

	// Section ids become anchors, so they must be unique within a page.
	for _, p := range c.Pages {
		seen := make(map[string]bool)
		for _, s := range p.Sections {
			ids := []string{s.ID}
			for _, sub := range s.Subsections {
				ids = append(ids, sub.ID)
			}
			for _, id := range ids {
				if id == "" {
					add(SeverityError, "missing-section-id", p.Source, "section %q has no id", s.Title)
					continue
				}
				if seen[id] {
					add(SeverityError, "duplicate-section", p.Source, "section id %q is used more than once", id)
				}
				seen[id] = true
			}
			if strings.TrimSpace(s.Content) == "" && len(s.Subsections) == 0 {
				add(SeverityWarning, "empty-section", p.Source+"#"+s.ID, "section has no content")
			}
			for _, fid := range s.Figures {
				if _, ok := c.Figure(fid); !ok {
					add(SeverityError, "unknown-figure", p.Source+"#"+s.ID, "figure %q is not defined in %s", fid, FiguresFile)
				}
			}
		}
	}

	terms := make(map[string]string)
	for _, t := range c.Glossary {
		key := strings.ToLower(strings.TrimSpace(t.Term))
		if prev, ok := terms[key]; ok {
			add(SeverityWarning, "duplicate-term", GlossaryFile, "term %q repeats %q; the later definition wins", t.Term, prev)
		}
		terms[key] = t.Term
	}

	ids := make(map[string]bool)
	for _, ref := range c.References {
		loc := ReferencesFile + "#" + ref.ID
		if ids[ref.ID] {
			add(SeverityError, "duplicate-reference", loc, "reference id %q is used more than once", ref.ID)
		}
		ids[ref.ID] = true
		if ref.Year <= 0 {
			add(SeverityWarning, "reference-missing-year", loc, "reference has no year and cannot be cited")
		}
		if len(ref.Authors) == 0 {
			add(SeverityWarning, "reference-missing-authors", loc, "reference has no authors and cannot be cited")
		}
	}

	cited := CitedReferences(c)
	for _, ref := range c.References {
		if ref.Year > 0 && len(ref.Authors) > 0 && cited[ref.ID] == 0 {
			add(SeverityWarning, "reference-unused", ReferencesFile+"#"+ref.ID, "reference is never cited")
		}
	}

	if len(c.Site.Nav) > 0 {
		inNav := make(map[string]bool)
		for _, item := range c.Site.Nav {
			inNav[strings.Trim(item.Href, "/")] = true
		}
		for _, p := range c.Pages {
			if !inNav[p.Slug] {
				add(SeverityWarning, "nav-unknown-page", p.Source, "page %q is not linked from the navigation", p.Slug)
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Severity != issues[j].Severity {
			return issues[i].Severity == SeverityError
		}
		if issues[i].Code != issues[j].Code {
			return issues[i].Code < issues[j].Code
		}
		return issues[i].Location < issues[j].Location
	})
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CitedReferences counts, per reference id, how often it is cited across
// all section bodies.
func CitedReferences(c *Content) map[string]int {
	linker := citations.NewLinker(citations.NewCache(c.References), "")
	total := make(map[string]int)

	count := func(body string) {
		root, err := htmltext.Parse(sanitize.HTML(body))
		if err != nil {
			return
		}
		for id, n := range linker.Link(root) {
			total[id] += n
		}
	}
	for _, p := range c.Pages {
		for _, s := range p.Sections {
			count(s.Content)
			for _, sub := range s.Subsections {
				count(sub.Content)
			}
		}
	}
	return total
}
