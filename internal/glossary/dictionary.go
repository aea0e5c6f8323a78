// Package glossary finds glossary terms in rendered prose and wraps them in
// interactive term markers.
package glossary

import (
	"regexp"
	"sort"
	"strings"
)

// Term is a glossary entry as supplied by the content.
type Term struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// Dictionary maps lower-cased terms to their entries. It is read-only once
// built.
type Dictionary struct {
	entries map[string]Term
}

// NewDictionary indexes terms by their lower-cased form. A later entry with
// the same lower-cased term replaces an earlier one. Blank terms are ignored.
func NewDictionary(terms []Term) *Dictionary {
	d := &Dictionary{entries: make(map[string]Term, len(terms))}
	for _, t := range terms {
		key := strings.ToLower(strings.TrimSpace(t.Term))
		if key == "" {
			continue
		}
		d.entries[key] = t
	}
	return d
}

// Lookup finds the entry for s, ignoring case.
func (d *Dictionary) Lookup(s string) (Term, bool) {
	t, ok := d.entries[strings.ToLower(s)]
	return t, ok
}

// Len returns the number of distinct terms.
func (d *Dictionary) Len() int { return len(d.entries) }

// Keys returns the lower-cased terms, longest first. Equal lengths are
// ordered lexically so the result is stable.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Terms returns the entries sorted alphabetically, ignoring case.
func (d *Dictionary) Terms() []Term {
	terms := make([]Term, 0, len(d.entries))
	for _, t := range d.entries {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		return strings.ToLower(terms[i].Term) < strings.ToLower(terms[j].Term)
	})
	return terms
}

// Match is one occurrence of a term in a text run. Start is a byte offset.
type Match struct {
	Text  string
	Start int
}

// Pattern matches any dictionary term as a whole word, case-insensitively.
// A Pattern built from an empty dictionary matches nothing.
type Pattern struct {
	re *regexp.Regexp
}

// Compile builds the alternation of all dictionary keys. Longer keys come
// first so "AI-TAM" wins over "AI" wherever both could match.
func Compile(d *Dictionary) *Pattern {
	keys := d.Keys()
	if len(keys) == 0 {
		return &Pattern{}
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return &Pattern{re: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)}
}

// FindAll returns all non-overlapping matches in text, left to right.
func (p *Pattern) FindAll(text string) []Match {
	if p == nil || p.re == nil {
		return nil
	}
	locs := p.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{Text: text[loc[0]:loc[1]], Start: loc[0]}
	}
	return matches
}

// String returns the regular expression source, or "" for the empty pattern.
func (p *Pattern) String() string {
	if p == nil || p.re == nil {
		return ""
	}
	return p.re.String()
}
