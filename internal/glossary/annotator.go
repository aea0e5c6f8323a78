package glossary

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/mrryf/thesisweb/internal/htmltext"
)

// MarkerClass is the class carried by every term marker.
const MarkerClass = "glossary-term"

// Marker attribute names read by the client script.
const (
	AttrTerm       = "data-glossary-term"
	AttrDefinition = "data-glossary-definition"
)

// Segment is one piece of an annotated text run. Term is nil for plain text.
type Segment struct {
	Text string
	Term *Term
}

// Teardown undoes an annotation pass. Annotation is not reversed, so the
// returned hook does nothing.
type Teardown func()

// Annotator rewrites text leaves so that glossary terms become markers.
// It is not safe for concurrent use.
type Annotator struct {
	dict    *Dictionary
	pattern *Pattern
	exclude htmltext.ExcludeSet
	skips   []htmltext.Skip
	class   string
	markers int
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithClass overrides the marker class.
func WithClass(class string) Option {
	return func(a *Annotator) { a.class = class }
}

// WithExclude adds tags whose direct text children are never annotated,
// on top of htmltext.DefaultExclude.
func WithExclude(tags ...string) Option {
	return func(a *Annotator) {
		for _, t := range tags {
			a.exclude[strings.ToLower(t)] = true
		}
	}
}

// WithExcludeAncestors skips text nested anywhere below one of tags, e.g.
// highlighted code whose tokens sit in spans inside pre and code.
func WithExcludeAncestors(tags ...string) Option {
	return func(a *Annotator) {
		a.skips = append(a.skips, htmltext.AncestorIn(htmltext.NewExcludeSet(tags...)))
	}
}

// WithExcludeClass skips the direct text of tag elements carrying class,
// leaving other tag elements annotatable.
func WithExcludeClass(tag, class string) Option {
	return func(a *Annotator) {
		a.skips = append(a.skips, htmltext.ParentWithClass(tag, class))
	}
}

// NewAnnotator compiles the dictionary's pattern once for repeated use.
func NewAnnotator(d *Dictionary, opts ...Option) *Annotator {
	a := &Annotator{
		dict:    d,
		pattern: Compile(d),
		exclude: htmltext.NewExcludeSet(htmltext.DefaultExclude...),
		class:   MarkerClass,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Markers returns how many markers this annotator has emitted so far.
func (a *Annotator) Markers() int { return a.markers }

// Split cuts text into plain and term segments. It returns nil when text
// contains no term. Concatenating the segment texts yields text unchanged.
func (a *Annotator) Split(text string) []Segment {
	matches := a.pattern.FindAll(text)
	if len(matches) == 0 {
		return nil
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m.Start > last {
			segments = append(segments, Segment{Text: text[last:m.Start]})
		}
		if term, ok := a.dict.Lookup(m.Text); ok {
			segments = append(segments, Segment{Text: m.Text, Term: &term})
		} else {
			segments = append(segments, Segment{Text: m.Text})
		}
		last = m.Start + len(m.Text)
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Annotate walks root once and replaces every text leaf containing a term
// with the corresponding run of text and marker nodes. Leaves without a
// term are left untouched.
func (a *Annotator) Annotate(root *html.Node) Teardown {
	skip := htmltext.AnyOf(append([]htmltext.Skip{htmltext.ParentIn(a.exclude)}, a.skips...)...)
	for _, leaf := range htmltext.TextLeavesFunc(root, skip) {
		segments := a.Split(leaf.Data)
		if segments == nil {
			continue
		}
		nodes := make([]*html.Node, len(segments))
		for i, s := range segments {
			nodes[i] = a.node(s)
		}
		htmltext.Replace(leaf, nodes)
	}
	return func() {}
}

// AnnotateHTML parses a sanitized fragment, annotates it and renders it back.
func (a *Annotator) AnnotateHTML(fragment string) (string, error) {
	root, err := htmltext.Parse(fragment)
	if err != nil {
		return "", err
	}
	a.Annotate(root)
	out, err := htmltext.RenderChildren(root)
	if err != nil {
		return "", fmt.Errorf("glossary: %w", err)
	}
	return out, nil
}

func (a *Annotator) node(s Segment) *html.Node {
	if s.Term == nil {
		return htmltext.NewText(s.Text)
	}
	a.markers++
	marker := htmltext.NewElement("abbr",
		"class", a.class,
		AttrTerm, s.Term.Term,
		AttrDefinition, s.Term.Definition,
		"tabindex", "0",
	)
	marker.AppendChild(htmltext.NewText(s.Text))
	return marker
}
