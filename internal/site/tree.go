package site

import (
	"fmt"
	"html"
	"strings"

	"github.com/mrryf/thesisweb/internal/content"
)

// TOCNode is one entry of a page's table of contents.
type TOCNode struct {
	ID       string
	Number   string
	Title    string
	Children []*TOCNode
}

// BuildTOC builds the table of contents for a page: one node per section,
// with its subsections as children. Subsections are numbered below their
// section ("2.1", "2.2").
func BuildTOC(p *content.Page) []*TOCNode {
	nodes := make([]*TOCNode, 0, len(p.Sections))
	for _, s := range p.Sections {
		node := &TOCNode{ID: s.ID, Number: s.Number, Title: s.Title}
		for i, sub := range s.Subsections {
			num := ""
			if s.Number != "" {
				num = fmt.Sprintf("%s.%d", s.Number, i+1)
			}
			node.Children = append(node.Children, &TOCNode{ID: sub.ID, Number: num, Title: sub.Title})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// TOCHTML renders the table of contents as nested <ul><li> HTML for the
// sidebar. Links are in-page anchors.
func TOCHTML(nodes []*TOCNode) string {
	var b strings.Builder
	renderTOC(&b, nodes)
	return b.String()
}

func renderTOC(b *strings.Builder, nodes []*TOCNode) {
	if len(nodes) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, n := range nodes {
		label := html.EscapeString(n.Title)
		if n.Number != "" {
			label = `<span class="toc-number">` + html.EscapeString(n.Number) + `</span> ` + label
		}
		fmt.Fprintf(b, `<li><a href="#%s" data-toc-target="%s">%s</a>`, html.EscapeString(n.ID), html.EscapeString(n.ID), label)
		if len(n.Children) > 0 {
			b.WriteString("\n")
			renderTOC(b, n.Children)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}

// pageFile maps a content page slug to its output file.
func pageFile(slug string) string {
	return slug + ".html"
}

// navHref turns a navigation href into a link inside the generated site.
// "/vorstudie" becomes "vorstudie.html"; external and anchored links are
// kept.
func navHref(href string, external bool) string {
	if external || strings.Contains(href, "://") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return href
	}
	slug := strings.Trim(href, "/")
	if slug == "" {
		return "index.html"
	}
	if strings.HasSuffix(slug, ".html") {
		return slug
	}
	return pageFile(slug)
}
