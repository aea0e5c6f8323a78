// Package htmltext walks and rewrites the text leaves of parsed HTML trees.
package htmltext

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultExclude lists the elements whose direct text children are never
// scanned: code samples and existing tooltip markup.
var DefaultExclude = []string{"code", "pre", "script", "style", "abbr"}

// ExcludeSet is a set of lower-case element names.
type ExcludeSet map[string]bool

// NewExcludeSet builds an ExcludeSet from tag names.
func NewExcludeSet(tags ...string) ExcludeSet {
	set := make(ExcludeSet, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	return set
}

// Skip reports whether a text leaf is left out of a walk.
type Skip func(leaf *html.Node) bool

// TextLeaves returns the text nodes under root in document order
// (depth-first, pre-order). A text node is skipped when its immediate parent
// element is in exclude.
func TextLeaves(root *html.Node, exclude ExcludeSet) []*html.Node {
	return TextLeavesFunc(root, ParentIn(exclude))
}

// TextLeavesFunc is TextLeaves with an arbitrary filter. A nil skip keeps
// every text node.
func TextLeavesFunc(root *html.Node, skip Skip) []*html.Node {
	if root == nil {
		return nil
	}

	var leaves []*html.Node
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.TextNode {
			if skip != nil && skip(n) {
				continue
			}
			leaves = append(leaves, n)
			continue
		}

		// Push in reverse so the first child is popped first.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return leaves
}

// ParentIn skips leaves whose immediate parent element is in exclude.
func ParentIn(exclude ExcludeSet) Skip {
	return func(leaf *html.Node) bool {
		p := leaf.Parent
		return p != nil && p.Type == html.ElementNode && exclude[p.Data]
	}
}

// AncestorIn skips leaves with any ancestor element in tags. Syntax
// highlighters wrap code tokens in spans, so the immediate parent of
// highlighted text is rarely the pre or code element itself.
func AncestorIn(tags ExcludeSet) Skip {
	return func(leaf *html.Node) bool {
		for p := leaf.Parent; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && tags[p.Data] {
				return true
			}
		}
		return false
	}
}

// ParentWithClass skips leaves whose immediate parent is a tag element
// carrying class.
func ParentWithClass(tag, class string) Skip {
	tag = strings.ToLower(tag)
	return func(leaf *html.Node) bool {
		p := leaf.Parent
		return p != nil && p.Type == html.ElementNode && p.Data == tag && HasClass(p, class)
	}
}

// AnyOf skips a leaf when any of skips does.
func AnyOf(skips ...Skip) Skip {
	return func(leaf *html.Node) bool {
		for _, s := range skips {
			if s != nil && s(leaf) {
				return true
			}
		}
		return false
	}
}

// HasClass reports whether n's class attribute lists class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Replace swaps old for the given nodes, in order, under old's parent.
// It reports false when old is detached.
func Replace(old *html.Node, nodes []*html.Node) bool {
	parent := old.Parent
	if parent == nil {
		return false
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
	return true
}

// TextContent concatenates every text node under n, excluded or not.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// NewText returns a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewElement returns a detached element with the given attributes,
// given as alternating key/value pairs.
func NewElement(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

// Parse parses an HTML fragment in a <div> context and returns a synthetic
// <div> holding the parsed nodes.
func Parse(fragment string) (*html.Node, error) {
	container := NewElement("div")
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// RenderChildren serializes the children of n, omitting n itself.
func RenderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering fragment: %w", err)
		}
	}
	return buf.String(), nil
}

// Attr returns the value of the named attribute on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// WordCount counts whitespace-separated words in the text content of a
// fragment. Unparseable input counts as zero.
func WordCount(fragment string) int {
	root, err := Parse(fragment)
	if err != nil {
		return 0
	}
	return len(strings.Fields(TextContent(root)))
}
