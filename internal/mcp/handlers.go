package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/site"
)

const defaultSearchLimit = 5

// handleSearchContent runs a full-text search over the indexed sections.
func (s *Server) handleSearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results := s.index.Search(query, limit)
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The site may not be built yet. Run `thesisweb build` first."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleLookupTerm returns the definition of one glossary term.
func (s *Server) handleLookupTerm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	term, ok := s.index.Term(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%q is not in the glossary", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", term.Term, term.Definition)), nil
}

// handleListTerms returns the whole glossary.
func (s *Server) handleListTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	terms := s.index.Terms()
	if len(terms) == 0 {
		return mcp.NewToolResultText("The glossary is empty."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d term(s):\n", len(terms))
	for _, t := range terms {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Term, t.Definition)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleResolveCitation maps an in-text citation to its reference.
func (s *Server) handleResolveCitation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	citation, err := request.RequireString("citation")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: citation"), nil
	}

	ref, ok := s.index.Resolve(citation)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no reference matches %q", citation)), nil
	}
	return mcp.NewToolResultText(formatReference(ref)), nil
}

// handleReadingProgress reports the saved reading position.
func (s *Server) handleReadingProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.progress == nil {
		return mcp.NewToolResultText("No reading progress saved."), nil
	}
	p, ok := s.progress.Current()
	if !ok {
		return mcp.NewToolResultText("No reading progress saved."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Page: %s\n", p.Page)
	if p.SectionTitle != "" {
		fmt.Fprintf(&sb, "Section: %s\n", p.SectionTitle)
	}
	fmt.Fprintf(&sb, "Progress: %d%%\n", p.Progress)
	fmt.Fprintf(&sb, "Saved: %s\n", time.UnixMilli(p.Timestamp).Format(time.RFC3339))
	url, _ := s.progress.ResumeURL()
	fmt.Fprintf(&sb, "Resume: %s\n", url)
	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResults converts search results into a text format suited
// to agent consumption.
func formatSearchResults(results []site.SearchEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Section: %s\n", r.Title))
		if r.Page != "" {
			sb.WriteString(fmt.Sprintf("Page: %s\n", r.Page))
		}
		sb.WriteString(fmt.Sprintf("Link: %s\n", r.Path))

		sb.WriteString("\n")
		sb.WriteString(r.Summary)
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatReference renders a reference in a compact APA-like form.
func formatReference(ref citations.Reference) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d). %s.", citations.FormatAuthors(ref.Authors, 3), ref.Year, ref.Title)
	switch {
	case ref.Journal != "":
		fmt.Fprintf(&sb, " %s", ref.Journal)
		if ref.Volume != "" {
			fmt.Fprintf(&sb, ", %s", ref.Volume)
			if ref.Issue != "" {
				fmt.Fprintf(&sb, "(%s)", ref.Issue)
			}
		}
		if ref.Pages != "" {
			fmt.Fprintf(&sb, ", %s", ref.Pages)
		}
		sb.WriteString(".")
	case ref.BookTitle != "":
		fmt.Fprintf(&sb, " In %s.", ref.BookTitle)
	case ref.Publisher != "":
		fmt.Fprintf(&sb, " %s.", ref.Publisher)
	}
	if ref.DOI != "" {
		fmt.Fprintf(&sb, " https://doi.org/%s", ref.DOI)
	} else if ref.URL != "" {
		fmt.Fprintf(&sb, " %s", ref.URL)
	}
	fmt.Fprintf(&sb, "\nID: %s\nIn-text: (%s)\n", ref.ID, citations.FormatShortCitation(ref))
	return sb.String()
}
