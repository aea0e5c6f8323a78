package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/glossary"
	"github.com/mrryf/thesisweb/internal/reading"
	"github.com/mrryf/thesisweb/internal/site"
	"github.com/mrryf/thesisweb/internal/storage"
)

func testIndex() *site.Index {
	return site.NewIndexFor(&content.Content{
		Pages: []content.Page{{
			Slug:  "vorstudie",
			Title: "Vorstudie",
			Sections: []content.Section{{
				ID:      "framing",
				Number:  "2",
				Title:   "Framing-Effekte",
				Content: "<p>Attribute Framing verändert die Bewertung (Tversky & Kahneman, 1986).</p>",
			}},
		}},
		Glossary: []glossary.Term{
			{Term: "Framing", Definition: "Darstellung einer Information"},
			{Term: "LLM", Definition: "Large Language Model"},
		},
		References: []citations.Reference{{
			ID:      "tversky1986",
			Authors: []string{"Tversky, A.", "Kahneman, D."},
			Year:    1986,
			Title:   "Rational choice and the framing of decisions",
			Journal: "Journal of Business",
			Volume:  "59",
			Issue:   "4",
			Pages:   "S251-S278",
		}},
	})
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range result.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			sb.WriteString(tc.Text)
		case *mcp.TextContent:
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_content", searchContentTool, "search_content"},
		{"lookup_term", lookupTermTool, "lookup_term"},
		{"list_terms", listTermsTool, "list_terms"},
		{"resolve_citation", resolveCitationTool, "resolve_citation"},
		{"get_reading_progress", readingProgressTool, "get_reading_progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	idx := testIndex()
	srv := NewServer(idx, nil)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.index != idx {
		t.Error("index not set correctly")
	}
}

func TestHandleSearchContent(t *testing.T) {
	srv := NewServer(testIndex(), nil)

	t.Run("basic search", func(t *testing.T) {
		result := call(t, srv.handleSearchContent, map[string]any{"query": "framing"})
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		for _, want := range []string{"Found 1 result(s)", "2 Framing-Effekte", "vorstudie.html#framing"} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("no hits", func(t *testing.T) {
		result := call(t, srv.handleSearchContent, map[string]any{"query": "blockchain"})
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		result := call(t, srv.handleSearchContent, map[string]any{})
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleLookupTerm(t *testing.T) {
	srv := NewServer(testIndex(), nil)

	result := call(t, srv.handleLookupTerm, map[string]any{"term": "llm"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if got := resultText(t, result); got != "LLM: Large Language Model" {
		t.Errorf("unexpected text %q", got)
	}

	if result := call(t, srv.handleLookupTerm, map[string]any{"term": "GPT"}); !result.IsError {
		t.Error("expected error for unknown term")
	}
	if result := call(t, srv.handleLookupTerm, map[string]any{}); !result.IsError {
		t.Error("expected error for missing term")
	}
}

func TestHandleListTerms(t *testing.T) {
	result := call(t, NewServer(testIndex(), nil).handleListTerms, map[string]any{})
	text := resultText(t, result)
	if !strings.HasPrefix(text, "2 term(s):") {
		t.Errorf("unexpected header:\n%s", text)
	}
	if strings.Index(text, "Framing") > strings.Index(text, "LLM") {
		t.Errorf("terms not sorted:\n%s", text)
	}

	empty := call(t, NewServer(site.NewIndex(), nil).handleListTerms, map[string]any{})
	if got := resultText(t, empty); got != "The glossary is empty." {
		t.Errorf("unexpected text %q", got)
	}
}

func TestHandleResolveCitation(t *testing.T) {
	srv := NewServer(testIndex(), nil)

	result := call(t, srv.handleResolveCitation, map[string]any{"citation": "(Tversky & Kahneman, 1986)"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(t, result)
	for _, want := range []string{"Tversky, A. & Kahneman, D. (1986)", "Journal of Business, 59(4), S251-S278.", "ID: tversky1986"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}

	if result := call(t, srv.handleResolveCitation, map[string]any{"citation": "(Nobody, 2000)"}); !result.IsError {
		t.Error("expected error for unknown citation")
	}
}

func TestHandleReadingProgress(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		result := call(t, NewServer(testIndex(), nil).handleReadingProgress, map[string]any{})
		if got := resultText(t, result); got != "No reading progress saved." {
			t.Errorf("unexpected text %q", got)
		}
	})

	t.Run("saved position", func(t *testing.T) {
		store := reading.NewStore(storage.NewMemory())
		store.Update("vorstudie.html", "framing", "2 Framing-Effekte", 42.5)

		result := call(t, NewServer(testIndex(), store).handleReadingProgress, map[string]any{})
		text := resultText(t, result)
		for _, want := range []string{"Page: vorstudie.html", "Section: 2 Framing-Effekte", "Progress: 43%", "Resume: vorstudie.html#framing"} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}
	})
}
