package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchContentTool defines the search_content MCP tool.
var searchContentTool = mcp.NewTool("search_content",
	mcp.WithDescription("Full-text search over the thesis sections. Every query word must occur in the section title or text."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Words to search for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// lookupTermTool defines the lookup_term MCP tool.
var lookupTermTool = mcp.NewTool("lookup_term",
	mcp.WithDescription("Get the glossary definition of a term. Matching is case-insensitive."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Glossary term, e.g. TAM"),
	),
)

// listTermsTool defines the list_terms MCP tool.
var listTermsTool = mcp.NewTool("list_terms",
	mcp.WithDescription("List every glossary term with its definition."),
)

// resolveCitationTool defines the resolve_citation MCP tool.
var resolveCitationTool = mcp.NewTool("resolve_citation",
	mcp.WithDescription("Resolve an in-text citation such as \"(Davis, 1989)\" to its bibliography entry."),
	mcp.WithString("citation",
		mcp.Required(),
		mcp.Description("In-text citation as it appears in the thesis"),
	),
)

// readingProgressTool defines the get_reading_progress MCP tool.
var readingProgressTool = mcp.NewTool("get_reading_progress",
	mcp.WithDescription("Get the saved reading position and the link to resume reading."),
)
