package api

import (
	"log/slog"

	"github.com/hazyhaar/unifold/pkg/kit"
	"github.com/hazyhaar/unifold/pkg/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer returns an MCP server with all tools registered.
func NewMCPServer(st *store.Store, version string, logger *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("unifold", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, st, logger)
	return srv
}

// RegisterMCPTools registers the search, normalize and expression tools.
func RegisterMCPTools(srv *server.MCPServer, st *store.Store, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	eps := newEndpoints(st, logger)
	registerSearch(srv, eps)
	registerNormalize(srv, eps)
	registerExpression(srv, eps)
}

func registerSearch(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("search_entries",
		mcp.WithDescription("Search stored entries with Unicode-aware case-insensitive matching (Cyrillic included)."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text, LIKE pattern or substring to look for")),
		mcp.WithString("field", mcp.Description("Column to search: term (default) or body")),
		mcp.WithString("match", mcp.Description("equal (default), like, includes, nocase_equal or nocase_like")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 50)")),
	)

	kit.RegisterMCPTool(srv, tool, eps.search, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		q := store.Query{}
		q.Text, _ = args["text"].(string)
		q.Field, _ = args["field"].(string)
		if v, _ := args["match"].(string); v != "" {
			q.Match = store.Match(v)
		}
		if v, ok := args["limit"].(float64); ok {
			q.Limit = int(v)
		}
		return &kit.MCPDecodeResult{Request: &searchReq{Query: q}}, nil
	})
}

func registerNormalize(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("normalize_text",
		mcp.WithDescription("Lowercase text the way searches do (ru-RU) and report whether it needs Unicode handling."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to normalize")),
	)

	kit.RegisterMCPTool(srv, tool, eps.normalize, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		text, _ := req.GetArguments()["text"].(string)
		return &kit.MCPDecodeResult{Request: &normalizeReq{Text: text}}, nil
	})
}

func registerExpression(srv *server.MCPServer, eps *endpoints) {
	tool := mcp.NewTool("build_expression",
		mcp.WithDescription("Render the SQL fragment and bound argument a match mode produces for a column."),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column identifier")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Value, pattern or substring")),
		mcp.WithString("match", mcp.Description("equal (default), like, includes, nocase_equal or nocase_like")),
	)

	kit.RegisterMCPTool(srv, tool, eps.expression, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &expressionReq{}
		r.Column, _ = args["column"].(string)
		r.Text, _ = args["text"].(string)
		if v, _ := args["match"].(string); v != "" {
			r.Match = store.Match(v)
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}
