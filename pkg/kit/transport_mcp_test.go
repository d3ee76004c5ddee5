package kit

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func TestRegisterMCPTool_Transport(t *testing.T) {
	srv := server.NewMCPServer("test", "0.0.0")
	var got []string
	ep := func(ctx context.Context, _ any) (any, error) {
		got = append(got, GetTransport(ctx))
		return map[string]string{"ok": "yes"}, nil
	}

	RegisterMCPTool(srv, mcp.NewTool("plain"), ep, func(mcp.CallToolRequest) (*MCPDecodeResult, error) {
		return &MCPDecodeResult{Request: struct{}{}}, nil
	})
	RegisterMCPTool(srv, mcp.NewTool("stdio"), ep, func(mcp.CallToolRequest) (*MCPDecodeResult, error) {
		return &MCPDecodeResult{
			Request:   struct{}{},
			EnrichCtx: func(ctx context.Context) context.Context { return WithTransport(ctx, "mcp_stdio") },
		}, nil
	})

	for _, name := range []string{"plain", "stdio"} {
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		res, err := srv.GetTool(name).Handler(context.Background(), req)
		if err != nil || res.IsError {
			t.Fatalf("%s: err=%v result=%+v", name, err, res)
		}
	}
	if len(got) != 2 || got[0] != "mcp" || got[1] != "mcp_stdio" {
		t.Fatalf("transports = %v, want [mcp mcp_stdio]", got)
	}
}
