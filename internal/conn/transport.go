package conn

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolSession is one established logical session to the tool-execution
// server.
type ToolSession interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Dialer establishes tool sessions. The MCP implementation lives behind it so
// the connection manager is fully injectable in tests.
type Dialer interface {
	Dial(ctx context.Context) (ToolSession, error)
}

// MCPDialer dials the tool-execution server over MCP streamable HTTP.
type MCPDialer struct {
	URL           string
	ClientName    string
	ClientVersion string
	// Headers supplies auth headers at dial time, so credentials discovered
	// mid-conversation reach the next session. May be nil.
	Headers func() map[string]string
}

// Dial connects and runs the MCP initialize handshake.
func (d *MCPDialer) Dial(ctx context.Context) (ToolSession, error) {
	var opts []transport.StreamableHTTPCOption
	if d.Headers != nil {
		if headers := d.Headers(); len(headers) > 0 {
			opts = append(opts, transport.WithHTTPHeaders(headers))
		}
	}

	c, err := client.NewStreamableHttpClient(d.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP transport: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    d.ClientName,
		Version: d.ClientVersion,
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("MCP initialize failed: %w", err)
	}

	return &mcpSession{c: c}, nil
}

type mcpSession struct {
	c *client.Client
}

func (s *mcpSession) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return s.c.CallTool(ctx, req)
}

func (s *mcpSession) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	res, err := s.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return res.Tools, nil
}

func (s *mcpSession) Ping(ctx context.Context) error {
	return s.c.Ping(ctx)
}

func (s *mcpSession) Close() error {
	return s.c.Close()
}
