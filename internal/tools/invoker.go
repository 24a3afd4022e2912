package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Connection is the subset of the connection manager the invoker depends on.
type Connection interface {
	EnsureConnected(ctx context.Context) bool
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
}

// Invoker executes named remote tools over an established connection and
// normalizes every outcome into a ResultEnvelope. It makes exactly one
// invocation attempt per call; retry and backoff belong to the connection
// manager.
type Invoker struct {
	conn    Connection
	catalog *Catalog
	logger  *slog.Logger
}

// NewInvoker creates a tool invoker. A nil catalog disables local argument
// checks; a nil logger falls back to slog.Default().
func NewInvoker(conn Connection, catalog *Catalog, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{conn: conn, catalog: catalog, logger: logger}
}

// Invoke calls a remote tool. Failures of any kind (connectivity, argument
// presence, transport, server-reported) come back as failure envelopes; Invoke
// never panics and never returns a Go error to its caller.
func (inv *Invoker) Invoke(ctx context.Context, name string, args map[string]any) ResultEnvelope {
	if !inv.conn.EnsureConnected(ctx) {
		return Fail(NotConnectedError)
	}

	if inv.catalog != nil {
		if err := inv.catalog.CheckArgs(name, args); err != nil {
			return Fail("%v", err)
		}
	}

	res, err := inv.conn.CallTool(ctx, name, args)
	if err != nil {
		inv.logger.Warn("tool call failed", "tool", name, "error", err)
		return Fail("%v", err)
	}
	if res == nil {
		return Fail("empty response from tool server")
	}

	if res.IsError {
		msg := textContent(res)
		if msg == "" {
			msg = "tool execution failed"
		}
		return Fail("%s", msg)
	}

	return Ok(payloadFrom(res))
}

// payloadFrom extracts the structured payload of a successful result. The
// server is not consistent about where it puts it: structured content when
// available, otherwise the first text block parsed as JSON, otherwise the raw
// text itself.
func payloadFrom(res *mcp.CallToolResult) any {
	if res.StructuredContent != nil {
		return res.StructuredContent
	}

	text := textContent(res)
	if text == "" {
		return nil
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v
	}
	return text
}

// textContent concatenates the text blocks of a result.
func textContent(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok && tc.Text != "" {
			parts = append(parts, tc.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
