// Package client implements the interactive command-line front end: an MCP
// connection to the promptpipe server, a model-backed smart router, and the
// menu loop that renders tool envelopes.
package client

import (
	"context"
	"fmt"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
)

// Caller invokes one named server operation and returns its parsed JSON
// envelope. It is the seam the router and menu are tested through.
type Caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (gjson.Result, error)
}

// Conn is an MCP connection over streamable HTTP.
type Conn struct {
	mcp *mcpclient.Client
}

var _ Caller = (*Conn)(nil)

// Connect dials the server and completes the MCP initialize handshake.
func Connect(ctx context.Context, baseURL string) (*Conn, error) {
	c, err := mcpclient.NewStreamableHttpClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating MCP client for %s: %w", baseURL, err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting MCP transport: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "promptpipe-client", Version: "1.0.0"}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("initializing MCP session: %w", err)
	}
	return &Conn{mcp: c}, nil
}

// CallTool invokes the named operation and parses the textual envelope.
func (c *Conn) CallTool(ctx context.Context, name string, args map[string]any) (gjson.Result, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.mcp.CallTool(ctx, req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("calling %s: %w", name, err)
	}
	for _, content := range res.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return gjson.Parse(text.Text), nil
		}
	}
	return gjson.Result{}, fmt.Errorf("tool %s returned no text content", name)
}

func (c *Conn) Close() error {
	return c.mcp.Close()
}
