package server

import (
	"fmt"
	"log/slog"

	gojson "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptpipe/promptpipe/pkg/jsonx"
	"github.com/promptpipe/promptpipe/pkg/slogx"
)

// Every operation answers with a single pretty-printed JSON envelope carrying
// a status field: "success" with operation-specific payload fields, "error"
// with the failure message plus the caller's echoed inputs, or "info" for
// non-error conditions like clearing an unknown session.

func success(payload map[string]any) *mcp.CallToolResult {
	payload["status"] = "success"
	return envelope(payload)
}

func failure(err error, args any) *mcp.CallToolResult {
	payload := echoArgs(args)
	payload["status"] = "error"
	payload["error"] = err.Error()
	return envelope(payload)
}

func info(message string, args any) *mcp.CallToolResult {
	payload := echoArgs(args)
	payload["status"] = "info"
	payload["message"] = message
	return envelope(payload)
}

func echoArgs(args any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	echoed, err := jsonx.ToDynamicJSON(args)
	if err != nil {
		slog.Warn("echoing tool arguments", slogx.Error(err))
		return map[string]any{}
	}
	return echoed
}

func envelope(payload map[string]any) *mcp.CallToolResult {
	data, err := gojson.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf(`{"status": "error", "error": %q}`, err.Error()))
	}
	return mcp.NewToolResultText(string(data))
}
