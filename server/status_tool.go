package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptpipe/promptpipe/media"
	"github.com/promptpipe/promptpipe/provider/openai"
	"github.com/promptpipe/promptpipe/sessions"
)

// StatusTool is the read-only introspection endpoint: it lists every
// registered operation plus live session and capability information.
type StatusTool struct {
	registry  *Registry
	store     sessions.Store
	modelName string
	version   string
}

func NewStatusTool(registry *Registry, store sessions.Store, modelName, version string) *StatusTool {
	return &StatusTool{registry: registry, store: store, modelName: modelName, version: version}
}

func (t *StatusTool) Definition() mcp.Tool {
	return defineTool("agent_status",
		"Report the server's registered operations, model configuration, and active sessions.",
		&struct{}{})
}

func (t *StatusTool) Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type operation struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}

	operations := make([]operation, 0, t.registry.Len())
	categories := map[string]int{}
	t.registry.Each(func(name string, desc Descriptor) {
		operations = append(operations, operation{
			Name:        name,
			Description: desc.Tool.Description,
			Category:    desc.Category,
		})
		categories[desc.Category]++
	})

	return success(map[string]any{
		"server":          ServerName,
		"version":         t.version,
		"llm_model":       t.modelName,
		"active_sessions": t.store.Len(),
		"total_tools":     len(operations),
		"tools":           operations,
		"categories":      categories,
		"video_capabilities": map[string]any{
			"supported_formats":   media.SupportedExtensions,
			"transcription_model": openai.WhisperModel,
		},
	}), nil
}
