package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptpipe/promptpipe/agents/research"
)

type researchArgs struct {
	Query string `json:"query" jsonschema:"description=The topic or question to research"`
}

// ResearchTool exposes the research pipeline.
type ResearchTool struct {
	agent *research.Agent
}

func NewResearchTool(agent *research.Agent) *ResearchTool {
	return &ResearchTool{agent: agent}
}

func (t *ResearchTool) Definition() mcp.Tool {
	return defineTool("research_assistant",
		"Research a topic and return detailed findings with a concise summary and sources.",
		&researchArgs{})
}

func (t *ResearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return failure(err, nil), nil
	}
	args := researchArgs{Query: query}

	state := t.agent.Run(ctx, args.Query)
	if state.Err != nil {
		return failure(state.Err, args), nil
	}

	return success(map[string]any{
		"query":            state.Query,
		"research_results": state.ResearchResults,
		"summary":          state.Summary,
		"sources":          state.Sources,
	}), nil
}
