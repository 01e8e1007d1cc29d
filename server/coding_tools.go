package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptpipe/promptpipe/agents/coding"
)

type codingArgs struct {
	Task     string `json:"task" jsonschema:"description=What the code should do"`
	Language string `json:"language,omitempty" jsonschema:"description=Target programming language,default=Python"`
}

// CodingTool exposes the four-step coding pipeline.
type CodingTool struct {
	agent *coding.Agent
}

func NewCodingTool(agent *coding.Agent) *CodingTool {
	return &CodingTool{agent: agent}
}

func (t *CodingTool) Definition() mcp.Tool {
	return defineTool("coding_assistant",
		"Generate code for a task, with an explanation, unit tests, and a review.",
		&codingArgs{})
}

func (t *CodingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil {
		return failure(err, nil), nil
	}
	args := codingArgs{
		Task:     task,
		Language: req.GetString("language", coding.DefaultLanguage),
	}

	state := t.agent.Run(ctx, args.Task, args.Language)
	if state.Err != nil {
		return failure(state.Err, args), nil
	}

	return success(map[string]any{
		"task":        state.Task,
		"language":    state.Language,
		"code":        state.Code,
		"explanation": state.Explanation,
		"tests":       state.Tests,
		"review":      state.Review,
	}), nil
}
