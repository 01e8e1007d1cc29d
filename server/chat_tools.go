package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptpipe/promptpipe/agents/chat"
	"github.com/promptpipe/promptpipe/sessions"
)

// DefaultSessionID scopes callers that do not pick their own session.
const DefaultSessionID = "default"

type chatArgs struct {
	Message   string `json:"message" jsonschema:"description=The message to send to the assistant"`
	SessionID string `json:"session_id,omitempty" jsonschema:"description=Conversation session identifier,default=default"`
}

// ChatTool exposes the chat pipeline with per-session memory.
type ChatTool struct {
	agent *chat.Agent
	store sessions.Store
}

func NewChatTool(agent *chat.Agent, store sessions.Store) *ChatTool {
	return &ChatTool{agent: agent, store: store}
}

func (t *ChatTool) Definition() mcp.Tool {
	return defineTool("chat_assistant",
		"Have a conversation with an AI assistant that remembers previous exchanges in the same session.",
		&chatArgs{})
}

func (t *ChatTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return failure(err, nil), nil
	}
	args := chatArgs{
		Message:   message,
		SessionID: req.GetString("session_id", DefaultSessionID),
	}
	if args.SessionID == "" {
		args.SessionID = DefaultSessionID
	}

	history := t.store.Get(args.SessionID)
	state := t.agent.Run(ctx, args.Message, history)
	if state.Err != nil {
		return failure(state.Err, args), nil
	}
	t.store.Put(args.SessionID, state.Messages)

	return success(map[string]any{
		"response":             state.Response,
		"session_id":           args.SessionID,
		"message_count":        len(state.Messages),
		"conversation_summary": state.ConversationSummary,
	}), nil
}

type clearArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"description=Conversation session to clear,default=default"`
}

// ClearConversationTool drops one session's accumulated history.
type ClearConversationTool struct {
	store sessions.Store
}

func NewClearConversationTool(store sessions.Store) *ClearConversationTool {
	return &ClearConversationTool{store: store}
}

func (t *ClearConversationTool) Definition() mcp.Tool {
	return defineTool("clear_conversation",
		"Clear the stored conversation history for a session.",
		&clearArgs{})
}

func (t *ClearConversationTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := clearArgs{SessionID: req.GetString("session_id", DefaultSessionID)}
	if args.SessionID == "" {
		args.SessionID = DefaultSessionID
	}

	if !t.store.Delete(args.SessionID) {
		return info(fmt.Sprintf("No conversation history found for session: %s", args.SessionID), args), nil
	}
	return success(map[string]any{
		"message": fmt.Sprintf("Conversation history cleared for session: %s", args.SessionID),
	}), nil
}

// ListSessionsTool reports the live sessions and their message counts.
type ListSessionsTool struct {
	store sessions.Store
}

func NewListSessionsTool(store sessions.Store) *ListSessionsTool {
	return &ListSessionsTool{store: store}
}

func (t *ListSessionsTool) Definition() mcp.Tool {
	return defineTool("list_sessions",
		"List the active conversation sessions and how many messages each holds.",
		&struct{}{})
}

func (t *ListSessionsTool) Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := t.store.List()
	return success(map[string]any{
		"active_sessions": active,
		"total_sessions":  len(active),
	}), nil
}
