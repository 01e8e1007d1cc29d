// Package server is the composition root: it builds the four agents, wires
// them to the session store and event broker, and exposes each as an MCP
// tool together with the session and status utilities.
package server

import (
	"context"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/promptpipe/promptpipe/agents/chat"
	"github.com/promptpipe/promptpipe/agents/coding"
	"github.com/promptpipe/promptpipe/agents/research"
	"github.com/promptpipe/promptpipe/agents/video"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/media"
	"github.com/promptpipe/promptpipe/provider"
	"github.com/promptpipe/promptpipe/sessions"
)

// ServerName identifies this server to MCP clients and in the status report.
const ServerName = "promptpipe"

// Version is set at build time via ldflags.
var Version = "dev"

// Config carries everything the composition root needs. Model and Sessions
// are required; the media fields may be nil, which degrades the video
// pipeline to text-only analysis.
type Config struct {
	Model     provider.Model
	ModelName string
	Sampling  provider.Sampling
	Sessions  sessions.Store

	Prober      media.Prober
	Extractor   media.Extractor
	Transcriber video.Transcriber

	// Broker receives pipeline run events. Nil disables event publication.
	Broker broker.Broker
}

// New assembles the MCP server with every operation registered.
func New(ctx context.Context, cfg Config) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		ServerName,
		Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	BuildRegistry(ctx, cfg).Attach(s)
	return s
}

// NewHTTP wraps the assembled server in a streamable HTTP transport.
func NewHTTP(ctx context.Context, cfg Config) *mcpserver.StreamableHTTPServer {
	return mcpserver.NewStreamableHTTPServer(New(ctx, cfg))
}

// BuildRegistry constructs the agents and registers all operations in their
// fixed display order.
func BuildRegistry(ctx context.Context, cfg Config) *Registry {
	topicFor := func(pipeline string) broker.Topic {
		if cfg.Broker == nil {
			return nil
		}
		return cfg.Broker.Topic(ctx, pipeline)
	}

	chatAgent := chat.New(cfg.Model, cfg.Sampling, topicFor("chat"))
	codingAgent := coding.New(cfg.Model, cfg.Sampling, topicFor("coding"))
	researchAgent := research.New(cfg.Model, cfg.Sampling, topicFor("research"))
	videoAgent := video.New(cfg.Model, cfg.Sampling, cfg.Prober, cfg.Extractor, cfg.Transcriber, topicFor("video"))

	reg := NewRegistry()

	chatTool := NewChatTool(chatAgent, cfg.Sessions)
	reg.Add("conversation", chatTool.Definition(), chatTool.Handle)

	codingTool := NewCodingTool(codingAgent)
	reg.Add("development", codingTool.Definition(), codingTool.Handle)

	researchTool := NewResearchTool(researchAgent)
	reg.Add("research", researchTool.Definition(), researchTool.Handle)

	videoTool := NewVideoTool(videoAgent)
	reg.Add("video", videoTool.Definition(), videoTool.Handle)

	batchTool := NewBatchVideoTool(videoAgent)
	reg.Add("video", batchTool.Definition(), batchTool.Handle)

	clearTool := NewClearConversationTool(cfg.Sessions)
	reg.Add("session", clearTool.Definition(), clearTool.Handle)

	listTool := NewListSessionsTool(cfg.Sessions)
	reg.Add("session", listTool.Definition(), listTool.Handle)

	statusTool := NewStatusTool(reg, cfg.Sessions, cfg.ModelName, Version)
	reg.Add("system", statusTool.Definition(), statusTool.Handle)

	return reg
}
