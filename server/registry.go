package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Descriptor is one registered operation: the wire definition, the handler,
// and a category tag used only for the status listing.
type Descriptor struct {
	Tool     mcp.Tool
	Handler  mcpserver.ToolHandlerFunc
	Category string
}

// Registry holds the operations in registration order. It is populated once
// at startup and read-only afterwards.
type Registry struct {
	tools *orderedmap.OrderedMap[string, Descriptor]
}

func NewRegistry() *Registry {
	return &Registry{tools: orderedmap.New[string, Descriptor]()}
}

// Add records an operation. Re-registering a name replaces the earlier
// descriptor but keeps its position.
func (r *Registry) Add(category string, tool mcp.Tool, handler mcpserver.ToolHandlerFunc) {
	r.tools.Set(tool.Name, Descriptor{Tool: tool, Handler: handler, Category: category})
}

// Each visits descriptors in registration order.
func (r *Registry) Each(fn func(name string, desc Descriptor)) {
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

func (r *Registry) Len() int {
	return r.tools.Len()
}

// Attach registers every descriptor with the MCP server, in order.
func (r *Registry) Attach(s *mcpserver.MCPServer) {
	r.Each(func(_ string, desc Descriptor) {
		s.AddTool(desc.Tool, desc.Handler)
	})
}
