package server

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

var argReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// defineTool reflects the argument struct into a JSON schema and wraps it in
// a tool definition. Fields without omitempty become required parameters.
func defineTool(name, description string, args any) mcp.Tool {
	schema := argReflector.Reflect(args)
	schema.Version = ""

	raw, err := gojson.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return mcp.NewToolWithRawSchema(name, description, json.RawMessage(raw))
}
