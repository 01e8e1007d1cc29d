package client

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/promptpipe/promptpipe/provider"
)

// FallbackTool receives the unmodified input whenever classification fails.
const FallbackTool = "chat_assistant"

const routerInstructions = `You route user requests to one of three assistants. Respond ONLY with a JSON ` +
	`object of the form {"tool": "...", "enhanced_query": "...", "reasoning": "..."}. Valid tools: ` +
	`"research_assistant" for questions needing investigation or factual depth, "coding_assistant" for ` +
	`writing or debugging code, "chat_assistant" for everything else. enhanced_query restates the ` +
	`user's input as a more specific request for the chosen assistant.`

// inputKeys maps each routable tool to its required argument name.
var inputKeys = map[string]string{
	"research_assistant": "query",
	"coding_assistant":   "task",
	FallbackTool:         "message",
}

// Decision is the outcome of classifying one free-text input.
type Decision struct {
	Tool      string
	Query     string
	Reasoning string
	// Fallback is set when the model's answer was unusable and the
	// default tool was chosen instead.
	Fallback bool
}

// Args shapes the decision into the chosen tool's call arguments.
func (d Decision) Args() map[string]any {
	return map[string]any{inputKeys[d.Tool]: d.Query}
}

// Router classifies free-text input into the best-suited assistant with one
// extra model round trip.
type Router struct {
	model    provider.Model
	sampling provider.Sampling
}

// NewRouter builds a router. Classification uses deliberately conservative
// sampling regardless of the pipelines' configuration.
func NewRouter(model provider.Model) *Router {
	return &Router{
		model:    model,
		sampling: provider.Sampling{Temperature: 0.3, MaxTokens: 500},
	}
}

// Route never fails: a gateway error or a malformed answer degrades to the
// fallback tool carrying the original input.
func (r *Router) Route(ctx context.Context, input string) Decision {
	raw, err := provider.Complete(ctx, r.model, r.sampling, routerInstructions, input)
	if err != nil {
		return fallback(input, "routing unavailable: "+err.Error())
	}

	parsed, ok := jsonObject(raw)
	if !ok {
		return fallback(input, "unparseable routing response")
	}

	tool := parsed.Get("tool").String()
	if _, known := inputKeys[tool]; !known {
		return fallback(input, "unknown tool "+tool)
	}

	query := strings.TrimSpace(parsed.Get("enhanced_query").String())
	if query == "" {
		query = input
	}
	return Decision{
		Tool:      tool,
		Query:     query,
		Reasoning: parsed.Get("reasoning").String(),
	}
}

func fallback(input, reasoning string) Decision {
	return Decision{Tool: FallbackTool, Query: input, Reasoning: reasoning, Fallback: true}
}

// jsonObject finds the outermost JSON object in a response, tolerating code
// fences and surrounding prose.
func jsonObject(response string) (gjson.Result, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return gjson.Result{}, false
	}
	candidate := response[start : end+1]
	if !gjson.Valid(candidate) {
		return gjson.Result{}, false
	}
	parsed := gjson.Parse(candidate)
	if !parsed.IsObject() {
		return gjson.Result{}, false
	}
	return parsed, true
}
