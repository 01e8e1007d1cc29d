package client

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/promptpipe/promptpipe/provider/providertest"
)

type recordedCall struct {
	tool string
	args map[string]any
}

type stubCaller struct {
	calls     []recordedCall
	envelopes map[string]string
}

func (s *stubCaller) CallTool(_ context.Context, name string, args map[string]any) (gjson.Result, error) {
	s.calls = append(s.calls, recordedCall{tool: name, args: args})
	if env, ok := s.envelopes[name]; ok {
		return gjson.Parse(env), nil
	}
	return gjson.Parse(`{"status": "success"}`), nil
}

func newTestMenu(t *testing.T, caller *stubCaller, router *Router, input string) (*Menu, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	renderer, err := NewRenderer(out, false)
	require.NoError(t, err)
	return NewMenu(caller, router, renderer, strings.NewReader(input), out), out
}

func TestMenu_Research(t *testing.T) {
	caller := &stubCaller{envelopes: map[string]string{
		"research_assistant": `{"status": "success", "query": "edge computing", "research_results": "findings", "summary": "short", "sources": ["a"]}`,
	}}
	menu, out := newTestMenu(t, caller, nil, "3\nedge computing\nexit\n")

	require.NoError(t, menu.Run(context.Background()))

	require.Len(t, caller.calls, 1)
	assert.Equal(t, "research_assistant", caller.calls[0].tool)
	assert.Equal(t, map[string]any{"query": "edge computing"}, caller.calls[0].args)
	assert.Contains(t, out.String(), "findings")
}

func TestMenu_ChatUsesCurrentSession(t *testing.T) {
	caller := &stubCaller{envelopes: map[string]string{
		"chat_assistant": `{"status": "success", "response": "hello!"}`,
	}}
	input := "8\nswitch\nwork\n1\nhi\nexit\n"
	menu, _ := newTestMenu(t, caller, nil, input)

	require.NoError(t, menu.Run(context.Background()))

	require.Len(t, caller.calls, 1)
	assert.Equal(t, "chat_assistant", caller.calls[0].tool)
	assert.Equal(t, "work", caller.calls[0].args["session_id"])
}

func TestMenu_CodingLanguageDefault(t *testing.T) {
	caller := &stubCaller{}
	menu, _ := newTestMenu(t, caller, nil, "2\nsort a list\n\nexit\n")

	require.NoError(t, menu.Run(context.Background()))

	require.Len(t, caller.calls, 1)
	_, sent := caller.calls[0].args["language"]
	assert.False(t, sent, "blank language is left to the server default")
}

func TestMenu_SmartRouting(t *testing.T) {
	stub := providertest.New(`{"tool": "research_assistant", "enhanced_query": "Survey of WASM runtimes"}`)
	caller := &stubCaller{}
	menu, out := newTestMenu(t, caller, NewRouter(stub.Model("test-model")), "6\ntell me about wasm\nexit\n")

	require.NoError(t, menu.Run(context.Background()))

	require.Len(t, caller.calls, 1)
	assert.Equal(t, "research_assistant", caller.calls[0].tool)
	assert.Equal(t, map[string]any{"query": "Survey of WASM runtimes"}, caller.calls[0].args)
	assert.Contains(t, out.String(), "Routed to:")
}

func TestMenu_ErrorEnvelopeKeepsLoopAlive(t *testing.T) {
	caller := &stubCaller{envelopes: map[string]string{
		"research_assistant": `{"status": "error", "error": "gateway down", "query": "x"}`,
		"agent_status":       `{"status": "success", "server": "promptpipe", "tools": []}`,
	}}
	menu, out := newTestMenu(t, caller, nil, "3\nx\n7\nexit\n")

	require.NoError(t, menu.Run(context.Background()))

	require.Len(t, caller.calls, 2, "the loop continues after an error envelope")
	assert.Contains(t, out.String(), "gateway down")
}

func TestMenu_EOFExits(t *testing.T) {
	menu, _ := newTestMenu(t, &stubCaller{}, nil, "")
	require.NoError(t, menu.Run(context.Background()))
}
