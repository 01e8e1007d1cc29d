package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptpipe/promptpipe/provider"
	"github.com/promptpipe/promptpipe/provider/providertest"
)

func TestAgent_Run(t *testing.T) {
	stub := providertest.New("detailed findings about Go", "short summary")
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil)

	state := agent.Run(context.Background(), "what is Go?")

	assert.Equal(t, "what is Go?", state.Query)
	assert.Equal(t, "detailed findings about Go", state.ResearchResults)
	assert.Equal(t, []string{"Groq LLM Analysis", "Knowledge Base"}, state.Sources)
	assert.Equal(t, "short summary", state.Summary)
	assert.Equal(t, 2, stub.CallCount())
}

func TestAgent_Run_GatewayFailure(t *testing.T) {
	stub := providertest.Failing(errors.New("auth failure"))
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil)

	state := agent.Run(context.Background(), "anything")

	assert.Contains(t, state.ResearchResults, "Error during research:")
	assert.Contains(t, state.Summary, "Research failed:")
	assert.Empty(t, state.Sources)
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 400)
	assert.Equal(t, long[:200]+"...", preview(long))
	assert.Equal(t, "short", preview("short"))
}
