package coding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpipe/promptpipe/provider"
	"github.com/promptpipe/promptpipe/provider/providertest"
)

func TestAgent_Run(t *testing.T) {
	stub := providertest.New(
		"def add(a, b): return a + b",
		"adds two numbers",
		"def test_add(): assert add(1, 2) == 3",
		"looks good",
	)
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil)

	state := agent.Run(context.Background(), "write an add function", "Python")

	assert.Equal(t, "write an add function", state.Task)
	assert.Equal(t, "Python", state.Language)
	assert.Equal(t, "def add(a, b): return a + b", state.Code)
	assert.Equal(t, "adds two numbers", state.Explanation)
	assert.Equal(t, "def test_add(): assert add(1, 2) == 3", state.Tests)
	assert.Equal(t, "looks good", state.Review)
	assert.Equal(t, 4, stub.CallCount(), "one gateway round trip per step")
}

func TestAgent_Run_DefaultLanguage(t *testing.T) {
	stub := providertest.New("code")
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil)

	state := agent.Run(context.Background(), "anything", "")
	assert.Equal(t, DefaultLanguage, state.Language)

	calls := stub.Calls()
	require.NotEmpty(t, calls)
	assert.Contains(t, calls[0].Instructions, "Language: Python")
}

func TestAgent_Run_LaterStepsSeeGeneratedCode(t *testing.T) {
	stub := providertest.New("GENERATED", "x", "y", "z")
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil)

	agent.Run(context.Background(), "task", "Go")

	calls := stub.Calls()
	require.Len(t, calls, 4)
	for _, call := range calls[1:] {
		require.Len(t, call.Messages, 1)
		assert.Contains(t, call.Messages[0].Content, "GENERATED")
	}
}

func TestAgent_Run_GatewayFailure(t *testing.T) {
	stub := providertest.Failing(errors.New("model overloaded"))
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil)

	state := agent.Run(context.Background(), "task", "Go")

	assert.Contains(t, state.Code, "Error generating code:")
	assert.Contains(t, state.Review, "Code generation failed:")
	assert.Contains(t, state.Code, "model overloaded")
	assert.Empty(t, state.Explanation)
	assert.Empty(t, state.Tests)
	assert.Equal(t, 1, stub.CallCount(), "pipeline aborts after the first failing step")
}
