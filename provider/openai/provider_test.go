package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/promptpipe/promptpipe/messages"
	"github.com/promptpipe/promptpipe/provider"
)

func completionBody(content string) string {
	return `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "llama3-8b-8192",
		"choices": [
			{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": ` + jsonString(content) + `}}
		]
	}`
}

func jsonString(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func TestProvider_ChatCompletion(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody("hello from stub"))
	}))
	defer srv.Close()

	p := New(option.WithBaseURL(srv.URL+"/"), option.WithAPIKey("test-key"), option.WithMaxRetries(0))
	model := provider.Bind("llama3-8b-8192", p)

	completion, err := p.ChatCompletion(context.Background(), provider.CompletionParams{
		Instructions: "You are terse.",
		Messages: []messages.Message{
			messages.User("first"),
			messages.Assistant("second"),
			messages.User("third"),
		},
		Model:    model,
		Sampling: provider.Sampling{Temperature: 0.7, MaxTokens: 256},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from stub", completion.Content)

	body := gjson.ParseBytes(captured)
	assert.Equal(t, "llama3-8b-8192", body.Get("model").String())
	assert.InDelta(t, 0.7, body.Get("temperature").Float(), 0.001)
	assert.EqualValues(t, 256, body.Get("max_tokens").Int())

	sent := body.Get("messages").Array()
	require.Len(t, sent, 4, "instructions prepended as the system message")
	assert.Equal(t, "system", sent[0].Get("role").String())
	assert.Equal(t, "You are terse.", sent[0].Get("content").String())
	assert.Equal(t, "user", sent[1].Get("role").String())
	assert.Equal(t, "assistant", sent[2].Get("role").String())
	assert.Equal(t, "third", sent[3].Get("content").String())
}

func TestProvider_ChatCompletion_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "chatcmpl-2", "object": "chat.completion", "model": "llama3-8b-8192", "choices": []}`)
	}))
	defer srv.Close()

	p := New(option.WithBaseURL(srv.URL+"/"), option.WithAPIKey("test-key"), option.WithMaxRetries(0))

	_, err := p.ChatCompletion(context.Background(), provider.CompletionParams{
		Instructions: "hi",
		Model:        provider.Bind("llama3-8b-8192", p),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestProvider_ChatCompletion_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New(option.WithBaseURL(srv.URL+"/"), option.WithAPIKey("bad-key"), option.WithMaxRetries(0))

	_, err := p.ChatCompletion(context.Background(), provider.CompletionParams{
		Instructions: "hi",
		Model:        provider.Bind("llama3-8b-8192", p),
	})
	require.Error(t, err)
}

func TestBuildRequest_RequiresModel(t *testing.T) {
	p := New(option.WithAPIKey("test-key"))

	_, err := p.buildRequest(&provider.CompletionParams{Instructions: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model")
}

func TestBuildRequest_OmitsUnsetSampling(t *testing.T) {
	p := New(option.WithAPIKey("test-key"))

	params, err := p.buildRequest(&provider.CompletionParams{
		Instructions: "hi",
		Model:        provider.Bind("llama3-8b-8192", p),
	})
	require.NoError(t, err)
	assert.False(t, params.Temperature.Present)
	assert.False(t, params.MaxTokens.Present)
}
