package provider

import (
	"context"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/promptpipe/promptpipe/messages"
	"github.com/promptpipe/promptpipe/pkg/uuidx"
)

// Provider is the model gateway contract: given an ordered list of
// role-tagged messages it returns generated text or a failure. There is no
// retry or backoff at this layer; a transient failure surfaces to the caller.
type Provider interface {
	ChatCompletion(context.Context, CompletionParams) (Completion, error)
}

// Model pairs a model name with the provider that serves it.
type Model interface {
	Name() string
	Provider() Provider
}

// Sampling carries the generation parameters threaded from configuration.
// Zero values mean the provider's defaults.
type Sampling struct {
	Temperature float64
	MaxTokens   int64
}

// CompletionParams describes one round trip to the model gateway.
type CompletionParams struct {
	// RunID identifies the pipeline run this request belongs to.
	RunID uuid.UUID

	// Instructions is the system prompt, always sent first.
	Instructions string

	// Messages is the conversation in order, excluding the system prompt.
	Messages []messages.Message

	// Model selects the model and its provider.
	Model Model

	// Sampling overrides generation parameters for this request.
	Sampling Sampling

	_ struct{}
}

// Completion is the gateway's answer to a completion request.
type Completion struct {
	Content   string
	Timestamp strfmt.DateTime
}

// Bind pairs a model name with an already constructed provider. It is the
// way to use a model whose provider carries custom transport options.
func Bind(name string, p Provider) Model {
	return boundModel{name: name, provider: p}
}

type boundModel struct {
	name     string
	provider Provider
}

func (m boundModel) Name() string       { return m.name }
func (m boundModel) Provider() Provider { return m.provider }

// Complete performs a single system-plus-user round trip and returns the
// generated text. It is the shape almost every pipeline step needs.
func Complete(ctx context.Context, m Model, s Sampling, instructions, prompt string) (string, error) {
	resp, err := m.Provider().ChatCompletion(ctx, CompletionParams{
		RunID:        uuidx.New(),
		Instructions: instructions,
		Messages:     []messages.Message{messages.User(prompt)},
		Model:        m,
		Sampling:     s,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
