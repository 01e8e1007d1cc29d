// Package providertest provides a scripted in-memory model gateway for
// tests. It records every request and replays canned responses, so pipeline
// and tool tests never reach the network.
package providertest

import (
	"context"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/promptpipe/promptpipe/provider"
)

// Provider replays scripted responses in order, repeating the last one once
// the script is exhausted. Safe for concurrent use.
type Provider struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []provider.CompletionParams
}

var _ provider.Provider = (*Provider)(nil)

// New returns a provider that answers with the given responses in order.
// With no responses it answers "ok" forever.
func New(responses ...string) *Provider {
	if len(responses) == 0 {
		responses = []string{"ok"}
	}
	return &Provider{responses: responses}
}

// Failing returns a provider whose every completion fails with err.
func Failing(err error) *Provider {
	return &Provider{err: err}
}

func (p *Provider) ChatCompletion(_ context.Context, params provider.CompletionParams) (provider.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, params)
	if p.err != nil {
		return provider.Completion{}, p.err
	}

	idx := len(p.calls) - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return provider.Completion{
		Content:   p.responses[idx],
		Timestamp: strfmt.DateTime(time.Now()),
	}, nil
}

// CallCount reports how many completions have been requested.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// Calls returns a copy of the recorded completion requests in order.
func (p *Provider) Calls() []provider.CompletionParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]provider.CompletionParams, len(p.calls))
	copy(out, p.calls)
	return out
}

// Model binds a model name to this stub provider.
func (p *Provider) Model(name string) provider.Model {
	return provider.Bind(name, p)
}
