package openai

import (
	"sync"

	"github.com/openai/openai-go/option"

	"github.com/promptpipe/promptpipe/internal/registry"
	"github.com/promptpipe/promptpipe/provider"
)

var modelRegistry = registry.New[provider.Model]()

// Llama3_8B is the default Groq chat model.
func Llama3_8B(apiKey string, opts ...option.RequestOption) provider.Model {
	return GroqModel("llama3-8b-8192", apiKey, opts...)
}

// Llama3_70B is the larger Groq chat model.
func Llama3_70B(apiKey string, opts ...option.RequestOption) provider.Model {
	return GroqModel("llama3-70b-8192", apiKey, opts...)
}

// GroqModel returns the named model served by Groq's OpenAI-compatible API.
// Models are registered once per process; repeated calls with the same name
// return the same instance.
func GroqModel(name, apiKey string, opts ...option.RequestOption) provider.Model {
	groqOpts := append([]option.RequestOption{
		option.WithBaseURL(GroqBaseURL),
		option.WithAPIKey(apiKey),
	}, opts...)
	return Model(name, groqOpts...)
}

// Model returns the named model backed by a lazily constructed Provider
// using the given request options.
func Model(name string, opts ...option.RequestOption) provider.Model {
	m, _ := modelRegistry.GetOrAdd(name, func() provider.Model {
		return &model{name: name, opts: opts}
	})
	return m
}

var _ provider.Model = (*model)(nil)

type model struct {
	name string
	opts []option.RequestOption

	prov     *Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		m.prov = New(m.opts...)
	})
	return m.prov
}
