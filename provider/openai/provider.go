package openai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/promptpipe/promptpipe/messages"
	"github.com/promptpipe/promptpipe/provider"
)

// GroqBaseURL is the OpenAI-compatible endpoint served by Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// WhisperModel is the Groq-hosted transcription model.
const WhisperModel = "whisper-large-v3"

type Provider struct {
	client *openai.Client
}

// New returns a provider talking to the default OpenAI endpoint, or to
// whatever base URL the request options select.
func New(options ...option.RequestOption) *Provider {
	return &Provider{client: openai.NewClient(options...)}
}

// Groq returns a provider pointed at Groq's OpenAI-compatible API.
func Groq(apiKey string, options ...option.RequestOption) *Provider {
	opts := append([]option.RequestOption{
		option.WithBaseURL(GroqBaseURL),
		option.WithAPIKey(apiKey),
	}, options...)
	return New(opts...)
}

func (p *Provider) buildRequest(params *provider.CompletionParams) (openai.ChatCompletionNewParams, error) {
	if params.Model == nil {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("completion request has no model")
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(params.Messages)+1)
	msgs = append(msgs, openai.SystemMessage(params.Instructions))
	for _, msg := range params.Messages {
		switch msg.Role {
		case messages.RoleUser:
			msgs = append(msgs, openai.UserMessage(msg.Content))
		case messages.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(msg.Content))
		case messages.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(msg.Content))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}

	oaiParams := openai.ChatCompletionNewParams{
		Messages: openai.F(msgs),
		Model:    openai.F(params.Model.Name()),
		N:        openai.Int(1),
	}
	if params.Sampling.Temperature > 0 {
		oaiParams.Temperature = openai.Float(params.Sampling.Temperature)
	}
	if params.Sampling.MaxTokens > 0 {
		oaiParams.MaxTokens = openai.Int(params.Sampling.MaxTokens)
	}
	return oaiParams, nil
}

func (p *Provider) ChatCompletion(ctx context.Context, params provider.CompletionParams) (provider.Completion, error) {
	chatParams, err := p.buildRequest(&params)
	if err != nil {
		return provider.Completion{}, fmt.Errorf("failed to build request: %w", err)
	}

	chat, err := p.client.Chat.Completions.New(ctx, chatParams)
	if err != nil {
		return provider.Completion{}, err
	}
	if len(chat.Choices) == 0 {
		return provider.Completion{}, fmt.Errorf("model %s returned no choices", params.Model.Name())
	}

	return provider.Completion{
		Content:   chat.Choices[0].Message.Content,
		Timestamp: strfmt.DateTime(time.Now()),
	}, nil
}

// Transcribe runs the audio file at path through the hosted Whisper model
// and returns the transcript text.
func (p *Provider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	transcription, err := p.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.FileParam(f, audioPath, "audio/wav"),
		Model: openai.F(openai.AudioModel(WhisperModel)),
	})
	if err != nil {
		return "", err
	}
	return transcription.Text, nil
}
