// Package chat implements the conversational pipeline: a chat step that
// answers with full session history in context, followed by a summarize
// step that condenses long conversations.
package chat

import (
	"context"
	"fmt"

	"github.com/fogfish/opts"

	"github.com/promptpipe/promptpipe"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/messages"
	"github.com/promptpipe/promptpipe/provider"
)

// SummarizeThreshold is the message count above which the summarize step
// calls the gateway. Below it the step is a pass-through. The value is a
// tunable, not a load-bearing constant.
const SummarizeThreshold = 10

// summaryWindow is how many trailing messages feed the summary prompt.
const summaryWindow = 10

const chatInstructions = `You are a helpful, knowledgeable, and friendly AI assistant.
Engage in natural conversation while being informative and helpful.

Guidelines:
- Be conversational and engaging
- Provide accurate and useful information
- Ask follow-up questions when appropriate
- Maintain context from previous messages
- Be concise but thorough`

const summarizeInstructions = `Summarize this conversation concisely.
Focus on key topics discussed and important information shared.`

// State is the chat pipeline's shared state. Messages carries the full
// session history and is externalized into the session store by the tool
// layer; every other field lives only for one run.
type State struct {
	Messages            []messages.Message
	CurrentMessage      string
	Response            string
	ConversationSummary string

	// Err records the failure that aborted the run, if any.
	Err error
}

// Agent runs the chat pipeline against one model.
type Agent struct {
	model    provider.Model
	sampling provider.Sampling
	pipeline *promptpipe.Pipeline[State]
}

// New builds the chat agent. A nil topic disables run events.
func New(model provider.Model, sampling provider.Sampling, topic broker.Topic) *Agent {
	a := &Agent{model: model, sampling: sampling}

	pipelineOpts := []opts.Option[promptpipe.Pipeline[State]]{
		promptpipe.Name[State]("chat"),
		promptpipe.Steps(
			promptpipe.Step[State]{Name: "chat", Run: a.chat},
			promptpipe.Step[State]{Name: "summarize", Run: a.summarize},
		),
		promptpipe.OnFailure(func(s *State, err error) {
			s.Response = fmt.Sprintf("Error in chat: %v", err)
			s.Err = err
		}),
	}
	if topic != nil {
		pipelineOpts = append(pipelineOpts, promptpipe.Events[State](topic))
	}
	a.pipeline = promptpipe.New(pipelineOpts...)
	return a
}

// Run executes one chat exchange. The returned state's Messages holds the
// prior history plus exactly two appended entries: the user's message and
// the assistant's reply.
func (a *Agent) Run(ctx context.Context, message string, history []messages.Message) *State {
	return a.pipeline.Run(ctx, &State{
		Messages:       history,
		CurrentMessage: message,
	})
}

func (a *Agent) chat(ctx context.Context, s *State) error {
	thread := make([]messages.Message, 0, len(s.Messages)+1)
	thread = append(thread, s.Messages...)
	thread = append(thread, messages.User(s.CurrentMessage))

	resp, err := a.model.Provider().ChatCompletion(ctx, provider.CompletionParams{
		Instructions: chatInstructions,
		Messages:     thread,
		Model:        a.model,
		Sampling:     a.sampling,
	})
	if err != nil {
		return err
	}

	s.Response = resp.Content
	s.Messages = append(s.Messages, messages.User(s.CurrentMessage), messages.Assistant(resp.Content))
	return nil
}

func (a *Agent) summarize(ctx context.Context, s *State) error {
	if len(s.Messages) <= SummarizeThreshold {
		return nil
	}

	window := messages.Render(messages.LastN(s.Messages, summaryWindow))
	summary, err := provider.Complete(ctx, a.model, a.sampling, summarizeInstructions,
		fmt.Sprintf("Conversation to summarize:\n%s", window))
	if err != nil {
		return err
	}
	s.ConversationSummary = summary
	return nil
}
