// Package research implements the research-assistant pipeline: analyze a
// query, then condense the findings into a summary.
package research

import (
	"context"
	"fmt"

	"github.com/fogfish/opts"

	"github.com/promptpipe/promptpipe"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/provider"
)

const researchInstructions = `You are a research assistant. Given a query, provide:
1. Comprehensive analysis of the topic
2. Key insights and findings
3. Potential sources or areas for further research

Be thorough but concise. Focus on accuracy and relevance.`

const summarizeInstructions = `Create a concise summary of the research findings.
Focus on the most important points and actionable insights.`

// previewLen bounds the provisional summary written by the research step
// before the summarize step replaces it.
const previewLen = 200

// State is the research pipeline's shared state.
type State struct {
	Query           string
	ResearchResults string
	Sources         []string
	Summary         string

	// Err records the failure that aborted the run, if any.
	Err error
}

// Agent runs the research pipeline against one model.
type Agent struct {
	model    provider.Model
	sampling provider.Sampling
	pipeline *promptpipe.Pipeline[State]
}

// New builds the research agent. A nil topic disables run events.
func New(model provider.Model, sampling provider.Sampling, topic broker.Topic) *Agent {
	a := &Agent{model: model, sampling: sampling}

	pipelineOpts := []opts.Option[promptpipe.Pipeline[State]]{
		promptpipe.Name[State]("research"),
		promptpipe.Steps(
			promptpipe.Step[State]{Name: "research", Run: a.research},
			promptpipe.Step[State]{Name: "summarize", Run: a.summarize},
		),
		promptpipe.OnFailure(func(s *State, err error) {
			s.ResearchResults = fmt.Sprintf("Error during research: %v", err)
			s.Summary = fmt.Sprintf("Research failed: %v", err)
			s.Err = err
		}),
	}
	if topic != nil {
		pipelineOpts = append(pipelineOpts, promptpipe.Events[State](topic))
	}
	a.pipeline = promptpipe.New(pipelineOpts...)
	return a
}

// Run executes the pipeline for one query.
func (a *Agent) Run(ctx context.Context, query string) *State {
	return a.pipeline.Run(ctx, &State{Query: query})
}

func (a *Agent) research(ctx context.Context, s *State) error {
	results, err := provider.Complete(ctx, a.model, a.sampling, researchInstructions,
		fmt.Sprintf("Research query: %s", s.Query))
	if err != nil {
		return err
	}

	s.ResearchResults = results
	s.Sources = []string{"Groq LLM Analysis", "Knowledge Base"}
	s.Summary = preview(results)
	return nil
}

func (a *Agent) summarize(ctx context.Context, s *State) error {
	summary, err := provider.Complete(ctx, a.model, a.sampling, summarizeInstructions,
		fmt.Sprintf("Summarize this research: %s", s.ResearchResults))
	if err != nil {
		return err
	}
	s.Summary = summary
	return nil
}

func preview(text string) string {
	if len(text) > previewLen {
		return text[:previewLen] + "..."
	}
	return text
}
