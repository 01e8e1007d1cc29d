// Package coding implements the code-assistant pipeline: generate code for
// a task, explain it, generate tests for it, then review it.
package coding

import (
	"context"
	"fmt"

	"github.com/fogfish/opts"

	"github.com/promptpipe/promptpipe"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/provider"
)

// DefaultLanguage is used when the caller does not pick one.
const DefaultLanguage = "Python"

const generateInstructions = `You are an expert programmer. Generate high-quality code for the given task.
Language: %s

Provide:
1. Clean, well-commented code
2. Follow best practices
3. Include error handling where appropriate
4. Make code production-ready`

const explainInstructions = `Explain the code in simple terms. Cover:
1. What the code does
2. How it works
3. Key components and their purpose
4. Usage instructions`

const testsInstructions = `Generate comprehensive tests for the provided code.
Language: %s

Include:
1. Unit tests
2. Edge cases
3. Error handling tests
4. Integration tests if applicable`

const reviewInstructions = `Review the code for:
1. Code quality
2. Best practices
3. Potential improvements
4. Security considerations
5. Performance optimizations

Provide constructive feedback and suggestions.`

// State is the coding pipeline's shared state.
type State struct {
	Task        string
	Language    string
	Code        string
	Explanation string
	Tests       string
	Review      string

	// Err records the failure that aborted the run, if any.
	Err error
}

// Agent runs the coding pipeline against one model.
type Agent struct {
	model    provider.Model
	sampling provider.Sampling
	pipeline *promptpipe.Pipeline[State]
}

// New builds the coding agent. A nil topic disables run events.
func New(model provider.Model, sampling provider.Sampling, topic broker.Topic) *Agent {
	a := &Agent{model: model, sampling: sampling}

	pipelineOpts := []opts.Option[promptpipe.Pipeline[State]]{
		promptpipe.Name[State]("coding"),
		promptpipe.Steps(
			promptpipe.Step[State]{Name: "generate_code", Run: a.generateCode},
			promptpipe.Step[State]{Name: "explain", Run: a.explain},
			promptpipe.Step[State]{Name: "generate_tests", Run: a.generateTests},
			promptpipe.Step[State]{Name: "review", Run: a.review},
		),
		promptpipe.OnFailure(func(s *State, err error) {
			s.Code = fmt.Sprintf("Error generating code: %v", err)
			s.Review = fmt.Sprintf("Code generation failed: %v", err)
			s.Err = err
		}),
	}
	if topic != nil {
		pipelineOpts = append(pipelineOpts, promptpipe.Events[State](topic))
	}
	a.pipeline = promptpipe.New(pipelineOpts...)
	return a
}

// Run executes the pipeline for one task. An empty language falls back to
// DefaultLanguage.
func (a *Agent) Run(ctx context.Context, task, language string) *State {
	if language == "" {
		language = DefaultLanguage
	}
	return a.pipeline.Run(ctx, &State{Task: task, Language: language})
}

func (a *Agent) generateCode(ctx context.Context, s *State) error {
	code, err := provider.Complete(ctx, a.model, a.sampling,
		fmt.Sprintf(generateInstructions, s.Language),
		fmt.Sprintf("Task: %s", s.Task))
	if err != nil {
		return err
	}
	s.Code = code
	return nil
}

func (a *Agent) explain(ctx context.Context, s *State) error {
	explanation, err := provider.Complete(ctx, a.model, a.sampling, explainInstructions,
		fmt.Sprintf("Explain this code:\n\n%s", s.Code))
	if err != nil {
		return err
	}
	s.Explanation = explanation
	return nil
}

func (a *Agent) generateTests(ctx context.Context, s *State) error {
	tests, err := provider.Complete(ctx, a.model, a.sampling,
		fmt.Sprintf(testsInstructions, s.Language),
		fmt.Sprintf("Generate tests for:\n\n%s", s.Code))
	if err != nil {
		return err
	}
	s.Tests = tests
	return nil
}

func (a *Agent) review(ctx context.Context, s *State) error {
	review, err := provider.Complete(ctx, a.model, a.sampling, reviewInstructions,
		fmt.Sprintf("Review this code:\n\n%s", s.Code))
	if err != nil {
		return err
	}
	s.Review = review
	return nil
}
