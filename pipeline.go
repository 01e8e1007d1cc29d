package promptpipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/promptpipe/promptpipe/events"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/pkg/slogx"
	"github.com/promptpipe/promptpipe/pkg/uuidx"
)

// Step is one stage of a pipeline. Run reads the shared state and
// overwrites the fields the step owns; it must not clear fields written by
// earlier steps. A nil error continues the run, any error aborts it.
type Step[S any] struct {
	Name string
	Run  func(context.Context, *S) error
}

// Pipeline executes a fixed ordered sequence of steps over one mutable
// state value. There is no branching, no retry, and no parallelism between
// steps; concurrent runs each own an independent state.
type Pipeline[S any] struct {
	name  string
	steps []Step[S]
	fail  func(*S, error)
	topic broker.Topic
}

// Name returns the pipeline identifier used in events and logs.
func (p *Pipeline[S]) Name() string {
	return p.name
}

// Steps returns the step names in execution order.
func (p *Pipeline[S]) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes the steps strictly in order. On the first step failure the
// remaining steps are skipped and the pipeline's failure writer records a
// human-readable message in the state's designated error fields; all other
// fields keep their last successful values. Run never returns an error and
// never lets a step panic escape: callers always receive a well-formed
// state.
func (p *Pipeline[S]) Run(ctx context.Context, state *S) *S {
	runID := uuidx.New()
	log := slog.With(slog.String("pipeline", p.name), slogx.Stringer("run_id", runID))

	p.publish(ctx, events.PipelineStarted{RunID: runID, Pipeline: p.name, Timestamp: now()})

	for _, step := range p.steps {
		log.Debug("running step", slog.String("step", step.Name))
		p.publish(ctx, events.StepStarted{RunID: runID, Pipeline: p.name, Step: step.Name, Timestamp: now()})

		if err := p.runStep(ctx, step, state); err != nil {
			err = fmt.Errorf("step %s: %w", step.Name, err)
			log.Warn("pipeline aborted", slog.String("step", step.Name), slogx.Error(err))
			p.publish(ctx, events.PipelineFailed{
				RunID:     runID,
				Pipeline:  p.name,
				Step:      step.Name,
				Error:     err.Error(),
				Timestamp: now(),
			})
			if p.fail != nil {
				p.fail(state, err)
			}
			return state
		}

		p.publish(ctx, events.StepCompleted{RunID: runID, Pipeline: p.name, Step: step.Name, Timestamp: now()})
	}

	p.publish(ctx, events.PipelineCompleted{RunID: runID, Pipeline: p.name, Timestamp: now()})
	return state
}

func (p *Pipeline[S]) runStep(ctx context.Context, step Step[S], state *S) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if step.Run == nil {
		return fmt.Errorf("step has no run function")
	}
	return step.Run(ctx, state)
}

func (p *Pipeline[S]) publish(ctx context.Context, event events.Event) {
	if err := p.topic.Publish(ctx, event); err != nil {
		slog.Debug("failed to publish run event", slogx.Error(err))
	}
}

func now() strfmt.DateTime {
	return strfmt.DateTime(time.Now())
}
