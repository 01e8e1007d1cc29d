package promptpipe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpipe/promptpipe/events"
	"github.com/promptpipe/promptpipe/internal/broker"
)

type testState struct {
	Trace  []string
	Result string
	Err    string
}

func appendStep(name string) Step[testState] {
	return Step[testState]{
		Name: name,
		Run: func(_ context.Context, s *testState) error {
			s.Trace = append(s.Trace, name)
			return nil
		},
	}
}

func failingState(msg string) func(*testState, error) {
	return func(s *testState, err error) {
		s.Err = msg + ": " + err.Error()
	}
}

func TestPipeline_RunInOrder(t *testing.T) {
	p := New(
		Name[testState]("ordered"),
		Steps(appendStep("first"), appendStep("second"), appendStep("third")),
	)

	state := p.Run(context.Background(), &testState{})
	assert.Equal(t, []string{"first", "second", "third"}, state.Trace)
	assert.Equal(t, []string{"first", "second", "third"}, p.Steps())
}

func TestPipeline_AbortsOnFailure(t *testing.T) {
	boom := errors.New("gateway unavailable")
	p := New(
		Name[testState]("aborting"),
		Steps(
			appendStep("first"),
			Step[testState]{Name: "explode", Run: func(context.Context, *testState) error { return boom }},
			appendStep("never"),
		),
		OnFailure(failingState("run failed")),
	)

	state := p.Run(context.Background(), &testState{})
	assert.Equal(t, []string{"first"}, state.Trace, "steps after the failure must not run")
	assert.Contains(t, state.Err, "step explode")
	assert.Contains(t, state.Err, "gateway unavailable")
}

func TestPipeline_RecoverStepPanic(t *testing.T) {
	p := New(
		Name[testState]("panicky"),
		Steps(Step[testState]{Name: "kaboom", Run: func(context.Context, *testState) error { panic("oh no") }}),
		OnFailure(failingState("run failed")),
	)

	var state *testState
	require.NotPanics(t, func() {
		state = p.Run(context.Background(), &testState{})
	})
	assert.Contains(t, state.Err, "panic: oh no")
}

func TestPipeline_NilStepFunc(t *testing.T) {
	p := New(
		Steps(Step[testState]{Name: "empty"}),
		OnFailure(failingState("run failed")),
	)
	state := p.Run(context.Background(), &testState{})
	assert.Contains(t, state.Err, "no run function")
}

func TestPipeline_PreservesEarlierFields(t *testing.T) {
	p := New(
		Name[testState]("degrading"),
		Steps(
			Step[testState]{Name: "write", Run: func(_ context.Context, s *testState) error {
				s.Result = "partial work"
				return nil
			}},
			Step[testState]{Name: "fail", Run: func(context.Context, *testState) error {
				return errors.New("later failure")
			}},
		),
		OnFailure(failingState("degraded")),
	)

	state := p.Run(context.Background(), &testState{})
	assert.Equal(t, "partial work", state.Result, "fields from successful steps survive the abort")
	assert.NotEmpty(t, state.Err)
}

func TestPipeline_PublishesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := broker.Local().Topic(ctx, "runs")
	var mu sync.Mutex
	var seen []events.Event
	done := make(chan struct{}, 16)
	sub, err := topic.Subscribe(ctx, events.ListenerFunc(func(_ context.Context, e events.Event) {
		mu.Lock()
		seen = append(seen, e)
		mu.Unlock()
		done <- struct{}{}
	}))
	require.NoError(t, err)
	defer sub.Unsubscribe()

	p := New(
		Name[testState]("observed"),
		Steps(appendStep("only")),
		Events[testState](topic),
	)
	p.Run(ctx, &testState{})

	// started, step started, step completed, completed
	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n >= 4 {
			break
		}
		select {
		case <-done:
		case <-deadline:
			t.Fatalf("expected 4 events, got %d", n)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.IsType(t, events.PipelineStarted{}, seen[0])
	assert.IsType(t, events.StepStarted{}, seen[1])
	assert.IsType(t, events.StepCompleted{}, seen[2])
	assert.IsType(t, events.PipelineCompleted{}, seen[3])
}
