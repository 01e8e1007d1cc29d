// Package events defines the lifecycle events published while a pipeline
// run executes, with a discriminated JSON encoding so they can travel over
// an external broker.
package events

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Event is the closed set of run lifecycle notifications.
type Event interface {
	runEvent()
	kind() string
}

// Listener receives events from a broker subscription.
type Listener interface {
	OnEvent(context.Context, Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(context.Context, Event)

func (f ListenerFunc) OnEvent(ctx context.Context, event Event) { f(ctx, event) }

// PipelineStarted marks the beginning of a run.
type PipelineStarted struct {
	RunID     uuid.UUID       `json:"run_id"`
	Pipeline  string          `json:"pipeline"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

func (PipelineStarted) runEvent()    {}
func (PipelineStarted) kind() string { return "pipeline_started" }

// StepStarted marks entry into one step of a run.
type StepStarted struct {
	RunID     uuid.UUID       `json:"run_id"`
	Pipeline  string          `json:"pipeline"`
	Step      string          `json:"step"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

func (StepStarted) runEvent()    {}
func (StepStarted) kind() string { return "step_started" }

// StepCompleted marks successful completion of one step.
type StepCompleted struct {
	RunID     uuid.UUID       `json:"run_id"`
	Pipeline  string          `json:"pipeline"`
	Step      string          `json:"step"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

func (StepCompleted) runEvent()    {}
func (StepCompleted) kind() string { return "step_completed" }

// PipelineFailed marks a run aborted by a step failure. The run still
// produces a well-formed degraded state; this event is observability only.
type PipelineFailed struct {
	RunID     uuid.UUID       `json:"run_id"`
	Pipeline  string          `json:"pipeline"`
	Step      string          `json:"step"`
	Error     string          `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

func (PipelineFailed) runEvent()    {}
func (PipelineFailed) kind() string { return "pipeline_failed" }

// PipelineCompleted marks a run that executed every step.
type PipelineCompleted struct {
	RunID     uuid.UUID       `json:"run_id"`
	Pipeline  string          `json:"pipeline"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

func (PipelineCompleted) runEvent()    {}
func (PipelineCompleted) kind() string { return "pipeline_completed" }

// ToJSON encodes an event with a "type" discriminator field.
func ToJSON(event Event) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("cannot encode nil event")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(payload, "type", event.kind())
}

// FromJSON decodes an event produced by ToJSON, dispatching on the "type"
// discriminator.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid event json: %s", data)
	}
	kind := gjson.GetBytes(data, "type")
	if !kind.Exists() {
		return nil, fmt.Errorf("event json is missing the type field")
	}

	switch kind.String() {
	case "pipeline_started":
		var e PipelineStarted
		return e, json.Unmarshal(data, &e)
	case "step_started":
		var e StepStarted
		return e, json.Unmarshal(data, &e)
	case "step_completed":
		var e StepCompleted
		return e, json.Unmarshal(data, &e)
	case "pipeline_failed":
		var e PipelineFailed
		return e, json.Unmarshal(data, &e)
	case "pipeline_completed":
		var e PipelineCompleted
		return e, json.Unmarshal(data, &e)
	default:
		return nil, fmt.Errorf("unknown event type %q", kind.String())
	}
}
