package events

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/promptpipe/promptpipe/pkg/uuidx"
)

func TestToJSON_Discriminator(t *testing.T) {
	now := strfmt.DateTime(time.Now())
	runID := uuidx.New()

	tests := []struct {
		name  string
		event Event
		kind  string
	}{
		{"pipeline started", PipelineStarted{RunID: runID, Pipeline: "coding", Timestamp: now}, "pipeline_started"},
		{"step started", StepStarted{RunID: runID, Pipeline: "coding", Step: "generate_code", Timestamp: now}, "step_started"},
		{"step completed", StepCompleted{RunID: runID, Pipeline: "coding", Step: "review", Timestamp: now}, "step_completed"},
		{"pipeline failed", PipelineFailed{RunID: runID, Pipeline: "research", Step: "research", Error: "boom", Timestamp: now}, "pipeline_failed"},
		{"pipeline completed", PipelineCompleted{RunID: runID, Pipeline: "chat", Timestamp: now}, "pipeline_completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ToJSON(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, gjson.GetBytes(data, "type").String())
			assert.Equal(t, runID.String(), gjson.GetBytes(data, "run_id").String())

			decoded, err := FromJSON(data)
			require.NoError(t, err)
			assert.IsType(t, tt.event, decoded)
		})
	}
}

func TestFromJSON_RoundTrip(t *testing.T) {
	orig := PipelineFailed{
		RunID:    uuidx.New(),
		Pipeline: "video",
		Step:     "extract_strategies",
		Error:    "gateway unavailable",
	}
	data, err := ToJSON(orig)
	require.NoError(t, err)

	decoded, err := FromJSON(data)
	require.NoError(t, err)
	failed, ok := decoded.(PipelineFailed)
	require.True(t, ok)
	assert.Equal(t, orig.RunID, failed.RunID)
	assert.Equal(t, orig.Step, failed.Step)
	assert.Equal(t, orig.Error, failed.Error)
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", "{not json"},
		{"missing type", `{"run_id":"x"}`},
		{"unknown type", `{"type":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestToJSON_Nil(t *testing.T) {
	_, err := ToJSON(nil)
	assert.Error(t, err)
}
