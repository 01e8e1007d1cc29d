package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpipe/promptpipe/media"
	"github.com/promptpipe/promptpipe/provider"
	"github.com/promptpipe/promptpipe/provider/providertest"
)

type stubProber struct {
	info media.Info
	err  error
}

func (s *stubProber) Probe(_ context.Context, path string) (media.Info, error) {
	if s.err != nil {
		return media.Info{}, s.err
	}
	info := s.info
	info.Path = path
	return info, nil
}

type stubExtractor struct {
	err error
}

func (s *stubExtractor) ExtractAudio(_ context.Context, _, destDir string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	audioPath := filepath.Join(destDir, "extracted_audio.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0o644); err != nil {
		return "", err
	}
	return audioPath, nil
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return s.transcript, s.err
}

func TestAgent_Run_FullPipeline(t *testing.T) {
	stub := providertest.New(
		"speaker discusses daily planning",
		"subject works at a standing desk",
		"## Strategies\n\n- time blocking",
		`[{"category": "Productivity", "insight": "Time blocking", "priority": "High"}]`,
		"# Strategy Document",
		`[{"title": "Adopt time blocking", "description": "Block mornings", "steps": ["Pick a calendar", "Block 9-11"]}]`,
	)
	agent := New(stub.Model("test-model"), provider.Sampling{},
		&stubProber{info: media.Info{Duration: 95}},
		&stubExtractor{},
		&stubTranscriber{transcript: "we plan every morning"},
		nil,
	)

	state := agent.Run(context.Background(), "/videos/talk.mp4", "startup founder", "")

	assert.Equal(t, DefaultAnalysisFocus, state.AnalysisFocus)
	assert.Equal(t, 95.0, state.VideoDuration)
	assert.Len(t, state.KeyFrameTimestamps, 4)
	assert.Equal(t, "we plan every morning", state.Transcript)
	assert.Equal(t, "speaker discusses daily planning", state.AudioAnalysis)
	assert.Equal(t, "subject works at a standing desk", state.VisualAnalysis)
	assert.Contains(t, state.StrategyExtraction, "time blocking")
	assert.Equal(t, "# Strategy Document", state.FinalDocument)

	require.Len(t, state.ActionableInsights, 1)
	assert.Equal(t, "Productivity", state.ActionableInsights[0].Category)
	assert.Equal(t, "High", state.ActionableInsights[0].Priority)

	require.Len(t, state.Recommendations, 1)
	assert.Equal(t, "Adopt time blocking", state.Recommendations[0].Title)
	assert.Equal(t, []string{"Pick a calendar", "Block 9-11"}, state.Recommendations[0].Steps)

	assert.NoFileExists(t, state.AudioPath, "scratch audio must be removed after the run")
	assert.Equal(t, 6, stub.CallCount())
}

func TestAgent_Run_NoMediaTooling(t *testing.T) {
	stub := providertest.New("visual", "strategies", "[]", "doc", "[]")
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil, nil, nil, nil)

	state := agent.Run(context.Background(), "/videos/talk.mp4", "", "habits")

	assert.Contains(t, state.Transcript, "Error in video preprocessing")
	assert.Empty(t, state.AudioPath)
	assert.NotEmpty(t, state.VisualAnalysis, "text-only analysis continues without media tooling")
	assert.NotEmpty(t, state.FinalDocument)
}

func TestAgent_Run_ProbeFailureDegrades(t *testing.T) {
	stub := providertest.New("visual", "strategies", "[]", "doc", "[]")
	agent := New(stub.Model("test-model"), provider.Sampling{},
		&stubProber{err: errors.New("ffprobe: executable not found")},
		&stubExtractor{},
		&stubTranscriber{transcript: "unused"},
		nil,
	)

	state := agent.Run(context.Background(), "/videos/talk.mp4", "", "")

	assert.Contains(t, state.Transcript, "Error in video preprocessing")
	assert.Contains(t, state.Transcript, "ffprobe")
	assert.NotEmpty(t, state.FinalDocument)
}

func TestAgent_Run_TranscriptionFailureDegrades(t *testing.T) {
	stub := providertest.New("visual", "strategies", "[]", "doc", "[]")
	agent := New(stub.Model("test-model"), provider.Sampling{},
		&stubProber{info: media.Info{Duration: 40}},
		&stubExtractor{},
		&stubTranscriber{err: errors.New("whisper unavailable")},
		nil,
	)

	state := agent.Run(context.Background(), "/videos/talk.mp4", "", "")

	assert.Contains(t, state.Transcript, "Transcription failed")
	assert.Equal(t, "Audio analysis unavailable", state.AudioAnalysis)
	assert.NotEmpty(t, state.VisualAnalysis)
	assert.NotEmpty(t, state.FinalDocument)
}

func TestAgent_Run_GatewayFailureAborts(t *testing.T) {
	stub := providertest.Failing(errors.New("rate limited"))
	agent := New(stub.Model("test-model"), provider.Sampling{}, nil, nil, nil, nil)

	state := agent.Run(context.Background(), "/videos/talk.mp4", "", "")

	assert.Contains(t, state.StrategyExtraction, "Error during analysis:")
	assert.Contains(t, state.StrategyExtraction, "rate limited")
	assert.Contains(t, state.FinalDocument, "# Analysis Failed")
	assert.Empty(t, state.ActionableInsights)
	assert.Empty(t, state.Recommendations)
}
