// Package video implements the video strategy-analysis pipeline: probe and
// transcribe a video of a person, then walk the combined analysis through
// strategy extraction, structured insights, a strategy document, and
// implementation recommendations.
//
// The first two steps (preprocess, transcribe) degrade in place when the
// media tooling or transcription service is unavailable, mirroring how the
// later text-only steps can still produce useful output from context alone.
// Steps from visual analysis onward require the model gateway and abort the
// run on failure.
package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogfish/opts"

	"github.com/promptpipe/promptpipe"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/media"
	"github.com/promptpipe/promptpipe/provider"
)

// DefaultAnalysisFocus is used when the caller does not narrow the analysis.
const DefaultAnalysisFocus = "operational strategies"

// transcriptWindow bounds how much raw transcript feeds the strategy
// extraction prompt.
const transcriptWindow = 2000

// Transcriber turns an extracted audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Insight is one structured actionable insight extracted from the video.
type Insight struct {
	Category        string `json:"category"`
	Insight         string `json:"insight"`
	Implementation  string `json:"implementation"`
	Timeline        string `json:"timeline"`
	ResourcesNeeded string `json:"resources_needed"`
	SuccessMetrics  string `json:"success_metrics"`
	Priority        string `json:"priority"`
	Complexity      string `json:"complexity"`
}

// Recommendation is one implementation recommendation derived from the
// final document.
type Recommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Rationale      string   `json:"rationale"`
	Steps          []string `json:"steps"`
	Timeline       string   `json:"timeline"`
	Dependencies   string   `json:"dependencies"`
	ExpectedImpact string   `json:"expected_impact"`
	RiskLevel      string   `json:"risk_level"`
}

// State is the video pipeline's shared state.
type State struct {
	VideoPath     string
	PersonContext string
	AnalysisFocus string

	AudioPath          string
	VideoDuration      float64
	KeyFrameTimestamps []float64

	Transcript         string
	AudioAnalysis      string
	VisualAnalysis     string
	StrategyExtraction string
	ActionableInsights []Insight
	FinalDocument      string
	Recommendations    []Recommendation

	// Err records the failure that aborted the run, if any.
	Err error
}

// Agent runs the video analysis pipeline.
type Agent struct {
	model       provider.Model
	sampling    provider.Sampling
	prober      media.Prober
	extractor   media.Extractor
	transcriber Transcriber
	pipeline    *promptpipe.Pipeline[State]
}

// New builds the video agent. Prober, extractor, and transcriber may each
// be nil, in which case the corresponding preprocessing degrades in place.
// A nil topic disables run events.
func New(model provider.Model, sampling provider.Sampling, prober media.Prober, extractor media.Extractor, transcriber Transcriber, topic broker.Topic) *Agent {
	a := &Agent{
		model:       model,
		sampling:    sampling,
		prober:      prober,
		extractor:   extractor,
		transcriber: transcriber,
	}

	pipelineOpts := []opts.Option[promptpipe.Pipeline[State]]{
		promptpipe.Name[State]("video"),
		promptpipe.Steps(
			promptpipe.Step[State]{Name: "preprocess", Run: a.preprocess},
			promptpipe.Step[State]{Name: "transcribe", Run: a.transcribe},
			promptpipe.Step[State]{Name: "visual_analysis", Run: a.visualAnalysis},
			promptpipe.Step[State]{Name: "extract_strategies", Run: a.extractStrategies},
			promptpipe.Step[State]{Name: "generate_insights", Run: a.generateInsights},
			promptpipe.Step[State]{Name: "create_document", Run: a.createDocument},
			promptpipe.Step[State]{Name: "recommend", Run: a.recommend},
		),
		promptpipe.OnFailure(func(s *State, err error) {
			s.StrategyExtraction = fmt.Sprintf("Error during analysis: %v", err)
			s.FinalDocument = fmt.Sprintf("# Analysis Failed\n\nError: %v", err)
			if s.Transcript == "" {
				s.Transcript = fmt.Sprintf("Analysis failed: %v", err)
			}
			s.Err = err
		}),
	}
	if topic != nil {
		pipelineOpts = append(pipelineOpts, promptpipe.Events[State](topic))
	}
	a.pipeline = promptpipe.New(pipelineOpts...)
	return a
}

// Run analyzes one video file. Scratch audio files are removed before Run
// returns.
func (a *Agent) Run(ctx context.Context, videoPath, personContext, analysisFocus string) *State {
	if analysisFocus == "" {
		analysisFocus = DefaultAnalysisFocus
	}

	state := a.pipeline.Run(ctx, &State{
		VideoPath:     videoPath,
		PersonContext: personContext,
		AnalysisFocus: analysisFocus,
	})

	if state.AudioPath != "" {
		os.RemoveAll(filepath.Dir(state.AudioPath))
	}
	return state
}

// preprocess probes the container and extracts the audio track. Failures
// degrade in place: the pipeline continues without audio.
func (a *Agent) preprocess(ctx context.Context, s *State) error {
	if a.prober == nil || a.extractor == nil {
		s.Transcript = "Error in video preprocessing: media tooling unavailable"
		return nil
	}

	info, err := a.prober.Probe(ctx, s.VideoPath)
	if err != nil {
		s.Transcript = fmt.Sprintf("Error in video preprocessing: %v", err)
		return nil
	}
	s.VideoDuration = info.Duration
	s.KeyFrameTimestamps = media.KeyFrameTimestamps(info.Duration)

	workDir, err := os.MkdirTemp("", "promptpipe-video-*")
	if err != nil {
		s.Transcript = fmt.Sprintf("Error in video preprocessing: %v", err)
		return nil
	}
	audioPath, err := a.extractor.ExtractAudio(ctx, s.VideoPath, workDir)
	if err != nil {
		os.RemoveAll(workDir)
		s.Transcript = fmt.Sprintf("Error in video preprocessing: %v", err)
		return nil
	}
	s.AudioPath = audioPath
	return nil
}

// transcribe turns the extracted audio into text and asks the model what
// the transcript reveals. Failures degrade in place.
func (a *Agent) transcribe(ctx context.Context, s *State) error {
	if a.transcriber == nil || s.AudioPath == "" {
		if s.Transcript == "" {
			s.Transcript = "No audio available for transcription"
		}
		return nil
	}
	if _, err := os.Stat(s.AudioPath); err != nil {
		s.Transcript = "No audio available for transcription"
		return nil
	}

	transcript, err := a.transcriber.Transcribe(ctx, s.AudioPath)
	if err != nil {
		s.Transcript = fmt.Sprintf("Transcription failed: %v", err)
		s.AudioAnalysis = "Audio analysis unavailable"
		return nil
	}
	s.Transcript = transcript

	analysis, err := provider.Complete(ctx, a.model, a.sampling, transcriptAnalysisInstructions,
		fmt.Sprintf("Analyze this transcript:\n\n%s", transcript))
	if err != nil {
		s.AudioAnalysis = "Audio analysis unavailable"
		return nil
	}
	s.AudioAnalysis = analysis
	return nil
}

func (a *Agent) visualAnalysis(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(visualAnalysisPrompt, s.PersonContext, s.AnalysisFocus, s.VideoDuration)
	analysis, err := provider.Complete(ctx, a.model, a.sampling, visualAnalysisInstructions, prompt)
	if err != nil {
		return err
	}
	s.VisualAnalysis = analysis
	return nil
}

func (a *Agent) extractStrategies(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(strategyExtractionPrompt,
		s.PersonContext, s.AnalysisFocus, s.AudioAnalysis, s.VisualAnalysis, clip(s.Transcript, transcriptWindow))
	extraction, err := provider.Complete(ctx, a.model, a.sampling, strategyExtractionInstructions, prompt)
	if err != nil {
		return err
	}
	s.StrategyExtraction = extraction
	return nil
}

func (a *Agent) generateInsights(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(insightsPrompt, s.StrategyExtraction, s.AnalysisFocus, s.PersonContext)
	response, err := provider.Complete(ctx, a.model, a.sampling, insightsInstructions, prompt)
	if err != nil {
		return err
	}
	s.ActionableInsights = ParseInsights(response)
	return nil
}

func (a *Agent) createDocument(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(documentPrompt,
		orUnknown(s.PersonContext, "Video Subject"),
		s.AnalysisFocus,
		s.VideoDuration,
		clip(s.AudioAnalysis, 500),
		clip(s.VisualAnalysis, 500),
		clip(s.StrategyExtraction, 1000),
		len(s.ActionableInsights),
	)
	document, err := provider.Complete(ctx, a.model, a.sampling, documentInstructions, prompt)
	if err != nil {
		return err
	}
	s.FinalDocument = document
	return nil
}

func (a *Agent) recommend(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(recommendationsPrompt, clip(s.FinalDocument, 1000), len(s.ActionableInsights))
	response, err := provider.Complete(ctx, a.model, a.sampling, recommendationsInstructions, prompt)
	if err != nil {
		return err
	}
	s.Recommendations = ParseRecommendations(response)
	return nil
}

func clip(text string, max int) string {
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}

func orUnknown(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
