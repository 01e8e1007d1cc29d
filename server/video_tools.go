package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"

	"github.com/promptpipe/promptpipe/agents/video"
	"github.com/promptpipe/promptpipe/media"
)

// BatchLimit caps how many files one batch_video_analysis call processes.
const BatchLimit = 5

type videoArgs struct {
	VideoFilePath string `json:"video_file_path" jsonschema:"description=Path to the video file to analyze"`
	PersonContext string `json:"person_context,omitempty" jsonschema:"description=Who the person in the video is"`
	AnalysisFocus string `json:"analysis_focus,omitempty" jsonschema:"description=What to focus the analysis on,default=operational strategies"`
}

// VideoTool exposes the video strategy-analysis pipeline for one file.
type VideoTool struct {
	agent *video.Agent
}

func NewVideoTool(agent *video.Agent) *VideoTool {
	return &VideoTool{agent: agent}
}

func (t *VideoTool) Definition() mcp.Tool {
	return defineTool("video_strategy_analyzer",
		"Analyze a video of a person to extract their strategies, actionable insights, and implementation recommendations.",
		&videoArgs{})
}

func (t *VideoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("video_file_path")
	if err != nil {
		return failure(err, nil), nil
	}
	args := videoArgs{
		VideoFilePath: path,
		PersonContext: req.GetString("person_context", ""),
		AnalysisFocus: req.GetString("analysis_focus", video.DefaultAnalysisFocus),
	}

	// Existence is checked before the extension so a typo'd path is
	// reported as missing, not as an unsupported format.
	if _, err := os.Stat(args.VideoFilePath); err != nil {
		return failure(fmt.Errorf("video file not found: %s", args.VideoFilePath), args), nil
	}
	if !media.IsSupported(args.VideoFilePath) {
		return failure(fmt.Errorf("unsupported video format %s, supported formats: %s",
			filepath.Ext(args.VideoFilePath), strings.Join(media.SupportedExtensions, ", ")), args), nil
	}

	state := t.agent.Run(ctx, args.VideoFilePath, args.PersonContext, args.AnalysisFocus)
	if state.Err != nil {
		return failure(state.Err, args), nil
	}

	return success(map[string]any{
		"video_file":                     args.VideoFilePath,
		"video_duration":                 state.VideoDuration,
		"transcript":                     state.Transcript,
		"audio_analysis":                 state.AudioAnalysis,
		"visual_analysis":                state.VisualAnalysis,
		"strategy_extraction":            state.StrategyExtraction,
		"actionable_insights":            state.ActionableInsights,
		"strategy_document":              state.FinalDocument,
		"implementation_recommendations": state.Recommendations,
	}), nil
}

type batchArgs struct {
	VideoDirectory string `json:"video_directory" jsonschema:"description=Directory containing the videos to analyze"`
	PersonContexts string `json:"person_contexts,omitempty" jsonschema:"description=JSON object mapping file name to person context"`
	AnalysisFocus  string `json:"analysis_focus,omitempty" jsonschema:"description=What to focus the analysis on,default=operational strategies"`
}

// BatchVideoTool analyzes every supported video in a directory, capped at
// BatchLimit files per call.
type BatchVideoTool struct {
	agent *video.Agent
}

func NewBatchVideoTool(agent *video.Agent) *BatchVideoTool {
	return &BatchVideoTool{agent: agent}
}

func (t *BatchVideoTool) Definition() mcp.Tool {
	return defineTool("batch_video_analysis",
		"Analyze all supported videos in a directory, up to five per call.",
		&batchArgs{})
}

func (t *BatchVideoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("video_directory")
	if err != nil {
		return failure(err, nil), nil
	}
	args := batchArgs{
		VideoDirectory: dir,
		PersonContexts: req.GetString("person_contexts", ""),
		AnalysisFocus:  req.GetString("analysis_focus", video.DefaultAnalysisFocus),
	}

	videos, err := media.ListVideos(args.VideoDirectory)
	if err != nil {
		return failure(fmt.Errorf("listing videos in %s: %w", args.VideoDirectory, err), args), nil
	}
	if len(videos) == 0 {
		return info(fmt.Sprintf("No supported video files found in: %s", args.VideoDirectory), args), nil
	}

	contexts := parsePersonContexts(args.PersonContexts)

	totalFound := len(videos)
	if len(videos) > BatchLimit {
		videos = videos[:BatchLimit]
	}

	results := make([]map[string]any, 0, len(videos))
	for _, path := range videos {
		name := filepath.Base(path)
		state := t.agent.Run(ctx, path, contexts[name], args.AnalysisFocus)
		if state.Err != nil {
			results = append(results, map[string]any{
				"file":   name,
				"status": "error",
				"error":  state.Err.Error(),
			})
			continue
		}
		results = append(results, map[string]any{
			"file":                  name,
			"status":                "success",
			"video_duration":        state.VideoDuration,
			"insights_count":        len(state.ActionableInsights),
			"recommendations_count": len(state.Recommendations),
			"document_preview":      preview(state.FinalDocument, 500),
		})
	}

	return success(map[string]any{
		"video_directory": args.VideoDirectory,
		"total_found":     totalFound,
		"processed_count": len(results),
		"results":         results,
	}), nil
}

// parsePersonContexts decodes the optional filename-to-context JSON object.
// Malformed input degrades to an empty mapping.
func parsePersonContexts(raw string) map[string]string {
	contexts := map[string]string{}
	if raw == "" || !gjson.Valid(raw) {
		return contexts
	}
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		contexts[key.String()] = value.String()
		return true
	})
	return contexts
}

func preview(text string, max int) string {
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
