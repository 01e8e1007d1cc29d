// Package media wraps the external ffmpeg tooling used to prepare video
// files for analysis, and owns the supported-container allowlist enforced
// before any pipeline work starts.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SupportedExtensions is the fixed allowlist of video container formats
// accepted by the video tools, lowercase with the leading dot.
var SupportedExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm"}

// IsSupported reports whether the file path carries an allowlisted video
// extension. The check is case-insensitive.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Info describes a probed video file.
type Info struct {
	Path     string
	Duration float64 // seconds
}

// Prober inspects video files. The default implementation shells out to
// ffprobe; tests substitute their own.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// Extractor pulls the audio track out of a video file so it can be
// transcribed. The default implementation shells out to ffmpeg.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, destDir string) (string, error)
}

// FFmpeg returns the ffprobe/ffmpeg backed Prober and Extractor.
func FFmpeg() *Tools {
	return &Tools{ffprobe: "ffprobe", ffmpeg: "ffmpeg"}
}

// Tools shells out to the ffmpeg suite.
type Tools struct {
	ffprobe string
	ffmpeg  string
}

var (
	_ Prober    = (*Tools)(nil)
	_ Extractor = (*Tools)(nil)
)

// Probe returns the container duration reported by ffprobe.
func (t *Tools) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w (%s)", path, err, strings.TrimSpace(stderr.String()))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: unparseable duration %q", path, stdout.String())
	}
	return Info{Path: path, Duration: duration}, nil
}

// ExtractAudio writes the video's audio track as 16 kHz mono WAV under
// destDir and returns the written path.
func (t *Tools) ExtractAudio(ctx context.Context, videoPath, destDir string) (string, error) {
	audioPath := filepath.Join(destDir, "extracted_audio.wav")
	cmd := exec.CommandContext(ctx, t.ffmpeg,
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg audio extraction for %s: %w (%s)", videoPath, err, strings.TrimSpace(stderr.String()))
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no audio file: %w", err)
	}
	return audioPath, nil
}

// KeyFrameTimestamps picks the seconds offsets worth sampling from a video:
// one frame every 30 seconds capped at 10 frames, or 5 evenly spaced frames
// for clips shorter than half a minute.
func KeyFrameTimestamps(duration float64) []float64 {
	if duration <= 0 {
		return nil
	}

	const interval = 30.0
	const maxFrames = 10

	if duration < interval {
		step := duration / 5
		out := make([]float64, 0, 5)
		for ts := 0.0; ts < duration; ts += step {
			out = append(out, ts)
		}
		return out
	}

	out := make([]float64, 0, maxFrames)
	for ts := 0.0; ts < duration && len(out) < maxFrames; ts += interval {
		out = append(out, ts)
	}
	return out
}

// ListVideos returns the allowlisted video files directly inside dir,
// sorted by name.
func ListVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupported(entry.Name()) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}
