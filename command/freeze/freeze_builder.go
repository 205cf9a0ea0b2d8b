// Package freeze builds the FFmpeg commands behind frozen-frame insertion:
// extracting the frame at the freeze instant and rendering it into a timed
// still segment. The engine composes these with clip and concat commands.
package freeze

import (
	"context"
	"fmt"

	"batchcut/command"
	"batchcut/internal/timeparse"
)

// FrameBuilder extracts the single frame at an instant as an image.
type FrameBuilder struct {
	sourcePath string
	instant    float64
	outputPath string
	binary     string
}

// NewFrameBuilder creates a frame extraction builder.
func NewFrameBuilder(sourcePath string, instant float64, outputPath string) *FrameBuilder {
	return &FrameBuilder{
		sourcePath: sourcePath,
		instant:    instant,
		outputPath: outputPath,
	}
}

// SetBinary sets the ffmpeg binary path.
func (f *FrameBuilder) SetBinary(binary string) *FrameBuilder {
	f.binary = binary
	return f
}

// BuildArgs constructs the FFmpeg command arguments.
func (f *FrameBuilder) BuildArgs() []string {
	return []string{
		"-ss", timeparse.FormatSeconds(f.instant),
		"-i", f.sourcePath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", f.outputPath,
	}
}

// Run executes the FFmpeg command.
func (f *FrameBuilder) Run(ctx context.Context) error {
	return command.Execute(ctx, f.binary, f.BuildArgs())
}

// DryRun returns the command line without executing it.
func (f *FrameBuilder) DryRun() (string, error) {
	return command.Line(f.binary, f.BuildArgs()), nil
}

// Kind returns the invocation type.
func (f *FrameBuilder) Kind() command.Kind {
	return command.KindFrame
}

// InputPath returns the source file path.
func (f *FrameBuilder) InputPath() string {
	return f.sourcePath
}

// OutputPath returns the frame image path.
func (f *FrameBuilder) OutputPath() string {
	return f.outputPath
}

// StillBuilder renders a frame image into a video segment of the freeze
// duration. A silent audio track is generated so the segment concatenates
// cleanly with segments that carry audio.
type StillBuilder struct {
	framePath  string
	duration   float64
	outputPath string

	binary     string
	videoCodec string
	preset     string
	audioCodec string
	sampleRate int
}

// NewStillBuilder creates a still-segment builder.
func NewStillBuilder(framePath string, duration float64, outputPath string) *StillBuilder {
	return &StillBuilder{
		framePath:  framePath,
		duration:   duration,
		outputPath: outputPath,
		videoCodec: "libx264",
		preset:     "medium",
		audioCodec: "aac",
		sampleRate: 48000,
	}
}

// SetBinary sets the ffmpeg binary path.
func (s *StillBuilder) SetBinary(binary string) *StillBuilder {
	s.binary = binary
	return s
}

// SetVideoCodec sets the video codec.
func (s *StillBuilder) SetVideoCodec(codec string) *StillBuilder {
	s.videoCodec = codec
	return s
}

// SetPreset sets the encoder preset.
func (s *StillBuilder) SetPreset(preset string) *StillBuilder {
	s.preset = preset
	return s
}

// SetAudioCodec sets the codec for the generated silent track.
func (s *StillBuilder) SetAudioCodec(codec string) *StillBuilder {
	s.audioCodec = codec
	return s
}

// SetSampleRate sets the sample rate of the generated silent track.
func (s *StillBuilder) SetSampleRate(rate int) *StillBuilder {
	s.sampleRate = rate
	return s
}

// BuildArgs constructs the FFmpeg command arguments.
func (s *StillBuilder) BuildArgs() []string {
	return []string{
		"-loop", "1",
		"-i", s.framePath,
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=stereo", s.sampleRate),
		"-t", fmt.Sprintf("%.3f", s.duration),
		"-c:v", s.videoCodec,
		"-preset", s.preset,
		"-pix_fmt", "yuv420p",
		"-c:a", s.audioCodec,
		"-shortest",
		"-y", s.outputPath,
	}
}

// Run executes the FFmpeg command.
func (s *StillBuilder) Run(ctx context.Context) error {
	return command.Execute(ctx, s.binary, s.BuildArgs())
}

// DryRun returns the command line without executing it.
func (s *StillBuilder) DryRun() (string, error) {
	return command.Line(s.binary, s.BuildArgs()), nil
}

// Kind returns the invocation type.
func (s *StillBuilder) Kind() command.Kind {
	return command.KindStill
}

// InputPath returns the frame image path.
func (s *StillBuilder) InputPath() string {
	return s.framePath
}

// OutputPath returns the still segment path.
func (s *StillBuilder) OutputPath() string {
	return s.outputPath
}
