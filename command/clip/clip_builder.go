// Package clip builds FFmpeg commands that cut a single resolved interval
// out of a source file.
package clip

import (
	"context"
	"fmt"

	"batchcut/command"
	"batchcut/internal/timeparse"
	"batchcut/models"
)

// Builder constructs an FFmpeg command extracting one interval. Segments
// are re-encoded by default so cut points are exact rather than snapped to
// keyframes; SetCopyStreams trades accuracy for speed.
type Builder struct {
	sourcePath string
	interval   models.Interval
	outputPath string

	binary      string
	videoCodec  string
	crf         int
	preset      string
	audioCodec  string
	copyStreams bool
}

// NewBuilder creates a clip builder for the given interval and output path.
func NewBuilder(sourcePath string, interval models.Interval, outputPath string) *Builder {
	return &Builder{
		sourcePath: sourcePath,
		interval:   interval,
		outputPath: outputPath,
		videoCodec: "libx264",
		crf:        23,
		preset:     "medium",
		audioCodec: "aac",
	}
}

// SetBinary sets the ffmpeg binary path.
func (b *Builder) SetBinary(binary string) *Builder {
	b.binary = binary
	return b
}

// SetVideoCodec sets the video codec used when re-encoding.
func (b *Builder) SetVideoCodec(codec string) *Builder {
	b.videoCodec = codec
	return b
}

// SetCRF sets the constant rate factor used when re-encoding.
func (b *Builder) SetCRF(crf int) *Builder {
	b.crf = crf
	return b
}

// SetPreset sets the encoder preset used when re-encoding.
func (b *Builder) SetPreset(preset string) *Builder {
	b.preset = preset
	return b
}

// SetAudioCodec sets the audio codec used when re-encoding.
func (b *Builder) SetAudioCodec(codec string) *Builder {
	b.audioCodec = codec
	return b
}

// SetCopyStreams switches to stream copy instead of re-encoding. Cut
// points then snap to the nearest keyframe.
func (b *Builder) SetCopyStreams(copy bool) *Builder {
	b.copyStreams = copy
	return b
}

// BuildArgs constructs the FFmpeg command arguments.
func (b *Builder) BuildArgs() []string {
	args := []string{
		"-i", b.sourcePath,
		"-ss", timeparse.FormatSeconds(b.interval.Start),
		"-to", timeparse.FormatSeconds(b.interval.End),
	}

	if b.copyStreams {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			"-c:v", b.videoCodec,
			"-crf", fmt.Sprintf("%d", b.crf),
			"-preset", b.preset,
			"-c:a", b.audioCodec,
		)
	}

	args = append(args, "-y", b.outputPath)
	return args
}

// Run executes the FFmpeg command.
func (b *Builder) Run(ctx context.Context) error {
	return command.Execute(ctx, b.binary, b.BuildArgs())
}

// DryRun returns the command line without executing it.
func (b *Builder) DryRun() (string, error) {
	return command.Line(b.binary, b.BuildArgs()), nil
}

// Kind returns the invocation type.
func (b *Builder) Kind() command.Kind {
	return command.KindClip
}

// InputPath returns the source file path.
func (b *Builder) InputPath() string {
	return b.sourcePath
}

// OutputPath returns the output file path.
func (b *Builder) OutputPath() string {
	return b.outputPath
}
