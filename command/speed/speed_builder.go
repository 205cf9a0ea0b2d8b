// Package speed builds FFmpeg commands that change playback speed by
// retiming the video and audio streams.
package speed

import (
	"context"
	"fmt"
	"strings"

	"batchcut/command"
)

// Builder constructs an FFmpeg speed-change command. Video is retimed with
// setpts; audio with an atempo chain so factors outside FFmpeg's per-stage
// [0.5, 2.0] range still work.
type Builder struct {
	sourcePath string
	outputPath string
	factor     float64

	binary     string
	videoCodec string
	audioCodec string
	hasAudio   bool
}

// NewBuilder creates a speed builder for the given factor (>1 is faster).
func NewBuilder(sourcePath string, factor float64, outputPath string) *Builder {
	return &Builder{
		sourcePath: sourcePath,
		outputPath: outputPath,
		factor:     factor,
		videoCodec: "libx264",
		audioCodec: "aac",
		hasAudio:   true,
	}
}

// SetBinary sets the ffmpeg binary path.
func (b *Builder) SetBinary(binary string) *Builder {
	b.binary = binary
	return b
}

// SetVideoCodec sets the output video codec.
func (b *Builder) SetVideoCodec(codec string) *Builder {
	b.videoCodec = codec
	return b
}

// SetAudioCodec sets the output audio codec.
func (b *Builder) SetAudioCodec(codec string) *Builder {
	b.audioCodec = codec
	return b
}

// SetHasAudio declares whether the source carries an audio stream. Without
// it the filter graph must not reference [0:a].
func (b *Builder) SetHasAudio(hasAudio bool) *Builder {
	b.hasAudio = hasAudio
	return b
}

// AtempoChain decomposes a speed factor into a chain of atempo filter
// stages, each within FFmpeg's supported [0.5, 2.0] range, whose product
// is the requested factor.
//
// Example:
//
//	AtempoChain(2)   // "atempo=2.000000"
//	AtempoChain(6)   // "atempo=2.000000,atempo=2.000000,atempo=1.500000"
//	AtempoChain(0.2) // "atempo=0.500000,atempo=0.500000,atempo=0.800000"
func AtempoChain(factor float64) string {
	var stages []string
	for factor > 2.0 {
		stages = append(stages, "atempo=2.000000")
		factor /= 2.0
	}
	for factor < 0.5 {
		stages = append(stages, "atempo=0.500000")
		factor /= 0.5
	}
	stages = append(stages, fmt.Sprintf("atempo=%f", factor))
	return strings.Join(stages, ",")
}

// BuildArgs constructs the FFmpeg command arguments.
func (b *Builder) BuildArgs() []string {
	args := []string{"-i", b.sourcePath}

	if b.hasAudio {
		filter := fmt.Sprintf("[0:v]setpts=PTS/%f[v];[0:a]%s[a]", b.factor, AtempoChain(b.factor))
		args = append(args,
			"-filter_complex", filter,
			"-map", "[v]",
			"-map", "[a]",
			"-c:v", b.videoCodec,
			"-c:a", b.audioCodec,
		)
	} else {
		filter := fmt.Sprintf("[0:v]setpts=PTS/%f[v]", b.factor)
		args = append(args,
			"-filter_complex", filter,
			"-map", "[v]",
			"-c:v", b.videoCodec,
			"-an",
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
	return command.KindSpeed
}

// InputPath returns the source file path.
func (b *Builder) InputPath() string {
	return b.sourcePath
}

// OutputPath returns the output file path.
func (b *Builder) OutputPath() string {
	return b.outputPath
}
