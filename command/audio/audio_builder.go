// Package audio builds FFmpeg commands extracting an audio track, or a
// segment of one, from a video file.
package audio

import (
	"context"
	"fmt"
	"strings"

	"batchcut/command"
	"batchcut/internal/timeparse"
	"batchcut/models"
)

// DefaultCodec maps an audio container format to the codec used when the
// batch entry does not name one.
func DefaultCodec(format string) string {
	switch strings.ToLower(format) {
	case "mp3":
		return "libmp3lame"
	case "wav":
		return "pcm_s16le"
	case "ogg":
		return "libvorbis"
	case "aac", "m4a":
		return "aac"
	default:
		return ""
	}
}

// muxer maps an audio container format to the FFmpeg muxer name. The aac
// and m4a formats need explicit muxers because their extensions are
// ambiguous to FFmpeg.
func muxer(format string) string {
	switch strings.ToLower(format) {
	case "aac":
		return "adts"
	case "m4a":
		return "ipod"
	default:
		return strings.ToLower(format)
	}
}

// ExtractBuilder constructs an FFmpeg audio extraction command.
type ExtractBuilder struct {
	sourcePath string
	outputPath string

	binary      string
	format      string
	codec       string
	bitrate     string
	sampleRate  int
	interval    models.Interval
	hasInterval bool
}

// NewExtractBuilder creates an extraction builder covering the whole file;
// use SetInterval to restrict it to a segment.
func NewExtractBuilder(sourcePath, outputPath string) *ExtractBuilder {
	return &ExtractBuilder{
		sourcePath: sourcePath,
		outputPath: outputPath,
		format:     "mp3",
		bitrate:    "192k",
	}
}

// SetBinary sets the ffmpeg binary path.
func (e *ExtractBuilder) SetBinary(binary string) *ExtractBuilder {
	e.binary = binary
	return e
}

// SetFormat sets the output container format (mp3, wav, ogg, aac, m4a).
func (e *ExtractBuilder) SetFormat(format string) *ExtractBuilder {
	if format != "" {
		e.format = format
	}
	return e
}

// SetCodec overrides the codec derived from the format.
func (e *ExtractBuilder) SetCodec(codec string) *ExtractBuilder {
	e.codec = codec
	return e
}

// SetBitrate sets the audio bitrate (e.g. "192k").
func (e *ExtractBuilder) SetBitrate(bitrate string) *ExtractBuilder {
	if bitrate != "" {
		e.bitrate = bitrate
	}
	return e
}

// SetSampleRate sets the output sample rate in Hz.
func (e *ExtractBuilder) SetSampleRate(rate int) *ExtractBuilder {
	e.sampleRate = rate
	return e
}

// SetInterval restricts extraction to a resolved segment.
func (e *ExtractBuilder) SetInterval(interval models.Interval) *ExtractBuilder {
	e.interval = interval
	e.hasInterval = true
	return e
}

// BuildArgs constructs the FFmpeg command arguments.
func (e *ExtractBuilder) BuildArgs() []string {
	args := []string{"-i", e.sourcePath}

	if e.hasInterval {
		args = append(args,
			"-ss", timeparse.FormatSeconds(e.interval.Start),
			"-to", timeparse.FormatSeconds(e.interval.End),
		)
	}

	codec := e.codec
	if codec == "" {
		codec = DefaultCodec(e.format)
	}

	args = append(args,
		"-vn",
		"-c:a", codec,
	)

	// Lossless PCM has no bitrate to set.
	if codec != "pcm_s16le" {
		args = append(args, "-b:a", e.bitrate)
	}

	if e.sampleRate > 0 {
		args = append(args, "-ar", fmt.Sprintf("%d", e.sampleRate))
	}

	args = append(args,
		"-f", muxer(e.format),
		"-y", e.outputPath,
	)
	return args
}

// Run executes the FFmpeg command.
func (e *ExtractBuilder) Run(ctx context.Context) error {
	return command.Execute(ctx, e.binary, e.BuildArgs())
}

// DryRun returns the command line without executing it.
func (e *ExtractBuilder) DryRun() (string, error) {
	return command.Line(e.binary, e.BuildArgs()), nil
}

// Kind returns the invocation type.
func (e *ExtractBuilder) Kind() command.Kind {
	return command.KindAudio
}

// InputPath returns the source file path.
func (e *ExtractBuilder) InputPath() string {
	return e.sourcePath
}

// OutputPath returns the output file path.
func (e *ExtractBuilder) OutputPath() string {
	return e.outputPath
}
