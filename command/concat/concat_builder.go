// Package concat builds FFmpeg commands joining segments via the concat
// demuxer and a generated list file.
package concat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"batchcut/command"
)

// Builder constructs an FFmpeg concat command. Inputs are joined in the
// given order. Stream copy is the default; SetCopyStreams(false) forces a
// re-encode, which is required when the segments were produced by
// different encoders (e.g. a frozen still between two cuts).
type Builder struct {
	inputPaths []string
	outputPath string

	binary      string
	videoCodec  string
	audioCodec  string
	copyStreams bool
}

// NewBuilder creates a concat builder for the given ordered inputs.
func NewBuilder(inputPaths []string, outputPath string) *Builder {
	return &Builder{
		inputPaths:  inputPaths,
		outputPath:  outputPath,
		videoCodec:  "libx264",
		audioCodec:  "aac",
		copyStreams: true,
	}
}

// SetBinary sets the ffmpeg binary path.
func (b *Builder) SetBinary(binary string) *Builder {
	b.binary = binary
	return b
}

// SetCopyStreams toggles stream copy vs re-encode.
func (b *Builder) SetCopyStreams(copy bool) *Builder {
	b.copyStreams = copy
	return b
}

// SetVideoCodec sets the video codec for re-encoded concatenation.
func (b *Builder) SetVideoCodec(codec string) *Builder {
	b.videoCodec = codec
	return b
}

// SetAudioCodec sets the audio codec for re-encoded concatenation.
func (b *Builder) SetAudioCodec(codec string) *Builder {
	b.audioCodec = codec
	return b
}

// listPath returns where the concat list file for this output lives.
func (b *Builder) listPath() string {
	return b.outputPath + ".files.txt"
}

// BuildArgs constructs the FFmpeg command arguments. The list file named
// here is written by Run just before execution.
func (b *Builder) BuildArgs() []string {
	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", b.listPath(),
	}

	if b.copyStreams {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-c:v", b.videoCodec, "-c:a", b.audioCodec)
	}

	args = append(args, "-y", b.outputPath)
	return args
}

// writeListFile writes the concat demuxer list: one "file '<path>'" line
// per input, absolute paths, single quotes escaped.
func (b *Builder) writeListFile() error {
	var sb strings.Builder
	for _, input := range b.inputPaths {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", input, err)
		}
		escaped := strings.ReplaceAll(absPath, "'", `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", escaped)
	}

	if err := os.WriteFile(b.listPath(), []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

// Run writes the list file, executes the concat and cleans the list up.
func (b *Builder) Run(ctx context.Context) error {
	if len(b.inputPaths) == 0 {
		return fmt.Errorf("no inputs to concatenate")
	}
	for _, input := range b.inputPaths {
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("concat input missing: %w", err)
		}
	}

	if err := b.writeListFile(); err != nil {
		return err
	}
	defer os.Remove(b.listPath())

	if err := command.Execute(ctx, b.binary, b.BuildArgs()); err != nil {
		return err
	}

	if _, err := os.Stat(b.outputPath); err != nil {
		return fmt.Errorf("concat output not created: %w", err)
	}
	return nil
}

// DryRun returns the command line without executing it.
func (b *Builder) DryRun() (string, error) {
	return command.Line(b.binary, b.BuildArgs()), nil
}

// Kind returns the invocation type.
func (b *Builder) Kind() command.Kind {
	return command.KindConcat
}

// InputPath returns the first input file path.
func (b *Builder) InputPath() string {
	if len(b.inputPaths) == 0 {
		return ""
	}
	return b.inputPaths[0]
}

// OutputPath returns the output file path.
func (b *Builder) OutputPath() string {
	return b.outputPath
}
