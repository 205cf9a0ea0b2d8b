// Package command provides the shared Command interface for building and
// executing FFmpeg invocations.
//
// All specialized builders (clip, concat, freeze, speed, audio) implement
// Command, so the engine can log, dry-run and execute them uniformly.
package command

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Kind identifies the type of FFmpeg invocation for logging and reporting.
type Kind string

const (
	KindClip   Kind = "clip"   // cut one interval out of a source
	KindConcat Kind = "concat" // join segments with the concat demuxer
	KindFrame  Kind = "frame"  // extract a single frame image
	KindStill  Kind = "still"  // render a still image into a timed segment
	KindSpeed  Kind = "speed"  // retime video/audio streams
	KindAudio  Kind = "audio"  // extract/transcode an audio track
)

// Command represents an FFmpeg invocation that can be built, previewed or
// executed.
type Command interface {
	// BuildArgs returns the argument list, suitable for
	// exec.Command(binary, args...). Building is pure: no side effects.
	BuildArgs() []string

	// Run executes the command and blocks until it completes. Output is
	// captured and included in the returned error on failure.
	Run(ctx context.Context) error

	// DryRun returns the full command line without executing it.
	DryRun() (string, error)

	// Kind returns the invocation type.
	Kind() Kind

	// InputPath returns the primary input file.
	InputPath() string

	// OutputPath returns the output file.
	OutputPath() string
}

// Execute runs one FFmpeg invocation, capturing combined output for error
// reporting. Builders share this instead of each shelling out ad hoc.
func Execute(ctx context.Context, binary string, args []string) error {
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s command failed: %w (output: %s)", binary, err, string(output))
	}
	return nil
}

// Line renders a command for dry-run display.
func Line(binary string, args []string) string {
	if binary == "" {
		binary = "ffmpeg"
	}
	return fmt.Sprintf("%s %s", binary, strings.Join(args, " "))
}
