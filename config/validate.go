package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField reports a configured operation that omits a required
// parameter.
var ErrMissingField = errors.New("missing required field")

// SupportedAudioFormats lists the audio container formats the audio
// operations accept.
var SupportedAudioFormats = []string{"mp3", "wav", "ogg", "aac", "m4a"}

// IsSupportedAudioFormat checks an audio_format value.
func IsSupportedAudioFormat(format string) bool {
	for _, f := range SupportedAudioFormats {
		if strings.EqualFold(format, f) {
			return true
		}
	}
	return false
}

// Validate checks the effective settings, collecting every problem into a
// single error.
func (s *Settings) Validate() error {
	var problems []string

	if s.FFmpegPath == "" {
		problems = append(problems, "ffmpeg_path is required")
	}
	if s.FFprobePath == "" {
		problems = append(problems, "ffprobe_path is required")
	}
	if s.Video.Codec == "" {
		problems = append(problems, "video codec is required")
	}
	if s.Video.CRF < 0 || s.Video.CRF > 51 {
		problems = append(problems, "video crf must be between 0 and 51")
	}
	if s.Audio.Codec == "" {
		problems = append(problems, "audio codec is required")
	}
	if s.Audio.Bitrate == "" {
		problems = append(problems, "audio bitrate is required")
	}
	if s.History.Enabled && s.History.Path == "" {
		problems = append(problems, "history path is required when history is enabled")
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", s.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("settings validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Validate checks that an operation's required parameters are present.
// Decode errors recorded at load time surface here as well, so the
// dispatcher has a single pre-flight call per operation.
func (op Operation) Validate() error {
	if op.Err != nil {
		return op.Err
	}

	missing := func(fields ...string) error {
		return fmt.Errorf("operation %s: %w: %s", op.Name, ErrMissingField, strings.Join(fields, ", "))
	}

	switch p := op.Params.(type) {
	case *SlidingWindowParams:
		var fields []string
		if p.VideoPath == "" {
			fields = append(fields, "video_path")
		}
		if p.WindowLength == 0 {
			fields = append(fields, "window_length")
		}
		if p.SlideStep == 0 {
			fields = append(fields, "slide_step")
		}
		if p.OutputDir == "" {
			fields = append(fields, "output_dir")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
	case *ConcatParams:
		var fields []string
		if len(p.VideoPaths) == 0 {
			fields = append(fields, "video_paths")
		}
		if p.OutputPath == "" {
			fields = append(fields, "output_path")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
	case *FrozenFrameParams:
		var fields []string
		if p.VideoPath == "" {
			fields = append(fields, "video_path")
		}
		if !p.FreezeTime.IsSet() && p.FreezePosition == "" {
			fields = append(fields, "freeze_time or freeze_position")
		}
		if p.FreezeDuration <= 0 {
			fields = append(fields, "freeze_duration")
		}
		if p.OutputPath == "" {
			fields = append(fields, "output_path")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
	case *TrimParams:
		var fields []string
		if p.VideoPath == "" {
			fields = append(fields, "video_path")
		}
		if len(p.Intervals) == 0 {
			fields = append(fields, "intervals")
		}
		if p.OutputPath == "" {
			fields = append(fields, "output_path")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
	case *SpeedParams:
		var fields []string
		if p.VideoPath == "" {
			fields = append(fields, "video_path")
		}
		if p.Speed == 0 {
			fields = append(fields, "speed")
		}
		if p.OutputPath == "" {
			fields = append(fields, "output_path")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
	case *SubtitleSpeedParams:
		var fields []string
		if p.SubtitlePath == "" {
			fields = append(fields, "subtitle_path")
		}
		if p.Speed == 0 {
			fields = append(fields, "speed")
		}
		if p.OutputPath == "" {
			fields = append(fields, "output_path")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
	case *AudioParams:
		var fields []string
		if p.VideoPath == "" {
			fields = append(fields, "video_path")
		}
		if p.OutputPath == "" {
			fields = append(fields, "output_path")
		}
		if len(fields) > 0 {
			return missing(fields...)
		}
		if p.AudioFormat != "" && !IsSupportedAudioFormat(p.AudioFormat) {
			return fmt.Errorf("operation %s: unsupported audio_format %q, supported: %s",
				op.Name, p.AudioFormat, strings.Join(SupportedAudioFormats, ", "))
		}
	default:
		return fmt.Errorf("operation %s has no parameters", op.Name)
	}

	return nil
}
