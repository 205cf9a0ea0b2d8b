package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"batchcut/internal/timeparse"
	"batchcut/models"
)

// Fixed operation-name vocabulary: the keys a batch file may use.
const (
	OpSlidingWindow  = "cut_video_with_sliding_window"
	OpConcat         = "concat_videos"
	OpFrozenFrame    = "add_frozen_frame"
	OpTrim           = "trim_video_by_intervals"
	OpPlaybackSpeed  = "change_playback_speed"
	OpSubtitleSpeed  = "change_subtitle_speed"
	OpConvertToAudio = "convert_video_to_audio"
	OpExtractAudio   = "extract_audio_segment"
)

// SlidingWindowParams configures cut_video_with_sliding_window.
type SlidingWindowParams struct {
	VideoPath    string         `yaml:"video_path"`
	WindowLength float64        `yaml:"window_length"`
	SlideStep    float64        `yaml:"slide_step"`
	StartTime    timeparse.Spec `yaml:"start_time"`
	EndTime      timeparse.Spec `yaml:"end_time"`
	OutputDir    string         `yaml:"output_dir"`
}

// ConcatParams configures concat_videos.
type ConcatParams struct {
	VideoPaths []string `yaml:"video_paths"`
	OutputPath string   `yaml:"output_path"`
}

// FrozenFrameParams configures add_frozen_frame. FreezeTime wins over
// FreezePosition when both are present.
type FrozenFrameParams struct {
	VideoPath      string         `yaml:"video_path"`
	FreezeTime     timeparse.Spec `yaml:"freeze_time"`
	FreezePosition string         `yaml:"freeze_position"`
	FreezeDuration float64        `yaml:"freeze_duration"`
	OutputPath     string         `yaml:"output_path"`
}

// TrimParams configures trim_video_by_intervals. If OutputPath is an
// existing directory each segment is written individually; otherwise the
// segments are concatenated into the single output file.
type TrimParams struct {
	VideoPath  string           `yaml:"video_path"`
	Intervals  []models.SpanSpec `yaml:"intervals"`
	OutputPath string           `yaml:"output_path"`
}

// SpeedParams configures change_playback_speed.
type SpeedParams struct {
	VideoPath  string  `yaml:"video_path"`
	Speed      float64 `yaml:"speed"`
	OutputPath string  `yaml:"output_path"`
}

// SubtitleSpeedParams configures change_subtitle_speed.
type SubtitleSpeedParams struct {
	SubtitlePath string  `yaml:"subtitle_path"`
	Speed        float64 `yaml:"speed"`
	OutputPath   string  `yaml:"output_path"`
}

// AudioParams configures convert_video_to_audio and extract_audio_segment.
// An absent StartTime/EndTime means the whole file.
type AudioParams struct {
	VideoPath   string         `yaml:"video_path"`
	OutputPath  string         `yaml:"output_path"`
	AudioFormat string         `yaml:"audio_format"`
	Codec       string         `yaml:"codec"`
	Bitrate     string         `yaml:"bitrate"`
	StartTime   timeparse.Spec `yaml:"start_time"`
	EndTime     timeparse.Spec `yaml:"end_time"`
}

// Operation is one configured entry of the batch, in file-declaration
// order. Params is one of the *Params types above; a nil Params with a
// non-nil Err marks an entry that could not be decoded (unknown name or
// malformed parameters). Such entries are reported as per-operation
// failures at dispatch time instead of aborting the whole load, keeping
// one bad entry from taking down the batch.
type Operation struct {
	Name   string
	Index  int
	Params any
	Err    error
}

// Batch is the ordered list of operations from one batch file.
type Batch struct {
	Path       string
	Operations []Operation
}

// LoadBatchFile reads a batch file: a YAML mapping of operation name to
// parameter record. Declaration order is preserved by walking the raw
// document nodes rather than decoding into a Go map.
func LoadBatchFile(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("batch file %s is empty", path)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("batch file %s must be a mapping of operation name to parameters", path)
	}

	batch := &Batch{Path: path}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		op := Operation{
			Name:  keyNode.Value,
			Index: len(batch.Operations),
		}
		op.Params, op.Err = decodeParams(keyNode.Value, valueNode)
		batch.Operations = append(batch.Operations, op)
	}

	if len(batch.Operations) == 0 {
		return nil, fmt.Errorf("batch file %s declares no operations", path)
	}

	return batch, nil
}

// decodeParams decodes one operation's parameter record by name.
func decodeParams(name string, node *yaml.Node) (any, error) {
	decode := func(dst any) (any, error) {
		if err := node.Decode(dst); err != nil {
			return nil, fmt.Errorf("operation %s: %w", name, err)
		}
		return dst, nil
	}

	switch name {
	case OpSlidingWindow:
		return decode(&SlidingWindowParams{})
	case OpConcat:
		return decode(&ConcatParams{})
	case OpFrozenFrame:
		return decode(&FrozenFrameParams{})
	case OpTrim:
		return decode(&TrimParams{})
	case OpPlaybackSpeed:
		return decode(&SpeedParams{})
	case OpSubtitleSpeed:
		return decode(&SubtitleSpeedParams{})
	case OpConvertToAudio, OpExtractAudio:
		return decode(&AudioParams{})
	default:
		return nil, fmt.Errorf("unknown operation %q", name)
	}
}
