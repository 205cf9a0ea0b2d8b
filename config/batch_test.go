package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write batch file: %v", err)
	}
	return path
}

func TestLoadBatchFile_PreservesDeclarationOrder(t *testing.T) {
	path := writeBatchFile(t, `
change_playback_speed:
  video_path: in.mp4
  speed: 2.0
  output_path: fast.mp4
concat_videos:
  video_paths: [a.mp4, b.mp4]
  output_path: joined.mp4
trim_video_by_intervals:
  video_path: in.mp4
  intervals:
    - ["00:00", "00:10"]
    - ["00:05", "00:08"]
  output_path: trimmed.mp4
`)

	batch, err := LoadBatchFile(path)
	if err != nil {
		t.Fatalf("LoadBatchFile returned error: %v", err)
	}

	wantOrder := []string{OpPlaybackSpeed, OpConcat, OpTrim}
	if len(batch.Operations) != len(wantOrder) {
		t.Fatalf("got %d operations; want %d", len(batch.Operations), len(wantOrder))
	}
	for i, op := range batch.Operations {
		if op.Name != wantOrder[i] {
			t.Errorf("operation %d = %s; want %s", i, op.Name, wantOrder[i])
		}
		if op.Index != i {
			t.Errorf("operation %d has index %d", i, op.Index)
		}
		if op.Err != nil {
			t.Errorf("operation %s decode error: %v", op.Name, op.Err)
		}
	}
}

func TestLoadBatchFile_DecodesTypedParams(t *testing.T) {
	path := writeBatchFile(t, `
cut_video_with_sliding_window:
  video_path: in.mp4
  window_length: 10
  slide_step: 3
  start_time: "00:00"
  end_time: "00:20"
  output_dir: clips
`)

	batch, err := LoadBatchFile(path)
	if err != nil {
		t.Fatalf("LoadBatchFile returned error: %v", err)
	}

	params, ok := batch.Operations[0].Params.(*SlidingWindowParams)
	if !ok {
		t.Fatalf("params type = %T; want *SlidingWindowParams", batch.Operations[0].Params)
	}
	if params.WindowLength != 10 || params.SlideStep != 3 {
		t.Errorf("window/step = %v/%v; want 10/3", params.WindowLength, params.SlideStep)
	}
	if end, _ := params.EndTime.Seconds(); end != 20 {
		t.Errorf("end_time = %v; want 20", end)
	}
	if params.OutputDir != "clips" {
		t.Errorf("output_dir = %q; want clips", params.OutputDir)
	}
}

func TestLoadBatchFile_UnknownOperationIsIsolated(t *testing.T) {
	path := writeBatchFile(t, `
warp_video:
  video_path: in.mp4
concat_videos:
  video_paths: [a.mp4, b.mp4]
  output_path: joined.mp4
`)

	batch, err := LoadBatchFile(path)
	if err != nil {
		t.Fatalf("LoadBatchFile returned error: %v", err)
	}

	if len(batch.Operations) != 2 {
		t.Fatalf("got %d operations; want 2", len(batch.Operations))
	}
	if batch.Operations[0].Err == nil {
		t.Error("unknown operation should carry a decode error")
	}
	if batch.Operations[1].Err != nil {
		t.Errorf("valid operation should not be affected: %v", batch.Operations[1].Err)
	}
}

func TestLoadBatchFile_Empty(t *testing.T) {
	path := writeBatchFile(t, "")
	if _, err := LoadBatchFile(path); err == nil {
		t.Error("expected error for empty batch file")
	}
}

func TestOperationValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
	}{
		{
			name: "Sliding window without output_dir",
			op: Operation{Name: OpSlidingWindow, Params: &SlidingWindowParams{
				VideoPath: "in.mp4", WindowLength: 10, SlideStep: 3,
			}},
		},
		{
			name: "Concat without paths",
			op:   Operation{Name: OpConcat, Params: &ConcatParams{OutputPath: "out.mp4"}},
		},
		{
			name: "Frozen frame without instant",
			op: Operation{Name: OpFrozenFrame, Params: &FrozenFrameParams{
				VideoPath: "in.mp4", FreezeDuration: 2, OutputPath: "out.mp4",
			}},
		},
		{
			name: "Trim without intervals",
			op: Operation{Name: OpTrim, Params: &TrimParams{
				VideoPath: "in.mp4", OutputPath: "out.mp4",
			}},
		},
		{
			name: "Subtitle speed without subtitle_path",
			op: Operation{Name: OpSubtitleSpeed, Params: &SubtitleSpeedParams{
				Speed: 2, OutputPath: "out.srt",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("Validate() = %v; want ErrMissingField", err)
			}
		})
	}
}

func TestOperationValidate_AudioFormat(t *testing.T) {
	op := Operation{Name: OpConvertToAudio, Params: &AudioParams{
		VideoPath:   "in.mp4",
		OutputPath:  "out.flac",
		AudioFormat: "flac",
	}}
	if err := op.Validate(); err == nil {
		t.Error("expected error for unsupported audio format")
	}

	op = Operation{Name: OpConvertToAudio, Params: &AudioParams{
		VideoPath:   "in.mp4",
		OutputPath:  "out.mp3",
		AudioFormat: "mp3",
	}}
	if err := op.Validate(); err != nil {
		t.Errorf("Validate() = %v; want nil", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	settings := DefaultSettings()
	if err := settings.Validate(); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}

	settings.FFmpegPath = ""
	settings.Log.Level = "loud"
	err := settings.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
}
