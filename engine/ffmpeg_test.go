package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"batchcut/config"
	"batchcut/models"
)

func dryRunEngine() *FFmpeg {
	settings := config.DefaultSettings()
	settings.DryRun = true
	return NewFFmpeg(settings, zap.NewNop())
}

func TestFFmpeg_Cut_DryRun(t *testing.T) {
	eng := dryRunEngine()
	dir := filepath.Join(t.TempDir(), "segments")

	intervals := []models.Interval{
		{Start: 0, End: 10},
		{Start: 3, End: 13},
		{Start: 12, End: 20},
	}

	outputs, err := eng.Cut(context.Background(), "video.mp4", intervals, dir)
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}

	if len(outputs) != 3 {
		t.Fatalf("got %d outputs; want 3", len(outputs))
	}
	expected := []string{"part_000.mp4", "part_001.mp4", "part_002.mp4"}
	for i, want := range expected {
		if filepath.Base(outputs[i]) != want {
			t.Errorf("output %d = %s; want %s", i, filepath.Base(outputs[i]), want)
		}
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output directory should exist: %v", err)
	}
}

func TestFFmpeg_Cut_KeepsSourceExtension(t *testing.T) {
	eng := dryRunEngine()

	outputs, err := eng.Cut(context.Background(), "clip.mkv",
		[]models.Interval{{Start: 0, End: 5}}, t.TempDir())
	if err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}
	if filepath.Ext(outputs[0]) != ".mkv" {
		t.Errorf("segment should keep source extension: %s", outputs[0])
	}
}

func TestFFmpeg_CutToFile_DryRun(t *testing.T) {
	eng := dryRunEngine()
	outputPath := filepath.Join(t.TempDir(), "trimmed.mp4")

	intervals := []models.Interval{{Start: 5, End: 10}, {Start: 20, End: 30}}
	if err := eng.CutToFile(context.Background(), "video.mp4", intervals, outputPath); err != nil {
		t.Fatalf("CutToFile returned error: %v", err)
	}
}

func TestFFmpeg_ExtractAudio_DryRun(t *testing.T) {
	eng := dryRunEngine()

	err := eng.ExtractAudio(context.Background(), AudioRequest{
		SourcePath: "video.mp4",
		OutputPath: "audio.mp3",
		Format:     "mp3",
	})
	if err != nil {
		t.Fatalf("ExtractAudio returned error: %v", err)
	}
}

func TestFFmpeg_SetSpeed_DryRun(t *testing.T) {
	eng := dryRunEngine()

	err := eng.SetSpeed(context.Background(), "video.mp4", 2, "fast.mp4")
	if err != nil {
		t.Fatalf("SetSpeed returned error: %v", err)
	}
}

func TestFFmpeg_ShiftSubtitles_DryRun(t *testing.T) {
	eng := dryRunEngine()
	outputPath := filepath.Join(t.TempDir(), "out.srt")

	if err := eng.ShiftSubtitles(context.Background(), "in.srt", 2, outputPath); err != nil {
		t.Fatalf("ShiftSubtitles returned error: %v", err)
	}
	if _, err := os.Stat(outputPath); err == nil {
		t.Error("dry run should not write the output file")
	}
}

func TestFFmpeg_Concat_DryRun(t *testing.T) {
	eng := dryRunEngine()

	err := eng.Concat(context.Background(), []string{"a.mp4", "b.mp4"}, "joined.mp4")
	if err != nil {
		t.Fatalf("Concat returned error: %v", err)
	}
}
