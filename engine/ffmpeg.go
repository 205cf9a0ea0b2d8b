package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"batchcut/command"
	"batchcut/command/audio"
	"batchcut/command/clip"
	"batchcut/command/concat"
	"batchcut/command/freeze"
	"batchcut/command/speed"
	"batchcut/config"
	"batchcut/ffprobe"
	"batchcut/models"
	"batchcut/subtitle"
)

// headSkipThreshold is the freeze instant below which no head segment is
// cut; FFmpeg produces empty or single-frame clips for sub-frame spans.
const headSkipThreshold = 0.01

// FFmpeg is the MediaEngine backed by the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	settings *config.Settings
	prober   *ffprobe.Prober
	log      *zap.Logger
}

// NewFFmpeg creates an engine using the binaries and encoding defaults
// from the settings.
func NewFFmpeg(settings *config.Settings, log *zap.Logger) *FFmpeg {
	return &FFmpeg{
		settings: settings,
		prober:   ffprobe.New(settings.FFprobePath),
		log:      log,
	}
}

// run executes one built command, or just logs it in dry-run mode.
func (f *FFmpeg) run(ctx context.Context, cmd command.Command) error {
	line, _ := cmd.DryRun()

	if f.settings.DryRun {
		f.log.Info("dry run",
			zap.String("kind", string(cmd.Kind())),
			zap.String("command", line))
		return nil
	}

	f.log.Debug("executing",
		zap.String("kind", string(cmd.Kind())),
		zap.String("command", line))

	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("%w: %s command failed: %w", ErrEngine, cmd.Kind(), err)
	}
	return nil
}

// Duration probes the source and returns its length in seconds.
func (f *FFmpeg) Duration(ctx context.Context, sourcePath string) (float64, error) {
	result, err := f.prober.Probe(ctx, sourcePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	duration, err := result.Duration()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return duration, nil
}

// hasAudio probes the source for an audio stream. Errors degrade to true
// so the safer filter graph is used.
func (f *FFmpeg) hasAudio(ctx context.Context, sourcePath string) bool {
	result, err := f.prober.Probe(ctx, sourcePath)
	if err != nil {
		return true
	}
	return result.HasAudio()
}

// clipBuilder creates a clip builder preloaded with the configured
// encoding defaults.
func (f *FFmpeg) clipBuilder(sourcePath string, interval models.Interval, outputPath string) *clip.Builder {
	return clip.NewBuilder(sourcePath, interval, outputPath).
		SetBinary(f.settings.FFmpegPath).
		SetVideoCodec(f.settings.Video.Codec).
		SetCRF(f.settings.Video.CRF).
		SetPreset(f.settings.Video.Preset).
		SetAudioCodec(f.settings.Audio.Codec)
}

// Cut writes one segment per interval into outputDir, named part_000,
// part_001, ... with the source extension.
func (f *FFmpeg) Cut(ctx context.Context, sourcePath string, intervals []models.Interval, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %w", ErrEngine, err)
	}

	ext := filepath.Ext(sourcePath)
	outputs := make([]string, 0, len(intervals))

	for i, interval := range intervals {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("part_%03d%s", i, ext))
		if err := f.run(ctx, f.clipBuilder(sourcePath, interval, outputPath)); err != nil {
			return outputs, err
		}
		outputs = append(outputs, outputPath)
	}
	return outputs, nil
}

// CutToFile cuts the intervals into a temp directory and joins them into
// the single output file.
func (f *FFmpeg) CutToFile(ctx context.Context, sourcePath string, intervals []models.Interval, outputPath string) error {
	tempDir, err := os.MkdirTemp("", "batchcut-trim-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp directory: %w", ErrEngine, err)
	}
	defer os.RemoveAll(tempDir)

	segments, err := f.Cut(ctx, sourcePath, intervals, tempDir)
	if err != nil {
		return err
	}

	if len(segments) == 1 && !f.settings.DryRun {
		if err := os.Rename(segments[0], outputPath); err == nil {
			return nil
		}
		// Rename fails across filesystems; fall through to concat.
	}

	// Segments share one encoder configuration, so stream copy is safe.
	builder := concat.NewBuilder(segments, outputPath).
		SetBinary(f.settings.FFmpegPath)
	return f.run(ctx, builder)
}

// Concat joins existing files in order. Stream copy keeps it fast; inputs
// are expected to share codec parameters.
func (f *FFmpeg) Concat(ctx context.Context, inputPaths []string, outputPath string) error {
	builder := concat.NewBuilder(inputPaths, outputPath).
		SetBinary(f.settings.FFmpegPath)
	return f.run(ctx, builder)
}

// Freeze cuts the source at the instant, renders the frame there into a
// still segment of freezeDuration seconds and joins head, still and tail.
func (f *FFmpeg) Freeze(ctx context.Context, sourcePath string, instant, freezeDuration float64, outputPath string) error {
	duration, err := f.Duration(ctx, sourcePath)
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "batchcut-freeze-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp directory: %w", ErrEngine, err)
	}
	defer os.RemoveAll(tempDir)

	ext := filepath.Ext(sourcePath)
	framePath := filepath.Join(tempDir, "frame.png")
	stillPath := filepath.Join(tempDir, "still"+ext)

	frameBuilder := freeze.NewFrameBuilder(sourcePath, instant, framePath).
		SetBinary(f.settings.FFmpegPath)
	if err := f.run(ctx, frameBuilder); err != nil {
		return err
	}

	stillBuilder := freeze.NewStillBuilder(framePath, freezeDuration, stillPath).
		SetBinary(f.settings.FFmpegPath).
		SetVideoCodec(f.settings.Video.Codec).
		SetPreset(f.settings.Video.Preset).
		SetAudioCodec(f.settings.Audio.Codec).
		SetSampleRate(f.settings.Audio.SampleRate)
	if err := f.run(ctx, stillBuilder); err != nil {
		return err
	}

	var segments []string
	if instant > headSkipThreshold {
		headPath := filepath.Join(tempDir, "head"+ext)
		head := models.Interval{Start: 0, End: instant}
		if err := f.run(ctx, f.clipBuilder(sourcePath, head, headPath)); err != nil {
			return err
		}
		segments = append(segments, headPath)
	}

	segments = append(segments, stillPath)

	tailPath := filepath.Join(tempDir, "tail"+ext)
	tail := models.Interval{Start: instant, End: duration}
	if err := f.run(ctx, f.clipBuilder(sourcePath, tail, tailPath)); err != nil {
		return err
	}
	segments = append(segments, tailPath)

	// The still comes from a different pipeline than the cuts, so joining
	// needs a re-encode.
	builder := concat.NewBuilder(segments, outputPath).
		SetBinary(f.settings.FFmpegPath).
		SetCopyStreams(false).
		SetVideoCodec(f.settings.Video.Codec).
		SetAudioCodec(f.settings.Audio.Codec)
	return f.run(ctx, builder)
}

// SetSpeed re-times the source by the factor, chaining atempo stages for
// audio when the factor leaves FFmpeg's per-stage range.
func (f *FFmpeg) SetSpeed(ctx context.Context, sourcePath string, factor float64, outputPath string) error {
	builder := speed.NewBuilder(sourcePath, factor, outputPath).
		SetBinary(f.settings.FFmpegPath).
		SetVideoCodec(f.settings.Video.Codec).
		SetAudioCodec(f.settings.Audio.Codec).
		SetHasAudio(f.hasAudio(ctx, sourcePath))
	return f.run(ctx, builder)
}

// ShiftSubtitles retimes an SRT file natively; no FFmpeg involved, but it
// lives on the engine so the dispatcher has a single effectful surface.
func (f *FFmpeg) ShiftSubtitles(ctx context.Context, subtitlePath string, factor float64, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if f.settings.DryRun {
		f.log.Info("dry run",
			zap.String("kind", "subtitle"),
			zap.String("input", subtitlePath),
			zap.Float64("speed", factor),
			zap.String("output", outputPath))
		return nil
	}

	if err := subtitle.RetimeFile(subtitlePath, outputPath, factor); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// ExtractAudio writes the audio track, or the requested segment, to the
// output file.
func (f *FFmpeg) ExtractAudio(ctx context.Context, req AudioRequest) error {
	bitrate := req.Bitrate
	if bitrate == "" {
		bitrate = f.settings.Audio.Bitrate
	}

	builder := audio.NewExtractBuilder(req.SourcePath, req.OutputPath).
		SetBinary(f.settings.FFmpegPath).
		SetFormat(req.Format).
		SetCodec(req.Codec).
		SetBitrate(bitrate)
	if req.Interval != nil {
		builder.SetInterval(*req.Interval)
	}
	return f.run(ctx, builder)
}
