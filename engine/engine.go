// Package engine executes resolved editing operations against media files.
//
// The MediaEngine interface is what the dispatcher programs against; the
// FFmpeg implementation composes the command builders and ffprobe. Tests
// substitute a stub.
package engine

import (
	"context"
	"errors"

	"batchcut/models"
)

// ErrEngine marks failures of the underlying media tooling, as opposed to
// configuration or resolution errors caught before any command runs.
var ErrEngine = errors.New("engine failure")

// AudioRequest describes one audio extraction.
type AudioRequest struct {
	SourcePath string
	OutputPath string
	Format     string // mp3, wav, ogg, aac, m4a
	Codec      string // empty = derived from Format
	Bitrate    string // empty = configured default
	Interval   *models.Interval
}

// MediaEngine performs the media-level work of batch operations.
type MediaEngine interface {
	// Duration returns the length of a media file in seconds.
	Duration(ctx context.Context, sourcePath string) (float64, error)

	// Cut writes one segment file per interval into outputDir and returns
	// the created paths in interval order.
	Cut(ctx context.Context, sourcePath string, intervals []models.Interval, outputDir string) ([]string, error)

	// CutToFile cuts the intervals and joins them into a single output.
	CutToFile(ctx context.Context, sourcePath string, intervals []models.Interval, outputPath string) error

	// Concat joins the input files in order into one output.
	Concat(ctx context.Context, inputPaths []string, outputPath string) error

	// Freeze inserts a still segment of freezeDuration seconds at the given
	// instant of the source.
	Freeze(ctx context.Context, sourcePath string, instant, freezeDuration float64, outputPath string) error

	// SetSpeed re-times the source by the given factor (>1 is faster).
	SetSpeed(ctx context.Context, sourcePath string, factor float64, outputPath string) error

	// ShiftSubtitles rewrites an SRT file's cue timings by the factor.
	ShiftSubtitles(ctx context.Context, subtitlePath string, factor float64, outputPath string) error

	// ExtractAudio writes the audio track, or a segment of it, to a file.
	ExtractAudio(ctx context.Context, req AudioRequest) error
}
