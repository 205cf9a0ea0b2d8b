// Package config holds the runtime settings and the batch file loader.
//
// Settings follow the priority chain CLI flags > environment > settings
// file > defaults. The batch file is a separate, ordered document listing
// the editing operations to perform.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Settings holds everything about how the runner executes, as opposed to
// what it executes (the batch file).
type Settings struct {
	// External engine binaries.
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Encoding defaults applied when an operation re-encodes.
	Video VideoSettings `yaml:"video"`
	Audio AudioSettings `yaml:"audio"`

	History HistorySettings `yaml:"history"`
	Log     LogSettings     `yaml:"log"`

	// KeepGoing controls whether a failed operation aborts the batch.
	// Operations are isolated by design, so this defaults to true.
	KeepGoing bool `yaml:"keep_going"`
	DryRun    bool `yaml:"-"`
}

// VideoSettings holds the video re-encode defaults.
type VideoSettings struct {
	Codec  string `yaml:"codec"`  // e.g. "libx264"
	CRF    int    `yaml:"crf"`    // 0-51, lower = better quality
	Preset string `yaml:"preset"` // e.g. "fast", "medium"
}

// AudioSettings holds the audio re-encode defaults.
type AudioSettings struct {
	Codec      string `yaml:"codec"`       // e.g. "aac"
	Bitrate    string `yaml:"bitrate"`     // e.g. "192k"
	SampleRate int    `yaml:"sample_rate"` // e.g. 48000
}

// HistorySettings controls the SQLite run history.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogSettings controls the structured logger and its file rotation.
type LogSettings struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`  // empty = console only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() *Settings {
	home, _ := os.UserHomeDir()
	return &Settings{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Video: VideoSettings{
			Codec:  "libx264",
			CRF:    23,
			Preset: "medium",
		},
		Audio: AudioSettings{
			Codec:      "aac",
			Bitrate:    "192k",
			SampleRate: 48000,
		},
		History: HistorySettings{
			Enabled: true,
			Path:    filepath.Join(home, ".batchcut", "history.db"),
		},
		Log: LogSettings{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		KeepGoing: true,
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// applyEnv overlays environment variables onto the settings. A .env file in
// the working directory is honored but never overrides real environment
// variables.
func (s *Settings) applyEnv() {
	_ = godotenv.Load()

	s.FFmpegPath = getEnv("FFMPEG_PATH", s.FFmpegPath)
	s.FFprobePath = getEnv("FFPROBE_PATH", s.FFprobePath)
	s.History.Path = getEnv("BATCHCUT_HISTORY", s.History.Path)
	s.Log.Level = getEnv("LOG_LEVEL", s.Log.Level)
	s.Log.File = getEnv("LOG_FILE", s.Log.File)
}
