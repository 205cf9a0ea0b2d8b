// Package subtitle retimes SRT subtitle files for playback speed changes.
//
// An SRT file is plain text; only the timing lines
// ("HH:MM:SS,mmm --> HH:MM:SS,mmm") change when the video is sped up or
// slowed down, so the rewrite happens natively instead of going through
// the media engine.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const arrow = " --> "

var timestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)

// parseTimestamp converts an SRT timestamp to milliseconds.
func parseTimestamp(s string) (int64, error) {
	m := timestampPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid SRT timestamp %q", s)
	}

	hours, _ := strconv.ParseInt(m[1], 10, 64)
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	millis, _ := strconv.ParseInt(m[4], 10, 64)

	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// formatTimestamp renders milliseconds as an SRT timestamp.
func formatTimestamp(ms int64) string {
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// scale divides a timestamp by the speed factor: doubling playback speed
// halves every cue time.
func scale(ms int64, factor float64) int64 {
	return int64(math.Round(float64(ms) / factor))
}

// Retime copies an SRT stream, rewriting every timing line by the speed
// factor. Cue numbers, text and blank lines pass through untouched, as do
// any cue settings trailing the end timestamp.
func Retime(r io.Reader, w io.Writer, factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("speed %.2f must be positive", factor)
	}

	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if !strings.Contains(line, arrow) {
			fmt.Fprintln(out, line)
			continue
		}

		parts := strings.SplitN(line, arrow, 2)
		endAndRest := strings.SplitN(strings.TrimSpace(parts[1]), " ", 2)

		start, err := parseTimestamp(parts[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		end, err := parseTimestamp(endAndRest[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		rewritten := formatTimestamp(scale(start, factor)) + arrow + formatTimestamp(scale(end, factor))
		if len(endAndRest) == 2 {
			rewritten += " " + endAndRest[1]
		}
		fmt.Fprintln(out, rewritten)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read subtitles: %w", err)
	}

	return out.Flush()
}

// RetimeFile rewrites an SRT file on disk.
func RetimeFile(inputPath, outputPath string, factor float64) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output subtitle file: %w", err)
	}

	if err := Retime(in, out, factor); err != nil {
		out.Close()
		os.Remove(outputPath)
		return err
	}
	return out.Close()
}
