// Package resolver translates requested operation parameters into exact,
// validated intervals and instants against a media duration that is only
// known at run time.
//
// Every function here shares one contract: never return an interval outside
// [0, duration], never return start >= end, and fail fast on the first
// invalid input without returning a partial result.
package resolver

import (
	"errors"
	"fmt"

	"batchcut/internal/timeparse"
	"batchcut/models"
)

// ErrInvalidRange reports bounds that violate 0 <= start < end <= duration.
var ErrInvalidRange = errors.New("invalid time range")

// FreezeEndEpsilon is how far before the true end a freeze instant is
// clamped, so the engine always has a frame strictly inside the media.
// The value matches the offset the operation historically used.
const FreezeEndEpsilon = 0.01

// SlidingWindows produces overlapping fixed-length intervals advancing by a
// fixed step between startSpec and endSpec (defaulting to 0 and duration).
//
// Full windows are emitted while they fit before the end bound; a trailing
// partial window is clipped to the end bound rather than dropped, so the
// tail of the range is always covered.
func SlidingWindows(win models.WindowSpec, startSpec, endSpec timeparse.Spec, duration float64) ([]models.Interval, error) {
	if win.Length <= 0 {
		return nil, fmt.Errorf("%w: window_length %.2f must be positive", timeparse.ErrInvalidValue, win.Length)
	}
	if win.Step <= 0 {
		return nil, fmt.Errorf("%w: slide_step %.2f must be positive", timeparse.ErrInvalidValue, win.Step)
	}

	start, err := startSpec.SecondsOr(0)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := endSpec.SecondsOr(duration)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}

	if start >= end {
		return nil, fmt.Errorf("%w: start_time %.2f must be before end_time %.2f", ErrInvalidRange, start, end)
	}
	if end > duration {
		return nil, fmt.Errorf("%w: end_time %.2f exceeds duration %.2f", ErrInvalidRange, end, duration)
	}

	var windows []models.Interval
	t := start
	for t+win.Length <= end {
		windows = append(windows, models.Interval{Start: t, End: t + win.Length})
		t += win.Step
	}
	if t < end {
		windows = append(windows, models.Interval{Start: t, End: end})
	}

	return windows, nil
}

// ExplicitIntervals parses and validates an ordered sequence of raw
// (start, end) pairs against the media duration.
//
// Pairs are independent: overlap between them is permitted and the output
// order matches the input order, with no sorting or merging. The first
// invalid pair fails the whole call.
func ExplicitIntervals(pairs []models.SpanSpec, duration float64) ([]models.Interval, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: intervals must not be empty", ErrInvalidRange)
	}

	intervals := make([]models.Interval, 0, len(pairs))
	for i, pair := range pairs {
		start, err := pair.Start.Seconds()
		if err != nil {
			return nil, fmt.Errorf("interval %d start: %w", i+1, err)
		}
		end, err := pair.End.Seconds()
		if err != nil {
			return nil, fmt.Errorf("interval %d end: %w", i+1, err)
		}

		iv := models.Interval{Start: start, End: end}
		if err := iv.Validate(duration); err != nil {
			return nil, fmt.Errorf("interval %d: %w: %v", i+1, ErrInvalidRange, err)
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}

// FreezeInstant resolves the single instant at which a frame is frozen.
//
// An explicit freeze time wins over the position keyword. Keywords map to
// beginning -> 0, middle -> duration/2, end -> duration - FreezeEndEpsilon.
// Any resolved instant is clamped into [0, duration - FreezeEndEpsilon] so
// downstream frame extraction never lands past the last frame.
func FreezeInstant(freezeTime timeparse.Spec, position models.FreezePosition, duration float64) (float64, error) {
	latest := duration - FreezeEndEpsilon
	if latest < 0 {
		latest = 0
	}

	if freezeTime.IsSet() {
		instant, err := freezeTime.Seconds()
		if err != nil {
			return 0, fmt.Errorf("freeze_time: %w", err)
		}
		if instant > duration {
			return 0, fmt.Errorf("%w: freeze_time %.2f exceeds duration %.2f", ErrInvalidRange, instant, duration)
		}
		if instant > latest {
			instant = latest
		}
		return instant, nil
	}

	switch position {
	case models.FreezeBeginning:
		return 0, nil
	case models.FreezeMiddle:
		return duration / 2, nil
	case models.FreezeEnd:
		return latest, nil
	case "":
		return 0, fmt.Errorf("either freeze_time or freeze_position must be given")
	default:
		_, err := models.ParseFreezePosition(string(position))
		return 0, err
	}
}

// ValidateSpeed checks a playback speed factor. Speed changes need no
// interval resolution; the factor just has to be positive.
func ValidateSpeed(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("%w: speed %.2f must be positive", timeparse.ErrInvalidValue, factor)
	}
	return nil
}
