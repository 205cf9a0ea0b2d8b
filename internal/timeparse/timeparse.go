// Package timeparse converts user-supplied time tokens into canonical
// seconds and formats seconds for FFmpeg time parameters.
//
// Batch files are loosely typed: a time field may be a plain number of
// seconds (possibly fractional) or a clock string in MM:SS or HH:MM:SS
// form. Spec captures that union once at decode time so the rest of the
// system only ever deals with float64 seconds.
package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidFormat reports a time token whose shape cannot be parsed
	// (wrong number of colon-separated parts, non-numeric parts, ...).
	ErrInvalidFormat = errors.New("invalid time format")

	// ErrInvalidValue reports a syntactically valid value that is
	// unacceptable (negative seconds, non-positive lengths, absent when
	// required).
	ErrInvalidValue = errors.New("invalid value")
)

type specKind int

const (
	specAbsent specKind = iota
	specNumber
	specText
)

// Spec is a user-supplied time value: a plain number of seconds or a clock
// string. The zero Spec means the field was absent. Immutable once decoded.
type Spec struct {
	number float64
	text   string
	kind   specKind
}

// Number returns a Spec holding a plain number of seconds.
func Number(seconds float64) Spec {
	return Spec{number: seconds, kind: specNumber}
}

// Text returns a Spec holding a clock-string token.
func Text(token string) Spec {
	return Spec{text: token, kind: specText}
}

// IsSet reports whether the field was present in the batch file.
func (s Spec) IsSet() bool {
	return s.kind != specAbsent
}

// UnmarshalYAML decodes a scalar node into the number-or-string union.
// Integers and floats become numeric seconds, everything else is kept as a
// token for ParseClock. Null leaves the Spec absent.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected a number or a MM:SS string", ErrInvalidFormat)
	}

	switch node.Tag {
	case "!!null":
		*s = Spec{}
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, node.Value)
		}
		*s = Number(n)
	default:
		*s = Text(node.Value)
	}

	return nil
}

// Seconds resolves the Spec to canonical seconds.
//
// Numeric values are returned unchanged after a non-negativity check.
// Strings are parsed via ParseClock. An absent Spec is an error; use
// SecondsOr when the field has a default.
func (s Spec) Seconds() (float64, error) {
	switch s.kind {
	case specNumber:
		if s.number < 0 {
			return 0, fmt.Errorf("%w: %.2f is negative", ErrInvalidValue, s.number)
		}
		return s.number, nil
	case specText:
		return ParseClock(s.text)
	default:
		return 0, fmt.Errorf("%w: no time given", ErrInvalidValue)
	}
}

// SecondsOr resolves the Spec to canonical seconds, returning def when the
// field was absent.
func (s Spec) SecondsOr(def float64) (float64, error) {
	if !s.IsSet() {
		return def, nil
	}
	return s.Seconds()
}

// String renders the Spec for error messages and logs.
func (s Spec) String() string {
	switch s.kind {
	case specNumber:
		return strconv.FormatFloat(s.number, 'g', -1, 64)
	case specText:
		return s.text
	default:
		return "<unset>"
	}
}

// ParseClock converts a clock token to seconds.
//
// Accepts exactly two parts (MM:SS) or three parts (HH:MM:SS). Each part
// must be a non-negative number; the seconds part may be fractional.
//
// Example:
//
//	ParseClock("01:30")    // 90.0
//	ParseClock("01:00:30") // 3630.0
//	ParseClock("00:12.5")  // 12.5
func ParseClock(token string) (float64, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q, want MM:SS or HH:MM:SS", ErrInvalidFormat, token)
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q, want MM:SS or HH:MM:SS", ErrInvalidFormat, token)
		}
		values[i] = v
	}

	total := 0.0
	for _, v := range values {
		total = total*60 + v
	}
	return total, nil
}

// FormatSeconds converts seconds to HH:MM:SS.cc form for FFmpeg parameters
// like -ss and -to. Fractional seconds are preserved to centiseconds.
//
// Example:
//
//	FormatSeconds(90)    // "00:01:30.00"
//	FormatSeconds(30.53) // "00:00:30.53"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}
