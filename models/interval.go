// Package models provides the core value types shared across the batch
// editor: resolved intervals, window specifications, freeze positions and
// per-operation outcomes.
package models

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"batchcut/internal/timeparse"
)

// Interval is a resolved, validated (start, end) second pair.
//
// Intervals are only produced after resolution against a known media
// duration and always satisfy 0 <= Start < End. Bounds use float64 to
// preserve fractional seconds, which matters for precise cuts and
// audio sync.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Validate checks the interval against the invariant 0 <= Start < End and,
// when duration > 0, End <= duration.
func (iv Interval) Validate(duration float64) error {
	if iv.Start < 0 {
		return fmt.Errorf("start %.2f is negative", iv.Start)
	}
	if iv.Start >= iv.End {
		return fmt.Errorf("start %.2f is not before end %.2f", iv.Start, iv.End)
	}
	if duration > 0 && iv.End > duration {
		return fmt.Errorf("end %.2f exceeds duration %.2f", iv.End, duration)
	}
	return nil
}

// Length returns the interval length in seconds.
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", iv.Start, iv.End)
}

// WindowSpec describes a sliding window: fixed-length intervals advancing
// by a fixed step. Both values must be positive.
type WindowSpec struct {
	Length float64
	Step   float64
}

// SpanSpec is a raw, unresolved (start, end) pair as it appears in a batch
// file. Each side is a loosely-typed time value resolved independently by
// the interval resolver.
type SpanSpec struct {
	Start timeparse.Spec
	End   timeparse.Spec
}

// UnmarshalYAML accepts the two shapes batch files use for an interval:
// a two-element sequence ["00:05", "00:10"] or a mapping
// {start: "00:05", end: "00:10"}.
func (sp *SpanSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("interval must have exactly 2 elements, got %d", len(node.Content))
		}
		if err := node.Content[0].Decode(&sp.Start); err != nil {
			return fmt.Errorf("interval start: %w", err)
		}
		if err := node.Content[1].Decode(&sp.End); err != nil {
			return fmt.Errorf("interval end: %w", err)
		}
		return nil
	case yaml.MappingNode:
		var m struct {
			Start timeparse.Spec `yaml:"start"`
			End   timeparse.Spec `yaml:"end"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		sp.Start, sp.End = m.Start, m.End
		return nil
	default:
		return fmt.Errorf("interval must be a [start, end] pair")
	}
}
