package models

import "fmt"

// FreezePosition is a relative location within the media duration used by
// the frozen-frame operation when no explicit freeze time is given.
type FreezePosition string

const (
	FreezeBeginning FreezePosition = "beginning"
	FreezeMiddle    FreezePosition = "middle"
	FreezeEnd       FreezePosition = "end"
)

// ParseFreezePosition validates a freeze position keyword.
func ParseFreezePosition(s string) (FreezePosition, error) {
	switch FreezePosition(s) {
	case FreezeBeginning, FreezeMiddle, FreezeEnd:
		return FreezePosition(s), nil
	default:
		return "", fmt.Errorf("invalid freeze_position %q, must be one of: beginning, middle, end", s)
	}
}
