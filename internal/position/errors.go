package position

import (
	"errors"
	"fmt"
)

// Sentinel-ish errors for position calculation failures. Positional
// context is carried by InvalidPositionError and InvalidLineError below.
var (
	// ErrTextProcessing is returned by RecoverCache when the rebuilt
	// line-index cache still fails its consistency check.
	ErrTextProcessing = errors.New("position: cache corruption detected")
)

// InvalidPositionError is returned when a char position is out of range.
type InvalidPositionError struct {
	Pos int
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("position: char position %d is invalid", e.Pos)
}

// InvalidLineError is returned when a line number is out of range.
type InvalidLineError struct {
	Line int
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("position: line %d is invalid", e.Line)
}
