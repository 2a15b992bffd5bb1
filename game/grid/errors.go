package grid

import (
	"errors"
	"fmt"
)

var (
	ErrMapNotFound  = errors.New("map not found")
	ErrInvalidTile  = errors.New("invalid tile")
	ErrTruncatedMap = errors.New("truncated map data")
	ErrInvalidSize  = errors.New("invalid map size")
)

// MapNotFoundError is returned by Load when the map file does not exist.
type MapNotFoundError struct {
	Path string
}

func (e *MapNotFoundError) Error() string {
	return fmt.Sprintf("map %q not found", e.Path)
}

func (e *MapNotFoundError) Unwrap() error { return ErrMapNotFound }

// InvalidTileError reports a tile code outside the vocabulary.
// Code holds the raw byte for binary maps and the raw character for text sources.
type InvalidTileError struct {
	X, Y int
	Code int
}

func (e *InvalidTileError) Error() string {
	if e.Code >= 0x20 && e.Code < 0x7f {
		return fmt.Sprintf("invalid tile %q at (%d,%d)", rune(e.Code), e.X, e.Y)
	}
	return fmt.Sprintf("invalid tile code %d at (%d,%d)", e.Code, e.X, e.Y)
}

func (e *InvalidTileError) Unwrap() error { return ErrInvalidTile }
