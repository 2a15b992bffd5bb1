package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("turn out of range")
	ErrOutOfOrder      = errors.New("turn recorded out of order")
)

// IndexOutOfRangeError is returned when no snapshot exists for Turn.
type IndexOutOfRangeError struct {
	Turn int
	Len  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("turn %d out of range [0,%d)", e.Turn, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// OutOfOrderError is returned when a snapshot is recorded for any turn other
// than the next unseen one.
type OutOfOrderError struct {
	Turn int
	Next int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("cannot record turn %d, next turn is %d", e.Turn, e.Next)
}

func (e *OutOfOrderError) Unwrap() error { return ErrOutOfOrder }
