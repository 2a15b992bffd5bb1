// Package timeline records the discrete history of a single value, one
// snapshot per completed turn, so that state can be rolled backward.
//
// A Timeline is strictly append-only: the snapshot for turn n can only be
// recorded once turns 0..n-1 exist. Rewinding never clamps; callers that own
// the turn counter decide which turns are reachable.
package timeline

// Timeline is the ordered snapshot history of one entity.
type Timeline[T any] struct {
	snapshots []T
}

// New returns an empty timeline.
func New[T any]() *Timeline[T] {
	return &Timeline[T]{}
}

// Reset clears all recorded snapshots.
func (t *Timeline[T]) Reset() {
	t.snapshots = t.snapshots[:0]
}

// Len returns the number of recorded snapshots.
func (t *Timeline[T]) Len() int {
	return len(t.snapshots)
}

// RecordAt stores v as the snapshot for turn. turn must equal Len().
func (t *Timeline[T]) RecordAt(turn int, v T) error {
	if turn != len(t.snapshots) {
		return &OutOfOrderError{Turn: turn, Next: len(t.snapshots)}
	}
	t.snapshots = append(t.snapshots, v)
	return nil
}

// At returns the snapshot stored for turn.
func (t *Timeline[T]) At(turn int) (T, error) {
	if turn < 0 || turn >= len(t.snapshots) {
		var zero T
		return zero, &IndexOutOfRangeError{Turn: turn, Len: len(t.snapshots)}
	}
	return t.snapshots[turn], nil
}

// Last returns the most recent snapshot, if any.
func (t *Timeline[T]) Last() (T, bool) {
	if len(t.snapshots) == 0 {
		var zero T
		return zero, false
	}
	return t.snapshots[len(t.snapshots)-1], true
}

// Truncate discards every snapshot at index n or later.
func (t *Timeline[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(t.snapshots) {
		t.snapshots = t.snapshots[:n]
	}
}

// Shiftable is implemented by anything whose state follows a timeline.
type Shiftable interface {
	ResetTime()
	RecordAt(turn int) error
	RewindTo(turn int) error
	TruncateTime(n int)
}
