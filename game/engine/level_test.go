package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/timeline"
)

func TestLevel_Scenario(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	require.Equal(t, 0, l.Turn())
	require.Equal(t, GoalStatus{Covered: 0, Total: 1}, l.Status())

	out, err := l.Move(1, 0)
	require.NoError(t, err)
	assert.True(t, out.Moved)
	assert.Equal(t, []int{0}, out.Pushed)
	assert.Equal(t, pos(2, 2), l.Player().Position())
	assert.Equal(t, pos(3, 2), l.Boxes()[0].Position())
	assert.True(t, l.Status().Complete)
	assert.Equal(t, 1, l.Turn())

	// Go around the box and push it off the goal.
	for _, d := range []Direction{Up, Right, Down} {
		dx, dy := d.Delta()
		out, err = l.Move(dx, dy)
		require.NoError(t, err)
		require.True(t, out.Moved, d.String())
	}
	assert.Equal(t, pos(3, 3), l.Boxes()[0].Position())
	assert.False(t, l.Status().Complete)

	turn, err := l.RewindTo(0)
	require.NoError(t, err)
	assert.Equal(t, 0, turn)
	assert.Equal(t, pos(1, 2), l.Player().Position())
	assert.Equal(t, pos(2, 2), l.Boxes()[0].Position())
	assert.False(t, l.Status().Complete)
}

func TestLevel_RejectedMoveChangesNothing(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	before := l.Snapshot()

	out, err := l.Move(-1, 0)
	require.NoError(t, err)
	assert.False(t, out.Moved)
	assert.Equal(t, before, l.Snapshot())
	assert.Equal(t, 0, l.MaxRecordedTurn())

	out, err = l.Move(1, 1)
	require.NoError(t, err)
	assert.False(t, out.Moved)
	assert.Equal(t, before, l.Snapshot())
}

func TestLevel_RewindClamps(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	_, _ = l.Move(0, -1)
	_, _ = l.Move(1, 0)

	turn, err := l.RewindTo(-5)
	require.NoError(t, err)
	assert.Equal(t, 0, turn)

	turn, err = l.RewindTo(99)
	require.NoError(t, err)
	assert.Equal(t, 2, turn)
	assert.Equal(t, pos(2, 1), l.Player().Position())
}

func TestLevel_UndoAtTurnZero(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	turn, err := l.Undo()
	require.NoError(t, err)
	assert.Equal(t, 0, turn)
	assert.Equal(t, pos(1, 2), l.Player().Position())
}

func TestLevel_MoveAfterRewindDropsFuture(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	_, _ = l.Move(0, -1)
	_, _ = l.Move(1, 0)
	_, _ = l.Move(1, 0)
	require.Equal(t, 3, l.MaxRecordedTurn())

	_, err := l.RewindTo(1)
	require.NoError(t, err)
	assert.Equal(t, 3, l.MaxRecordedTurn(), "future is kept until the next move")

	out, err := l.Move(0, 1)
	require.NoError(t, err)
	require.True(t, out.Moved)
	assert.Equal(t, 2, l.Turn())
	assert.Equal(t, 2, l.MaxRecordedTurn())
	for _, b := range l.Boxes() {
		assert.Equal(t, l.Player().HistoryLen(), b.HistoryLen())
	}
}

func TestLevel_ResetRestartsHistory(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	_, _ = l.Move(1, 0)
	require.True(t, l.Status().Complete)

	require.NoError(t, l.Reset())
	assert.Equal(t, 0, l.Turn())
	assert.Equal(t, 0, l.MaxRecordedTurn())
	assert.Equal(t, pos(1, 2), l.Player().Position())
	assert.False(t, l.Status().Complete)
}

func TestLevel_CommitIsAtomic(t *testing.T) {
	l := mustLevel(t, scenarioMap)
	before := l.Snapshot()

	// Corrupt one timeline so the next turn cannot be recorded for it.
	l.Boxes()[0].TruncateTime(0)

	out, err := l.Move(1, 0)
	require.Error(t, err)
	var ooe *timeline.OutOfOrderError
	assert.True(t, errors.As(err, &ooe))
	assert.False(t, out.Moved)
	assert.Equal(t, before, l.Snapshot())
	assert.Equal(t, 1, l.Player().HistoryLen())
}

func TestLevel_InvalidMap(t *testing.T) {
	_, err := NewLevel(mustMap(t, "3 1\n420\n"))
	assert.Error(t, err)
}

// TestLevel_RandomWalkRewind plays random moves and checks that every
// recorded turn can be revisited exactly.
func TestLevel_RandomWalkRewind(t *testing.T) {
	const src = "7 6\n1111111\n1000001\n1020301\n1042001\n1003001\n1111111\n"
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		l := mustLevel(t, src)
		history := []Snapshot{l.Snapshot()}

		for i := 0; i < 60; i++ {
			d := Directions[rng.Intn(len(Directions))]
			dx, dy := d.Delta()
			before := l.Snapshot()
			out, err := l.Move(dx, dy)
			require.NoError(t, err)
			if !out.Moved {
				assert.Equal(t, before, l.Snapshot())
				continue
			}
			history = append(history, l.Snapshot())
			assertNoOverlap(t, l)
		}

		require.Equal(t, len(history)-1, l.MaxRecordedTurn())
		for turn := len(history) - 1; turn >= 0; turn-- {
			got, err := l.RewindTo(turn)
			require.NoError(t, err)
			require.Equal(t, turn, got)
			assert.Equal(t, history[turn], l.Snapshot())
			assert.Equal(t, Evaluate(history[turn].Boxes, l.Grid().Goals()), l.Status())
		}
	}
}

func assertNoOverlap(t *testing.T, l *Level) {
	t.Helper()
	seen := map[grid.Position]bool{l.Player().Position(): true}
	for _, b := range l.Boxes() {
		p := b.Position()
		assert.False(t, l.Grid().Blocked(p), "box inside a wall at %s", p)
		assert.False(t, seen[p], "overlap at %s", p)
		seen[p] = true
	}
	assert.False(t, l.Grid().Blocked(l.Player().Position()))
}
