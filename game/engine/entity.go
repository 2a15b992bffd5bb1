package engine

import (
	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/timeline"
)

// Entity is a movable occupant of the grid with its own position history.
type Entity struct {
	pos     grid.Position
	history *timeline.Timeline[grid.Position]
}

func newEntity(pos grid.Position) Entity {
	return Entity{pos: pos, history: timeline.New[grid.Position]()}
}

// Position returns the current cell of the entity.
func (e *Entity) Position() grid.Position {
	return e.pos
}

// ResetTime clears the recorded history.
func (e *Entity) ResetTime() {
	e.history.Reset()
}

// RecordAt stores the current position as the snapshot for turn.
func (e *Entity) RecordAt(turn int) error {
	return e.history.RecordAt(turn, e.pos)
}

// RewindTo moves the entity to the position recorded for turn.
func (e *Entity) RewindTo(turn int) error {
	pos, err := e.history.At(turn)
	if err != nil {
		return err
	}
	e.pos = pos
	return nil
}

// TruncateTime drops the snapshots from turn n onward.
func (e *Entity) TruncateTime(n int) {
	e.history.Truncate(n)
}

// HistoryLen returns the number of recorded snapshots.
func (e *Entity) HistoryLen() int {
	return e.history.Len()
}

// Box is a pushable crate.
type Box struct {
	Entity
	id int
}

// NewBox creates a box at pos with an empty history.
func NewBox(id int, pos grid.Position) *Box {
	return &Box{Entity: newEntity(pos), id: id}
}

// ID is the index of the box in spawn order.
func (b *Box) ID() int {
	return b.id
}

// Player is the pusher.
type Player struct {
	Entity
}

// NewPlayer creates a player at pos with an empty history.
func NewPlayer(pos grid.Position) *Player {
	return &Player{Entity: newEntity(pos)}
}

var (
	_ timeline.Shiftable = (*Box)(nil)
	_ timeline.Shiftable = (*Player)(nil)
)
