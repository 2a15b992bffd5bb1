package engine

import (
	"fmt"
	"time"

	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/timeline"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsComplete() bool
	GetTurn() int
	GetPlayerPosition() grid.Position
	Name() string
	Level() *Level

	// Movement operations
	Move(direction string) bool
	MoveDelta(dx, dy int) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string
	BulkMove(moves []string) []bool

	// Time travel
	Undo() bool
	RewindTo(turn int) (int, error)

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface on top of a Level.
type GameEngine struct {
	name    string
	data    *grid.MapData
	level   *Level
	message string

	// pushes follows the turn counter so rewinds restore it too.
	pushes *timeline.Timeline[int]

	history    []MoveHistoryEntry
	totalMoves int
	now        func() time.Time
}

// NewEngine creates a game engine for the named map.
func NewEngine(name string, data *grid.MapData) (*GameEngine, error) {
	level, err := NewLevel(data)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		name:    name,
		data:    data,
		level:   level,
		pushes:  timeline.New[int](),
		history: []MoveHistoryEntry{},
		now:     time.Now,
	}
	if err := e.pushes.RecordAt(0, 0); err != nil {
		return nil, err
	}
	e.message = fmt.Sprintf("Push every box onto a goal (%d goals)", level.Status().Total)

	level.OnComplete(func(s GoalStatus) {
		e.message = fmt.Sprintf("Level complete in %d moves!", e.level.Turn())
	})

	return e, nil
}

// Name returns the level name the engine was created with.
func (e *GameEngine) Name() string {
	return e.name
}

// Level exposes the underlying level.
func (e *GameEngine) Level() *Level {
	return e.level
}

// GetState returns a snapshot of the observable game state
func (e *GameEngine) GetState() *GameState {
	l := e.level
	status := l.Status()

	boxes := make([]BoxState, len(l.Boxes()))
	for i, b := range l.Boxes() {
		boxes[i] = BoxState{ID: b.ID(), Position: b.Position(), OnGoal: l.OnGoal(b)}
	}

	walls := make([][]bool, e.data.Height)
	for y := range walls {
		walls[y] = append([]bool(nil), e.data.Walls[y]...)
	}

	history := make([]MoveHistoryEntry, len(e.history))
	copy(history, e.history)

	return &GameState{
		Name:         e.name,
		Width:        e.data.Width,
		Height:       e.data.Height,
		Walls:        walls,
		Goals:        l.Grid().Goals(),
		PlayerPos:    l.Player().Position(),
		Boxes:        boxes,
		Turn:         l.Turn(),
		MaxTurn:      l.MaxRecordedTurn(),
		Pushes:       e.pushCount(),
		CoveredGoals: status.Covered,
		TotalGoals:   status.Total,
		Complete:     status.Complete,
		Message:      e.message,
		MoveHistory:  history,
		TotalMoves:   e.totalMoves,
	}
}

func (e *GameEngine) pushCount() int {
	n, err := e.pushes.At(e.level.Turn())
	if err != nil {
		return 0
	}
	return n
}

// Reset restarts the level. The move history is kept across resets.
func (e *GameEngine) Reset() *GameState {
	from := e.level.Player().Position()
	if err := e.level.Reset(); err != nil {
		e.message = err.Error()
		return e.GetState()
	}
	e.pushes.Reset()
	_ = e.pushes.RecordAt(0, 0)
	e.message = "Level reset"
	e.addHistory("reset", from, e.level.Player().Position(), nil, true)
	return e.GetState()
}

// IsComplete returns whether every goal is covered
func (e *GameEngine) IsComplete() bool {
	return e.level.Status().Complete
}

// GetTurn returns the current turn
func (e *GameEngine) GetTurn() int {
	return e.level.Turn()
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() grid.Position {
	return e.level.Player().Position()
}

// Move attempts to move the player in the specified direction
func (e *GameEngine) Move(direction string) bool {
	d, err := ParseDirection(direction)
	if err != nil {
		pos := e.level.Player().Position()
		e.message = err.Error()
		e.addHistory(direction, pos, pos, nil, false)
		return false
	}
	return e.move(d)
}

// MoveDelta moves the player by a direction vector. Diagonal and non-unit
// vectors are rejected without touching the level.
func (e *GameEngine) MoveDelta(dx, dy int) bool {
	d, err := DirectionFromDelta(dx, dy)
	if err != nil {
		pos := e.level.Player().Position()
		e.message = err.Error()
		e.addHistory(fmt.Sprintf("(%d,%d)", dx, dy), pos, pos, nil, false)
		return false
	}
	return e.move(d)
}

func (e *GameEngine) move(d Direction) bool {
	dx, dy := d.Delta()
	prevPushes := e.pushCount()

	out, err := e.level.Move(dx, dy)
	if err != nil {
		e.message = err.Error()
		e.addHistory(d.String(), out.From, out.To, nil, false)
		return false
	}
	if !out.Moved {
		e.message = "Blocked!"
		e.addHistory(d.String(), out.From, out.To, nil, false)
		return false
	}

	count := prevPushes
	if len(out.Pushed) > 0 {
		count++
	}
	e.pushes.Truncate(out.Turn)
	if err := e.pushes.RecordAt(out.Turn, count); err != nil {
		e.message = err.Error()
	}

	if !out.Completed {
		e.message = fmt.Sprintf("Goals: %d/%d", out.Status.Covered, out.Status.Total)
	}
	e.addHistory(d.String(), out.From, out.To, out.Pushed, true)
	return true
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	d, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	dx, dy := d.Delta()
	return e.level.CanMove(dx, dy)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, d := range Directions {
		if e.CanMove(d.String()) {
			possible = append(possible, d.String())
		}
	}
	return possible
}

// BulkMove executes multiple moves in sequence, returning success status for
// each. It stops early once the level is complete.
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		if e.IsComplete() {
			break
		}
		results = append(results, e.Move(direction))
	}

	return results
}

// Undo steps back one turn. It returns false at turn 0.
func (e *GameEngine) Undo() bool {
	if e.level.Turn() == 0 {
		e.message = "Nothing to undo"
		return false
	}
	from := e.level.Player().Position()
	turn, err := e.level.Undo()
	if err != nil {
		e.message = err.Error()
		return false
	}
	e.message = fmt.Sprintf("Rewound to turn %d", turn)
	e.addHistory("undo", from, e.level.Player().Position(), nil, true)
	return true
}

// RewindTo jumps to a recorded turn, clamped to the recorded range.
func (e *GameEngine) RewindTo(turn int) (int, error) {
	from := e.level.Player().Position()
	reached, err := e.level.RewindTo(turn)
	if err != nil {
		e.message = err.Error()
		return reached, err
	}
	if !e.IsComplete() {
		e.message = fmt.Sprintf("Rewound to turn %d", reached)
	}
	e.addHistory(fmt.Sprintf("rewind:%d", reached), from, e.level.Player().Position(), nil, true)
	return reached, nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

func (e *GameEngine) addHistory(action string, from, to grid.Position, pushed []int, success bool) {
	e.totalMoves++
	e.history = append(e.history, MoveHistoryEntry{
		Action:       action,
		FromPosition: from,
		ToPosition:   to,
		Pushed:       pushed,
		Turn:         e.level.Turn(),
		Timestamp:    e.now().Unix(),
		Success:      success,
		MoveNumber:   e.totalMoves,
	})
}
