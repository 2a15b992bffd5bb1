package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/timeshift-sokoban/game/grid"
)

// Direction is one of the four axis-aligned moves.
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

const (
	// MaxBulkMoves caps a single BulkMove call.
	MaxBulkMoves = 500
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrDiagonalMove     = errors.New("diagonal moves are not allowed")
)

// Directions lists the four moves in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// Delta returns the unit vector of d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// Letter returns the single-letter move notation (u, d, l, r).
func (d Direction) Letter() byte {
	if d == NoDirection {
		return '-'
	}
	return d.String()[0]
}

// ParseDirection accepts "up", "down", "left", "right", their first letters
// and the compass names, in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "north", "n":
		return Up, nil
	case "down", "d", "south", "s":
		return Down, nil
	case "left", "l", "west", "w":
		return Left, nil
	case "right", "r", "east", "e":
		return Right, nil
	}
	return NoDirection, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DirectionFromDelta converts a direction vector into a Direction. This is
// the input boundary: diagonal vectors are rejected here and never reach the
// resolver.
func DirectionFromDelta(dx, dy int) (Direction, error) {
	switch {
	case dx != 0 && dy != 0:
		return NoDirection, fmt.Errorf("%w: (%d,%d)", ErrDiagonalMove, dx, dy)
	case dx == 0 && dy == -1:
		return Up, nil
	case dx == 0 && dy == 1:
		return Down, nil
	case dx == -1 && dy == 0:
		return Left, nil
	case dx == 1 && dy == 0:
		return Right, nil
	}
	return NoDirection, fmt.Errorf("%w: (%d,%d)", ErrInvalidDirection, dx, dy)
}

// ParseMoves parses a compact move string such as "rrUld". Whitespace and
// commas are ignored.
func ParseMoves(s string) ([]Direction, error) {
	moves := make([]Direction, 0, len(s))
	for _, ch := range s {
		if ch == ' ' || ch == ',' || ch == '\n' || ch == '\t' {
			continue
		}
		d, err := ParseDirection(string(ch))
		if err != nil {
			return nil, err
		}
		moves = append(moves, d)
	}
	return moves, nil
}

// FormatMoves renders moves in the compact letter notation.
func FormatMoves(moves []Direction) string {
	var b strings.Builder
	for _, d := range moves {
		b.WriteByte(d.Letter())
	}
	return b.String()
}

// BoxState describes one box for frontends.
type BoxState struct {
	ID       int           `json:"id"`
	Position grid.Position `json:"position"`
	OnGoal   bool          `json:"on_goal"`
}

// GameState represents the complete observable game state
type GameState struct {
	Name         string          `json:"name"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Walls        [][]bool        `json:"walls"`
	Goals        []grid.Position `json:"goals"`
	PlayerPos    grid.Position   `json:"player_pos"`
	Boxes        []BoxState      `json:"boxes"`
	Turn         int             `json:"turn"`
	MaxTurn      int             `json:"max_turn"`
	Pushes       int             `json:"pushes"`
	CoveredGoals int             `json:"covered_goals"`
	TotalGoals   int             `json:"total_goals"`
	Complete     bool            `json:"complete"`
	Message      string          `json:"message"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}

// MoveHistoryEntry represents one attempted action in the audit trail.
// Rejected moves are kept with Success=false; they never advance the turn.
type MoveHistoryEntry struct {
	Action       string        `json:"action"`
	FromPosition grid.Position `json:"from_position"`
	ToPosition   grid.Position `json:"to_position"`
	Pushed       []int         `json:"pushed,omitempty"`
	Turn         int           `json:"turn"`
	Timestamp    int64         `json:"timestamp"`
	Success      bool          `json:"success"`
	MoveNumber   int           `json:"move_number"`
}
