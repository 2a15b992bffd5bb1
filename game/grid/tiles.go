package grid

import "fmt"

// Tile is a single cell code of the map format.
type Tile uint8

const (
	None Tile = iota
	Wall
	Box
	Goal
	Player
	BoxOnGoal
	PlayerOnGoal

	// MaxDimension is the largest width or height the binary format can hold.
	MaxDimension = 255
)

// Valid reports whether t is part of the tile vocabulary.
func (t Tile) Valid() bool {
	return t <= PlayerOnGoal
}

// HasGoal reports whether the tile marks a goal cell.
func (t Tile) HasGoal() bool {
	return t == Goal || t == BoxOnGoal || t == PlayerOnGoal
}

// HasBox reports whether the tile spawns a box.
func (t Tile) HasBox() bool {
	return t == Box || t == BoxOnGoal
}

// HasPlayer reports whether the tile spawns the player.
func (t Tile) HasPlayer() bool {
	return t == Player || t == PlayerOnGoal
}

func (t Tile) String() string {
	switch t {
	case None:
		return "none"
	case Wall:
		return "wall"
	case Box:
		return "box"
	case Goal:
		return "goal"
	case Player:
		return "player"
	case BoxOnGoal:
		return "box_on_goal"
	case PlayerOnGoal:
		return "player_on_goal"
	default:
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
}
