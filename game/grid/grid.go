package grid

import "fmt"

// Position is a cell coordinate. There are no sub-cell coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// MapData is the decoded layout of a level.
type MapData struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Walls       [][]bool   `json:"walls"`
	Goals       []Position `json:"goals"`
	PlayerSpawn Position   `json:"player_spawn"`
	BoxSpawns   []Position `json:"box_spawns"`

	// PlayerCount is the number of player tiles seen while decoding. The last
	// one wins as PlayerSpawn; validation rejects anything but one.
	PlayerCount int `json:"player_count"`
}

// NewMapData returns an empty map of the given size.
func NewMapData(width, height int) *MapData {
	walls := make([][]bool, height)
	for y := range walls {
		walls[y] = make([]bool, width)
	}
	return &MapData{
		Width:     width,
		Height:    height,
		Walls:     walls,
		Goals:     []Position{},
		BoxSpawns: []Position{},
	}
}

// Set applies a tile code to the cell at (x, y).
func (m *MapData) Set(x, y int, t Tile) error {
	if !t.Valid() {
		return &InvalidTileError{X: x, Y: y, Code: int(t)}
	}
	pos := Position{X: x, Y: y}
	if t == Wall {
		m.Walls[y][x] = true
	}
	if t.HasGoal() {
		m.Goals = append(m.Goals, pos)
	}
	if t.HasBox() {
		m.BoxSpawns = append(m.BoxSpawns, pos)
	}
	if t.HasPlayer() {
		m.PlayerSpawn = pos
		m.PlayerCount++
	}
	return nil
}

// TileAt reconstructs the tile code at (x, y).
func (m *MapData) TileAt(x, y int) Tile {
	pos := Position{X: x, Y: y}
	if m.Walls[y][x] {
		return Wall
	}
	goal := contains(m.Goals, pos)
	switch {
	case m.PlayerCount > 0 && m.PlayerSpawn == pos:
		if goal {
			return PlayerOnGoal
		}
		return Player
	case contains(m.BoxSpawns, pos):
		if goal {
			return BoxOnGoal
		}
		return Box
	case goal:
		return Goal
	}
	return None
}

// Grid is the immutable collision view of a level.
type Grid struct {
	width, height int
	walls         [][]bool
	goals         []Position
	goalSet       map[Position]struct{}
}

// New builds a Grid from decoded map data. The wall rows are copied so later
// edits to data do not leak into a running level.
func New(data *MapData) *Grid {
	walls := make([][]bool, data.Height)
	for y := range walls {
		walls[y] = make([]bool, data.Width)
		copy(walls[y], data.Walls[y])
	}
	goals := make([]Position, len(data.Goals))
	copy(goals, data.Goals)
	goalSet := make(map[Position]struct{}, len(goals))
	for _, g := range goals {
		goalSet[g] = struct{}{}
	}
	return &Grid{
		width:   data.Width,
		height:  data.Height,
		walls:   walls,
		goals:   goals,
		goalSet: goalSet,
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies inside the map.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsWall reports whether p is a wall. p must be in bounds.
func (g *Grid) IsWall(p Position) bool {
	return g.walls[p.Y][p.X]
}

// Blocked reports whether nothing may enter p: a wall or outside the map.
func (g *Grid) Blocked(p Position) bool {
	return !g.InBounds(p) || g.walls[p.Y][p.X]
}

// IsGoal reports whether p is a goal cell.
func (g *Grid) IsGoal(p Position) bool {
	_, ok := g.goalSet[p]
	return ok
}

// Goals returns the goal cells in map order.
func (g *Grid) Goals() []Position {
	out := make([]Position, len(g.goals))
	copy(out, g.goals)
	return out
}

func contains(list []Position, p Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
