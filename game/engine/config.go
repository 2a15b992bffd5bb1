package engine

import (
	"fmt"

	"github.com/wricardo/timeshift-sokoban/game/grid"
)

// ValidateMap checks a decoded map for playability. Decoding only guarantees
// the tile codes are known; this catches maps that cannot be played.
func ValidateMap(m *grid.MapData) error {
	if m == nil {
		return fmt.Errorf("map validation: map is nil")
	}

	if m.Width < 1 || m.Width > grid.MaxDimension {
		return fmt.Errorf("map validation: width must be between 1 and %d, got %d", grid.MaxDimension, m.Width)
	}
	if m.Height < 1 || m.Height > grid.MaxDimension {
		return fmt.Errorf("map validation: height must be between 1 and %d, got %d", grid.MaxDimension, m.Height)
	}

	if len(m.Walls) != m.Height {
		return fmt.Errorf("map validation: wall layout must have %d rows, got %d", m.Height, len(m.Walls))
	}
	for y, row := range m.Walls {
		if len(row) != m.Width {
			return fmt.Errorf("map validation: wall row %d must have %d cells, got %d", y, m.Width, len(row))
		}
	}

	switch {
	case m.PlayerCount == 0:
		return fmt.Errorf("map validation: map must contain a player")
	case m.PlayerCount > 1:
		return fmt.Errorf("map validation: map must contain exactly one player, found %d", m.PlayerCount)
	}
	if err := checkCell(m, "player", m.PlayerSpawn); err != nil {
		return err
	}

	if len(m.Goals) == 0 {
		return fmt.Errorf("map validation: map must contain at least one goal")
	}
	if len(m.BoxSpawns) < len(m.Goals) {
		return fmt.Errorf("map validation: map has %d goals but only %d boxes", len(m.Goals), len(m.BoxSpawns))
	}

	seen := make(map[grid.Position]bool, len(m.BoxSpawns))
	for i, b := range m.BoxSpawns {
		if err := checkCell(m, fmt.Sprintf("box %d", i), b); err != nil {
			return err
		}
		if b == m.PlayerSpawn {
			return fmt.Errorf("map validation: box %d shares a cell with the player at %s", i, b)
		}
		if seen[b] {
			return fmt.Errorf("map validation: two boxes at %s", b)
		}
		seen[b] = true
	}
	for i, g := range m.Goals {
		if err := checkCell(m, fmt.Sprintf("goal %d", i), g); err != nil {
			return err
		}
	}

	// Every goal and every box must be reachable from the player's spawn when
	// boxes are ignored, otherwise the level cannot be finished.
	reachable := reachableCells(m)
	for _, g := range m.Goals {
		if !reachable[g] {
			return fmt.Errorf("map validation: goal at %s is not reachable from the player", g)
		}
	}
	for _, b := range m.BoxSpawns {
		if !reachable[b] {
			return fmt.Errorf("map validation: box at %s is not reachable from the player", b)
		}
	}

	return nil
}

func checkCell(m *grid.MapData, what string, p grid.Position) error {
	if p.X < 0 || p.X >= m.Width || p.Y < 0 || p.Y >= m.Height {
		return fmt.Errorf("map validation: %s at %s is outside the map", what, p)
	}
	if m.Walls[p.Y][p.X] {
		return fmt.Errorf("map validation: %s at %s is inside a wall", what, p)
	}
	return nil
}

// reachableCells flood-fills the open cells from the player's spawn.
func reachableCells(m *grid.MapData) map[grid.Position]bool {
	seen := map[grid.Position]bool{m.PlayerSpawn: true}
	queue := []grid.Position{m.PlayerSpawn}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			dx, dy := d.Delta()
			next := cur.Add(dx, dy)
			if next.X < 0 || next.X >= m.Width || next.Y < 0 || next.Y >= m.Height {
				continue
			}
			if m.Walls[next.Y][next.X] || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}
