package engine

import "github.com/wricardo/timeshift-sokoban/game/grid"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to grid.Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DeadCorners returns the open, non-goal cells that have a blocked cell on
// one vertical and one horizontal side. A box pushed there can never leave.
func DeadCorners(g *grid.Grid) []grid.Position {
	var dead []grid.Position
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := grid.Position{X: x, Y: y}
			if g.IsWall(p) || g.IsGoal(p) {
				continue
			}
			vertical := g.Blocked(p.Add(0, -1)) || g.Blocked(p.Add(0, 1))
			horizontal := g.Blocked(p.Add(-1, 0)) || g.Blocked(p.Add(1, 0))
			if vertical && horizontal {
				dead = append(dead, p)
			}
		}
	}
	return dead
}

// PushLowerBound sums, over all boxes, the distance to the nearest goal. No
// solution can use fewer pushes.
func PushLowerBound(boxes, goals []grid.Position) int {
	total := 0
	for _, b := range boxes {
		best := -1
		for _, g := range goals {
			if d := ManhattanDistance(b, g); best == -1 || d < best {
				best = d
			}
		}
		if best > 0 {
			total += best
		}
	}
	return total
}

// CountOpenCells counts the cells that are not walls.
func CountOpenCells(g *grid.Grid) int {
	count := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.IsWall(grid.Position{X: x, Y: y}) {
				count++
			}
		}
	}
	return count
}
