// Package grid holds the static part of a level: the wall bitmap, the goal
// set and the spawn positions of the player and boxes.
//
// Maps are stored in a small binary format produced by the converter:
//
//	byte 0      width  (uint8)
//	byte 1      height (uint8)
//	byte 2..    width*height tile codes, row-major (y outer, x inner)
//
// Tile codes are 0=None, 1=Wall, 2=Box, 3=Goal, 4=Player, 5=BoxOnGoal and
// 6=PlayerOnGoal. The converter input is a text file whose first line is
// "<width> <height>" followed by height lines of width single digits.
//
// Usage:
//
//	data, err := grid.Load("maps/classic.bin")
//	if err != nil {
//		var notFound *grid.MapNotFoundError
//		if errors.As(err, &notFound) {
//			// back to level select
//		}
//	}
//	g := grid.New(data)
//	if g.Blocked(grid.Position{X: 3, Y: 1}) { ... }
package grid
