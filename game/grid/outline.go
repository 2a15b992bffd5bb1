package grid

// Side flags used by Outline masks.
const (
	North uint8 = 1 << iota
	East
	South
	West
)

// Outline computes, for every wall, which of its four neighbours are walls
// too. Renderers use the mask to join wall glyphs into a continuous outline.
func (g *Grid) Outline() map[Position]uint8 {
	out := make(map[Position]uint8)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.walls[y][x] {
				continue
			}
			p := Position{X: x, Y: y}
			var mask uint8
			if g.wallAt(p.Add(0, -1)) {
				mask |= North
			}
			if g.wallAt(p.Add(1, 0)) {
				mask |= East
			}
			if g.wallAt(p.Add(0, 1)) {
				mask |= South
			}
			if g.wallAt(p.Add(-1, 0)) {
				mask |= West
			}
			out[p] = mask
		}
	}
	return out
}

func (g *Grid) wallAt(p Position) bool {
	return g.InBounds(p) && g.walls[p.Y][p.X]
}
