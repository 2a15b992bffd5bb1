package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/service"
)

// Glyphs used on the board. Walls are drawn with box-drawing runes chosen
// by wallGlyph; GlyphWall is the glyph for a wall with no wall neighbours.
const (
	GlyphWall         = '■'
	GlyphFloor        = ' '
	GlyphGoal         = '.'
	GlyphBox          = '$'
	GlyphBoxOnGoal    = '*'
	GlyphPlayer       = '@'
	GlyphPlayerOnGoal = '+'
)

var (
	styleDefault = tcell.StyleDefault
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGoal    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBox     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(205, 133, 63))
	styleDone    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

const (
	playHelp = "arrows/hjkl/wasd move  u undo  [ ] scrub time  r reset  n/p level  q menu"
	menuHelp = "up/down choose  enter play  q quit"
)

// wallGlyphs maps a grid.Outline mask to the rune joining a wall to its
// neighbours.
var wallGlyphs = map[uint8]rune{
	0:                                               GlyphWall,
	grid.North:                                      '│',
	grid.South:                                      '│',
	grid.North | grid.South:                         '│',
	grid.East:                                       '─',
	grid.West:                                       '─',
	grid.East | grid.West:                           '─',
	grid.East | grid.South:                          '┌',
	grid.South | grid.West:                          '┐',
	grid.North | grid.East:                          '└',
	grid.North | grid.West:                          '┘',
	grid.North | grid.East | grid.South:             '├',
	grid.North | grid.South | grid.West:             '┤',
	grid.East | grid.South | grid.West:              '┬',
	grid.North | grid.East | grid.West:              '┴',
	grid.North | grid.East | grid.South | grid.West: '┼',
}

func wallGlyph(mask uint8) rune {
	return wallGlyphs[mask]
}

func isWallGlyph(r rune) bool {
	for _, g := range wallGlyphs {
		if g == r {
			return true
		}
	}
	return false
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// BoardRunes returns the board of state as rows of glyphs. Walls are joined
// into a continuous outline.
func BoardRunes(state *engine.GameState) [][]rune {
	rows := make([][]rune, state.Height)
	for y := range rows {
		rows[y] = make([]rune, state.Width)
		for x := range rows[y] {
			rows[y][x] = GlyphFloor
		}
	}

	g := grid.New(&grid.MapData{Width: state.Width, Height: state.Height, Walls: state.Walls})
	for p, mask := range g.Outline() {
		rows[p.Y][p.X] = wallGlyph(mask)
	}

	goals := make(map[grid.Position]bool, len(state.Goals))
	for _, g := range state.Goals {
		goals[g] = true
		rows[g.Y][g.X] = GlyphGoal
	}
	for _, b := range state.Boxes {
		if goals[b.Position] {
			rows[b.Position.Y][b.Position.X] = GlyphBoxOnGoal
		} else {
			rows[b.Position.Y][b.Position.X] = GlyphBox
		}
	}
	p := state.PlayerPos
	if goals[p] {
		rows[p.Y][p.X] = GlyphPlayerOnGoal
	} else {
		rows[p.Y][p.X] = GlyphPlayer
	}
	return rows
}

func glyphStyle(r rune) tcell.Style {
	if isWallGlyph(r) {
		return styleWall
	}
	switch r {
	case GlyphGoal:
		return styleGoal
	case GlyphBox:
		return styleBox
	case GlyphBoxOnGoal:
		return styleDone
	case GlyphPlayer, GlyphPlayerOnGoal:
		return stylePlayer
	}
	return styleDefault
}

// drawLevel renders the board with a status line above it and the engine
// message and key help below.
func drawLevel(s tcell.Screen, state *engine.GameState, note string) {
	s.Clear()

	status := fmt.Sprintf("%s  turn %d/%d  pushes %d  goals %d/%d",
		state.Name, state.Turn, state.MaxTurn, state.Pushes, state.CoveredGoals, state.TotalGoals)
	drawText(s, 0, 0, status, styleTitle)

	const top = 2
	for y, row := range BoardRunes(state) {
		for x, r := range row {
			s.SetContent(x, top+y, r, nil, glyphStyle(r))
		}
	}

	line := top + state.Height + 1
	msgStyle := styleDefault
	if state.Complete {
		msgStyle = styleDone
	}
	drawText(s, 0, line, state.Message, msgStyle)
	if note != "" {
		drawText(s, 0, line+1, note, styleError)
	}
	drawText(s, 0, line+3, playHelp, styleHelp)
	s.Show()
}

// drawMenu renders the level list. Levels that failed to load are listed
// with their error so the player can see why they cannot be opened.
func drawMenu(s tcell.Screen, levels []*service.LevelInfo, cursor int, note string) {
	s.Clear()
	drawText(s, 0, 0, "Time-Shift Sokoban: choose a level", styleTitle)

	for i, lvl := range levels {
		text := fmt.Sprintf("  %-20s %dx%d  boxes %d", lvl.Name, lvl.Width, lvl.Height, lvl.Boxes)
		style := styleDefault
		if !lvl.Playable() {
			text = fmt.Sprintf("  %-20s %s", lvl.Name, lvl.Error)
			style = styleError
		}
		if i == cursor {
			text = ">" + text[1:]
			style = style.Reverse(true)
		}
		drawText(s, 0, 2+i, text, style)
	}
	if len(levels) == 0 {
		drawText(s, 2, 2, "no levels found", styleHelp)
	}

	line := 3 + len(levels)
	if note != "" {
		drawText(s, 0, line, note, styleError)
	}
	drawText(s, 0, line+2, menuHelp, styleHelp)
	s.Show()
}
