package engine

import (
	"strings"
	"testing"

	"github.com/wricardo/timeshift-sokoban/game/grid"
)

// scenarioMap is the 5x5 room with the player at (1,2), a box at (2,2) and a
// goal at (3,2).
const scenarioMap = "5 5\n11111\n10001\n14231\n10001\n11111\n"

// chainMap holds two boxes in a corridor with two goals ahead of them.
const chainMap = "7 3\n1111111\n1422331\n1111111\n"

func mustMap(t *testing.T, src string) *grid.MapData {
	t.Helper()
	data, err := grid.ParseText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	return data
}

func mustLevel(t *testing.T, src string) *Level {
	t.Helper()
	l, err := NewLevel(mustMap(t, src))
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	return l
}

func createTestEngine(t *testing.T) *GameEngine {
	t.Helper()
	e, err := NewEngine("scenario", mustMap(t, scenarioMap))
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}
	return e
}

func pos(x, y int) grid.Position {
	return grid.Position{X: x, Y: y}
}
