package grid

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *MapData {
	t.Helper()
	data, err := ParseText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	return data
}

func TestGrid_Queries(t *testing.T) {
	g := New(mustParse(t, scenarioText))

	tests := []struct {
		name    string
		pos     Position
		wall    bool
		blocked bool
		goal    bool
	}{
		{"corner wall", Position{0, 0}, true, true, false},
		{"floor", Position{1, 1}, false, false, false},
		{"goal", Position{3, 2}, false, false, true},
		{"outside left", Position{-1, 2}, false, true, false},
		{"outside bottom", Position{2, 5}, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g.InBounds(tt.pos) && g.IsWall(tt.pos) != tt.wall {
				t.Errorf("IsWall(%v) = %v, want %v", tt.pos, !tt.wall, tt.wall)
			}
			if got := g.Blocked(tt.pos); got != tt.blocked {
				t.Errorf("Blocked(%v) = %v, want %v", tt.pos, got, tt.blocked)
			}
			if got := g.IsGoal(tt.pos); got != tt.goal {
				t.Errorf("IsGoal(%v) = %v, want %v", tt.pos, got, tt.goal)
			}
		})
	}
}

func TestGrid_IsolatedFromSource(t *testing.T) {
	data := mustParse(t, scenarioText)
	g := New(data)

	data.Walls[1][1] = true
	data.Goals[0] = Position{X: 1, Y: 1}

	if g.IsWall(Position{1, 1}) {
		t.Error("grid wall changed after editing source data")
	}
	if !g.IsGoal(Position{3, 2}) {
		t.Error("grid goal changed after editing source data")
	}
}

func TestGrid_Outline(t *testing.T) {
	g := New(mustParse(t, "3 3\n111\n101\n111\n"))
	outline := g.Outline()

	if len(outline) != 8 {
		t.Fatalf("expected 8 wall cells, got %d", len(outline))
	}
	if got := outline[Position{0, 0}]; got != East|South {
		t.Errorf("top-left mask = %04b, want %04b", got, East|South)
	}
	if got := outline[Position{1, 0}]; got != East|West {
		t.Errorf("top edge mask = %04b, want %04b", got, East|West)
	}
	if got := outline[Position{0, 1}]; got != North|South {
		t.Errorf("left edge mask = %04b, want %04b", got, North|South)
	}
	if _, ok := outline[Position{1, 1}]; ok {
		t.Error("floor cell should not be in outline")
	}
}
