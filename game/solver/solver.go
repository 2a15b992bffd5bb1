// Package solver finds move sequences that complete a level.
//
// The search is a breadth-first walk over (player, boxes) states. Moves are
// resolved by the engine's own Resolver, so the solver can never disagree
// with the game about what a push does.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
)

var (
	ErrNoSolution  = errors.New("no solution")
	ErrSearchLimit = errors.New("search limit reached")
)

// DefaultMaxStates bounds the search when Options.MaxStates is zero.
const DefaultMaxStates = 200000

// Options configures a search.
type Options struct {
	// MaxStates is the number of distinct states that may be visited.
	MaxStates int
}

// Result is a shortest solution by number of moves.
type Result struct {
	Moves    []engine.Direction `json:"-"`
	Solution string             `json:"solution"`
	Pushes   int                `json:"pushes"`
	Explored int                `json:"explored"`
}

type node struct {
	player grid.Position
	boxes  []grid.Position
	parent int
	dir    engine.Direction
	pushed bool
}

// key identifies a state. Boxes are interchangeable, so they are kept sorted.
func (n *node) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d", n.player.X, n.player.Y)
	for _, p := range n.boxes {
		fmt.Fprintf(&b, ";%d,%d", p.X, p.Y)
	}
	return b.String()
}

func sortPositions(ps []grid.Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}

// Solve searches for the shortest move sequence that completes data.
func Solve(ctx context.Context, data *grid.MapData, opts Options) (*Result, error) {
	if err := engine.ValidateMap(data); err != nil {
		return nil, err
	}
	maxStates := opts.MaxStates
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	g := grid.New(data)
	goals := g.Goals()
	dead := make(map[grid.Position]bool)
	for _, p := range engine.DeadCorners(g) {
		dead[p] = true
	}

	start := node{player: data.PlayerSpawn, boxes: append([]grid.Position(nil), data.BoxSpawns...), parent: -1}
	sortPositions(start.boxes)

	nodes := []node{start}
	seen := map[string]bool{start.key(): true}

	for head := 0; head < len(nodes); head++ {
		if head%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cur := nodes[head]
		if engine.Evaluate(cur.boxes, goals).Complete {
			return buildResult(nodes, head, len(seen)), nil
		}

		for _, d := range engine.Directions {
			next, ok := expand(g, &cur, d)
			if !ok {
				continue
			}
			if next.pushed && deadlocked(next.boxes, dead) {
				continue
			}
			k := next.key()
			if seen[k] {
				continue
			}
			if len(seen) >= maxStates {
				return nil, fmt.Errorf("%w: %d states", ErrSearchLimit, maxStates)
			}
			seen[k] = true
			next.parent = head
			nodes = append(nodes, next)
		}
	}

	return nil, fmt.Errorf("%w: explored %d states", ErrNoSolution, len(seen))
}

// expand applies one move to a copy of cur using the engine's resolver.
func expand(g *grid.Grid, cur *node, d engine.Direction) (node, bool) {
	player := engine.NewPlayer(cur.player)
	boxes := make([]*engine.Box, len(cur.boxes))
	for i, p := range cur.boxes {
		boxes[i] = engine.NewBox(i, p)
	}

	r := engine.NewResolver(g, player, boxes)
	dx, dy := d.Delta()
	if !r.AttemptMove(dx, dy) {
		return node{}, false
	}

	next := node{player: player.Position(), dir: d, boxes: make([]grid.Position, len(boxes))}
	for i, b := range boxes {
		next.boxes[i] = b.Position()
		if next.boxes[i] != cur.boxes[i] {
			next.pushed = true
		}
	}
	sortPositions(next.boxes)
	return next, true
}

func deadlocked(boxes []grid.Position, dead map[grid.Position]bool) bool {
	for _, b := range boxes {
		if dead[b] {
			return true
		}
	}
	return false
}

func buildResult(nodes []node, idx, explored int) *Result {
	var moves []engine.Direction
	pushes := 0
	for i := idx; nodes[i].parent >= 0; i = nodes[i].parent {
		moves = append(moves, nodes[i].dir)
		if nodes[i].pushed {
			pushes++
		}
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return &Result{
		Moves:    moves,
		Solution: engine.FormatMoves(moves),
		Pushes:   pushes,
		Explored: explored,
	}
}

// Verify replays moves on a fresh engine and reports whether they complete
// the level.
func Verify(name string, data *grid.MapData, moves []engine.Direction) (bool, error) {
	e, err := engine.NewEngine(name, data)
	if err != nil {
		return false, err
	}
	for i, d := range moves {
		if !e.Move(d.String()) {
			return false, fmt.Errorf("move %d (%s) was blocked", i+1, d)
		}
	}
	return e.IsComplete(), nil
}
