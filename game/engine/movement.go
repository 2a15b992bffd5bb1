package engine

import "github.com/wricardo/timeshift-sokoban/game/grid"

// Resolver applies the push rules to a player and a set of boxes on a grid.
// It mutates entity positions only; recording turns is the Level's job.
type Resolver struct {
	grid   *grid.Grid
	player *Player
	boxes  []*Box
}

// NewResolver creates a resolver over the given entities.
func NewResolver(g *grid.Grid, player *Player, boxes []*Box) *Resolver {
	return &Resolver{grid: g, player: player, boxes: boxes}
}

// pushChain carries the state of one chain resolution: the boxes currently
// being resolved (the cycle guard) and the boxes moved so far.
type pushChain struct {
	dx, dy    int
	resolving map[*Box]struct{}
	moved     []*Box
}

func newPushChain(dx, dy int) *pushChain {
	return &pushChain{dx: dx, dy: dy, resolving: make(map[*Box]struct{})}
}

// isUnitAxis reports whether (dx, dy) is one of the four unit moves.
func isUnitAxis(dx, dy int) bool {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return false
	}
	return (dx == 0) != (dy == 0)
}

// BoxAt returns the box occupying p, or nil.
func (r *Resolver) BoxAt(p grid.Position) *Box {
	for _, b := range r.boxes {
		if b.pos == p {
			return b
		}
	}
	return nil
}

// TryMoveBox pushes b one cell by (dx, dy), pushing any boxes in front of it
// first. On failure no box moves.
func (r *Resolver) TryMoveBox(b *Box, dx, dy int) bool {
	if !isUnitAxis(dx, dy) {
		return false
	}
	return r.push(b, newPushChain(dx, dy))
}

// push resolves the innermost box of the chain first. The wall check happens
// before recursing, so once the boxes ahead have moved this box cannot fail.
func (r *Resolver) push(b *Box, chain *pushChain) bool {
	if _, busy := chain.resolving[b]; busy {
		return false
	}

	target := b.pos.Add(chain.dx, chain.dy)
	if r.grid.Blocked(target) {
		return false
	}

	if ahead := r.BoxAt(target); ahead != nil {
		chain.resolving[b] = struct{}{}
		ok := r.push(ahead, chain)
		delete(chain.resolving, b)
		if !ok {
			return false
		}
	}

	b.pos = target
	chain.moved = append(chain.moved, b)
	return true
}

// AttemptMove moves the player one cell by (dx, dy), pushing boxes ahead.
// Diagonal or non-unit vectors are rejected without side effects.
func (r *Resolver) AttemptMove(dx, dy int) bool {
	ok, _ := r.attempt(dx, dy)
	return ok
}

// attempt is AttemptMove that also reports the boxes pushed, innermost first.
func (r *Resolver) attempt(dx, dy int) (bool, []*Box) {
	if !isUnitAxis(dx, dy) {
		return false, nil
	}

	target := r.player.pos.Add(dx, dy)
	if r.grid.Blocked(target) {
		return false, nil
	}

	chain := newPushChain(dx, dy)
	if b := r.BoxAt(target); b != nil {
		if !r.push(b, chain) {
			return false, nil
		}
	}

	r.player.pos = target
	return true, chain.moved
}

// CanAttempt reports whether AttemptMove(dx, dy) would succeed, without
// moving anything. Boxes in a chain lie on one line, so it is enough to walk
// forward until a free cell or a blocked one is found.
func (r *Resolver) CanAttempt(dx, dy int) bool {
	if !isUnitAxis(dx, dy) {
		return false
	}
	cell := r.player.pos.Add(dx, dy)
	for {
		if r.grid.Blocked(cell) {
			return false
		}
		if r.BoxAt(cell) == nil {
			return true
		}
		cell = cell.Add(dx, dy)
	}
}
