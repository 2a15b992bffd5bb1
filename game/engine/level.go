package engine

import (
	"fmt"

	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/timeline"
)

// MoveOutcome describes the result of one Level.Move call.
type MoveOutcome struct {
	Moved     bool          `json:"moved"`
	From      grid.Position `json:"from"`
	To        grid.Position `json:"to"`
	Pushed    []int         `json:"pushed,omitempty"`
	Turn      int           `json:"turn"`
	Status    GoalStatus    `json:"status"`
	Completed bool          `json:"completed"`
}

// Snapshot is a copy of the positions at the current turn.
type Snapshot struct {
	Turn   int             `json:"turn"`
	Player grid.Position   `json:"player"`
	Boxes  []grid.Position `json:"boxes"`
}

// Level is one playable map together with its entities and turn counter.
// It is not safe for concurrent use.
type Level struct {
	data     *grid.MapData
	grid     *grid.Grid
	player   *Player
	boxes    []*Box
	resolver *Resolver

	turn     int
	status   GoalStatus
	complete bool

	onComplete []func(GoalStatus)
}

// NewLevel validates the map and starts it at turn 0.
func NewLevel(data *grid.MapData) (*Level, error) {
	if err := ValidateMap(data); err != nil {
		return nil, err
	}

	l := &Level{
		data:   data,
		grid:   grid.New(data),
		player: NewPlayer(data.PlayerSpawn),
		turn:   -1,
	}
	l.boxes = make([]*Box, len(data.BoxSpawns))
	for i, p := range data.BoxSpawns {
		l.boxes[i] = NewBox(i, p)
	}
	l.resolver = NewResolver(l.grid, l.player, l.boxes)

	if err := l.Reset(); err != nil {
		return nil, err
	}
	return l, nil
}

// OnComplete registers fn to be called whenever the level becomes complete.
// It fires on the transition only and re-arms once completion is lost.
func (l *Level) OnComplete(fn func(GoalStatus)) {
	l.onComplete = append(l.onComplete, fn)
}

func (l *Level) shiftables() []timeline.Shiftable {
	all := make([]timeline.Shiftable, 0, len(l.boxes)+1)
	all = append(all, l.player)
	for _, b := range l.boxes {
		all = append(all, b)
	}
	return all
}

// Reset respawns every entity and starts a fresh history at turn 0.
func (l *Level) Reset() error {
	l.player.pos = l.data.PlayerSpawn
	for i, b := range l.boxes {
		b.pos = l.data.BoxSpawns[i]
	}

	for _, s := range l.shiftables() {
		s.ResetTime()
		if err := s.RecordAt(0); err != nil {
			return fmt.Errorf("failed to record spawn: %w", err)
		}
	}
	l.turn = 0
	l.evaluate()
	return nil
}

// Move attempts one player step. A rejected move returns Moved=false and
// changes nothing; the error is reserved for a corrupted history.
func (l *Level) Move(dx, dy int) (MoveOutcome, error) {
	from := l.player.pos
	out := MoveOutcome{From: from, To: from, Turn: l.turn, Status: l.status}

	before := l.positions()
	ok, pushed := l.resolver.attempt(dx, dy)
	if !ok {
		return out, nil
	}

	if err := l.commit(l.turn + 1); err != nil {
		l.restore(before)
		return out, err
	}

	out.Moved = true
	out.To = l.player.pos
	out.Turn = l.turn
	for _, b := range pushed {
		out.Pushed = append(out.Pushed, b.id)
	}
	out.Completed = l.evaluate()
	out.Status = l.status
	return out, nil
}

// commit records the current positions as turn next for every entity. Any
// recorded future beyond the current turn is discarded first. Either all
// entities record the turn or none does.
func (l *Level) commit(next int) error {
	all := l.shiftables()
	for _, s := range all {
		s.TruncateTime(next)
	}
	for _, s := range all {
		if err := s.RecordAt(next); err != nil {
			for _, r := range all {
				r.TruncateTime(next)
			}
			return fmt.Errorf("failed to commit turn %d: %w", next, err)
		}
	}
	l.turn = next
	return nil
}

// RewindTo moves every entity back (or forward, within the recorded
// history) to turn. The target is clamped to [0, MaxRecordedTurn] and the
// reached turn is returned.
func (l *Level) RewindTo(turn int) (int, error) {
	if turn < 0 {
		turn = 0
	}
	if last := l.MaxRecordedTurn(); turn > last {
		turn = last
	}

	before := l.positions()
	for _, s := range l.shiftables() {
		if err := s.RewindTo(turn); err != nil {
			l.restore(before)
			return l.turn, fmt.Errorf("failed to rewind to turn %d: %w", turn, err)
		}
	}
	l.turn = turn
	l.evaluate()
	return turn, nil
}

// Undo rewinds a single turn. At turn 0 it does nothing.
func (l *Level) Undo() (int, error) {
	return l.RewindTo(l.turn - 1)
}

// Turn returns the current turn.
func (l *Level) Turn() int {
	return l.turn
}

// MaxRecordedTurn is the last turn that can be reached by RewindTo.
func (l *Level) MaxRecordedTurn() int {
	return l.player.HistoryLen() - 1
}

// Status returns the goal status as of the last evaluation.
func (l *Level) Status() GoalStatus {
	return l.status
}

// Grid returns the static layer of the level.
func (l *Level) Grid() *grid.Grid {
	return l.grid
}

// Player returns the player entity.
func (l *Level) Player() *Player {
	return l.player
}

// Boxes returns the boxes in spawn order.
func (l *Level) Boxes() []*Box {
	return l.boxes
}

// BoxAt returns the box on p, or nil.
func (l *Level) BoxAt(p grid.Position) *Box {
	return l.resolver.BoxAt(p)
}

// OnGoal reports whether b currently covers a goal.
func (l *Level) OnGoal(b *Box) bool {
	return l.grid.IsGoal(b.pos)
}

// CanMove reports whether Move(dx, dy) would succeed.
func (l *Level) CanMove(dx, dy int) bool {
	return l.resolver.CanAttempt(dx, dy)
}

// Snapshot copies the current positions.
func (l *Level) Snapshot() Snapshot {
	s := l.positions()
	s.Turn = l.turn
	return s
}

func (l *Level) positions() Snapshot {
	s := Snapshot{Player: l.player.pos, Boxes: make([]grid.Position, len(l.boxes))}
	for i, b := range l.boxes {
		s.Boxes[i] = b.pos
	}
	return s
}

func (l *Level) restore(s Snapshot) {
	l.player.pos = s.Player
	for i, b := range l.boxes {
		b.pos = s.Boxes[i]
	}
}

// evaluate refreshes the goal status and fires the completion hooks on the
// false to true edge. It reports whether the hooks fired.
func (l *Level) evaluate() bool {
	l.status = Evaluate(l.positions().Boxes, l.grid.Goals())

	fired := false
	if l.status.Complete && !l.complete {
		for _, fn := range l.onComplete {
			fn(l.status)
		}
		fired = true
	}
	l.complete = l.status.Complete
	return fired
}
