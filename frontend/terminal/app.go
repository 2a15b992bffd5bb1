package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/inconshreveable/log15"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/service"
)

type mode int

const (
	modeMenu mode = iota
	modePlay
)

// App drives a tcell screen from a GameService. It owns at most one session
// at a time.
type App struct {
	screen tcell.Screen
	svc    service.GameService
	log    log15.Logger

	mode      mode
	levels    []*service.LevelInfo
	cursor    int
	sessionID string
	state     *engine.GameState
	note      string
}

// New returns an App drawing on screen. The caller owns Init and Fini.
func New(screen tcell.Screen, svc service.GameService, logger log15.Logger) *App {
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}
	return &App{
		screen: screen,
		svc:    svc,
		log:    logger.New("component", "terminal"),
	}
}

// Start loads the level list and, when level is not empty, opens it.
func (a *App) Start(ctx context.Context, level string) error {
	levels, err := a.svc.ListLevels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list levels: %w", err)
	}
	a.levels = levels

	if level != "" {
		for i, lvl := range levels {
			if lvl.Name == level {
				a.cursor = i
			}
		}
		a.open(ctx, level)
	}
	a.draw()
	return nil
}

// Run polls events until the player quits, the screen is finalized or ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			a.closeSession(context.Background())
			return ctx.Err()
		}
		if a.HandleEvent(ctx, ev) {
			a.closeSession(ctx)
			return nil
		}
	}
}

// HandleEvent applies one event and redraws. It reports whether the app
// should exit.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		cmd := TranslateKey(ev)
		if cmd.Action == ActionQuit {
			return true
		}
		if a.mode == modeMenu {
			if a.handleMenu(ctx, cmd) {
				return true
			}
		} else {
			a.handlePlay(ctx, cmd)
		}
	}
	a.draw()
	return false
}

func (a *App) handleMenu(ctx context.Context, cmd Command) bool {
	switch cmd.Action {
	case ActionBack:
		return true
	case ActionMove:
		switch cmd.Dir {
		case engine.Up:
			if a.cursor > 0 {
				a.cursor--
			}
		case engine.Down:
			if a.cursor < len(a.levels)-1 {
				a.cursor++
			}
		}
	case ActionSelect:
		if len(a.levels) > 0 {
			a.open(ctx, a.levels[a.cursor].Name)
		}
	}
	return false
}

func (a *App) handlePlay(ctx context.Context, cmd Command) {
	var (
		res *service.MoveResult
		err error
	)
	a.note = ""

	switch cmd.Action {
	case ActionMove:
		res, err = a.svc.Move(ctx, a.sessionID, cmd.Dir.String(), false)
	case ActionUndo:
		res, err = a.svc.Undo(ctx, a.sessionID)
	case ActionRewindBack:
		if a.state.Turn == 0 {
			a.note = "Already at the first turn"
			return
		}
		res, err = a.svc.Rewind(ctx, a.sessionID, a.state.Turn-1)
	case ActionRewindForward:
		if a.state.Turn >= a.state.MaxTurn {
			a.note = "Nothing to replay"
			return
		}
		res, err = a.svc.Rewind(ctx, a.sessionID, a.state.Turn+1)
	case ActionReset:
		var state *engine.GameState
		if state, err = a.svc.Reset(ctx, a.sessionID); err == nil {
			a.state = state
		}
	case ActionNextLevel:
		a.step(ctx, 1)
		return
	case ActionPrevLevel:
		a.step(ctx, -1)
		return
	case ActionBack:
		a.closeSession(ctx)
		a.mode = modeMenu
		return
	default:
		return
	}

	if errors.Is(err, service.ErrSessionNotFound) {
		a.log.Warn("session expired", "session", a.sessionID, "action", cmd.Action)
		a.sessionID = ""
		a.state = nil
		a.mode = modeMenu
		a.note = "Session expired, choose a level to continue"
		return
	}
	if err != nil {
		a.log.Warn("game operation failed", "action", cmd.Action, "err", err)
		a.note = err.Error()
		return
	}
	if res != nil {
		a.state = res.GameState
		for _, ev := range res.Events {
			if ev.Type == service.EventLevelComplete {
				a.log.Info("level complete", "level", a.state.Name, "turn", ev.Turn)
			}
		}
	}
}

// step opens the level delta entries away from the current one.
func (a *App) step(ctx context.Context, delta int) {
	if len(a.levels) == 0 {
		return
	}
	n := len(a.levels)
	a.cursor = ((a.cursor+delta)%n + n) % n
	a.open(ctx, a.levels[a.cursor].Name)
}

// open starts a session on name. On failure the app returns to the menu with
// the error shown.
func (a *App) open(ctx context.Context, name string) {
	a.closeSession(ctx)

	info, err := a.svc.CreateSession(ctx, name)
	if err != nil {
		a.log.Warn("failed to open level", "level", name, "err", err)
		a.mode = modeMenu
		a.note = err.Error()
		return
	}
	a.sessionID = info.ID
	a.state = info.GameState
	a.mode = modePlay
	a.note = ""
	a.log.Info("level opened", "level", name, "session", info.ID)
}

func (a *App) closeSession(ctx context.Context) {
	if a.sessionID == "" {
		return
	}
	if err := a.svc.DeleteSession(ctx, a.sessionID); err != nil {
		a.log.Warn("failed to delete session", "session", a.sessionID, "err", err)
	}
	a.sessionID = ""
	a.state = nil
}

func (a *App) draw() {
	if a.mode == modePlay && a.state != nil {
		drawLevel(a.screen, a.state, a.note)
		return
	}
	drawMenu(a.screen, a.levels, a.cursor, a.note)
}

// State returns the state of the open level, or nil in the menu.
func (a *App) State() *engine.GameState {
	return a.state
}

// InMenu reports whether the level menu is showing.
func (a *App) InMenu() bool {
	return a.mode == modeMenu
}
