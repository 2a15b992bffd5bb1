package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/timeshift-sokoban/game/engine"
)

// Action is what a key press asks the game to do.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionUndo
	ActionReset
	ActionRewindBack
	ActionRewindForward
	ActionNextLevel
	ActionPrevLevel
	ActionBack
	ActionQuit
	ActionSelect
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionMove:          "move",
	ActionUndo:          "undo",
	ActionReset:         "reset",
	ActionRewindBack:    "rewind_back",
	ActionRewindForward: "rewind_forward",
	ActionNextLevel:     "next_level",
	ActionPrevLevel:     "prev_level",
	ActionBack:          "back",
	ActionQuit:          "quit",
	ActionSelect:        "select",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Command is a translated key press. Dir is set only for ActionMove.
type Command struct {
	Action Action
	Dir    engine.Direction
}

var runeDirections = map[rune]engine.Direction{
	'h': engine.Left, 'j': engine.Down, 'k': engine.Up, 'l': engine.Right,
	'a': engine.Left, 's': engine.Down, 'w': engine.Up, 'd': engine.Right,
}

var keyDirections = map[tcell.Key]engine.Direction{
	tcell.KeyUp:    engine.Up,
	tcell.KeyDown:  engine.Down,
	tcell.KeyLeft:  engine.Left,
	tcell.KeyRight: engine.Right,
}

// TranslateKey maps a key event to a command. Every movement key produces a
// single axis-aligned direction; there is no binding for a diagonal step.
func TranslateKey(ev *tcell.EventKey) Command {
	if d, ok := keyDirections[ev.Key()]; ok {
		return Command{Action: ActionMove, Dir: d}
	}

	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Command{Action: ActionUndo}
	case tcell.KeyEscape:
		return Command{Action: ActionBack}
	case tcell.KeyCtrlC:
		return Command{Action: ActionQuit}
	case tcell.KeyEnter:
		return Command{Action: ActionSelect}
	case tcell.KeyRune:
	default:
		return Command{}
	}

	r := ev.Rune()
	if d, ok := runeDirections[r]; ok {
		return Command{Action: ActionMove, Dir: d}
	}
	switch r {
	case 'u', 'z':
		return Command{Action: ActionUndo}
	case 'r':
		return Command{Action: ActionReset}
	case '[':
		return Command{Action: ActionRewindBack}
	case ']':
		return Command{Action: ActionRewindForward}
	case 'n':
		return Command{Action: ActionNextLevel}
	case 'p':
		return Command{Action: ActionPrevLevel}
	case 'q':
		return Command{Action: ActionBack}
	case ' ':
		return Command{Action: ActionSelect}
	}
	return Command{}
}
