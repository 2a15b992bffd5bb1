package service

import (
	"time"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
)

// Event types carried by GameEvent.
const (
	EventMove          = "move"
	EventPush          = "push"
	EventBlocked       = "blocked"
	EventRewind        = "rewind"
	EventReset         = "reset"
	EventLevelComplete = "level_complete"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LevelName      string            `json:"level_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a single move, undo or rewind
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked|invalid_direction|level_complete
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos    grid.Position `json:"start_pos"`
	EndPos      grid.Position `json:"end_pos"`
	StartTurn   int           `json:"start_turn"`
	EndTurn     int           `json:"end_turn"`
	PushesDelta int           `json:"pushes_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	Complete      bool     `json:"complete"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx      int           `json:"idx"`
	Dir      string        `json:"dir"`
	From     grid.Position `json:"from"`
	To       grid.Position `json:"to"`
	Pushed   []int         `json:"pushed,omitempty"`
	Turn     int           `json:"turn"`
	Success  bool          `json:"success"`
	Complete bool          `json:"complete,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Position  grid.Position `json:"position,omitempty"`
	Turn      int           `json:"turn"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LevelInfo describes one entry of the level catalog. Error is set when the
// level exists but cannot be loaded.
type LevelInfo struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Format   string `json:"format"` // "bin" or "txt"
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Boxes    int    `json:"boxes"`
	Goals    int    `json:"goals"`
	Error    string `json:"error,omitempty"`
}

// Playable reports whether the level loaded cleanly.
func (l *LevelInfo) Playable() bool {
	return l.Error == ""
}
