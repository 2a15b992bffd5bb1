package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
)

// ErrSessionNotFound wraps every lookup failure returned by the service.
var ErrSessionNotFound = errors.New("session not found")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelCatalog
	log      log15.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. A nil logger discards
// output.
func NewGameService(sessions SessionManager, levels LevelCatalog, logger log15.Logger) GameService {
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		log:      logger.New("component", "service"),
	}
}

func (s *gameServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSessionNotFound, id, err)
	}
	_ = s.sessions.UpdateLastAccessed(id)
	return sess, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelName:      sess.LevelName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
	}
}

// CreateSession creates a new game session on the named level, or on the
// catalog default when levelName is empty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data *grid.MapData
	if levelName != "" {
		var err error
		data, err = s.levels.LoadLevel(levelName)
		if err != nil {
			return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
		}
	} else {
		levelName, data = s.levels.GetDefault()
	}

	sess, err := s.sessions.Create("", levelName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("session created", "session", sess.ID, "level", levelName)
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
	}
	s.log.Info("session deleted", "session", sessionID)
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		events = append(events, s.reset(sess))
	}

	step, stepEvents := s.step(sess, 1, direction)
	events = append(events, stepEvents...)

	state := sess.Engine.GetState()
	return &MoveResult{
		Success:   step.Success,
		GameState: state,
		Message:   state.Message,
		Events:    events,
		Step:      &step,
	}, nil
}

// step performs one move and derives its events.
func (s *gameServiceImpl) step(sess *Session, idx int, direction string) (StepInfo, []GameEvent) {
	wasComplete := sess.Engine.IsComplete()
	from := sess.Engine.GetPlayerPosition()
	ok := sess.Engine.Move(direction)
	now := time.Now()

	step := StepInfo{
		Idx:     idx,
		Dir:     direction,
		From:    from,
		To:      sess.Engine.GetPlayerPosition(),
		Turn:    sess.Engine.GetTurn(),
		Success: ok,
	}

	if !ok {
		s.log.Debug("move rejected", "session", sess.ID, "dir", direction, "pos", from)
		return step, []GameEvent{{
			Type:      EventBlocked,
			Message:   fmt.Sprintf("Cannot move %s from %s", direction, from),
			Timestamp: now,
			Position:  from,
			Turn:      step.Turn,
		}}
	}

	if last := sess.Engine.GetLastMove(); last != nil {
		step.Pushed = last.Pushed
	}
	step.Complete = sess.Engine.IsComplete()
	s.log.Debug("move", "session", sess.ID, "dir", direction, "to", step.To, "turn", step.Turn, "pushed", len(step.Pushed))

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s to %s", direction, step.To),
		Timestamp: now,
		Position:  step.To,
		Turn:      step.Turn,
	}}
	if len(step.Pushed) > 0 {
		events = append(events, GameEvent{
			Type:      EventPush,
			Message:   fmt.Sprintf("Pushed %d box(es) %s", len(step.Pushed), direction),
			Timestamp: now,
			Position:  step.To,
			Turn:      step.Turn,
		})
	}
	if step.Complete && !wasComplete {
		s.log.Info("level complete", "session", sess.ID, "level", sess.LevelName, "turn", step.Turn)
		events = append(events, GameEvent{
			Type:      EventLevelComplete,
			Message:   sess.Engine.GetState().Message,
			Timestamp: now,
			Turn:      step.Turn,
		})
	}
	return step, events
}

func (s *gameServiceImpl) reset(sess *Session) GameEvent {
	sess.Engine.Reset()
	s.log.Debug("reset", "session", sess.ID)
	return GameEvent{
		Type:      EventReset,
		Message:   "Level reset to initial state",
		Timestamp: time.Now(),
		Position:  sess.Engine.GetPlayerPosition(),
	}
}

// BulkMove executes multiple moves in sequence, stopping at the first
// rejected move or once the level is complete.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		result.Events = append(result.Events, s.reset(sess))
	}

	start := sess.Engine.GetState()
	result.StartPos = start.PlayerPos
	result.StartTurn = start.Turn

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsComplete() {
			result.StoppedReason = "level already complete"
			result.StopReasonCode = "level_complete"
			result.StoppedOnMove = i + 1
			break
		}

		step, events := s.step(sess, i+1, move)
		result.Events = append(result.Events, events...)
		result.Steps = append(result.Steps, step)

		if !step.Success {
			result.Success = false
			result.StoppedOnMove = i + 1
			if _, perr := engine.ParseDirection(move); perr != nil {
				result.StoppedReason = fmt.Sprintf("move %d invalid: %s", i+1, move)
				result.StopReasonCode = "invalid_direction"
			} else {
				result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
				result.StopReasonCode = "blocked"
			}
			break
		}
		result.MovesExecuted++
	}

	end := sess.Engine.GetState()
	result.GameState = end
	result.EndPos = end.PlayerPos
	result.EndTurn = end.Turn
	result.PushesDelta = end.Pushes - start.Pushes
	result.Complete = end.Complete
	result.Message = end.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()
	if result.Complete && result.StopReasonCode == "" {
		result.StopReasonCode = "level_complete"
	}

	s.log.Debug("bulk move", "session", sess.ID, "requested", result.RequestedMoves, "executed", result.MovesExecuted, "stop", result.StopReasonCode)
	return result, nil
}

// Undo steps a session back one turn
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	wasComplete := sess.Engine.IsComplete()
	ok := sess.Engine.Undo()
	return s.timeTravelResult(sess, ok, wasComplete), nil
}

// Rewind jumps a session to a recorded turn. Out of range turns are clamped.
func (s *gameServiceImpl) Rewind(ctx context.Context, sessionID string, turn int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	wasComplete := sess.Engine.IsComplete()
	if _, err := sess.Engine.RewindTo(turn); err != nil {
		s.log.Error("rewind failed", "session", sess.ID, "turn", turn, "err", err)
		return nil, fmt.Errorf("failed to rewind session %s: %w", sessionID, err)
	}
	return s.timeTravelResult(sess, true, wasComplete), nil
}

func (s *gameServiceImpl) timeTravelResult(sess *Session, ok, wasComplete bool) *MoveResult {
	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:   ok,
		GameState: state,
		Message:   state.Message,
		Events:    []GameEvent{},
	}
	if !ok {
		return result
	}

	now := time.Now()
	s.log.Debug("rewind", "session", sess.ID, "turn", state.Turn)
	result.Events = append(result.Events, GameEvent{
		Type:      EventRewind,
		Message:   fmt.Sprintf("Rewound to turn %d", state.Turn),
		Timestamp: now,
		Position:  state.PlayerPos,
		Turn:      state.Turn,
	})
	if state.Complete && !wasComplete {
		result.Events = append(result.Events, GameEvent{
			Type:      EventLevelComplete,
			Message:   state.Message,
			Timestamp: now,
			Turn:      state.Turn,
		})
	}
	return result
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.reset(sess)
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the level catalog
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*grid.MapData, error) {
	return s.levels.LoadLevel(levelName)
}

// SaveLevel stores a level in the catalog
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelName string, data *grid.MapData) error {
	if err := s.levels.SaveLevel(levelName, data); err != nil {
		return err
	}
	s.log.Info("level saved", "level", levelName)
	return nil
}
