package service

import (
	"context"
	"time"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Time travel
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Rewind(ctx context.Context, sessionID string, turn int) (*MoveResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelName string) (*grid.MapData, error)
	SaveLevel(ctx context.Context, levelName string, data *grid.MapData) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, levelName string, data *grid.MapData) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, levelName string, data *grid.MapData) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelCatalog handles level loading
type LevelCatalog interface {
	LoadLevel(name string) (*grid.MapData, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() (string, *grid.MapData)
	SaveLevel(name string, data *grid.MapData) error
}

// Session represents an active game session
type Session struct {
	ID             string
	LevelName      string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
