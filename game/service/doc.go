// Package service provides the business logic layer for Time-Shift Sokoban.
//
// The service package implements:
//   - Multi-session game management
//   - Move, undo and rewind processing with derived game events
//   - Level catalog access
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelCatalog loads, lists and stores levels.
//
// Architecture:
//
// The service layer sits between a frontend (the terminal UI or the CLI) and
// the game engine. Each session owns its own engine instance, so several
// levels can be played side by side.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	catalog, err := config.NewManager("maps", logger)
//	gameService := service.NewGameService(sessionMgr, catalog, logger)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "right", false)
//	result, err = gameService.Undo(ctx, info.ID)
//
// Events:
//
// Every result carries GameEvents: move, push, blocked, rewind, reset and
// level_complete. A blocked move is an ordinary outcome, not an error.
package service
