// Package session provides session management for Time-Shift Sokoban.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - UUID session identifiers
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// service.Session owns its own engine instance, created from the level data
// passed to Create.
//
// Concurrency:
//
// The manager is safe for concurrent use. It guards the session table only;
// the engines themselves are serialised by the service layer.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", data)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	go manager.RunCleanup(ctx, time.Hour, 24*time.Hour, logger)
package session
