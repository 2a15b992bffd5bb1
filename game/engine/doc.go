// Package engine provides the puzzle simulation for Time-Shift Sokoban.
//
// The engine package implements:
//   - Grid movement with wall collision
//   - Box pushing, including chained pushes of several boxes in a row
//   - Per-entity timelines that allow rewinding the level turn by turn
//   - Goal tracking and a one-shot level-complete signal
//
// Core Types:
//
// Level owns the player, the boxes and the turn counter of one running map.
// Resolver applies the push rules. GameEngine wraps a Level with a
// string-direction API, an audit trail of attempts and a serialisable
// GameState for frontends.
//
// Usage:
//
//	data, err := grid.Load("maps/classic.bin")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine("classic", data)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Move("right")
//	gameEngine.Undo()
//	state := gameEngine.GetState()
//
// Turns:
//
// The turn counter starts at -1 and becomes 0 when the level (re)starts;
// snapshot 0 of every timeline holds the spawn positions. Each successful
// move records one snapshot for every entity at once. Rejected moves record
// nothing. Rewinding to turn n restores snapshot n for every entity; the
// turns after n stay recorded until the next successful move replaces them,
// so a rewind can be scrubbed forward again.
package engine
