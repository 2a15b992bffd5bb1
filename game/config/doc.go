// Package config provides the level catalog for Time-Shift Sokoban.
//
// The config package handles:
//   - Loading levels from a directory of map files
//   - Level validation before play
//   - Default level management
//   - Level discovery and listing
//   - Converting text sources into binary map files
//
// Level Format:
//
// Levels are stored as binary map files (name.bin): a width byte, a height
// byte and width*height tile codes in row-major order. A text source
// (name.txt) holds the same data as a "<width> <height>" line followed by
// one line of digits per row. When both exist the binary file is used.
//
// Usage:
//
//	manager, err := config.NewManager("maps", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	data, err := manager.LoadLevel("classic")
//	if errors.Is(err, config.ErrInvalidLevel) {
//		// show the error and go back to the level menu
//	}
//
//	name, data := manager.GetDefault()
//	levels, err := manager.ListLevels()
//
// Validation:
//
// Every loaded level passes engine.ValidateMap: one player, at least one
// goal, no fewer boxes than goals, and every goal and box reachable.
package config
