package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/timeshift-sokoban/game/grid"
)

const (
	scenarioSource = "5 5\n11111\n10001\n14231\n10001\n11111\n"
	corridorSource = "7 3\n1111111\n1422331\n1111111\n"
)

func createTestLevelDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "level-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeLevelFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path", nil); err == nil {
			t.Error("Expected error for non-existent level directory")
		}
	})

	t.Run("classic is the default", func(t *testing.T) {
		dir := createTestLevelDir(t)
		writeLevelFile(t, dir, "aaa.txt", corridorSource)
		writeLevelFile(t, dir, "classic.txt", scenarioSource)

		m, err := NewManager(dir, nil)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		name, data := m.GetDefault()
		if name != "classic" || data == nil || data.Width != 5 {
			t.Errorf("Expected classic default, got %s", name)
		}
	})

	t.Run("first playable level is the fallback", func(t *testing.T) {
		dir := createTestLevelDir(t)
		writeLevelFile(t, dir, "aaa.txt", "3 1\n400\n") // no goal
		writeLevelFile(t, dir, "bbb.txt", corridorSource)

		m, _ := NewManager(dir, nil)
		if name, _ := m.GetDefault(); name != "bbb" {
			t.Errorf("Expected bbb default, got %s", name)
		}
	})

	t.Run("empty directory uses built-in level", func(t *testing.T) {
		m, err := NewManager(createTestLevelDir(t), nil)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		name, data := m.GetDefault()
		if name != minimalLevelName || data == nil {
			t.Fatalf("Expected built-in default, got %s", name)
		}
		if len(data.BoxSpawns) != 1 || len(data.Goals) != 1 || data.PlayerCount != 1 {
			t.Errorf("Unexpected built-in level %+v", data)
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := createTestLevelDir(t)
	writeLevelFile(t, dir, "scenario.txt", scenarioSource)
	writeLevelFile(t, dir, "badtile.txt", "3 1\n409\n")
	writeLevelFile(t, dir, "nogoal.txt", "3 1\n420\n")

	binary, err := grid.ParseText(strings.NewReader(corridorSource))
	if err != nil {
		t.Fatal(err)
	}
	if err := grid.Save(filepath.Join(dir, "corridor.bin"), binary); err != nil {
		t.Fatal(err)
	}
	// A stale source next to the binary is ignored.
	writeLevelFile(t, dir, "corridor.txt", scenarioSource)

	m, _ := NewManager(dir, nil)

	tests := []struct {
		name      string
		level     string
		wantErr   error
		wantWidth int
	}{
		{"text source", "scenario", nil, 5},
		{"name with extension", "scenario.txt", nil, 5},
		{"binary preferred", "corridor", nil, 7},
		{"missing", "missing", ErrLevelNotFound, 0},
		{"path escape", "../scenario", ErrLevelNotFound, 0},
		{"invalid tile", "badtile", ErrInvalidLevel, 0},
		{"unplayable", "nogoal", ErrInvalidLevel, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := m.LoadLevel(tt.level)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadLevel(%s): %v", tt.level, err)
			}
			if data.Width != tt.wantWidth {
				t.Errorf("Expected width %d, got %d", tt.wantWidth, data.Width)
			}
		})
	}

	t.Run("invalid tile keeps its cause", func(t *testing.T) {
		_, err := m.LoadLevel("badtile")
		var tileErr *grid.InvalidTileError
		if !errors.As(err, &tileErr) {
			t.Fatalf("Expected InvalidTileError in chain, got %v", err)
		}
		if tileErr.X != 2 {
			t.Errorf("Expected bad tile at x=2, got %d", tileErr.X)
		}
	})
}

func TestManager_ListLevels(t *testing.T) {
	dir := createTestLevelDir(t)
	writeLevelFile(t, dir, "b-scenario.txt", scenarioSource)
	writeLevelFile(t, dir, "a-corridor.txt", corridorSource)
	writeLevelFile(t, dir, "c-broken.txt", "2 2\n11\n")
	writeLevelFile(t, dir, "notes.md", "ignored")
	os.Mkdir(filepath.Join(dir, "sub.txt"), 0755)

	m, _ := NewManager(dir, nil)
	levels, err := m.ListLevels()
	if err != nil {
		t.Fatalf("ListLevels: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("Expected 3 levels, got %d", len(levels))
	}

	if levels[0].Name != "a-corridor" || levels[0].Boxes != 2 || levels[0].Goals != 2 || levels[0].Format != "txt" {
		t.Errorf("Unexpected first level %+v", levels[0])
	}
	if levels[1].Name != "b-scenario" || !levels[1].Playable() {
		t.Errorf("Unexpected second level %+v", levels[1])
	}
	if levels[2].Name != "c-broken" || levels[2].Playable() {
		t.Errorf("Expected c-broken to carry a load error, got %+v", levels[2])
	}
}

func TestManager_BuiltinLevel(t *testing.T) {
	t.Run("listed when nothing is playable", func(t *testing.T) {
		dir := createTestLevelDir(t)
		writeLevelFile(t, dir, "broken.txt", "3 1\n409\n")

		m, _ := NewManager(dir, nil)
		levels, err := m.ListLevels()
		if err != nil {
			t.Fatalf("ListLevels: %v", err)
		}
		if len(levels) != 2 {
			t.Fatalf("Expected broken and builtin, got %d levels", len(levels))
		}
		last := levels[1]
		if last.Name != minimalLevelName || !last.Playable() || last.Boxes != 1 {
			t.Errorf("Unexpected builtin entry %+v", last)
		}

		data, err := m.LoadLevel(last.Name)
		if err != nil {
			t.Fatalf("LoadLevel(%s): %v", last.Name, err)
		}
		if data.Width != 5 || len(data.Goals) != 1 {
			t.Errorf("Unexpected builtin level %+v", data)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		m, _ := NewManager(createTestLevelDir(t), nil)
		levels, err := m.ListLevels()
		if err != nil {
			t.Fatalf("ListLevels: %v", err)
		}
		if len(levels) != 1 || levels[0].Name != minimalLevelName {
			t.Errorf("Expected only the builtin level, got %+v", levels)
		}
	})

	t.Run("hidden when a level is playable", func(t *testing.T) {
		dir := createTestLevelDir(t)
		writeLevelFile(t, dir, "scenario.txt", scenarioSource)

		m, _ := NewManager(dir, nil)
		levels, _ := m.ListLevels()
		for _, info := range levels {
			if info.Name == minimalLevelName {
				t.Errorf("builtin level should not be listed next to %s", levels[0].Name)
			}
		}
	})
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestLevelDir(t)
	writeLevelFile(t, dir, "classic.txt", scenarioSource)
	writeLevelFile(t, dir, "corridor.txt", corridorSource)
	m, _ := NewManager(dir, nil)

	if err := m.SetDefault("corridor.txt"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if name, data := m.GetDefault(); name != "corridor" || data.Width != 7 {
		t.Errorf("Expected corridor default, got %s", name)
	}

	if err := m.SetDefault("missing"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
	if name, _ := m.GetDefault(); name != "corridor" {
		t.Errorf("Failed SetDefault should keep the previous default, got %s", name)
	}
}

func TestManager_SaveLevel(t *testing.T) {
	dir := createTestLevelDir(t)
	m, _ := NewManager(dir, nil)

	data, _ := grid.ParseText(strings.NewReader(corridorSource))
	if err := m.SaveLevel("saved", data); err != nil {
		t.Fatalf("SaveLevel: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.bin")); err != nil {
		t.Errorf("Expected saved.bin on disk: %v", err)
	}

	m.RefreshCache()
	loaded, err := m.LoadLevel("saved")
	if err != nil {
		t.Fatalf("LoadLevel after save: %v", err)
	}
	if loaded.Layout() != data.Layout() {
		t.Errorf("Round trip changed the layout:\n%s\nvs\n%s", loaded.Layout(), data.Layout())
	}

	if err := m.SaveLevel("broken", grid.NewMapData(2, 2)); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}
}

func TestManager_ConvertSources(t *testing.T) {
	dir := createTestLevelDir(t)
	writeLevelFile(t, dir, "one.txt", scenarioSource)
	writeLevelFile(t, dir, "two.txt", corridorSource)
	writeLevelFile(t, dir, "bad.txt", "2 1\n9\n")
	m, _ := NewManager(dir, nil)

	converted, err := m.ConvertSources()
	if err == nil {
		t.Error("Expected an error for bad.txt")
	}
	if len(converted) != 2 || converted[0] != "one" || converted[1] != "two" {
		t.Errorf("Expected [one two] converted, got %v", converted)
	}
	for _, name := range converted {
		if _, err := os.Stat(filepath.Join(dir, name+BinaryExt)); err != nil {
			t.Errorf("Expected %s.bin: %v", name, err)
		}
	}

	levels, _ := m.ListLevels()
	for _, info := range levels {
		if info.Name == "one" && info.Format != "bin" {
			t.Errorf("Expected one to be listed as binary, got %s", info.Format)
		}
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := createTestLevelDir(t)
	writeLevelFile(t, dir, "cached.txt", scenarioSource)
	m, _ := NewManager(dir, nil)

	first, err := m.LoadLevel("cached")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}

	// Change the file on disk; the cache keeps serving the old level.
	writeLevelFile(t, dir, "cached.txt", corridorSource)
	second, _ := m.LoadLevel("cached")
	if second != first {
		t.Error("Expected cached level to be returned")
	}

	m.RefreshCache()
	third, _ := m.LoadLevel("cached")
	if third.Width != 7 {
		t.Errorf("Expected refreshed level width 7, got %d", third.Width)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestLevelDir(t)
	writeLevelFile(t, dir, "classic.txt", scenarioSource)
	writeLevelFile(t, dir, "corridor.txt", corridorSource)
	m, _ := NewManager(dir, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := m.LoadLevel("corridor"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := m.ListLevels(); err != nil {
				errs <- err
			}
			m.GetDefault()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
}
