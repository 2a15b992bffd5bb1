package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/timeshift-sokoban/game/grid"
)

const (
	pushLevel     = "5 5\n11111\n10001\n14231\n10001\n11111\n"
	cornerLevel   = "5 4\n11111\n12041\n10031\n11111\n"
	badTileLevel  = "3 1\n409\n"
	noPlayerLevel = "3 1\n023\n"
)

func writeLevels(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut
	err := cmd.Run(context.Background(), append([]string{"sokoban"}, args...))
	return out.String(), err
}

func TestValidateLevel(t *testing.T) {
	dir := writeLevels(t, map[string]string{
		"push.txt":     pushLevel,
		"corner.txt":   cornerLevel,
		"badtile.txt":  badTileLevel,
		"noplayer.txt": noPlayerLevel,
		"notes.md":     "not a level",
	})

	tests := []struct {
		file    string
		valid   bool
		message string
	}{
		{"push.txt", true, "✓ Grid: 5x5"},
		{"corner.txt", false, "dead corner"},
		{"badtile.txt", false, "invalid tile"},
		{"noplayer.txt", false, "must contain a player"},
		{"notes.md", false, "unsupported level file extension"},
		{"missing.txt", false, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result := validateLevel(filepath.Join(dir, tt.file))
			assert.Equal(t, tt.file, result.File)
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.Errors)
			assert.Contains(t, strings.Join(result.Errors, "\n"), tt.message)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		dir := writeLevels(t, map[string]string{"push.txt": pushLevel})
		out, err := run(t, "--maps-dir", dir, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "✅ VALID")
		assert.Contains(t, out, "All levels are valid")
	})

	t.Run("some invalid", func(t *testing.T) {
		dir := writeLevels(t, map[string]string{"push.txt": pushLevel, "corner.txt": cornerLevel})
		out, err := run(t, "--maps-dir", dir, "validate")
		assert.Error(t, err)
		assert.Contains(t, out, "❌ INVALID")
		assert.Contains(t, out, "Some levels have errors")
	})

	t.Run("explicit files", func(t *testing.T) {
		dir := writeLevels(t, map[string]string{"push.txt": pushLevel, "corner.txt": cornerLevel})
		out, err := run(t, "validate", filepath.Join(dir, "push.txt"))
		require.NoError(t, err)
		assert.NotContains(t, out, "corner.txt")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := run(t, "--maps-dir", t.TempDir(), "validate")
		assert.Error(t, err)
	})
}

func TestConvertCommand(t *testing.T) {
	dir := writeLevels(t, map[string]string{"push.txt": pushLevel})
	src := filepath.Join(dir, "push.txt")

	out, err := run(t, "convert", src)
	require.NoError(t, err)
	assert.Contains(t, out, "push.bin")

	data, err := grid.Load(filepath.Join(dir, "push.bin"))
	require.NoError(t, err)
	assert.Equal(t, 5, data.Width)
	assert.Equal(t, []grid.Position{{X: 2, Y: 2}}, data.BoxSpawns)

	_, err = run(t, "convert")
	assert.Error(t, err)
}

func TestConvertCommand_All(t *testing.T) {
	dir := writeLevels(t, map[string]string{"push.txt": pushLevel, "other.txt": pushLevel})

	out, err := run(t, "--maps-dir", dir, "convert", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "converted other")
	assert.FileExists(t, filepath.Join(dir, "push.bin"))
	assert.FileExists(t, filepath.Join(dir, "other.bin"))
}

func TestSolveCommand(t *testing.T) {
	dir := writeLevels(t, map[string]string{"push.txt": pushLevel})

	out, err := run(t, "--maps-dir", dir, "solve", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "push: 1 moves, 1 pushes")
	assert.Contains(t, out, "\nr\n")

	out, err = run(t, "--maps-dir", dir, "solve", "--json", "push")
	require.NoError(t, err)
	var res struct {
		Solution string `json:"solution"`
		Pushes   int    `json:"pushes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "r", res.Solution)
	assert.Equal(t, 1, res.Pushes)

	_, err = run(t, "--maps-dir", dir, "solve", "missing")
	assert.Error(t, err)

	_, err = run(t, "--maps-dir", dir, "solve", "--max-states", "zero", "push")
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	dir := writeLevels(t, map[string]string{"push.txt": pushLevel, "badtile.txt": badTileLevel})

	out, err := run(t, "--maps-dir", dir, "analyze", "--solve")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Analyzing push ===")
	assert.Contains(t, out, "Grid Size: 5 x 5")
	assert.Contains(t, out, "Push Lower Bound: 1")
	assert.Contains(t, out, "dead corners")
	assert.Contains(t, out, "✅ Solvable in 1 moves")
	assert.Contains(t, out, "=== Analyzing badtile ===")
	assert.Contains(t, out, "Error loading level")
}

func TestInvalidLogLevel(t *testing.T) {
	dir := writeLevels(t, map[string]string{"push.txt": pushLevel})
	_, err := run(t, "--maps-dir", dir, "--log-level", "loud", "validate")
	assert.Error(t, err)
}

func TestBundledLevels(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "maps", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			result := validateLevel(file)
			assert.True(t, result.Valid, "errors: %v", result.Errors)
		})
	}

	for _, name := range []string{"first_steps", "classic", "corridor", "point_of_no_return"} {
		t.Run("solve "+name, func(t *testing.T) {
			out, err := run(t, "--maps-dir", filepath.Join("..", "..", "maps"), "solve", name)
			require.NoError(t, err)
			assert.Contains(t, out, name+":")
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Time-Shift Sokoban", AppName)
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := writeLevels(t, map[string]string{"push.txt": pushLevel})
	svc, err := initializeServices(ctx, dir, nil)
	require.NoError(t, err)

	info, err := svc.CreateSession(ctx, "push")
	require.NoError(t, err)
	assert.Equal(t, "push", info.LevelName)

	res, err := svc.Move(ctx, info.ID, "right", false)
	require.NoError(t, err)
	assert.True(t, res.GameState.Complete)
}

func TestInitializeServices_InvalidMapsDir(t *testing.T) {
	_, err := initializeServices(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}
