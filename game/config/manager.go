package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/inconshreveable/log15"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// File extensions of the two level formats.
const (
	BinaryExt = ".bin"
	SourceExt = ".txt"
)

// DefaultLevel is loaded when no other default has been set.
const DefaultLevel = "classic"

// Manager handles level loading and caching
type Manager struct {
	levelDir     string
	defaultName  string
	defaultLevel *grid.MapData
	levels       map[string]*grid.MapData
	log          log15.Logger
	mu           sync.RWMutex
}

// NewManager creates a level catalog over levelDir. A nil logger discards
// output.
func NewManager(levelDir string, logger log15.Logger) (*Manager, error) {
	if info, err := os.Stat(levelDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*grid.MapData),
		log:      logger.New("component", "catalog"),
	}

	m.loadDefaultLevel()
	return m, nil
}

// Dir returns the directory the catalog reads from.
func (m *Manager) Dir() string {
	return m.levelDir
}

// levelName strips a known extension and rejects names that would escape the
// level directory.
func levelName(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSuffix(name, BinaryExt), SourceExt)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrLevelNotFound, name)
	}
	return name, nil
}

// LoadLevel loads a level by name. The binary file is preferred; the text
// source is used when no binary exists. Results are cached.
func (m *Manager) LoadLevel(name string) (*grid.MapData, error) {
	name, err := levelName(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if data, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return data, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if data, exists := m.levels[name]; exists {
		return data, nil
	}

	data, err := m.readLevel(name)
	if err != nil {
		return nil, err
	}

	m.levels[name] = data
	m.log.Debug("level loaded", "level", name, "width", data.Width, "height", data.Height)
	return data, nil
}

func (m *Manager) readLevel(name string) (*grid.MapData, error) {
	data, err := grid.Load(filepath.Join(m.levelDir, name+BinaryExt))
	if errors.Is(err, grid.ErrMapNotFound) {
		data, err = grid.LoadText(filepath.Join(m.levelDir, name+SourceExt))
	}
	if err != nil {
		if errors.Is(err, grid.ErrMapNotFound) {
			// A file of the same name shadows the built-in room.
			if name == minimalLevelName {
				return createMinimalLevel(), nil
			}
			return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, name)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLevel, name, err)
	}

	if err := engine.ValidateMap(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLevel, name, err)
	}
	return data, nil
}

// ListLevels returns information about every level in the directory, sorted
// by name. Levels that fail to load are listed with their error.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	files := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != BinaryExt && ext != SourceExt {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		// The binary wins when both formats exist.
		if prev, ok := files[name]; ok && filepath.Ext(prev) == BinaryExt {
			continue
		}
		files[name] = entry.Name()
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	levels := make([]*service.LevelInfo, 0, len(names))
	for _, name := range names {
		info := &service.LevelInfo{
			Name:     name,
			Filename: files[name],
			Format:   strings.TrimPrefix(filepath.Ext(files[name]), "."),
		}

		data, err := m.LoadLevel(name)
		if err != nil {
			m.log.Warn("level failed to load", "level", name, "err", err)
			info.Error = err.Error()
		} else {
			info.Width = data.Width
			info.Height = data.Height
			info.Boxes = len(data.BoxSpawns)
			info.Goals = len(data.Goals)
		}
		levels = append(levels, info)
	}

	if !anyPlayable(levels) {
		levels = append(levels, builtinInfo())
	}

	return levels, nil
}

// GetDefault returns the name and data of the default level
func (m *Manager) GetDefault() (string, *grid.MapData) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName, m.defaultLevel
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	data, err := m.LoadLevel(name)
	if err != nil {
		return err
	}
	name, _ = levelName(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = name
	m.defaultLevel = data
	return nil
}

// RefreshCache drops every cached level and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.levels = make(map[string]*grid.MapData)
	name := m.defaultName
	m.mu.Unlock()

	if name != "" && name != minimalLevelName {
		if err := m.SetDefault(name); err == nil {
			return
		}
	}
	m.loadDefaultLevel()
}

// loadDefaultLevel picks classic, then the first playable level, then a
// built-in room.
func (m *Manager) loadDefaultLevel() {
	if err := m.SetDefault(DefaultLevel); err == nil {
		return
	}

	levels, err := m.ListLevels()
	if err == nil {
		for _, info := range levels {
			if info.Playable() && info.Name != minimalLevelName && m.SetDefault(info.Name) == nil {
				return
			}
		}
	}

	m.log.Warn("no playable level found, using built-in level", "dir", m.levelDir)
	m.mu.Lock()
	m.defaultName = minimalLevelName
	m.defaultLevel = createMinimalLevel()
	m.mu.Unlock()
}

// SaveLevel writes a level in the binary format and caches it
func (m *Manager) SaveLevel(name string, data *grid.MapData) error {
	name, err := levelName(name)
	if err != nil {
		return err
	}
	if err := engine.ValidateMap(data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}

	path := filepath.Join(m.levelDir, name+BinaryExt)
	if err := grid.Save(path, data); err != nil {
		return fmt.Errorf("failed to write level %s: %w", name, err)
	}

	m.mu.Lock()
	m.levels[name] = data
	m.mu.Unlock()

	m.log.Info("level saved", "level", name, "path", path)
	return nil
}

// ConvertSources converts every text source in the directory into a binary
// level next to it. It returns the names converted; failures are joined into
// the error and do not stop the remaining conversions.
func (m *Manager) ConvertSources() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.levelDir, "*"+SourceExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list level sources: %w", err)
	}
	sort.Strings(matches)

	var converted []string
	var errs []error
	for _, src := range matches {
		name := strings.TrimSuffix(filepath.Base(src), SourceExt)
		dst := filepath.Join(m.levelDir, name+BinaryExt)

		data, err := grid.ConvertText(src, dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		m.mu.Lock()
		delete(m.levels, name)
		m.mu.Unlock()

		m.log.Debug("level converted", "level", name, "width", data.Width, "height", data.Height)
		converted = append(converted, name)
	}

	return converted, errors.Join(errs...)
}

const minimalLevelName = "builtin"

func anyPlayable(levels []*service.LevelInfo) bool {
	for _, info := range levels {
		if info.Playable() {
			return true
		}
	}
	return false
}

// builtinInfo lists the built-in room so it stays reachable when the
// directory has nothing playable.
func builtinInfo() *service.LevelInfo {
	data := createMinimalLevel()
	return &service.LevelInfo{
		Name:   minimalLevelName,
		Format: "builtin",
		Width:  data.Width,
		Height: data.Height,
		Boxes:  len(data.BoxSpawns),
		Goals:  len(data.Goals),
	}
}

// createMinimalLevel returns a small one-box room
func createMinimalLevel() *grid.MapData {
	data := grid.NewMapData(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 0 || y == 0 || x == 4 || y == 4 {
				_ = data.Set(x, y, grid.Wall)
			}
		}
	}
	_ = data.Set(1, 2, grid.Player)
	_ = data.Set(2, 2, grid.Box)
	_ = data.Set(3, 2, grid.Goal)
	return data
}

var _ service.LevelCatalog = (*Manager)(nil)
