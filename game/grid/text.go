package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseText reads the converter's text source format.
//
// Line endings may be LF or CRLF. Rows are matched against the declared
// width: a short row is reported as truncated, extra characters are rejected
// as invalid tiles.
func ParseText(r io.Reader) (*MapData, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing size line", ErrTruncatedMap)
	}
	width, height, err := parseSize(sc.Text())
	if err != nil {
		return nil, err
	}

	data := NewMapData(width, height)
	for y := 0; y < height; y++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrTruncatedMap, height, y)
		}
		line := strings.TrimRight(sc.Text(), "\r")
		for x, ch := range line {
			if x >= width || ch < '0' || ch > '9' {
				return nil, &InvalidTileError{X: x, Y: y, Code: int(ch)}
			}
			if err := data.Set(x, y, Tile(ch-'0')); err != nil {
				return nil, &InvalidTileError{X: x, Y: y, Code: int(ch)}
			}
		}
		if len(line) < width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrTruncatedMap, y, len(line), width)
		}
	}
	return data, nil
}

func parseSize(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: size line %q", ErrInvalidSize, line)
	}
	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: width %q", ErrInvalidSize, fields[0])
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: height %q", ErrInvalidSize, fields[1])
	}
	if width < 1 || width > MaxDimension || height < 1 || height > MaxDimension {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return width, height, nil
}

// LoadText reads a text source file.
func LoadText(path string) (*MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MapNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to open map source: %w", err)
	}
	defer f.Close()

	data, err := ParseText(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse map source %s: %w", path, err)
	}
	return data, nil
}

// ConvertText converts a text source file into a binary map file.
func ConvertText(src, dst string) (*MapData, error) {
	data, err := LoadText(src)
	if err != nil {
		return nil, err
	}
	if err := Save(dst, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Layout renders m back into the text source format.
func (m *MapData) Layout() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %d\n", m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			b.WriteByte('0' + byte(m.TileAt(x, y)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
