package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads a binary map file.
func Load(path string) (*MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MapNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	data, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode map %s: %w", path, err)
	}
	return data, nil
}

// Decode reads a binary map from r.
func Decode(r io.Reader) (*MapData, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncatedMap, err)
	}
	width, height := int(header[0]), int(header[1])

	row := make([]byte, width)
	data := NewMapData(width, height)
	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrTruncatedMap, y, err)
		}
		for x, code := range row {
			if err := data.Set(x, y, Tile(code)); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

// Encode writes m in the binary map format.
func Encode(w io.Writer, m *MapData) error {
	if m.Width < 0 || m.Width > MaxDimension || m.Height < 0 || m.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, m.Width, m.Height)
	}

	bw := bufio.NewWriter(w)
	bw.WriteByte(byte(m.Width))
	bw.WriteByte(byte(m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			bw.WriteByte(byte(m.TileAt(x, y)))
		}
	}
	return bw.Flush()
}

// Save writes m to path in the binary map format.
func Save(path string, m *MapData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode map: %w", err)
	}
	return f.Close()
}
