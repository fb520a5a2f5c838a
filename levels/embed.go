package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Tile values used in physics layers.
const (
	TileEmpty = iota
	TileSolid
	TileHazard
	TileSlopeUpRight
	TileSlopeUpLeft
)

// Level is a tile grid. Row 0 is the top row; one tile is one world unit.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
	// Category is the collision category bitmask of the layer's geometry.
	// Zero means category 1.
	Category uint32 `json:"category,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Tile returns the value at column x, row y of layer, or TileEmpty when out
// of range.
func (l *Level) Tile(layer, x, y int) int {
	if l == nil || layer < 0 || layer >= len(l.Layers) {
		return TileEmpty
	}
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return TileEmpty
	}
	cells := l.Layers[layer]
	if len(cells) != l.Width*l.Height {
		return TileEmpty
	}
	return cells[y*l.Width+x]
}

// IsPhysicsLayer reports whether layer contributes collision geometry.
func (l *Level) IsPhysicsLayer(layer int) bool {
	if l == nil || layer < 0 || layer >= len(l.LayerMeta) {
		return false
	}
	return l.LayerMeta[layer].Physics
}

// Find returns the first entity of the given type.
func (l *Level) Find(kind string) (Entity, bool) {
	if l == nil {
		return Entity{}, false
	}
	for _, e := range l.Entities {
		if e.Type == kind {
			return e, true
		}
	}
	return Entity{}, false
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	if len(l.LayerMeta) > len(l.Layers) {
		return fmt.Errorf("%w: %d layer_meta entries for %d layers", ErrInvalidLevel, len(l.LayerMeta), len(l.Layers))
	}
	return nil
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Load reads name from disk when it is a path to an existing file and from
// the embedded levels otherwise.
func Load(name string) (*Level, error) {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	if data, err := os.ReadFile(name); err == nil {
		lvl, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("levels: load %s: %w", name, err)
		}
		return lvl, nil
	}
	lvl, err := LoadLevelFromFS(filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	return lvl, nil
}
