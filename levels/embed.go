package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

var ErrUnknownScene = errors.New("levels: unknown scene")

type Level struct {
	Name     string      `yaml:"name"`
	Next     string      `yaml:"next"`
	Spawn    Placement   `yaml:"spawn"`
	Bounds   Bounds      `yaml:"bounds"`
	Terrain  *Terrain    `yaml:"terrain"`
	Blocks   []Block     `yaml:"blocks"`
	Entities []Placement `yaml:"entities"`

	// ReturnAfter > 0 adds a timer that loads ReturnTo, or the previous
	// scene when ReturnTo is empty.
	ReturnAfter float64 `yaml:"return_after"`
	ReturnTo    string  `yaml:"return_to"`
}

type Bounds struct {
	MinX  float64 `yaml:"min_x"`
	MinZ  float64 `yaml:"min_z"`
	MaxX  float64 `yaml:"max_x"`
	MaxZ  float64 `yaml:"max_z"`
	KillY float64 `yaml:"kill_y"`
}

// Placement spawns a prefab. Components are merged over the prefab's own
// component specs.
type Placement struct {
	Prefab     string         `yaml:"prefab"`
	Name       string         `yaml:"name"`
	X          float64        `yaml:"x"`
	Y          float64        `yaml:"y"`
	Z          float64        `yaml:"z"`
	Yaw        float64        `yaml:"yaw"`
	Components map[string]any `yaml:"components"`
}

// Block is a static box. Y is the base of the box.
type Block struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Depth   float64 `yaml:"depth"`
	Layer   string  `yaml:"layer"`
	Trigger bool    `yaml:"trigger"`
}

// Load reads levels/<name>.yaml from disk when present, falling back to the
// embedded copy.
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownScene)
	}

	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
		}
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}

	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", clean, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(clean, ".yaml")
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", clean, err)
	}
	return &lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (l *Level) Validate() error {
	var errs []error
	if l.Bounds.MaxX <= l.Bounds.MinX || l.Bounds.MaxZ <= l.Bounds.MinZ {
		errs = append(errs, fmt.Errorf("bounds are empty"))
	}
	for i, b := range l.Blocks {
		if b.Width <= 0 || b.Height <= 0 || b.Depth <= 0 {
			errs = append(errs, fmt.Errorf("block %d has a non-positive size", i))
		}
	}
	for i, p := range l.Entities {
		if p.Prefab == "" {
			errs = append(errs, fmt.Errorf("entity %d has no prefab", i))
		}
	}
	if l.Terrain != nil {
		if err := l.Terrain.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func cleanLevelPath(name string) string {
	s := strings.TrimSpace(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, "levels/")
	if s == "" {
		return ""
	}
	if filepath.Ext(s) != ".yaml" {
		s += ".yaml"
	}
	return s
}
