package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Tick      TickConfig      `yaml:"tick"`
	Logging   LoggingConfig   `yaml:"logging"`
	Input     InputConfig     `yaml:"input"`
	HotReload HotReloadConfig `yaml:"hot_reload"`
	Scene     string          `yaml:"scene"`
	Debug     bool            `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// TickConfig controls the fixed step. TPS is the ebiten update rate and
// FixedHz the simulation rate; MaxSteps caps catch-up work per update.
type TickConfig struct {
	TPS      int `yaml:"tps"`
	FixedHz  int `yaml:"fixed_hz"`
	MaxSteps int `yaml:"max_steps"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type InputConfig struct {
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	StickLookScale   float64 `yaml:"stick_look_scale"`
	StickDeadzone    float64 `yaml:"stick_deadzone"`
}

type HotReloadConfig struct {
	Enabled bool     `yaml:"enabled"`
	Dirs    []string `yaml:"dirs"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "thirdperson"},
		Tick:   TickConfig{TPS: 60, FixedHz: 60, MaxSteps: 5},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Input: InputConfig{
			MouseSensitivity: 1,
			StickLookScale:   6,
			StickDeadzone:    0.2,
		},
		HotReload: HotReloadConfig{Dirs: []string{"prefabs", "levels"}},
		Scene:     "stage1",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Tick.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tick.tps must be positive, got %d", c.Tick.TPS))
	}
	if c.Tick.FixedHz <= 0 {
		errs = append(errs, fmt.Errorf("tick.fixed_hz must be positive, got %d", c.Tick.FixedHz))
	}
	if c.Tick.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("tick.max_steps must be positive, got %d", c.Tick.MaxSteps))
	}
	if c.Input.StickDeadzone < 0 || c.Input.StickDeadzone >= 1 {
		errs = append(errs, fmt.Errorf("input.stick_deadzone must be in [0,1), got %v", c.Input.StickDeadzone))
	}
	if c.Scene == "" {
		errs = append(errs, errors.New("scene must be set"))
	}
	return errors.Join(errs...)
}

// FixedStep returns the simulation step in seconds.
func (c *Config) FixedStep() float64 {
	return 1 / float64(c.Tick.FixedHz)
}
