package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    string
		validate   func(t *testing.T, cfg *Config)
	}{
		{
			name:       "overrides_keep_other_defaults",
			createFile: true,
			content: `window:
  width: 800
  height: 600
logging:
  level: debug
scene: clear
tick:
  fixed_hz: 50
`,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
					t.Errorf("window = %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
				if cfg.Window.Title != "thirdperson" {
					t.Errorf("Title = %q, want default", cfg.Window.Title)
				}
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
					t.Errorf("logging = %+v", cfg.Logging)
				}
				if cfg.Scene != "clear" {
					t.Errorf("Scene = %q", cfg.Scene)
				}
				if cfg.Tick.TPS != 60 || cfg.Tick.FixedHz != 50 {
					t.Errorf("tick = %+v", cfg.Tick)
				}
				if got := cfg.FixedStep(); got != 0.02 {
					t.Errorf("FixedStep = %v", got)
				}
			},
		},
		{
			name:       "empty_file_is_defaults",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Tick.MaxSteps != 5 || cfg.Input.StickDeadzone != 0.2 {
					t.Errorf("unexpected defaults %+v", cfg)
				}
			},
		},
		{
			name:       "missing_file",
			createFile: false,
			wantErr:    "config: read",
		},
		{
			name:       "bad_yaml",
			createFile: true,
			content:    "window: [1, 2",
			wantErr:    "config: unmarshal",
		},
		{
			name:       "invalid_values",
			createFile: true,
			content: `tick:
  fixed_hz: 0
input:
  stick_deadzone: 1.5
`,
			wantErr: "tick.fixed_hz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "game.yaml")
			if tt.createFile {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			cfg, err := Load(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Scene != "stage1" {
		t.Fatalf("Scene = %q", cfg.Scene)
	}
}
