package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDropEffectsConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *DropEffectsConfig)
	}{
		{
			name: "defaults applied to omitted fields",
			yamlContent: `
presets:
  - name: speedyDrop
  - name: equalDrop
    animationSpeed: 1000
    world:
      acceleration: 0
      velocity: 20
`,
			validate: func(t *testing.T, cfg *DropEffectsConfig) {
				speedy, ok := cfg.Preset("speedyDrop")
				if !ok {
					t.Fatal("speedyDrop not found")
				}
				if speedy.FramesPerSecond != 24 {
					t.Errorf("expected framesPerSecond = 24, got %d", speedy.FramesPerSecond)
				}
				if speedy.AnimationSpeed != 50000 {
					t.Errorf("expected animationSpeed = 50000, got %f", speedy.AnimationSpeed)
				}
				if speedy.World.Acceleration != 10 {
					t.Errorf("expected acceleration = 10, got %f", speedy.World.Acceleration)
				}
				if speedy.Opacity.Opaque != 1 || speedy.Opacity.Transparent != 0 {
					t.Errorf("expected opacity 1 -> 0, got %v", speedy.Opacity)
				}

				equal, ok := cfg.Preset("equalDrop")
				if !ok {
					t.Fatal("equalDrop not found")
				}
				// 显式写出的 0 覆盖默认加速度
				if equal.World.Acceleration != 0 {
					t.Errorf("expected acceleration = 0, got %f", equal.World.Acceleration)
				}
				if equal.World.Velocity != 20 {
					t.Errorf("expected velocity = 20, got %f", equal.World.Velocity)
				}
				if equal.FramesPerSecond != 24 {
					t.Errorf("expected framesPerSecond = 24, got %d", equal.FramesPerSecond)
				}
			},
		},
		{
			name: "reversed opacity and fixed travel limit",
			yamlContent: `
presets:
  - name: fadeIn
    travelLimit: 300
    clampOpacity: true
    opacity:
      opaque: 0.0
      transparent: 1.0
`,
			validate: func(t *testing.T, cfg *DropEffectsConfig) {
				p, _ := cfg.Preset("fadeIn")
				if p.TravelLimit != 300 {
					t.Errorf("expected travelLimit = 300, got %f", p.TravelLimit)
				}
				if !p.ClampOpacity {
					t.Error("expected clampOpacity = true")
				}
				if p.Opacity.Opaque != 0 || p.Opacity.Transparent != 1 {
					t.Errorf("expected opacity 0 -> 1, got %v", p.Opacity)
				}
			},
		},
		{
			name:        "empty presets",
			yamlContent: "presets: []\n",
			wantErr:     true,
			errContains: "no presets",
		},
		{
			name: "missing name",
			yamlContent: `
presets:
  - framesPerSecond: 30
`,
			wantErr:     true,
			errContains: "has no name",
		},
		{
			name: "duplicate name",
			yamlContent: `
presets:
  - name: a
  - name: a
`,
			wantErr:     true,
			errContains: "duplicate",
		},
		{
			name: "frame rate out of range",
			yamlContent: `
presets:
  - name: a
    framesPerSecond: 0
`,
			wantErr:     true,
			errContains: "framesPerSecond",
		},
		{
			name: "opacity out of range",
			yamlContent: `
presets:
  - name: a
    opacity:
      opaque: 1.5
`,
			wantErr:     true,
			errContains: "opacity",
		},
		{
			name: "infinite travel limit",
			yamlContent: `
presets:
  - name: a
    travelLimit: .inf
`,
			wantErr:     true,
			errContains: "travelLimit",
		},
		{
			name: "NaN travel limit",
			yamlContent: `
presets:
  - name: a
    travelLimit: .nan
`,
			wantErr:     true,
			errContains: "travelLimit",
		},
		{
			name: "NaN animation speed",
			yamlContent: `
presets:
  - name: a
    animationSpeed: .nan
`,
			wantErr:     true,
			errContains: "animationSpeed",
		},
		{
			name: "infinite world velocity",
			yamlContent: `
presets:
  - name: a
    world:
      velocity: .inf
`,
			wantErr:     true,
			errContains: "finite",
		},
		{
			name: "world never falls",
			yamlContent: `
presets:
  - name: a
    world:
      acceleration: 0
      velocity: 0
`,
			wantErr:     true,
			errContains: "never falls",
		},
		{
			name:        "malformed yaml",
			yamlContent: "presets: [",
			wantErr:     true,
			errContains: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "drop_effects.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}

			cfg, err := LoadDropEffectsConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadDropEffectsConfigMissingFile(t *testing.T) {
	_, err := LoadDropEffectsConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
}

// TestShippedConfigMatchesDefaults 测试 data/drop_effects.yaml 与内置预设一致
func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadDropEffectsConfig("../../data/drop_effects.yaml")
	if err != nil {
		t.Fatalf("failed to load shipped config: %v", err)
	}

	for _, want := range DefaultDropEffectsConfig().Presets {
		got, ok := cfg.Preset(want.Name)
		if !ok {
			t.Errorf("shipped config is missing preset %q", want.Name)
			continue
		}
		if got != want {
			t.Errorf("preset %q: got %+v, want %+v", want.Name, got, want)
		}
	}
}

func TestDefaultDropEffectsConfigValid(t *testing.T) {
	cfg := DefaultDropEffectsConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	names := cfg.Names()
	if len(names) != 2 || names[0] != "speedyDrop" || names[1] != "equalDrop" {
		t.Errorf("Names() = %v, want [speedyDrop equalDrop]", names)
	}

	if _, ok := cfg.Preset("nope"); ok {
		t.Error("Preset(nope) should not be found")
	}
}
