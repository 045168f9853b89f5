package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Simulator.Width != 320 {
		t.Errorf("expected width 320, got %d", cfg.Simulator.Width)
	}
	if cfg.Simulator.Height != 240 {
		t.Errorf("expected height 240, got %d", cfg.Simulator.Height)
	}
	if cfg.Simulator.VFOVDegrees != 45 {
		t.Errorf("expected vfov 45, got %v", cfg.Simulator.VFOVDegrees)
	}
	if cfg.Simulator.MinElevation != -0.94 || cfg.Simulator.MaxElevation != 0.94 {
		t.Errorf("expected elevation limits +-0.94, got %v/%v", cfg.Simulator.MinElevation, cfg.Simulator.MaxElevation)
	}
	if !cfg.Simulator.Rendering {
		t.Error("expected rendering to be enabled by default")
	}
	if cfg.Simulator.DatasetPath != "./data" {
		t.Errorf("expected dataset path ./data, got %s", cfg.Simulator.DatasetPath)
	}
	if cfg.Simulator.NavGraphPath != "./connectivity" {
		t.Errorf("expected nav graph path ./connectivity, got %s", cfg.Simulator.NavGraphPath)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Simulator.Width = 0 }},
		{"negative height", func(c *Config) { c.Simulator.Height = -1 }},
		{"zero vfov", func(c *Config) { c.Simulator.VFOVDegrees = 0 }},
		{"vfov 180", func(c *Config) { c.Simulator.VFOVDegrees = 180 }},
		{"min elevation positive", func(c *Config) { c.Simulator.MinElevation = 0.1 }},
		{"min elevation below -pi/2", func(c *Config) { c.Simulator.MinElevation = -1.6 }},
		{"max elevation zero", func(c *Config) { c.Simulator.MaxElevation = 0 }},
		{"max elevation above pi/2", func(c *Config) { c.Simulator.MaxElevation = 1.6 }},
		{"negative steps", func(c *Config) { c.Episode.Steps = -1 }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"limits swapped", func(c *Config) { c.Simulator.MinElevation, c.Simulator.MaxElevation = 0.5, -0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulator:
  width: 640
  height: 480
  vfov_degrees: 60
  min_elevation: -0.5
  max_elevation: 0.5
  rendering: false
  dataset_path: "/data/matterport"
  nav_graph_path: "/data/connectivity"
  seed: 42

episode:
  scan_id: "17DRP5sb8fy"
  viewpoint_id: "10c252c90fa24ef3b698c6f54d984c5c"
  heading: 1.5
  steps: 25

output:
  frames_dir: "out"
  prefix: "run"

logging:
  level: "debug"
  log_file: "sim.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Simulator.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.Simulator.Width)
	}
	if cfg.Simulator.Height != 480 {
		t.Errorf("expected height 480, got %d", cfg.Simulator.Height)
	}
	if cfg.Simulator.VFOVDegrees != 60 {
		t.Errorf("expected vfov 60, got %v", cfg.Simulator.VFOVDegrees)
	}
	if cfg.Simulator.Rendering {
		t.Error("expected rendering to be false")
	}
	if cfg.Simulator.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Simulator.Seed)
	}
	if cfg.Simulator.NavGraphPath != "/data/connectivity" {
		t.Errorf("expected nav graph path /data/connectivity, got %s", cfg.Simulator.NavGraphPath)
	}

	if cfg.Episode.ScanID != "17DRP5sb8fy" {
		t.Errorf("expected scan 17DRP5sb8fy, got %s", cfg.Episode.ScanID)
	}
	if cfg.Episode.Steps != 25 {
		t.Errorf("expected 25 steps, got %d", cfg.Episode.Steps)
	}
	if cfg.Output.FramesDir != "out" {
		t.Errorf("expected frames dir 'out', got %s", cfg.Output.FramesDir)
	}

	// Sections not present in the file keep their defaults.
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Batch.Workers)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sim.log" {
		t.Errorf("expected log file 'sim.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
simulator:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("simulator:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "headless flag",
			setup: func() { *flagHeadless = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulator.Rendering {
					t.Error("expected rendering disabled with headless flag")
				}
			},
			teardown: func() { *flagHeadless = false },
		},
		{
			name: "resolution and fov flags",
			setup: func() {
				*flagWidth = 640
				*flagHeight = 480
				*flagVFOV = 60
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulator.Width != 640 || cfg.Simulator.Height != 480 {
					t.Errorf("expected 640x480, got %dx%d", cfg.Simulator.Width, cfg.Simulator.Height)
				}
				if cfg.Simulator.VFOVDegrees != 60 {
					t.Errorf("expected vfov 60, got %v", cfg.Simulator.VFOVDegrees)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
				*flagVFOV = 0
			},
		},
		{
			name: "episode flags",
			setup: func() {
				*flagScan = "scanA"
				*flagViewpoint = "vp1"
				*flagSteps = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Episode.ScanID != "scanA" || cfg.Episode.ViewpointID != "vp1" {
					t.Errorf("expected scanA/vp1, got %s/%s", cfg.Episode.ScanID, cfg.Episode.ViewpointID)
				}
				if cfg.Episode.Steps != 0 {
					t.Errorf("expected 0 steps, got %d", cfg.Episode.Steps)
				}
			},
			teardown: func() {
				*flagScan = ""
				*flagViewpoint = ""
				*flagSteps = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulator:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Simulator.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Simulator.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Simulator.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Simulator.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("simulator:\n  max_elevation: 2.0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error for out-of-range elevation limit")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Episode.ScanID = "scanB"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Episode.ScanID != "scanB" {
		t.Errorf("expected scanB after reload, got %s", loaded.Episode.ScanID)
	}
}

func TestWriteRequested(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "in.yaml")
	if err := os.WriteFile(configPath, []byte("simulator:\n  height: 600\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	outPath := filepath.Join(tmpDir, "out", "merged.yaml")

	*flagConfig = configPath
	*flagWidth = 800
	*flagWriteConfig = outPath
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagWriteConfig = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	path, err := cfg.WriteRequested()
	if err != nil {
		t.Fatalf("WriteRequested failed: %v", err)
	}
	if path != outPath {
		t.Fatalf("wrote %q, want %q", path, outPath)
	}

	merged := Default()
	if err := loadFromFile(merged, outPath); err != nil {
		t.Fatalf("failed to reload merged config: %v", err)
	}
	if merged.Simulator.Width != 800 || merged.Simulator.Height != 600 {
		t.Errorf("merged resolution = %dx%d, want 800x600", merged.Simulator.Width, merged.Simulator.Height)
	}
}

func TestWriteRequestedWithoutFlag(t *testing.T) {
	path, err := Default().WriteRequested()
	if err != nil || path != "" {
		t.Errorf("WriteRequested() = %q, %v; want nothing written", path, err)
	}
}
