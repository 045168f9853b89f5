// Package config handles simulator configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/panosim/internal/engine/camera"
)

// Config holds all simulator settings.
type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Episode   EpisodeConfig   `yaml:"episode"`
	Output    OutputConfig    `yaml:"output"`
	Batch     BatchConfig     `yaml:"batch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SimulatorConfig holds camera, rendering and dataset settings.
type SimulatorConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	VFOVDegrees  float64 `yaml:"vfov_degrees"`
	MinElevation float64 `yaml:"min_elevation"` // radians, in (-Pi/2, 0)
	MaxElevation float64 `yaml:"max_elevation"` // radians, in (0, Pi/2)
	Rendering    bool    `yaml:"rendering"`
	DatasetPath  string  `yaml:"dataset_path"`
	NavGraphPath string  `yaml:"nav_graph_path"`
	Seed         int64   `yaml:"seed"` // 0 seeds from the clock
}

// EpisodeConfig describes the episode the driver runs.
type EpisodeConfig struct {
	ScanID      string  `yaml:"scan_id"`
	ViewpointID string  `yaml:"viewpoint_id"` // empty picks a random start
	Heading     float64 `yaml:"heading"`
	Elevation   float64 `yaml:"elevation"`
	Steps       int     `yaml:"steps"`
}

// OutputConfig holds frame export settings.
type OutputConfig struct {
	FramesDir string `yaml:"frames_dir"` // empty disables export
	Prefix    string `yaml:"prefix"`
}

// BatchConfig holds batched simulation settings.
type BatchConfig struct {
	Size    int `yaml:"size"`
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			Width:        320,
			Height:       240,
			VFOVDegrees:  45,
			MinElevation: camera.DefaultMinElevation,
			MaxElevation: camera.DefaultMaxElevation,
			Rendering:    true,
			DatasetPath:  "./data",
			NavGraphPath: "./connectivity",
		},
		Episode: EpisodeConfig{
			Steps: 10,
		},
		Output: OutputConfig{
			Prefix: "frame",
		},
		Batch: BatchConfig{
			Size:    1,
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges that would otherwise surface as confusing
// rendering or navigation errors later.
func (c *Config) Validate() error {
	s := c.Simulator
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution %dx%d must be positive", s.Width, s.Height))
	}
	if s.VFOVDegrees <= 0 || s.VFOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("vfov_degrees %v must be in (0, 180)", s.VFOVDegrees))
	}
	if !camera.ValidLimits(s.MinElevation, s.MaxElevation) {
		errs = append(errs, fmt.Errorf("elevation limits [%v, %v] must lie in (-pi/2, 0) and (0, pi/2)",
			s.MinElevation, s.MaxElevation))
	}
	if c.Episode.Steps < 0 {
		errs = append(errs, fmt.Errorf("episode steps %d must not be negative", c.Episode.Steps))
	}
	if c.Batch.Size < 1 || c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch size %d and workers %d must be at least 1", c.Batch.Size, c.Batch.Workers))
	}
	return errors.Join(errs...)
}
