package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless  = flag.Bool("headless", false, "Disable rendering")
	flagWidth     = flag.Int("width", 0, "Frame width")
	flagHeight    = flag.Int("height", 0, "Frame height")
	flagVFOV      = flag.Float64("vfov", 0, "Vertical field of view in degrees")
	flagDataset   = flag.String("dataset", "", "Dataset root directory")
	flagNavGraph  = flag.String("navgraph", "", "Navigation graph directory")
	flagScan      = flag.String("scan", "", "Scan id to load")
	flagViewpoint = flag.String("viewpoint", "", "Starting viewpoint id")
	flagSteps     = flag.Int("steps", -1, "Number of random actions to take")
	flagFrames    = flag.String("frames", "", "Directory to write frames to")
	flagSeed      = flag.Int64("seed", 0, "Random seed")

	flagWriteConfig = flag.String("write-config", "", "Write the merged config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config path, or "".
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeadless {
		cfg.Simulator.Rendering = false
	}
	if *flagWidth > 0 {
		cfg.Simulator.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Simulator.Height = *flagHeight
	}
	if *flagVFOV > 0 {
		cfg.Simulator.VFOVDegrees = *flagVFOV
	}
	if *flagDataset != "" {
		cfg.Simulator.DatasetPath = *flagDataset
	}
	if *flagNavGraph != "" {
		cfg.Simulator.NavGraphPath = *flagNavGraph
	}
	if *flagScan != "" {
		cfg.Episode.ScanID = *flagScan
	}
	if *flagViewpoint != "" {
		cfg.Episode.ViewpointID = *flagViewpoint
	}
	if *flagSteps >= 0 {
		cfg.Episode.Steps = *flagSteps
	}
	if *flagFrames != "" {
		cfg.Output.FramesDir = *flagFrames
	}
	if *flagSeed != 0 {
		cfg.Simulator.Seed = *flagSeed
	}
}
