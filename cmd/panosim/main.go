// Package main runs a navigation episode and saves what the agent sees.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panosim/internal/backend/glbackend"
	"github.com/Faultbox/panosim/internal/batch"
	"github.com/Faultbox/panosim/internal/config"
	"github.com/Faultbox/panosim/internal/frame"
	"github.com/Faultbox/panosim/internal/logger"
	"github.com/Faultbox/panosim/internal/sim"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Panorama Navigation Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path, err := cfg.WriteRequested(); err != nil {
		logger.Error("config write failed", zap.Error(err))
		os.Exit(1)
	} else if path != "" {
		logger.Info("config written", zap.String("path", path))
		return
	}

	if cfg.Episode.ScanID == "" {
		logger.Error("no scan given; set episode.scan_id or pass --scan")
		os.Exit(1)
	}

	if cfg.Batch.Size > 1 {
		err = runBatch(cfg)
	} else {
		err = runEpisode(cfg)
	}
	if err != nil {
		logger.Error("episode failed", zap.Error(err))
		os.Exit(1)
	}
}

func simConfig(cfg *config.Config) sim.Config {
	s := cfg.Simulator
	return sim.Config{
		Width:            s.Width,
		Height:           s.Height,
		VFOV:             s.VFOVDegrees,
		MinElevation:     s.MinElevation,
		MaxElevation:     s.MaxElevation,
		RenderingEnabled: s.Rendering,
		DatasetPath:      s.DatasetPath,
		NavGraphPath:     s.NavGraphPath,
		Seed:             uint64(s.Seed),
	}
}

func walkRand(cfg *config.Config) *rand.Rand {
	seed := uint64(cfg.Simulator.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, 1))
}

// randomAction picks a navigable viewpoint and a heading change of up to
// 45 degrees either way.
func randomAction(rng *rand.Rand, st sim.State) batch.Action {
	return batch.Action{
		Index:   rng.IntN(len(st.Navigable)),
		Heading: (rng.Float64() - 0.5) * batch.TurnStep * 3,
	}
}

// runEpisode drives a single simulator on a random walk.
func runEpisode(cfg *config.Config) error {
	s := sim.New(simConfig(cfg))
	if cfg.Simulator.Rendering {
		s.SetBackendFactory(glbackend.New)
	}
	defer s.Close()

	var frames *frame.Writer
	if cfg.Output.FramesDir != "" && cfg.Simulator.Rendering {
		frames = frame.NewWriter(cfg.Output.FramesDir, cfg.Output.Prefix)
	}
	save := func() error {
		if frames == nil {
			return nil
		}
		st := s.State()
		path, err := frames.Write(st.Frame, st.ScanID, st.Location.ID, st.Step)
		if err != nil {
			return err
		}
		logger.Debug("frame saved", zap.String("path", path))
		return nil
	}

	ep := cfg.Episode
	if err := s.StartEpisode(ep.ScanID, ep.ViewpointID, ep.Heading, ep.Elevation); err != nil {
		return err
	}
	logger.Info("episode started",
		zap.String("scan", ep.ScanID),
		zap.String("viewpoint", s.State().Location.ID))
	if err := save(); err != nil {
		return err
	}

	rng := walkRand(cfg)
	for i := 0; i < ep.Steps; i++ {
		act := randomAction(rng, s.State())
		if err := s.Act(act.Index, act.Heading, act.Elevation); err != nil {
			return err
		}
		st := s.State()
		logger.Sugar.Infof("step %d: at %s heading %.2f, %d navigable",
			st.Step, st.Location.ID, st.Heading, len(st.Navigable)-1)
		if err := save(); err != nil {
			return err
		}
	}

	t := s.Timings()
	logger.Info("episode finished",
		zap.Duration("total", t.Total),
		zap.Duration("load", t.Load),
		zap.Duration("upload", t.Upload),
		zap.Duration("render", t.Render))
	return nil
}

// runBatch walks cfg.Batch.Size headless simulators side by side.
func runBatch(cfg *config.Config) error {
	if cfg.Simulator.Rendering {
		logger.Warn("rendering is not supported in batch mode; running headless")
	}
	b, err := batch.New(cfg.Batch.Size, cfg.Batch.Workers, func(slot int) (*sim.Simulator, error) {
		sc := simConfig(cfg)
		sc.RenderingEnabled = false
		if sc.Seed != 0 {
			sc.Seed += uint64(slot)
		}
		return sim.New(sc), nil
	})
	if err != nil {
		return err
	}
	defer b.Close()

	ctx := context.Background()
	ep := cfg.Episode
	specs := make([]batch.EpisodeSpec, b.Size())
	for i := range specs {
		specs[i] = batch.EpisodeSpec{ScanID: ep.ScanID, ViewpointID: ep.ViewpointID, Heading: ep.Heading, Elevation: ep.Elevation}
	}
	if err := b.StartEpisodes(ctx, specs); err != nil {
		return err
	}

	rng := walkRand(cfg)
	for step := 0; step < ep.Steps; step++ {
		actions := make([]batch.Action, b.Size())
		for i, st := range b.States() {
			actions[i] = randomAction(rng, st)
		}
		if err := b.Act(ctx, actions); err != nil {
			return err
		}
	}

	for i, st := range b.States() {
		logger.Info("slot finished",
			zap.Int("slot", i),
			zap.String("viewpoint", st.Location.ID),
			zap.Int("step", st.Step))
	}
	return nil
}
