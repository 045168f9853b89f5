// Package sim runs navigation episodes: an agent steps between panorama
// viewpoints of a scan while turning its camera, and sees a rendered frame
// after every move.
//
// A Simulator is not safe for concurrent use. Run one per goroutine; see
// package batch.
package sim

import (
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panosim/internal/assets"
	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/internal/backend/membackend"
	"github.com/Faultbox/panosim/internal/engine/camera"
	"github.com/Faultbox/panosim/internal/logger"
	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/internal/render"
	"github.com/Faultbox/panosim/internal/texcache"
)

// Config holds the settings a Simulator starts from.
type Config struct {
	Width, Height int
	VFOV          float64 // vertical field of view, degrees
	MinElevation  float64 // radians, in (-Pi/2, 0)
	MaxElevation  float64 // radians, in (0, Pi/2)

	RenderingEnabled bool
	DatasetPath      string
	NavGraphPath     string

	// Seed seeds random episode starts. Zero seeds from the clock.
	Seed uint64
}

// DefaultConfig returns a 320x240, 45 degree configuration with rendering on.
func DefaultConfig() Config {
	return Config{
		Width:            320,
		Height:           240,
		VFOV:             45,
		MinElevation:     camera.DefaultMinElevation,
		MaxElevation:     camera.DefaultMaxElevation,
		RenderingEnabled: true,
		DatasetPath:      "./data",
		NavGraphPath:     "./connectivity",
	}
}

// Simulator owns one scan's graph, its texture cache and the agent state.
type Simulator struct {
	cfg    Config
	phase  Phase
	closed bool

	newBackend backend.Factory
	decoder    texcache.Decoder
	rng        *rand.Rand
	log        *zap.Logger

	backend backend.Backend
	cache   *texcache.Cache
	bridge  *render.Bridge

	cam       camera.PanoramaCamera
	scanID    string
	locs      []navgraph.Location
	current   int
	navigable []Viewpoint
	step      int
	frame     *image.RGBA

	timings Timings
}

// New creates an uninitialized simulator. Invalid elevation limits in cfg
// fall back to the defaults.
func New(cfg Config) *Simulator {
	s := &Simulator{
		cfg:        cfg,
		newBackend: membackend.Factory,
		log:        logger.Named("sim"),
		cam:        *camera.NewPanoramaCamera(),
	}
	if !s.SetElevationLimits(cfg.MinElevation, cfg.MaxElevation) {
		s.cfg.MinElevation = s.cam.MinElevation
		s.cfg.MaxElevation = s.cam.MaxElevation
	}
	s.rng = newRand(cfg.Seed)
	return s
}

// newRand returns a PCG generator. Seed zero seeds from the clock.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SetResolution sets the frame size. Ignored after initialization.
func (s *Simulator) SetResolution(width, height int) {
	if s.initialized("resolution") {
		return
	}
	s.cfg.Width, s.cfg.Height = width, height
}

// SetFieldOfView sets the vertical field of view in degrees. Ignored after
// initialization.
func (s *Simulator) SetFieldOfView(degrees float64) {
	if s.initialized("field of view") {
		return
	}
	s.cfg.VFOV = degrees
}

// SetRenderingEnabled turns rendering on or off. Ignored after
// initialization.
func (s *Simulator) SetRenderingEnabled(enabled bool) {
	if s.initialized("rendering") {
		return
	}
	s.cfg.RenderingEnabled = enabled
}

// SetDatasetPath sets the panorama dataset root. Ignored after
// initialization.
func (s *Simulator) SetDatasetPath(path string) {
	if s.initialized("dataset path") {
		return
	}
	s.cfg.DatasetPath = path
}

// SetGraphPath sets the connectivity directory used by later scan loads.
func (s *Simulator) SetGraphPath(path string) {
	s.cfg.NavGraphPath = path
}

// SetElevationLimits sets the camera elevation bounds. min must be in
// (-Pi/2, 0) and max in (0, Pi/2); otherwise the call is rejected and the
// previous limits are kept.
func (s *Simulator) SetElevationLimits(min, max float64) bool {
	if !s.cam.SetLimits(min, max) {
		return false
	}
	s.cfg.MinElevation, s.cfg.MaxElevation = min, max
	return true
}

// SetBackendFactory replaces the rendering backend. Ignored after
// initialization.
func (s *Simulator) SetBackendFactory(f backend.Factory) {
	if s.initialized("backend") {
		return
	}
	s.newBackend = f
}

// SetDecoder replaces the panorama decoder. Ignored after initialization.
func (s *Simulator) SetDecoder(d texcache.Decoder) {
	if s.initialized("decoder") {
		return
	}
	s.decoder = d
}

// SetRand replaces the source of random episode starts. A nil r restores
// a clock-seeded generator.
func (s *Simulator) SetRand(r *rand.Rand) {
	if r == nil {
		r = newRand(0)
	}
	s.rng = r
}

// SetLogger replaces the logger.
func (s *Simulator) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

func (s *Simulator) initialized(setting string) bool {
	if s.phase == PhaseUninitialized {
		return false
	}
	s.log.Warn("setting ignored after initialization", zap.String("setting", setting))
	return true
}

// Phase returns the lifecycle stage.
func (s *Simulator) Phase() Phase {
	return s.phase
}

// Init performs one-time setup: it creates the rendering backend when
// rendering is enabled. StartEpisode calls it implicitly. Calling Init
// again is a no-op.
func (s *Simulator) Init() error {
	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseUninitialized {
		return nil
	}
	if s.cfg.Width <= 0 || s.cfg.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", s.cfg.Width, s.cfg.Height)
	}
	if s.cfg.VFOV <= 0 || s.cfg.VFOV >= 180 {
		return fmt.Errorf("invalid field of view %v", s.cfg.VFOV)
	}

	if s.cfg.RenderingEnabled {
		b, err := s.newBackend(s.cfg.Width, s.cfg.Height)
		if err != nil {
			return fmt.Errorf("creating backend: %w", err)
		}
		if s.decoder == nil {
			s.decoder = assets.NewSkyboxLoader(s.cfg.DatasetPath)
		}
		s.backend = b
		s.cache = texcache.New(b, s.decoder, s.log.Named("texcache"))
		s.bridge = render.NewBridge(b, s.cfg.Width, s.cfg.Height, s.cfg.VFOV)
	}

	s.phase = PhaseReady
	s.log.Info("simulator initialized",
		zap.Int("width", s.cfg.Width),
		zap.Int("height", s.cfg.Height),
		zap.Float64("vfov", s.cfg.VFOV),
		zap.Bool("rendering", s.cfg.RenderingEnabled))
	return nil
}

// StartEpisode places the agent in scanID at viewpointID, or at a random
// included viewpoint when viewpointID is empty. Switching scans releases
// every cached texture of the old scan. On error the simulator keeps its
// previous state.
func (s *Simulator) StartEpisode(scanID, viewpointID string, heading, elevation float64) error {
	if err := s.Init(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { s.timings.Total += time.Since(start) }()

	locs := s.locs
	switching := scanID != s.scanID || s.locs == nil
	if switching {
		t := time.Now()
		loaded, err := navgraph.Load(s.cfg.NavGraphPath, scanID)
		s.timings.Load += time.Since(t)
		if err != nil {
			return err
		}
		locs = loaded
	}

	idx, err := s.resolveStart(locs, scanID, viewpointID)
	if err != nil {
		return err
	}

	cam := s.cam
	cam.SetHeading(heading)
	cam.SetElevation(elevation)

	frame, err := s.renderAt(scanID, locs, idx, cam)
	if err != nil {
		if switching && s.cache != nil {
			s.cache.Release(locs)
		}
		return err
	}

	if switching {
		if s.cache != nil && s.locs != nil {
			s.cache.Release(s.locs)
		}
		s.locs = locs
		s.scanID = scanID
		s.log.Info("scan loaded", zap.String("scan", scanID), zap.Int("locations", len(locs)))
	}
	s.cam = cam
	s.current = idx
	s.step = 0
	s.frame = frame
	s.refreshNavigable()
	s.phase = PhaseInEpisode

	s.log.Debug("episode started",
		zap.String("scan", scanID),
		zap.String("viewpoint", locs[idx].ID),
		zap.Float64("heading", cam.Heading),
		zap.Float64("elevation", cam.Elevation))
	return nil
}

func (s *Simulator) resolveStart(locs []navgraph.Location, scanID, viewpointID string) (int, error) {
	if viewpointID == "" {
		if len(locs) == 0 {
			return 0, fmt.Errorf("%w: scan %s", ErrNoIncludedViewpoints, scanID)
		}
		first := s.rng.IntN(len(locs))
		for k := 0; k < len(locs); k++ {
			i := (first + k) % len(locs)
			if locs[i].Included {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: scan %s", ErrNoIncludedViewpoints, scanID)
	}

	idx := navgraph.Index(locs, viewpointID)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s in scan %s", ErrUnknownViewpoint, viewpointID, scanID)
	}
	if !locs[idx].Included {
		return 0, fmt.Errorf("%w: %s in scan %s", ErrExcludedViewpoint, viewpointID, scanID)
	}
	return idx, nil
}

// Act moves the agent to Navigable[index] (0 stays put), then turns the
// camera by the given deltas. The step counter advances by one. On error
// the state is left unchanged.
func (s *Simulator) Act(index int, dHeading, dElevation float64) error {
	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseInEpisode || index < 0 || index >= len(s.navigable) {
		return fmt.Errorf("%w: index %d with %d navigable viewpoints", ErrInvalidAction, index, len(s.navigable))
	}
	start := time.Now()
	defer func() { s.timings.Total += time.Since(start) }()

	idx := s.navigable[index].Index
	cam := s.cam
	cam.Turn(dHeading, dElevation)

	frame, err := s.renderAt(s.scanID, s.locs, idx, cam)
	if err != nil {
		return err
	}

	s.current = idx
	s.cam = cam
	s.step++
	s.frame = frame
	s.refreshNavigable()

	s.log.Debug("action",
		zap.Int("step", s.step),
		zap.Int("index", index),
		zap.String("viewpoint", s.locs[idx].ID))
	return nil
}

// renderAt produces the frame seen from locs[idx] through cam, loading the
// panorama first if needed.
func (s *Simulator) renderAt(scanID string, locs []navgraph.Location, idx int, cam camera.PanoramaCamera) (*image.RGBA, error) {
	if !s.cfg.RenderingEnabled {
		return render.BlankFrame(s.cfg.Width, s.cfg.Height), nil
	}

	t := time.Now()
	err := s.cache.EnsureLoaded(scanID, &locs[idx])
	s.timings.Upload += time.Since(t)
	if err != nil {
		return nil, err
	}

	t = time.Now()
	frame, err := s.bridge.Render(&locs[idx], cam.Heading, cam.Elevation)
	s.timings.Render += time.Since(t)
	if err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	return frame, nil
}

func (s *Simulator) refreshNavigable() {
	aspect := float64(s.cfg.Width) / float64(s.cfg.Height)
	s.navigable = navigable(s.locs, s.current, s.cam.Heading, s.cam.Elevation, s.cfg.VFOV, aspect)
}

// State returns a snapshot of the agent. The frame is shared, not copied.
func (s *Simulator) State() State {
	st := State{
		Frame:     s.frame,
		ScanID:    s.scanID,
		Heading:   s.cam.Heading,
		Elevation: s.cam.Elevation,
		Step:      s.step,
	}
	if len(s.navigable) > 0 {
		st.Location = s.navigable[0]
		st.Navigable = append([]Viewpoint(nil), s.navigable...)
	}
	return st
}

// Graph returns the traversable graph of the loaded scan, or nil.
func (s *Simulator) Graph() *navgraph.Graph {
	if s.locs == nil {
		return nil
	}
	return navgraph.NewGraph(s.locs)
}

// Timings returns the accumulated stage durations.
func (s *Simulator) Timings() Timings {
	return s.timings
}

// Close releases every cached texture and the backend. Further episode
// calls fail with ErrClosed. Close is idempotent.
func (s *Simulator) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.cache != nil {
		s.cache.Release(s.locs)
	}
	if s.backend != nil {
		err = s.backend.Close()
	}
	s.locs = nil
	s.navigable = nil
	s.log.Info("simulator closed", zap.Duration("total", s.timings.Total))
	return err
}
