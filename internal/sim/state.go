package sim

import (
	"image"
	"time"
)

// Phase is the lifecycle stage of a Simulator.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseReady
	PhaseInEpisode
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseReady:
		return "ready"
	case PhaseInEpisode:
		return "in-episode"
	default:
		return "unknown"
	}
}

// State is a snapshot of the agent after the latest episode start or
// action. Navigable[0] is always Location.
type State struct {
	// Frame is the latest view, top row first. It is all zero when
	// rendering is disabled and nil before the first episode.
	Frame     *image.RGBA
	ScanID    string
	Location  Viewpoint
	Navigable []Viewpoint
	Heading   float64
	Elevation float64
	Step      int
}

// Timings accumulates time spent in each stage since the simulator was
// created. They are for profiling only.
type Timings struct {
	Total  time.Duration
	Load   time.Duration // graph loading
	Upload time.Duration // panorama decode and upload
	Render time.Duration
}
