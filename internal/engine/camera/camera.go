// Package camera holds the look direction of an agent standing inside a
// panorama: heading about the vertical axis and elevation above the
// horizon, both in radians.
package camera

import gomath "math"

const twoPi = 2 * gomath.Pi

// Default elevation limits, about 54 degrees up or down.
const (
	DefaultMinElevation = -0.94
	DefaultMaxElevation = 0.94
)

// PanoramaCamera looks out from the center of a panorama cube.
// Heading grows clockwise when viewed from above; 0 faces +Y.
type PanoramaCamera struct {
	Heading   float64 // [0, 2*Pi)
	Elevation float64 // [MinElevation, MaxElevation]

	// Constraints
	MinElevation float64
	MaxElevation float64
}

// NewPanoramaCamera creates a level camera facing +Y with default limits.
func NewPanoramaCamera() *PanoramaCamera {
	return &PanoramaCamera{
		MinElevation: DefaultMinElevation,
		MaxElevation: DefaultMaxElevation,
	}
}

// SetHeading sets the heading, wrapped into [0, 2*Pi).
func (c *PanoramaCamera) SetHeading(heading float64) {
	c.Heading = NormalizeHeading(heading)
}

// SetElevation sets the elevation, clamped to the camera limits. NaN keeps
// the current elevation.
func (c *PanoramaCamera) SetElevation(elevation float64) {
	if gomath.IsNaN(elevation) {
		elevation = c.Elevation
	}
	c.Elevation = clamp(elevation, c.MinElevation, c.MaxElevation)
}

// Turn applies heading and elevation deltas.
func (c *PanoramaCamera) Turn(dHeading, dElevation float64) {
	c.SetHeading(c.Heading + dHeading)
	c.SetElevation(c.Elevation + dElevation)
}

// SetLimits replaces the elevation limits if min is in (-Pi/2, 0) and max
// is in (0, Pi/2). Out-of-range limits are rejected and the previous ones
// kept. The current elevation is re-clamped on success.
func (c *PanoramaCamera) SetLimits(min, max float64) bool {
	if !ValidLimits(min, max) {
		return false
	}
	c.MinElevation = min
	c.MaxElevation = max
	c.SetElevation(c.Elevation)
	return true
}

// ValidLimits reports whether min and max are acceptable elevation limits.
func ValidLimits(min, max float64) bool {
	return min < 0 && min > -gomath.Pi/2 && max > 0 && max < gomath.Pi/2
}

// NormalizeHeading wraps any finite angle into [0, 2*Pi). Negative
// headings wrap upward rather than truncating toward zero.
func NormalizeHeading(h float64) float64 {
	if gomath.IsNaN(h) || gomath.IsInf(h, 0) {
		return 0
	}
	// Reduce huge inputs first so the loops below stay short.
	if gomath.Abs(h) > 64*twoPi {
		h = gomath.Mod(h, twoPi)
	}
	for h < 0 {
		h += twoPi
	}
	for h >= twoPi {
		h -= twoPi
	}
	return h
}

// RelativeHeading returns target-heading wrapped into (-Pi, Pi]; positive
// means the target is to the right.
func RelativeHeading(heading, target float64) float64 {
	d := NormalizeHeading(target - heading)
	if d > gomath.Pi {
		d -= twoPi
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
