package sim

import (
	gomath "math"

	"github.com/Faultbox/panosim/internal/engine/camera"
	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/pkg/math"
)

// Viewpoint is a location the agent can reach this step, seen from the
// agent's current position and camera.
type Viewpoint struct {
	ID    string
	Index int // into the scan's location list
	Pos   math.Vec3

	// RelHeading is the heading change that faces this viewpoint, in
	// (-Pi, Pi]. RelElevation is the elevation change that looks at it.
	RelHeading   float64
	RelElevation float64
	// Distance is the straight-line distance in meters.
	Distance float64
}

// Navigable returns the viewpoints reachable from locs[idx] with the given
// heading. The current location is always first, followed by every
// included location that idx can see and that lies inside the horizontal
// field of view, in index order. vfovDeg is the vertical field of view in
// degrees and aspect is width/height. RelElevation assumes a level camera.
func Navigable(locs []navgraph.Location, idx int, heading, vfovDeg, aspect float64) []Viewpoint {
	return navigable(locs, idx, heading, 0, vfovDeg, aspect)
}

// navigable is Navigable for a camera at the given elevation. Elevation
// changes RelElevation only, never membership.
func navigable(locs []navgraph.Location, idx int, heading, elevation, vfovDeg, aspect float64) []Viewpoint {
	here := &locs[idx]
	out := []Viewpoint{{ID: here.ID, Index: idx, Pos: here.Pos}}

	h := gomath.Pi/2 - heading
	forward := math.Vec2{X: float32(gomath.Cos(h)), Y: float32(gomath.Sin(h))}
	cosHalfHFOV := gomath.Cos(vfovDeg * gomath.Pi / 180 * aspect / 2)

	for i := range locs {
		if i == idx || !here.CanSee(i) || !locs[i].Included {
			continue
		}
		offset := locs[i].Pos.Sub(here.Pos)
		flat := offset.XY()
		// Co-located viewpoints have no direction and are never in view.
		if flat.Length() == 0 {
			continue
		}
		dir := flat.Normalize()
		if float64(dir.Dot(forward)) < cosHalfHFOV {
			continue
		}
		out = append(out, Viewpoint{
			ID:           locs[i].ID,
			Index:        i,
			Pos:          locs[i].Pos,
			RelHeading:   camera.RelativeHeading(heading, dir.Angle()),
			RelElevation: gomath.Atan2(float64(offset.Z), float64(flat.Length())) - elevation,
			Distance:     float64(offset.Length()),
		})
	}
	return out
}
