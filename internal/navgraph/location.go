// Package navgraph loads a scan's navigation graph: one Location per
// captured panorama, with its pose and directed line-of-sight flags.
package navgraph

import (
	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/pkg/math"
)

// Location is a static graph node. Locations are stored in one slice per
// scan and referenced everywhere else by index; indices are only valid
// until the next scan is loaded.
type Location struct {
	ID       string
	Included bool

	// Rotation orients the panorama cube in render space. It carries no
	// translation.
	Rotation math.Mat4
	// Pos is the capture position in world space.
	Pos math.Vec3

	// Unobstructed[j] reports line of sight from this location to location
	// j. It is directed: the reverse flag may differ.
	Unobstructed []bool

	// Texture is the panorama cubemap handle, zero until first loaded.
	Texture backend.TextureID
}

// CanSee reports whether j is unobstructed from l.
func (l *Location) CanSee(j int) bool {
	return j >= 0 && j < len(l.Unobstructed) && l.Unobstructed[j]
}

// Index returns the index of the location with the given id, or -1.
func Index(locs []Location, id string) int {
	for i := range locs {
		if locs[i].ID == id {
			return i
		}
	}
	return -1
}

// AsymmetricPairs counts pairs (i, j), i < j, whose line-of-sight flags
// disagree between the two directions.
func AsymmetricPairs(locs []Location) int {
	n := 0
	for i := range locs {
		for j := i + 1; j < len(locs); j++ {
			if locs[i].CanSee(j) != locs[j].CanSee(i) {
				n++
			}
		}
	}
	return n
}
