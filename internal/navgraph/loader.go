package navgraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"path/filepath"

	"github.com/Faultbox/panosim/pkg/math"
)

// ErrGraphLoad is wrapped by every error returned from Load and Parse.
var ErrGraphLoad = errors.New("navigation graph load failed")

// record is one node of a connectivity file.
type record struct {
	ImageID      string    `json:"image_id"`
	Included     bool      `json:"included"`
	Pose         []float32 `json:"pose"`
	Unobstructed []bool    `json:"unobstructed"`
}

// FilePath returns the connectivity file path for a scan.
func FilePath(graphDir, scanID string) string {
	return filepath.Join(graphDir, scanID+"_connectivity.json")
}

// Load reads and parses the connectivity file of a scan.
func Load(graphDir, scanID string) ([]Location, error) {
	path := FilePath(graphDir, scanID)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s, is scan id valid? %w", ErrGraphLoad, path, err)
	}
	defer f.Close()

	locs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return locs, nil
}

// Parse decodes a connectivity document.
func Parse(r io.Reader) ([]Location, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decoding: %w", ErrGraphLoad, err)
	}

	locs := make([]Location, len(records))
	for i, rec := range records {
		if len(rec.Pose) != 16 {
			return nil, fmt.Errorf("%w: node %d (%s): pose has %d values, want 16", ErrGraphLoad, i, rec.ImageID, len(rec.Pose))
		}
		if len(rec.Unobstructed) != len(records) {
			return nil, fmt.Errorf("%w: node %d (%s): unobstructed has %d flags, want %d",
				ErrGraphLoad, i, rec.ImageID, len(rec.Unobstructed), len(records))
		}

		rot, pos := splitPose(rec.Pose)
		locs[i] = Location{
			ID:           rec.ImageID,
			Included:     rec.Included,
			Rotation:     rot,
			Pos:          pos,
			Unobstructed: rec.Unobstructed,
		}
	}
	return locs, nil
}

// splitPose converts a row-major capture pose into a render-space rotation
// and a world position. Capture cameras look down +Z while the renderer
// looks down -Z, so the rotation is turned 180 degrees about X.
func splitPose(pose []float32) (math.Mat4, math.Vec3) {
	var rows [16]float32
	copy(rows[:], pose)
	m := math.FromRowMajor(rows)

	t := m.Column(3)
	pos := math.Vec3{X: t[0], Y: t[1], Z: t[2]}
	m = m.SetColumn(3, math.Vec4{0, 0, 0, 1})

	return m.Mul(math.RotateX(gomath.Pi)), pos
}
