// Package render turns a camera pose at a location into backend draw calls
// and reads the frame back in top-row-first order.
package render

import (
	"fmt"
	"image"
	gomath "math"

	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/pkg/math"
)

// Projection planes and the world size of the panorama cube.
const (
	NearPlane = 0.1
	FarPlane  = 100.0
	CubeScale = 10.0
)

// Bridge renders panoramas through a backend at a fixed resolution and
// field of view.
type Bridge struct {
	backend       backend.Backend
	width, height int
	projection    math.Mat4
	scale         math.Mat4
}

// NewBridge creates a bridge. vfovDeg is the vertical field of view in
// degrees.
func NewBridge(b backend.Backend, width, height int, vfovDeg float64) *Bridge {
	aspect := float32(width) / float32(height)
	fov := float32(vfovDeg * gomath.Pi / 180)
	return &Bridge{
		backend:    b,
		width:      width,
		height:     height,
		projection: math.Perspective(fov, aspect, NearPlane, FarPlane),
		scale:      math.Scale(CubeScale, CubeScale, CubeScale),
	}
}

// Projection returns the projection matrix.
func (br *Bridge) Projection() math.Mat4 {
	return br.projection
}

// Model returns the panorama cube transform for loc.
func (br *Bridge) Model(loc *navgraph.Location) math.Mat4 {
	return loc.Rotation.Mul(br.scale)
}

// View returns the camera transform. Elevation tilts about X from the
// straight-down cube frame, then heading turns about the vertical axis.
func View(heading, elevation float64) math.Mat4 {
	tilt := math.RotateX(float32(-gomath.Pi/2 - elevation))
	return tilt.Mul(math.RotateZ(float32(heading)))
}

// Render draws loc's panorama and returns the frame with the top row first.
// loc must already have a texture.
func (br *Bridge) Render(loc *navgraph.Location, heading, elevation float64) (*image.RGBA, error) {
	img, err := br.backend.Draw(br.projection, View(heading, elevation), br.Model(loc), loc.Texture)
	if err != nil {
		return nil, fmt.Errorf("drawing %s: %w", loc.ID, err)
	}
	if img.Bounds().Dx() != br.width || img.Bounds().Dy() != br.height {
		return nil, fmt.Errorf("backend returned %v frame, want %dx%d", img.Bounds().Size(), br.width, br.height)
	}
	Flip(img)
	return img, nil
}

// Flip reverses the row order of img in place.
func Flip(img *image.RGBA) {
	b := img.Bounds()
	rowSize := b.Dx() * 4
	tmp := make([]byte, rowSize)
	for top, bottom := 0, b.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[top*img.Stride : top*img.Stride+rowSize]
		u := img.Pix[bottom*img.Stride : bottom*img.Stride+rowSize]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// BlankFrame returns an all-zero frame, used when rendering is disabled.
func BlankFrame(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}
