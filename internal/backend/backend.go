// Package backend defines the contract between the simulator and a
// rendering backend that owns textures and rasterizes panoramas.
package backend

import (
	"image"

	"github.com/Faultbox/panosim/pkg/math"
)

// TextureID is an opaque backend texture handle. Zero means no texture.
type TextureID uint32

// Face indexes a cubemap face.
type Face int

// Cubemap faces in upload order.
const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// FaceCount is the number of faces in a cubemap.
const FaceCount = 6

// Faces holds the six decoded images of one panorama, indexed by Face.
type Faces [FaceCount]*image.RGBA

// Backend rasterizes a textured panorama cube.
//
// Draw returns pixels in the backend's native row order, bottom row first.
type Backend interface {
	UploadCubemap(faces Faces) (TextureID, error)
	IsTexture(id TextureID) bool
	DeleteTexture(id TextureID)
	Draw(projection, view, model math.Mat4, tex TextureID) (*image.RGBA, error)
	Close() error
}

// Factory creates a backend rendering at the given resolution.
type Factory func(width, height int) (Backend, error)
