// Package membackend is an in-memory rendering backend. It keeps uploaded
// cubemaps on the heap and "draws" by filling the frame with the average
// color of the +X face, which is enough to tell panoramas apart in tests
// and headless runs.
package membackend

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/pkg/math"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("membackend: closed")

// DrawCall records the arguments of one Draw.
type DrawCall struct {
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
	Texture    backend.TextureID
}

// Backend implements backend.Backend in memory.
type Backend struct {
	width, height int

	next     backend.TextureID
	textures map[backend.TextureID]backend.Faces
	closed   bool

	// Uploads counts successful UploadCubemap calls.
	Uploads int
	// Draws records every Draw call in order.
	Draws []DrawCall
}

// New creates a backend rendering at the given resolution.
func New(width, height int) *Backend {
	return &Backend{
		width:    width,
		height:   height,
		textures: make(map[backend.TextureID]backend.Faces),
	}
}

// Factory adapts New to backend.Factory.
func Factory(width, height int) (backend.Backend, error) {
	return New(width, height), nil
}

// UploadCubemap stores the faces and returns a fresh handle.
func (b *Backend) UploadCubemap(faces backend.Faces) (backend.TextureID, error) {
	if b.closed {
		return 0, ErrClosed
	}
	for i, f := range faces {
		if f == nil {
			return 0, fmt.Errorf("face %d is nil", i)
		}
	}
	b.next++
	b.textures[b.next] = faces
	b.Uploads++
	return b.next, nil
}

// IsTexture reports whether id names a live texture.
func (b *Backend) IsTexture(id backend.TextureID) bool {
	_, ok := b.textures[id]
	return ok
}

// DeleteTexture releases id. Unknown ids are ignored.
func (b *Backend) DeleteTexture(id backend.TextureID) {
	delete(b.textures, id)
}

// Live returns the number of live textures.
func (b *Backend) Live() int {
	return len(b.textures)
}

// Draw fills a frame with the mean color of the texture's +X face.
func (b *Backend) Draw(projection, view, model math.Mat4, tex backend.TextureID) (*image.RGBA, error) {
	if b.closed {
		return nil, ErrClosed
	}
	faces, ok := b.textures[tex]
	if !ok {
		return nil, fmt.Errorf("texture %d not bound", tex)
	}
	b.Draws = append(b.Draws, DrawCall{Projection: projection, View: view, Model: model, Texture: tex})

	fill := meanColor(faces[backend.FacePosX])
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = fill.R
		img.Pix[i+1] = fill.G
		img.Pix[i+2] = fill.B
		img.Pix[i+3] = fill.A
	}
	// Mark the bottom row so callers can verify the vertical flip.
	if b.height > 0 {
		for x := 0; x < b.width; x++ {
			img.SetRGBA(x, 0, color.RGBA{R: 255, A: 255})
		}
	}
	return img, nil
}

// Close drops every texture. It is safe to call more than once.
func (b *Backend) Close() error {
	b.textures = make(map[backend.TextureID]backend.Faces)
	b.closed = true
	return nil
}

func meanColor(img *image.RGBA) color.RGBA {
	var r, g, bl, n int
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r += int(img.Pix[i])
		g += int(img.Pix[i+1])
		bl += int(img.Pix[i+2])
		n++
	}
	if n == 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 255}
}
