package render

import (
	"image"
	"image/color"
	gomath "math"
	"testing"

	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/internal/backend/membackend"
	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/pkg/math"
)

func uploadSolid(t *testing.T, b backend.Backend, c color.RGBA) backend.TextureID {
	t.Helper()
	var faces backend.Faces
	for i := range faces {
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = c.R, c.G, c.B, c.A
		}
		faces[i] = img
	}
	id, err := b.UploadCubemap(faces)
	if err != nil {
		t.Fatalf("UploadCubemap failed: %v", err)
	}
	return id
}

func TestFlip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(y), A: 255})
		}
	}
	Flip(img)
	for y := 0; y < 3; y++ {
		if got := img.RGBAAt(1, y).R; got != uint8(2-y) {
			t.Errorf("row %d R = %d, want %d", y, got, 2-y)
		}
	}
}

func TestBlankFrame(t *testing.T) {
	img := BlankFrame(4, 3)
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	for i, p := range img.Pix {
		if p != 0 {
			t.Fatalf("pixel byte %d = %d, want 0", i, p)
		}
	}
}

func TestRender(t *testing.T) {
	b := membackend.New(4, 3)
	green := color.RGBA{G: 200, A: 255}
	loc := &navgraph.Location{ID: "a", Rotation: math.Scale(1, 1, 1), Texture: uploadSolid(t, b, green)}

	br := NewBridge(b, 4, 3, 45)
	img, err := br.Render(loc, 0.5, 0.1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The backend marks its first row red; after the flip it is the last.
	if got := img.RGBAAt(0, 2); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom row = %v, want red marker", got)
	}
	if got := img.RGBAAt(0, 0); got != green {
		t.Errorf("top row = %v, want %v", got, green)
	}

	if len(b.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(b.Draws))
	}
	call := b.Draws[0]
	if call.Texture != loc.Texture {
		t.Errorf("texture = %d, want %d", call.Texture, loc.Texture)
	}
	if call.Model != math.Scale(CubeScale, CubeScale, CubeScale) {
		t.Errorf("model = %v, want scale only", call.Model)
	}
	if call.View != View(0.5, 0.1) {
		t.Errorf("view mismatch")
	}
	if call.Projection != br.Projection() {
		t.Errorf("projection mismatch")
	}
}

func TestRenderMissingTexture(t *testing.T) {
	b := membackend.New(4, 3)
	br := NewBridge(b, 4, 3, 45)
	if _, err := br.Render(&navgraph.Location{ID: "a", Rotation: math.Scale(1, 1, 1)}, 0, 0); err == nil {
		t.Fatal("expected error for unbound texture")
	}
}

func TestViewLooksAlongHeading(t *testing.T) {
	// At zero elevation the camera looks along -Z in eye space. Heading 0
	// should map world +Y there, and heading Pi/2 world +X.
	tests := []struct {
		heading float64
		world   [3]float32
	}{
		{0, [3]float32{0, 1, 0}},
		{gomath.Pi / 2, [3]float32{1, 0, 0}},
		{gomath.Pi, [3]float32{0, -1, 0}},
	}
	for _, tt := range tests {
		eye := View(tt.heading, 0).TransformDirection(tt.world)
		if gomath.Abs(float64(eye[2])+1) > 1e-5 {
			t.Errorf("heading %.2f: %v maps to %v, want (0,0,-1)", tt.heading, tt.world, eye)
		}
	}
}
