package assets

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/panosim/internal/backend"
)

func writeJPEG(t *testing.T, path string, size int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func writeSkybox(t *testing.T, l *SkyboxLoader, scan, vp string, size int) {
	t.Helper()
	for f := 0; f < backend.FaceCount; f++ {
		writeJPEG(t, l.FacePath(scan, vp, backend.Face(f)), size, color.Gray{Y: uint8(40 * f)})
	}
}

func TestFacePath(t *testing.T) {
	l := NewSkyboxLoader("/data")
	tests := []struct {
		face backend.Face
		want string
	}{
		{backend.FacePosX, "vp_skybox2_sami.jpg"},
		{backend.FaceNegX, "vp_skybox4_sami.jpg"},
		{backend.FacePosY, "vp_skybox0_sami.jpg"},
		{backend.FaceNegY, "vp_skybox5_sami.jpg"},
		{backend.FacePosZ, "vp_skybox1_sami.jpg"},
		{backend.FaceNegZ, "vp_skybox3_sami.jpg"},
	}
	for _, tt := range tests {
		got := l.FacePath("scan", "vp", tt.face)
		want := filepath.Join("/data", "v1", "scans", "scan", "matterport_skybox_images", tt.want)
		if got != want {
			t.Errorf("FacePath(%d) = %s, want %s", tt.face, got, want)
		}
	}
}

func TestLoadFaces(t *testing.T) {
	l := NewSkyboxLoader(t.TempDir())
	writeSkybox(t, l, "scan", "vp", 8)

	faces, err := l.LoadFaces("scan", "vp")
	if err != nil {
		t.Fatalf("LoadFaces failed: %v", err)
	}
	for i, f := range faces {
		if f == nil {
			t.Fatalf("face %d is nil", i)
		}
		if f.Bounds() != image.Rect(0, 0, 8, 8) {
			t.Errorf("face %d bounds = %v, want 8x8", i, f.Bounds())
		}
		if f.Stride != 4*8 {
			t.Errorf("face %d stride = %d, want 32", i, f.Stride)
		}
	}
}

func TestLoadFacesResizesMismatched(t *testing.T) {
	l := NewSkyboxLoader(t.TempDir())
	writeSkybox(t, l, "scan", "vp", 8)
	writeJPEG(t, l.FacePath("scan", "vp", backend.FaceNegZ), 16, color.White)

	faces, err := l.LoadFaces("scan", "vp")
	if err != nil {
		t.Fatalf("LoadFaces failed: %v", err)
	}
	if got := faces[backend.FaceNegZ].Bounds(); got != image.Rect(0, 0, 8, 8) {
		t.Errorf("mismatched face bounds = %v, want 8x8", got)
	}
}

func TestLoadFacesMissing(t *testing.T) {
	l := NewSkyboxLoader(t.TempDir())
	writeSkybox(t, l, "scan", "vp", 4)
	if err := os.Remove(l.FacePath("scan", "vp", backend.FacePosZ)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, err := l.LoadFaces("scan", "vp")
	if err == nil {
		t.Fatal("expected error for missing face")
	}
	if !strings.Contains(err.Error(), "skybox1") {
		t.Errorf("error should name the missing face, got %v", err)
	}
}

func TestLoadFacesCorrupt(t *testing.T) {
	l := NewSkyboxLoader(t.TempDir())
	writeSkybox(t, l, "scan", "vp", 4)
	if err := os.WriteFile(l.FacePath("scan", "vp", backend.FaceNegY), []byte("not a jpeg"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := l.LoadFaces("scan", "vp"); err == nil {
		t.Fatal("expected error for corrupt face")
	}
}
