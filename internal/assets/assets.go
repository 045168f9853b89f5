// Package assets decodes panorama imagery from a dataset directory.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/Faultbox/panosim/internal/backend"
)

// skyboxIndex maps cubemap faces to the skybox image numbers used on disk.
var skyboxIndex = [backend.FaceCount]int{
	backend.FacePosX: 2,
	backend.FaceNegX: 4,
	backend.FacePosY: 0,
	backend.FaceNegY: 5,
	backend.FacePosZ: 1,
	backend.FaceNegZ: 3,
}

// SkyboxLoader reads the six skybox JPEGs of a viewpoint from
// {Root}/v1/scans/{scan}/matterport_skybox_images/.
type SkyboxLoader struct {
	Root string
}

// NewSkyboxLoader creates a loader for the given dataset root.
func NewSkyboxLoader(root string) *SkyboxLoader {
	return &SkyboxLoader{Root: root}
}

// Dir returns the skybox directory of a scan.
func (l *SkyboxLoader) Dir(scanID string) string {
	return filepath.Join(l.Root, "v1", "scans", scanID, "matterport_skybox_images")
}

// FacePath returns the image path of one face of a viewpoint.
func (l *SkyboxLoader) FacePath(scanID, viewpointID string, face backend.Face) string {
	name := fmt.Sprintf("%s_skybox%d_sami.jpg", viewpointID, skyboxIndex[face])
	return filepath.Join(l.Dir(scanID), name)
}

// LoadFaces decodes all six faces. Faces that differ in size from the +X
// face are resampled to match, since a cubemap needs equal square faces.
func (l *SkyboxLoader) LoadFaces(scanID, viewpointID string) (backend.Faces, error) {
	var faces backend.Faces
	for f := range faces {
		path := l.FacePath(scanID, viewpointID, backend.Face(f))
		img, err := decodeFile(path)
		if err != nil {
			return backend.Faces{}, err
		}
		faces[f] = img
	}

	bounds := faces[backend.FacePosX].Bounds()
	for f, img := range faces {
		if img.Bounds().Size() != bounds.Size() {
			faces[f] = resize(img, bounds)
		}
	}
	return faces, nil
}

func decodeFile(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return toRGBA(img), nil
}

// toRGBA converts img to a tightly packed RGBA image with origin (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func resize(img *image.RGBA, bounds image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
