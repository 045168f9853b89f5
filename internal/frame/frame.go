// Package frame saves rendered views as PNG files.
package frame

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Writer saves frames into one directory under a common prefix.
type Writer struct {
	dir    string
	prefix string
}

// NewWriter creates a writer. An empty dir writes to the working directory.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{
		dir:    dir,
		prefix: prefix,
	}
}

// Filename returns the path Write would use.
func (w *Writer) Filename(scanID, viewpointID string, step int) string {
	name := fmt.Sprintf("%s_%s_%04d_%s.png", w.prefix, scanID, step, viewpointID)
	if w.dir != "" {
		name = filepath.Join(w.dir, name)
	}
	return name
}

// Write encodes img as PNG and returns the file path.
func (w *Writer) Write(img *image.RGBA, scanID, viewpointID string, step int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no frame for step %d", step)
	}
	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := w.Filename(scanID, viewpointID, step)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
