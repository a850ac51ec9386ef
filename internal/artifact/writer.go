// Package artifact persists campaign outputs (generated images, final
// reports) under the output directory and keeps a JSON manifest of what
// each run produced.
package artifact

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"adforge/internal/logging"
)

// DefaultDir is where campaign outputs land when no directory is configured.
const DefaultDir = "output"

// SavedImage describes an image persisted by the writer.
type SavedImage struct {
	Path     string  `json:"path"`
	Filename string  `json:"filename"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	SizeKB   float64 `json:"size_kb"`
}

// Writer saves campaign artifacts to disk. Filenames carry a timestamp so
// later runs never overwrite earlier ones.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer rooted at dir, falling back to DefaultDir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// SaveImage validates PNG data and writes it to
// <dir>/campaign_image_<timestamp>.png. Nothing is written when the data
// does not decode as a PNG.
func (w *Writer) SaveImage(data []byte) (SavedImage, error) {
	if len(data) == 0 {
		return SavedImage{}, fmt.Errorf("no image data")
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return SavedImage{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("campaign_image_%s.png", w.now().Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return SavedImage{}, fmt.Errorf("failed to write image: %w", err)
	}

	saved := SavedImage{
		Path:     path,
		Filename: filename,
		Width:    cfg.Width,
		Height:   cfg.Height,
		SizeKB:   float64(len(data)) / 1024,
	}
	logging.Artifact("image saved: %s (%dx%d, %.1f KB)", path, saved.Width, saved.Height, saved.SizeKB)
	return saved, nil
}

// SaveReport writes the final campaign report markdown to
// <dir>/campaign_report_<timestamp>.md and returns the path.
func (w *Writer) SaveReport(markdown string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("campaign_report_%s.md", w.now().Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	logging.Artifact("report saved: %s (%d bytes)", path, len(markdown))
	return path, nil
}
