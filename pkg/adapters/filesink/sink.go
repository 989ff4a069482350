// Package filesink provides a frame sink that dumps captured frames
// to JPEG files, for inspecting what the pipeline actually saw.
package filesink

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"path/filepath"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Sink saves frames under a base directory.
type Sink struct {
	baseDir string
	quality int
	fs      ports.FileSystem
}

// New creates a new file sink. Quality outside 1..100 falls back to 85.
func New(baseDir string, quality int, fs ports.FileSystem) *Sink {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Sink{
		baseDir: baseDir,
		quality: quality,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame writes one frame as frames/frame-NNNNNN.jpg.
func (s *Sink) SaveFrame(index int64, frame *media.FrameBuffer) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.ToImage(), &jpeg.Options{Quality: s.quality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("frame-%06d.jpg", index))
	return s.fs.WriteFile(path, buf.Bytes())
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
