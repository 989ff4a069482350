// Package mp4encoder provides a pure-Go video encoder that stores
// Motion JPEG frames in a fragmented MP4 container. It has no external
// process or cgo dependency, which makes it the always-available
// fallback encoder.
package mp4encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// encodedFrame is a single JPEG frame with its presentation time.
type encodedFrame struct {
	data        []byte
	timestampMs int
}

// Encoder implements ports.VideoEncoder with JPEG frames in MP4.
type Encoder struct {
	mu sync.Mutex

	width   int
	height  int
	fps     float64
	quality int
	began   bool

	frames []encodedFrame
}

// New creates a new MJPEG/MP4 encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin initializes the encoder for the given dimensions and frame rate.
func (e *Encoder) Begin(width, height int, fps float64, opts media.WriterOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if width <= 0 || height <= 0 {
		return ErrBadDimensions
	}
	if fps <= 0 {
		fps = 30
	}

	e.width = width
	e.height = height
	e.fps = fps
	e.quality = opts.Quality
	if e.quality <= 0 || e.quality > 100 {
		e.quality = 75
	}
	e.frames = nil
	e.began = true
	return nil
}

// EncodeFrame compresses one frame to JPEG and stores it.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.began {
		return ErrNotInitialized
	}

	// The track geometry is fixed at Begin; frames of any other size
	// are rescaled to fit.
	if b := img.Bounds(); b.Dx() != e.width || b.Dy() != e.height {
		dst := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}

	e.frames = append(e.frames, encodedFrame{
		data:        buf.Bytes(),
		timestampMs: timestampMs,
	})
	return nil
}

// End finalizes encoding and returns the MP4 data. An encoder that
// received no frames still returns a valid, empty container.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.began {
		return nil, ErrNotInitialized
	}

	data, err := e.buildMP4()
	if err != nil {
		return nil, err
	}

	e.frames = nil
	e.began = false
	return data, nil
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
