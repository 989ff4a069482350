// Package synthsource provides a synthetic video source that renders
// test-pattern frames with the gg library. It needs no camera or movie
// file, which makes it the default source for development and tests.
package synthsource

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"

	"github.com/user/camstream/pkg/capture"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Options configures a synthetic source.
type Options struct {
	// Width and Height of generated frames. Defaults to 640x480.
	Width  int
	Height int

	// FPS is the nominal frame rate. Defaults to 30.
	FPS float64

	// FrameCount limits the stream to a fixed number of frames, after
	// which NextFrame reports end of stream. Zero means endless, which
	// models a live camera.
	FrameCount int64

	// Realtime paces frame delivery to the frame interval instead of
	// producing frames as fast as the caller asks. Live-camera model.
	Realtime bool
}

// Source implements ports.VideoSource by drawing each frame on demand.
type Source struct {
	opts Options
	meta media.StreamMetadata

	mu     sync.Mutex
	open   bool
	paused bool
	step   bool // deliver one frame while paused, set by Seek
	pos    int64
	next   time.Time
}

// New creates a synthetic source.
func New(opts Options) *Source {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return &Source{opts: opts}
}

// Open prepares the source. The src argument is accepted for interface
// compatibility and ignored; the pattern is the same for any source.
func (s *Source) Open(ctx context.Context, src media.Source) (media.StreamMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	den := 1000
	num := int(math.Round(s.opts.FPS * float64(den)))
	s.meta = media.StreamMetadata{
		Width:       s.opts.Width,
		Height:      s.opts.Height,
		FrameRate:   media.FrameRate{Num: num, Den: den},
		PixelFormat: media.FormatRGBA32,
		FrameCount:  s.opts.FrameCount,
	}
	if s.opts.FrameCount > 0 {
		s.meta.Duration = float64(s.opts.FrameCount) / s.opts.FPS
	}

	s.open = true
	s.paused = false
	s.step = false
	s.pos = 0
	s.next = time.Now()
	return s.meta, nil
}

// NextFrame renders and returns the frame at the current position.
func (s *Source) NextFrame(timeout time.Duration) (*media.FrameBuffer, error) {
	s.mu.Lock()

	if !s.open {
		s.mu.Unlock()
		return nil, media.ErrNotOpen
	}

	if s.paused && !s.step {
		s.mu.Unlock()
		time.Sleep(timeout)
		return nil, media.ErrDecodeTimeout
	}

	if s.opts.FrameCount > 0 && s.pos >= s.opts.FrameCount {
		s.mu.Unlock()
		return nil, media.ErrEndOfStream
	}

	if s.opts.Realtime && !s.step {
		wait := time.Until(s.next)
		if wait > timeout {
			s.mu.Unlock()
			time.Sleep(timeout)
			return nil, media.ErrDecodeTimeout
		}
		if wait > 0 {
			time.Sleep(wait)
		}
		s.next = s.next.Add(time.Duration(float64(time.Second) / s.opts.FPS))
	}

	idx := s.pos
	s.pos++
	s.step = false
	s.mu.Unlock()

	img := renderPattern(s.opts.Width, s.opts.Height, idx).Image()
	return media.FromImage(img, idx, float64(idx)/s.opts.FPS), nil
}

// Seek repositions the stream to the given time. Seeking while paused
// arms delivery of a single frame at the new position.
func (s *Source) Seek(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return media.ErrNotOpen
	}
	if seconds < 0 {
		seconds = 0
	}
	pos := int64(math.Round(seconds * s.opts.FPS))
	if s.opts.FrameCount > 0 && pos > s.opts.FrameCount {
		pos = s.opts.FrameCount
	}
	s.pos = pos
	s.next = time.Now()
	if s.paused {
		s.step = true
	}
	return nil
}

// SetPaused suspends or resumes frame generation.
func (s *Source) SetPaused(paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = paused
	if !paused {
		s.step = false
		s.next = time.Now()
	}
	return nil
}

// Close releases the source. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	return nil
}

// renderPattern draws one test-pattern frame: color bars cycling with
// the frame index, a moving marker, and the index as text.
func renderPattern(width, height int, idx int64) *gg.Context {
	dc := gg.NewContext(width, height)

	bars := 8
	barW := float64(width) / float64(bars)
	for i := 0; i < bars; i++ {
		h := math.Mod(float64(i)/float64(bars)+float64(idx)*0.005, 1.0)
		r, g, b := hsv(h, 0.75, 0.85)
		dc.SetRGB(r, g, b)
		dc.DrawRectangle(float64(i)*barW, 0, barW, float64(height))
		dc.Fill()
	}

	// Marker sweeps across one full width every 120 frames.
	mx := math.Mod(float64(idx)/120.0, 1.0) * float64(width)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(mx-4, float64(height)/2-24, 8, 48)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(8, 8, 120, 24)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", idx), 14, 20, 0, 0.5)

	return dc
}

func hsv(h, s, v float64) (float64, float64, float64) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// Ensure Source implements ports.VideoSource and the pause capability.
var (
	_ ports.VideoSource      = (*Source)(nil)
	_ capture.PausableSource = (*Source)(nil)
)
