package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/user/camstream/pkg/capture"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// SourceOptions configures an ffmpeg-backed video source.
type SourceOptions struct {
	// Width and Height of decoded frames. When zero, file sources use
	// their probed dimensions and everything else falls back to
	// 640x480. Frames are scaled to this size by ffmpeg.
	Width  int
	Height int

	// FPS forces the decode rate. Zero uses the probed rate for file
	// sources and 30 otherwise.
	FPS float64

	// Realtime paces file decoding to the source rate instead of
	// decoding as fast as the pipe drains. Device sources are always
	// realtime.
	Realtime bool
}

// Source implements ports.VideoSource by decoding with an ffmpeg
// process that writes raw RGBA frames to a pipe.
type Source struct {
	opts SourceOptions

	mu     sync.Mutex
	src    media.Source
	meta   media.StreamMetadata
	open   bool
	paused bool
	step   bool

	cmd    *exec.Cmd
	stderr bytes.Buffer
	frames chan *media.FrameBuffer
	stop   chan struct{}
}

// NewSource creates an ffmpeg-backed source.
func NewSource(opts SourceOptions) *Source {
	return &Source{opts: opts}
}

// Open probes the source, starts the decode process, and returns the
// stream metadata.
func (s *Source) Open(ctx context.Context, src media.Source) (media.StreamMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := Find(); err != nil {
		return media.StreamMetadata{}, err
	}

	if src.Kind == media.SourceFile {
		if _, err := os.Stat(src.Path); err != nil {
			return media.StreamMetadata{}, fmt.Errorf("%w: %s", media.ErrSourceNotFound, src.Path)
		}
	}

	width := s.opts.Width
	height := s.opts.Height
	fps := s.opts.FPS
	var duration float64
	var frameCount int64

	if src.Kind == media.SourceFile {
		if info, err := probeMP4(src.Path); err == nil {
			if width <= 0 {
				width = info.width
			}
			if height <= 0 {
				height = info.height
			}
			if fps <= 0 {
				fps = info.fps
			}
			duration = info.duration
			frameCount = info.frameCount
		}
	}
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	if fps <= 0 {
		fps = 30
	}

	den := 1000
	s.meta = media.StreamMetadata{
		Width:       width,
		Height:      height,
		FrameRate:   media.FrameRate{Num: int(math.Round(fps * float64(den))), Den: den},
		PixelFormat: media.FormatRGBA32,
		Duration:    duration,
		FrameCount:  frameCount,
	}
	s.src = src

	if err := s.startLocked(0); err != nil {
		return media.StreamMetadata{}, err
	}

	s.open = true
	s.paused = false
	s.step = false
	return s.meta, nil
}

// startLocked spawns the decode process positioned at offset seconds.
func (s *Source) startLocked(offset float64) error {
	ffmpegPath, err := Find()
	if err != nil {
		return err
	}

	fps := s.meta.FrameRate.Float()
	var args []string

	switch s.src.Kind {
	case media.SourceDevice:
		args = append(args, deviceInputArgs(s.src.Index)...)
	case media.SourceFile:
		if s.opts.Realtime {
			args = append(args, "-re")
		}
		if offset > 0 {
			args = append(args, "-ss", fmt.Sprintf("%.3f", offset))
		}
		args = append(args, "-i", s.src.Path)
	case media.SourceURI:
		args = append(args, "-i", s.src.URI)
	default:
		return media.ErrSourceNotFound
	}

	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", s.meta.Width, s.meta.Height),
		"-r", fmt.Sprintf("%.3f", fps),
		"pipe:1",
	)

	cmd := exec.Command(ffmpegPath, args...)
	s.stderr.Reset()
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	s.cmd = cmd
	s.frames = make(chan *media.FrameBuffer, 4)
	s.stop = make(chan struct{})

	go s.readFrames(stdout, s.frames, s.stop, cmd, offset)
	return nil
}

// readFrames moves raw frames from the pipe into the frame channel
// until the stream ends or the source is stopped.
func (s *Source) readFrames(r io.Reader, frames chan *media.FrameBuffer, stop chan struct{}, cmd *exec.Cmd, offset float64) {
	defer close(frames)
	defer cmd.Wait()

	fps := s.meta.FrameRate.Float()
	frameSize := s.meta.Width * s.meta.Height * 4
	base := int64(math.Round(offset * fps))

	for n := int64(0); ; n++ {
		buf := make([]byte, frameSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return
		}

		idx := base + n
		frame := &media.FrameBuffer{
			FrameIndex:  idx,
			AbsTime:     float64(idx) / fps,
			Width:       s.meta.Width,
			Height:      s.meta.Height,
			PixelFormat: media.FormatRGBA32,
			ColorData:   buf,
		}

		select {
		case frames <- frame:
		case <-stop:
			return
		}
	}
}

// NextFrame returns the next decoded frame.
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
	frames := s.frames
	s.step = false
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frame, ok := <-frames:
		if !ok {
			return nil, media.ErrEndOfStream
		}
		return frame, nil
	case <-timer.C:
		return nil, media.ErrDecodeTimeout
	}
}

// Seek restarts the decode process at the given time. Device sources
// ignore seeks. Seeking while paused arms delivery of a single frame.
func (s *Source) Seek(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return media.ErrNotOpen
	}
	if s.src.Kind == media.SourceDevice {
		return nil
	}
	if seconds < 0 {
		seconds = 0
	}

	s.stopLocked()
	if err := s.startLocked(seconds); err != nil {
		return err
	}
	if s.paused {
		s.step = true
	}
	return nil
}

// SetPaused suspends frame delivery. The decode process stalls on pipe
// backpressure once its buffers fill, so a paused file does not
// advance.
func (s *Source) SetPaused(paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = paused
	if !paused {
		s.step = false
	}
	return nil
}

// Close terminates the decode process. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.stopLocked()
	s.open = false
	return nil
}

// stopLocked kills the current decode process and its reader.
func (s *Source) stopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd = nil
	s.frames = nil
}

// deviceInputArgs builds the platform input arguments for a capture
// device index.
func deviceInputArgs(index int) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"-f", "avfoundation", "-i", fmt.Sprintf("%d", index)}
	case "windows":
		return []string{"-f", "dshow", "-i", fmt.Sprintf("video=%d", index)}
	default:
		return []string{"-f", "v4l2", "-i", fmt.Sprintf("/dev/video%d", index)}
	}
}

// Ensure Source implements ports.VideoSource and the pause capability.
var (
	_ ports.VideoSource      = (*Source)(nil)
	_ capture.PausableSource = (*Source)(nil)
)
