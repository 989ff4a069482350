// Package mocks provides mock implementations of the port interfaces
// for testing.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// VideoSource is a mock implementation of ports.VideoSource. Without
// custom funcs it produces an endless stream of solid-color frames at
// 30 fps metadata.
type VideoSource struct {
	OpenFunc      func(ctx context.Context, src media.Source) (media.StreamMetadata, error)
	NextFrameFunc func(timeout time.Duration) (*media.FrameBuffer, error)
	SeekFunc      func(seconds float64) error
	CloseFunc     func() error

	mu sync.Mutex
	// Recorded calls for verification
	openCalled     bool
	nextFrameCalls int
	seekCalls      []float64
	closeCalls     int

	nextIndex int64
}

func (m *VideoSource) Open(ctx context.Context, src media.Source) (media.StreamMetadata, error) {
	m.mu.Lock()
	m.openCalled = true
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, src)
	}
	return DefaultMetadata(), nil
}

func (m *VideoSource) NextFrame(timeout time.Duration) (*media.FrameBuffer, error) {
	m.mu.Lock()
	m.nextFrameCalls++
	idx := m.nextIndex
	m.nextIndex++
	m.mu.Unlock()

	if m.NextFrameFunc != nil {
		return m.NextFrameFunc(timeout)
	}
	return NewFrame(idx, 640, 480), nil
}

func (m *VideoSource) Seek(seconds float64) error {
	m.mu.Lock()
	m.seekCalls = append(m.seekCalls, seconds)
	m.nextIndex = int64(seconds * 30)
	m.mu.Unlock()

	if m.SeekFunc != nil {
		return m.SeekFunc(seconds)
	}
	return nil
}

func (m *VideoSource) Close() error {
	m.mu.Lock()
	m.closeCalls++
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// OpenCalled reports whether Open was called.
func (m *VideoSource) OpenCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openCalled
}

// NextFrameCalls returns the number of NextFrame calls.
func (m *VideoSource) NextFrameCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextFrameCalls
}

// SeekCalls returns the recorded seek positions.
func (m *VideoSource) SeekCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.seekCalls))
	copy(out, m.seekCalls)
	return out
}

// CloseCalls returns the number of Close calls.
func (m *VideoSource) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

var _ ports.VideoSource = (*VideoSource)(nil)

// PausableVideoSource is a VideoSource that also records pause state
// changes.
type PausableVideoSource struct {
	VideoSource

	SetPausedFunc func(paused bool) error

	pmu        sync.Mutex
	pauseCalls []bool
}

func (m *PausableVideoSource) SetPaused(paused bool) error {
	m.pmu.Lock()
	m.pauseCalls = append(m.pauseCalls, paused)
	m.pmu.Unlock()

	if m.SetPausedFunc != nil {
		return m.SetPausedFunc(paused)
	}
	return nil
}

// PauseCalls returns the recorded pause state changes.
func (m *PausableVideoSource) PauseCalls() []bool {
	m.pmu.Lock()
	defer m.pmu.Unlock()
	out := make([]bool, len(m.pauseCalls))
	copy(out, m.pauseCalls)
	return out
}

// DefaultMetadata returns the metadata the mock source reports when
// OpenFunc is not set: 640x480 at 30 fps, live.
func DefaultMetadata() media.StreamMetadata {
	return media.StreamMetadata{
		Width:       640,
		Height:      480,
		FrameRate:   media.FrameRate{Num: 30, Den: 1},
		PixelFormat: media.FormatRGBA32,
	}
}

// NewFrame builds a solid-color test frame. The color varies with the
// index so consecutive frames differ.
func NewFrame(index int64, width, height int) *media.FrameBuffer {
	data := make([]byte, width*height*4)
	shade := byte(index % 256)
	for i := 0; i < len(data); i += 4 {
		data[i] = shade
		data[i+1] = 128
		data[i+2] = 255 - shade
		data[i+3] = 255
	}
	return &media.FrameBuffer{
		FrameIndex:  index,
		AbsTime:     float64(index) / 30,
		Width:       width,
		Height:      height,
		PixelFormat: media.FormatRGBA32,
		ColorData:   data,
	}
}
