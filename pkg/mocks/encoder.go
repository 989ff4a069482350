package mocks

import (
	"image"
	"sync"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	BeginFunc       func(width, height int, fps float64, opts media.WriterOptions) error
	EncodeFrameFunc func(img image.Image, timestampMs int) error
	EndFunc         func() ([]byte, error)

	mu sync.Mutex
	// Recorded calls for verification
	beginCalled      bool
	beginWidth       int
	beginHeight      int
	beginFPS         float64
	encodeFrameCalls []EncodeFrameCall
	endCalled        bool
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	TimestampMs int
}

func (m *VideoEncoder) Begin(width, height int, fps float64, opts media.WriterOptions) error {
	m.mu.Lock()
	m.beginCalled = true
	m.beginWidth = width
	m.beginHeight = height
	m.beginFPS = fps
	m.encodeFrameCalls = nil
	m.endCalled = false
	m.mu.Unlock()

	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	m.mu.Lock()
	m.encodeFrameCalls = append(m.encodeFrameCalls, EncodeFrameCall{TimestampMs: timestampMs})
	m.mu.Unlock()

	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img, timestampMs)
	}
	return nil
}

func (m *VideoEncoder) End() ([]byte, error) {
	m.mu.Lock()
	m.endCalled = true
	m.mu.Unlock()

	if m.EndFunc != nil {
		return m.EndFunc()
	}
	// Return a minimal ftyp header
	return []byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p'}, nil
}

// BeginCalled reports whether Begin was called, and with what geometry.
func (m *VideoEncoder) BeginCalled() (bool, int, int, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beginCalled, m.beginWidth, m.beginHeight, m.beginFPS
}

// EncodeFrameCalls returns the recorded EncodeFrame calls.
func (m *VideoEncoder) EncodeFrameCalls() []EncodeFrameCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EncodeFrameCall, len(m.encodeFrameCalls))
	copy(out, m.encodeFrameCalls)
	return out
}

// EndCalled reports whether End was called.
func (m *VideoEncoder) EndCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endCalled
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
