package mocks

import (
	"sync"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	EnabledValue  bool
	SaveFrameFunc func(index int64, frame *media.FrameBuffer) error

	mu sync.Mutex
	// Recorded calls for verification
	savedIndexes []int64
}

func (m *FrameSink) Enabled() bool {
	return m.EnabledValue
}

func (m *FrameSink) SaveFrame(index int64, frame *media.FrameBuffer) error {
	m.mu.Lock()
	m.savedIndexes = append(m.savedIndexes, index)
	m.mu.Unlock()

	if m.SaveFrameFunc != nil {
		return m.SaveFrameFunc(index, frame)
	}
	return nil
}

// SavedIndexes returns the frame indexes passed to SaveFrame.
func (m *FrameSink) SavedIndexes() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.savedIndexes))
	copy(out, m.savedIndexes)
	return out
}

var _ ports.FrameSink = (*FrameSink)(nil)
