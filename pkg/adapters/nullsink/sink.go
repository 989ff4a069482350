// Package nullsink provides a no-op frame sink implementation.
package nullsink

import (
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
// It discards all frames.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(index int64, frame *media.FrameBuffer) error {
	return nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
