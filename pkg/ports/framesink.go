package ports

import "github.com/user/camstream/pkg/media"

// FrameSink receives copies of captured frames for diagnostics, such
// as dumping them to disk as images. Sinks must not retain the frame
// past the call.
type FrameSink interface {
	// Enabled returns true if the sink wants frames at all, letting
	// callers skip the frame copy when it does not.
	Enabled() bool

	// SaveFrame stores one captured frame.
	SaveFrame(index int64, frame *media.FrameBuffer) error
}
