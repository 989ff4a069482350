// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"time"

	"github.com/user/camstream/pkg/media"
)

// VideoSource abstracts a decoder backend: a camera driver, a file
// demuxer, or a remote stream. Implementations are the only components
// allowed to perform blocking I/O against the underlying device or
// file, and every blocking call must honor its timeout bound.
type VideoSource interface {
	// Open connects to the source and returns its stream metadata.
	// Fails with media.ErrSourceNotFound or media.ErrFormatNotSupported.
	Open(ctx context.Context, src media.Source) (media.StreamMetadata, error)

	// NextFrame returns the next decoded frame, waiting at most
	// timeout. Returns media.ErrDecodeTimeout when no frame is ready
	// yet and media.ErrEndOfStream when the stream is done.
	NextFrame(timeout time.Duration) (*media.FrameBuffer, error)

	// Seek repositions the stream to the given time in seconds.
	// Live sources may ignore it.
	Seek(seconds float64) error

	// Close releases device and OS resources. Idempotent.
	Close() error
}
