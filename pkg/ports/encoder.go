package ports

import (
	"image"

	"github.com/user/camstream/pkg/media"
)

// VideoEncoder abstracts video encoding operations.
type VideoEncoder interface {
	// Begin initializes the encoder for the specified dimensions and
	// frame rate.
	Begin(width, height int, fps float64, opts media.WriterOptions) error

	// EncodeFrame encodes a single frame at the specified timestamp.
	EncodeFrame(img image.Image, timestampMs int) error

	// End finalizes encoding and returns the container data.
	// Finishing with zero frames encoded must still yield a valid,
	// possibly empty, container.
	End() ([]byte, error)
}
