package media

import "fmt"

// FrameRate is a rational frame rate (frames per second).
type FrameRate struct {
	Num int
	Den int
}

// Float returns the frame rate as a float64. A zero denominator yields 0.
func (r FrameRate) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Interval returns the duration of one frame in seconds.
func (r FrameRate) Interval() float64 {
	fps := r.Float()
	if fps <= 0 {
		return 0
	}
	return 1.0 / fps
}

// String returns the frame rate formatted as "num/den".
func (r FrameRate) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// StreamMetadata describes an open video stream.
//
// Values are immutable once returned from a source's Open. If a backend
// renegotiates its format mid-stream, a new StreamMetadata value is
// produced and the old one stays untouched.
type StreamMetadata struct {
	Width       int
	Height      int
	FrameRate   FrameRate
	PixelFormat PixelFormat

	// Duration is the total stream duration in seconds. Zero for live
	// sources with no defined end.
	Duration float64

	// FrameCount is the total number of frames, when known. Zero for
	// live sources.
	FrameCount int64
}

// Valid reports whether the metadata describes a usable stream.
func (m StreamMetadata) Valid() bool {
	return m.Width > 0 && m.Height > 0 && m.FrameRate.Float() > 0
}
