// Package media defines the shared value types for the capture,
// playback and recording pipeline.
package media

import (
	"image"
)

// PixelFormat identifies the layout of FrameBuffer.ColorData.
type PixelFormat int

const (
	// FormatRGBA32 is 4 bytes per pixel (R, G, B, A).
	FormatRGBA32 PixelFormat = iota
	// FormatRGB24 is 3 bytes per pixel (R, G, B).
	FormatRGB24
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA32:
		return "rgba32"
	case FormatRGB24:
		return "rgb24"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGB24 {
		return 3
	}
	return 4
}

// NoFrameIndex is the FrameIndex value before any frame has been decoded.
const NoFrameIndex = -1

// FrameBuffer carries one decoded video frame.
//
// The ColorData buffer is exclusively owned by whichever stage currently
// holds the FrameBuffer. Ownership moves through queues; a stage that needs
// to hand the same frame to a second consumer must pass a Clone.
type FrameBuffer struct {
	// FrameIndex is assigned by the capture worker and increases
	// monotonically within one session. NoFrameIndex means no frame yet.
	FrameIndex int64

	// AbsTime is the presentation timestamp in stream time (seconds).
	AbsTime float64

	Width  int
	Height int

	// PixelFormat tags ColorData. Never mutated after construction.
	PixelFormat PixelFormat

	// ColorData holds the raw pixel values, Width*Height*BytesPerPixel bytes.
	ColorData []byte
}

// Clone returns a deep copy of the frame with its own pixel buffer.
func (f *FrameBuffer) Clone() *FrameBuffer {
	c := *f
	c.ColorData = make([]byte, len(f.ColorData))
	copy(c.ColorData, f.ColorData)
	return &c
}

// ToImage returns the frame as an image.Image.
//
// For RGBA32 frames the returned image aliases ColorData, so callers that
// retain the image past the frame's lifetime must work on a Clone. RGB24
// frames are expanded into a fresh RGBA image.
func (f *FrameBuffer) ToImage() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.PixelFormat == FormatRGBA32 {
		return &image.RGBA{
			Pix:    f.ColorData,
			Stride: f.Width * 4,
			Rect:   rect,
		}
	}

	rgba := image.NewRGBA(rect)
	src := f.ColorData
	for i, j := 0, 0; i+2 < len(src); i, j = i+3, j+4 {
		rgba.Pix[j+0] = src[i+0]
		rgba.Pix[j+1] = src[i+1]
		rgba.Pix[j+2] = src[i+2]
		rgba.Pix[j+3] = 0xff
	}
	return rgba
}

// FromImage converts an image into an RGBA32 FrameBuffer.
func FromImage(img image.Image, frameIndex int64, absTime float64) *FrameBuffer {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	frame := &FrameBuffer{
		FrameIndex:  frameIndex,
		AbsTime:     absTime,
		Width:       width,
		Height:      height,
		PixelFormat: FormatRGBA32,
		ColorData:   make([]byte, width*height*4),
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 {
		copy(frame.ColorData, rgba.Pix)
		return frame
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			frame.ColorData[i+0] = uint8(r >> 8)
			frame.ColorData[i+1] = uint8(g >> 8)
			frame.ColorData[i+2] = uint8(b >> 8)
			frame.ColorData[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return frame
}
