package media

import (
	"image"
	"image/color"
	"testing"
)

func TestFrameBuffer_CloneIsolation(t *testing.T) {
	orig := &FrameBuffer{
		FrameIndex:  7,
		AbsTime:     0.233,
		Width:       2,
		Height:      2,
		PixelFormat: FormatRGBA32,
		ColorData:   []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}

	clone := orig.Clone()
	if clone.FrameIndex != orig.FrameIndex || clone.AbsTime != orig.AbsTime {
		t.Error("clone should carry index and timestamp")
	}

	// Mutating the clone must not touch the original buffer.
	clone.ColorData[0] = 0xff
	if orig.ColorData[0] != 1 {
		t.Error("clone shares pixel storage with the original")
	}

	orig.ColorData[4] = 0xee
	if clone.ColorData[4] != 5 {
		t.Error("original mutation leaked into the clone")
	}
}

func TestFrameBuffer_ToImageRGBA(t *testing.T) {
	f := &FrameBuffer{
		Width:       2,
		Height:      1,
		PixelFormat: FormatRGBA32,
		ColorData:   []byte{10, 20, 30, 255, 40, 50, 60, 255},
	}

	img := f.ToImage()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	if rgba.Bounds().Dx() != 2 || rgba.Bounds().Dy() != 1 {
		t.Errorf("unexpected bounds %v", rgba.Bounds())
	}
	r, g, b, _ := rgba.At(1, 0).RGBA()
	if uint8(r>>8) != 40 || uint8(g>>8) != 50 || uint8(b>>8) != 60 {
		t.Errorf("pixel (1,0) = %d,%d,%d, expected 40,50,60", r>>8, g>>8, b>>8)
	}
}

func TestFrameBuffer_ToImageRGB24(t *testing.T) {
	f := &FrameBuffer{
		Width:       2,
		Height:      1,
		PixelFormat: FormatRGB24,
		ColorData:   []byte{10, 20, 30, 40, 50, 60},
	}

	img := f.ToImage()
	r, g, b, a := img.At(0, 0).RGBA()
	if uint8(r>>8) != 10 || uint8(g>>8) != 20 || uint8(b>>8) != 30 {
		t.Errorf("pixel (0,0) = %d,%d,%d, expected 10,20,30", r>>8, g>>8, b>>8)
	}
	if uint8(a>>8) != 255 {
		t.Errorf("expected opaque alpha, got %d", a>>8)
	}
}

func TestFromImage_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	src.Set(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	f := FromImage(src, 5, 1.5)
	if f.FrameIndex != 5 || f.AbsTime != 1.5 {
		t.Error("index or timestamp not carried over")
	}
	if f.Width != 3 || f.Height != 2 {
		t.Errorf("unexpected dimensions %dx%d", f.Width, f.Height)
	}

	back := f.ToImage()
	r, g, b, _ := back.At(0, 0).RGBA()
	if uint8(r>>8) != 200 || uint8(g>>8) != 100 || uint8(b>>8) != 50 {
		t.Errorf("pixel (0,0) = %d,%d,%d after round trip", r>>8, g>>8, b>>8)
	}
}

func TestFromImage_NonRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 99})

	f := FromImage(src, 0, 0)
	if f.PixelFormat != FormatRGBA32 {
		t.Errorf("expected RGBA32 output, got %s", f.PixelFormat)
	}
	if len(f.ColorData) != 2*2*4 {
		t.Errorf("expected 16 bytes, got %d", len(f.ColorData))
	}
	// Gray expands to equal R, G and B.
	off := (1*2 + 1) * 4
	if f.ColorData[off] != f.ColorData[off+1] || f.ColorData[off+1] != f.ColorData[off+2] {
		t.Error("gray pixel should expand to equal channels")
	}
}

func TestPixelFormat(t *testing.T) {
	if FormatRGBA32.BytesPerPixel() != 4 {
		t.Errorf("rgba32: expected 4 bytes per pixel, got %d", FormatRGBA32.BytesPerPixel())
	}
	if FormatRGB24.BytesPerPixel() != 3 {
		t.Errorf("rgb24: expected 3 bytes per pixel, got %d", FormatRGB24.BytesPerPixel())
	}
	if FormatRGBA32.String() != "rgba32" || FormatRGB24.String() != "rgb24" {
		t.Error("unexpected pixel format names")
	}
}
