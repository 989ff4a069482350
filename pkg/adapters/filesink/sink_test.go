package filesink

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/user/camstream/pkg/mocks"
)

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("/debug", 85, fs)

	if !sink.Enabled() {
		t.Error("file sink should report enabled")
	}

	frame := mocks.NewFrame(7, 32, 24)
	if err := sink.SaveFrame(frame.FrameIndex, frame); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join("/debug", "frames", "frame-000007.jpg")
	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatalf("expected %s to exist", path)
	}
	// JPEG SOI marker.
	if len(data) < 2 || !bytes.Equal(data[:2], []byte{0xFF, 0xD8}) {
		t.Error("saved frame is not a JPEG")
	}
}

func TestSink_QualityFallback(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("/debug", 0, fs)

	frame := mocks.NewFrame(0, 8, 8)
	if err := sink.SaveFrame(0, frame); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, ok := fs.GetFile(filepath.Join("/debug", "frames", "frame-000000.jpg")); !ok {
		t.Error("frame not saved with fallback quality")
	}
}
