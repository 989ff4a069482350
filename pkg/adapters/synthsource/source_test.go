package synthsource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/camstream/pkg/media"
)

func TestSource_OpenMetadata(t *testing.T) {
	s := New(Options{Width: 320, Height: 240, FPS: 25, FrameCount: 50})

	meta, err := s.Open(context.Background(), media.URISource("synth:test"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if meta.Width != 320 || meta.Height != 240 {
		t.Errorf("unexpected dimensions %dx%d", meta.Width, meta.Height)
	}
	if got := meta.FrameRate.Float(); got != 25 {
		t.Errorf("expected 25 fps, got %f", got)
	}
	if meta.FrameCount != 50 {
		t.Errorf("expected 50 frames, got %d", meta.FrameCount)
	}
	if meta.Duration != 2.0 {
		t.Errorf("expected 2s duration, got %f", meta.Duration)
	}
}

func TestSource_Defaults(t *testing.T) {
	s := New(Options{})
	meta, err := s.Open(context.Background(), media.URISource("synth:test"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if meta.Width != 640 || meta.Height != 480 {
		t.Errorf("expected 640x480 defaults, got %dx%d", meta.Width, meta.Height)
	}
	if got := meta.FrameRate.Float(); got != 30 {
		t.Errorf("expected 30 fps default, got %f", got)
	}
	// Endless stream models a live camera: no duration, no count.
	if meta.Duration != 0 || meta.FrameCount != 0 {
		t.Error("live source should have no duration or frame count")
	}
}

func TestSource_SequentialFrames(t *testing.T) {
	s := New(Options{Width: 64, Height: 48, FPS: 30})
	if _, err := s.Open(context.Background(), media.URISource("synth:test")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	for i := int64(0); i < 5; i++ {
		f, err := s.NextFrame(100 * time.Millisecond)
		if err != nil {
			t.Fatalf("frame %d failed: %v", i, err)
		}
		if f.FrameIndex != i {
			t.Errorf("expected index %d, got %d", i, f.FrameIndex)
		}
		if f.Width != 64 || f.Height != 48 {
			t.Errorf("frame %d: unexpected dimensions %dx%d", i, f.Width, f.Height)
		}
		if len(f.ColorData) != 64*48*4 {
			t.Errorf("frame %d: unexpected buffer size %d", i, len(f.ColorData))
		}
	}
}

func TestSource_FramesDiffer(t *testing.T) {
	s := New(Options{Width: 64, Height: 48})
	if _, err := s.Open(context.Background(), media.URISource("synth:test")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	a, err := s.NextFrame(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("frame 0: %v", err)
	}
	var b *media.FrameBuffer
	for i := 0; i < 30; i++ {
		if b, err = s.NextFrame(100 * time.Millisecond); err != nil {
			t.Fatalf("frame %d: %v", i+1, err)
		}
	}

	same := true
	for i := range a.ColorData {
		if a.ColorData[i] != b.ColorData[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("pattern should change between frames")
	}
}

func TestSource_FiniteStreamEnds(t *testing.T) {
	s := New(Options{Width: 32, Height: 32, FrameCount: 3})
	if _, err := s.Open(context.Background(), media.URISource("synth:test")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		if _, err := s.NextFrame(100 * time.Millisecond); err != nil {
			t.Fatalf("frame %d failed: %v", i, err)
		}
	}
	if _, err := s.NextFrame(100 * time.Millisecond); !errors.Is(err, media.ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

func TestSource_SeekRepositions(t *testing.T) {
	s := New(Options{Width: 32, Height: 32, FPS: 30, FrameCount: 300})
	if _, err := s.Open(context.Background(), media.URISource("synth:test")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if err := s.Seek(2.0); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	f, err := s.NextFrame(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("frame after seek failed: %v", err)
	}
	if f.FrameIndex != 60 {
		t.Errorf("expected frame index 60 after seeking to 2s, got %d", f.FrameIndex)
	}
	if f.AbsTime != 2.0 {
		t.Errorf("expected pts 2.0, got %f", f.AbsTime)
	}
}

func TestSource_PausedDeliversNoFrames(t *testing.T) {
	s := New(Options{Width: 32, Height: 32})
	if _, err := s.Open(context.Background(), media.URISource("synth:test")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if err := s.SetPaused(true); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := s.NextFrame(time.Millisecond); !errors.Is(err, media.ErrDecodeTimeout) {
		t.Fatalf("expected ErrDecodeTimeout while paused, got %v", err)
	}

	if err := s.SetPaused(false); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if _, err := s.NextFrame(100 * time.Millisecond); err != nil {
		t.Fatalf("frame after resume failed: %v", err)
	}
}

func TestSource_SeekWhilePausedStepsOneFrame(t *testing.T) {
	s := New(Options{Width: 32, Height: 32, FPS: 30, FrameCount: 300})
	if _, err := s.Open(context.Background(), media.URISource("synth:test")); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	s.SetPaused(true)
	if err := s.Seek(1.0); err != nil {
		t.Fatalf("seek failed: %v", err)
	}

	// One frame at the seek target comes through, then the source is
	// silent again.
	f, err := s.NextFrame(time.Millisecond)
	if err != nil {
		t.Fatalf("stepped frame failed: %v", err)
	}
	if f.FrameIndex != 30 {
		t.Errorf("expected frame index 30, got %d", f.FrameIndex)
	}
	if _, err := s.NextFrame(time.Millisecond); !errors.Is(err, media.ErrDecodeTimeout) {
		t.Fatalf("expected ErrDecodeTimeout after the step, got %v", err)
	}
}

func TestSource_NotOpen(t *testing.T) {
	s := New(Options{})
	if _, err := s.NextFrame(time.Millisecond); !errors.Is(err, media.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := s.Seek(0); !errors.Is(err, media.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen on seek, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("close of unopened source should succeed: %v", err)
	}
}
