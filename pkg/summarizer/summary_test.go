package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSource(t *testing.T) {
	summary := NewBuilder().
		WithSource(SourceInfo{
			Descriptor: "device:0",
			Backend:    "ffmpeg",
			Width:      1280,
			Height:     720,
			FPS:        30,
		}).
		Build()

	if summary.Source.Descriptor != "device:0" {
		t.Errorf("expected descriptor 'device:0', got '%s'", summary.Source.Descriptor)
	}
	if summary.Source.Backend != "ffmpeg" {
		t.Errorf("expected backend 'ffmpeg', got '%s'", summary.Source.Backend)
	}
	if summary.Source.Width != 1280 || summary.Source.Height != 720 {
		t.Errorf("unexpected dimensions %dx%d", summary.Source.Width, summary.Source.Height)
	}
}

func TestBuilder_WithCapture(t *testing.T) {
	summary := NewBuilder().
		WithCapture(CaptureInfo{
			FramesDecoded:   300,
			FramesDropped:   12,
			Loops:           2,
			StreamTimeSec:   10.0,
			WallDurationSec: 10.4,
		}).
		Build()

	if summary.Capture.FramesDecoded != 300 {
		t.Errorf("expected 300 decoded frames, got %d", summary.Capture.FramesDecoded)
	}
	if summary.Capture.FramesDropped != 12 {
		t.Errorf("expected 12 dropped frames, got %d", summary.Capture.FramesDropped)
	}
	if summary.Capture.Loops != 2 {
		t.Errorf("expected 2 loops, got %d", summary.Capture.Loops)
	}
}

func TestBuilder_WithVideo(t *testing.T) {
	summary := NewBuilder().
		WithSettings(Settings{Codec: "h264", Quality: 75}).
		WithVideo(VideoInfo{
			Path:          "/out/rec.mp4",
			FileSize:      123456,
			FramesWritten: 290,
			HasAudio:      true,
		}).
		Build()

	if summary.Video.Path != "/out/rec.mp4" {
		t.Errorf("expected path '/out/rec.mp4', got '%s'", summary.Video.Path)
	}
	if summary.Video.FileSize != 123456 {
		t.Errorf("expected size 123456, got %d", summary.Video.FileSize)
	}
	if !summary.Video.HasAudio {
		t.Error("expected HasAudio true")
	}
	if summary.Settings.Codec != "h264" {
		t.Errorf("expected codec 'h264', got '%s'", summary.Settings.Codec)
	}
}
