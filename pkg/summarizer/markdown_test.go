package summarizer

import (
	"strings"
	"testing"
	"time"

	"github.com/user/camstream/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Source: SourceInfo{
			Descriptor: "device:0",
			Backend:    "ffmpeg",
			Width:      1280,
			Height:     720,
			FPS:        30,
		},
		Capture: CaptureInfo{
			FramesDecoded:   300,
			FramesDropped:   4,
			StreamTimeSec:   10.0,
			WallDurationSec: 10.2,
		},
		Settings: Settings{
			Codec:   "h264",
			Quality: 75,
		},
		Video: VideoInfo{
			Path:          "/out/rec.mp4",
			FileSize:      204800,
			FramesWritten: 296,
			HasAudio:      true,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	formatter := NewMarkdownFormatter()

	result := formatter.Format(sampleSummary())

	// Check required sections
	checks := []string{
		"# Capture Summary",
		"## Source",
		"## Capture",
		"## Recording",
		"device:0",
		"ffmpeg",
		"1280x720",
		"30.00",
		"300",
		"/out/rec.mp4",
		"204800",
		"h264",
		"Audio: yes",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_NoRecording(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := sampleSummary()
	summary.Video = VideoInfo{}

	result := formatter.Format(summary)
	if strings.Contains(result, "## Recording") {
		t.Error("playback-only summary should have no recording section")
	}
	if !strings.Contains(result, "## Capture") {
		t.Error("capture section missing")
	}
}

func TestMarkdownFormatter_Format_SkipsLoopsWhenZero(t *testing.T) {
	formatter := NewMarkdownFormatter()

	result := formatter.Format(sampleSummary())
	if strings.Contains(result, "Loops") {
		t.Error("loops line should only appear for looped playback")
	}

	summary := sampleSummary()
	summary.Capture.Loops = 3
	result = formatter.Format(summary)
	if !strings.Contains(result, "Loops: 3") {
		t.Error("expected loops line for looped playback")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	formatter := NewMarkdownFormatter(WithVersion("1.2.3"))

	result := formatter.Format(sampleSummary())
	if !strings.Contains(result, "1.2.3") {
		t.Error("expected version footer")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	formatter := NewMarkdownFormatter(WithTranslator(func(s string) string {
		if s == "Capture Summary" {
			return "キャプチャサマリー"
		}
		return s
	}))

	result := formatter.Format(sampleSummary())
	if !strings.Contains(result, "# キャプチャサマリー") {
		t.Error("expected translated heading")
	}
}

func TestFormatFunc(t *testing.T) {
	var f Formatter = FormatFunc(func(summary *Summary) string {
		return "custom"
	})
	if got := f.Format(&Summary{}); got != "custom" {
		t.Errorf("expected 'custom', got %q", got)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("/out/summary.md", sampleSummary()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, ok := fs.GetFile("/out/summary.md")
	if !ok {
		t.Fatal("summary file missing")
	}
	if !strings.Contains(string(data), "# Capture Summary") {
		t.Error("summary content not written")
	}
}
