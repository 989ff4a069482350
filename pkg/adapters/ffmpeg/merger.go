package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/user/camstream/pkg/ports"
)

// Merger implements ports.TrackMerger by muxing with ffmpeg. The video
// stream is copied, the audio track is encoded to AAC.
type Merger struct{}

// NewMerger creates an ffmpeg-backed track merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge combines a video file and an audio file into outPath.
func (m *Merger) Merge(ctx context.Context, videoPath, audioPath, outPath string) error {
	if audioPath == "" {
		return copyFile(videoPath, outPath)
	}

	ffmpegPath, err := Find()
	if err != nil {
		return err
	}

	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		"-movflags", "+faststart",
		outPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w\noutput: %s", err, out)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

// Ensure Merger implements ports.TrackMerger
var _ ports.TrackMerger = (*Merger)(nil)
