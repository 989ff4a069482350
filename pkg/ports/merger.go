package ports

import "context"

// TrackMerger combines a recorded video file and an audio file into a
// single output container. Runs as a post-processing step off the
// capture path.
type TrackMerger interface {
	// Merge writes the combined container to outPath. An empty
	// audioPath means the video is carried over unchanged.
	Merge(ctx context.Context, videoPath, audioPath, outPath string) error
}
