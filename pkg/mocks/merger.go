package mocks

import (
	"context"
	"sync"

	"github.com/user/camstream/pkg/ports"
)

// TrackMerger is a mock implementation of ports.TrackMerger.
type TrackMerger struct {
	MergeFunc func(ctx context.Context, videoPath, audioPath, outPath string) error

	mu sync.Mutex
	// Recorded calls for verification
	mergeCalls []MergeCall
}

// MergeCall records a call to Merge.
type MergeCall struct {
	VideoPath string
	AudioPath string
	OutPath   string
}

func (m *TrackMerger) Merge(ctx context.Context, videoPath, audioPath, outPath string) error {
	m.mu.Lock()
	m.mergeCalls = append(m.mergeCalls, MergeCall{
		VideoPath: videoPath,
		AudioPath: audioPath,
		OutPath:   outPath,
	})
	m.mu.Unlock()

	if m.MergeFunc != nil {
		return m.MergeFunc(ctx, videoPath, audioPath, outPath)
	}
	return nil
}

// MergeCalls returns the recorded Merge calls.
func (m *TrackMerger) MergeCalls() []MergeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MergeCall, len(m.mergeCalls))
	copy(out, m.mergeCalls)
	return out
}

var _ ports.TrackMerger = (*TrackMerger)(nil)
