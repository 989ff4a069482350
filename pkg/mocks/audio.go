package mocks

import (
	"sync"
	"time"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// AudioRecorder is a mock implementation of ports.AudioRecorder. The
// default behavior crosses the barriers it is handed, as a real
// recorder must, so tests using it do not stall the video side.
type AudioRecorder struct {
	StartFunc        func(bar *barrier.Barrier) error
	StopFunc         func(bar *barrier.Barrier) error
	PollFunc         func() error
	GetRecordingFunc func() (media.AudioTrack, error)

	// Track is returned by GetRecording when GetRecordingFunc is not
	// set.
	Track media.AudioTrack

	mu sync.Mutex
	// Recorded calls for verification
	startCalled bool
	stopCalled  bool
	pollCalls   int
}

func (m *AudioRecorder) Start(bar *barrier.Barrier) error {
	m.mu.Lock()
	m.startCalled = true
	m.mu.Unlock()

	if m.StartFunc != nil {
		return m.StartFunc(bar)
	}
	if bar != nil {
		return bar.Wait(time.Second)
	}
	return nil
}

func (m *AudioRecorder) Stop(bar *barrier.Barrier) error {
	m.mu.Lock()
	m.stopCalled = true
	m.mu.Unlock()

	if m.StopFunc != nil {
		return m.StopFunc(bar)
	}
	if bar != nil {
		return bar.Wait(time.Second)
	}
	return nil
}

func (m *AudioRecorder) Poll() error {
	m.mu.Lock()
	m.pollCalls++
	m.mu.Unlock()

	if m.PollFunc != nil {
		return m.PollFunc()
	}
	return nil
}

func (m *AudioRecorder) GetRecording() (media.AudioTrack, error) {
	if m.GetRecordingFunc != nil {
		return m.GetRecordingFunc()
	}
	return m.Track, nil
}

// StartCalled reports whether Start was called.
func (m *AudioRecorder) StartCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalled
}

// StopCalled reports whether Stop was called.
func (m *AudioRecorder) StopCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalled
}

// PollCalls returns the number of Poll calls.
func (m *AudioRecorder) PollCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollCalls
}

var _ ports.AudioRecorder = (*AudioRecorder)(nil)
