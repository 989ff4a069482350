package ports

import (
	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
)

// AudioRecorder abstracts the audio collaborator that records a second
// track in lockstep with video.
//
// Start and Stop cross the barrier instance handed to them by the
// controller; the capture worker crosses the same instance, bounding
// audio/video start skew to one scheduling quantum.
type AudioRecorder interface {
	// Start begins capturing audio, then crosses the barrier.
	Start(bar *barrier.Barrier) error

	// Stop finishes capturing, then crosses the barrier.
	Stop(bar *barrier.Barrier) error

	// Poll gives the recorder a chance to move samples out of device
	// buffers. Called periodically while recording.
	Poll() error

	// GetRecording returns the captured track after Stop.
	GetRecording() (media.AudioTrack, error)
}
