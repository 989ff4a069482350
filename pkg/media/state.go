package media

// PlaybackState is the externally visible state of a playback session.
//
// It is owned exclusively by the controller. Workers never mutate it
// directly; they post status events that the controller drains.
type PlaybackState int

const (
	// StateNotStarted means the stream is open but not yet playing.
	StateNotStarted PlaybackState = iota
	// StatePlaying means frames are being retained for display.
	StatePlaying
	// StatePaused means decoding continues but frames are not retained.
	StatePaused
	// StateStopped is terminal until the session is opened again.
	StateStopped
	// StateSeeking means a seek is in flight.
	StateSeeking
	// StateFinished means the stream reached its end, or a fatal
	// capture error occurred (check the controller's last error).
	StateFinished
)

// String returns the string representation of the playback state.
func (s PlaybackState) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateSeeking:
		return "seeking"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
