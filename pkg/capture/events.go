package capture

import "github.com/user/camstream/pkg/media"

// EventKind discriminates status events posted by the worker.
type EventKind int

const (
	// EventState reports that the worker's effective playback state
	// changed (playing, paused, seeking, finished, stopped).
	EventState EventKind = iota
	// EventLooped reports that the stream reached its end and was
	// rewound because looping is configured.
	EventLooped
	// EventError reports a fatal capture error. The worker has
	// entered its error-terminal state.
	EventError
	// EventFormat reports that the backend renegotiated its stream
	// format. Meta carries the new metadata value.
	EventFormat
)

// Event is a status message posted on the worker's event channel.
// The controller drains events and mutates PlaybackState accordingly;
// no other cross-thread state access takes place.
type Event struct {
	Kind  EventKind
	State media.PlaybackState
	Err   error
	Meta  *media.StreamMetadata
	Loops int
}

// RecordSink receives cloned frames while recording is enabled.
// The pts is relative to the start of the recording in seconds.
// Implementations must not block; the capture loop calls them inline.
type RecordSink func(frame *media.FrameBuffer, pts float64)
