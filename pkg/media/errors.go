package media

import "errors"

var (
	// ErrSourceNotFound is returned by Open when the device, file or
	// URI does not exist.
	ErrSourceNotFound = errors.New("media: source not found")

	// ErrFormatNotSupported is returned by Open when the source exists
	// but its format cannot be decoded.
	ErrFormatNotSupported = errors.New("media: format not supported")

	// ErrDecodeTimeout means no frame was ready within the poll
	// timeout. Recoverable; the capture worker retries a bounded
	// number of times before escalating.
	ErrDecodeTimeout = errors.New("media: decode timeout")

	// ErrEndOfStream means the stream is done. Distinct from
	// ErrDecodeTimeout so callers can tell "keep polling" from
	// "stream finished".
	ErrEndOfStream = errors.New("media: end of stream")

	// ErrDecodeFatal means the decoder cannot make further progress.
	ErrDecodeFatal = errors.New("media: fatal decode error")

	// ErrEncodingFailed is reported by the writer when one or more
	// frames could not be encoded or flushed.
	ErrEncodingFailed = errors.New("media: encoding failed")

	// ErrAlreadyRecording is returned by Record when a recording is
	// already in progress.
	ErrAlreadyRecording = errors.New("media: already recording")

	// ErrNotRecording is returned by StopRecording when no recording
	// is in progress.
	ErrNotRecording = errors.New("media: not recording")

	// ErrNotOpen is returned when an operation requires an open
	// session.
	ErrNotOpen = errors.New("media: stream not open")

	// ErrBarrierTimeout means a rendezvous partner did not arrive in
	// time. Callers log it and continue in degraded mode.
	ErrBarrierTimeout = errors.New("media: barrier timeout")

	// ErrWriterClosed is returned when a command is issued to a writer
	// that has been shut down. A late command is a programming error,
	// not a silent no-op.
	ErrWriterClosed = errors.New("media: writer closed")
)
