// Package writer implements the asynchronous disk writer for
// recordings.
//
// One goroutine owns one encoder and processes an explicit command
// protocol, open / write-frame / close / shutdown, strictly in FIFO
// order. The writer runs at disk cadence, decoupled from the capture
// cadence; frames it cannot absorb are counted and dropped rather
// than ever stalling the capture worker.
package writer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// DefaultQueueSize is the command queue depth used when none is given.
// It bounds how many frames a recording can lose to backpressure.
const DefaultQueueSize = 64

type opcode int

const (
	opOpen opcode = iota
	opWrite
	opClose
	opShutdown
)

type command struct {
	op    opcode
	path  string
	opts  media.WriterOptions
	frame *media.FrameBuffer
	pts   float64
	done  chan error
}

// Writer serializes frames to a container file on its own goroutine.
type Writer struct {
	encoder ports.VideoEncoder
	fs      ports.FileSystem
	log     ports.Logger

	cmds chan command
	done chan struct{}

	closed atomic.Bool
	began  bool
	once   sync.Once

	// pendingCtl counts Open/Close commands somewhere in the queue.
	// It is raised before the command is enqueued, so a zero count
	// means every queued command is a write.
	pendingCtl atomic.Int32

	written atomic.Uint64
	dropped atomic.Uint64
	bytes   atomic.Int64
}

// New creates a writer around the given encoder. queueSize bounds the
// number of in-flight commands; values below 1 take DefaultQueueSize.
func New(encoder ports.VideoEncoder, fs ports.FileSystem, log ports.Logger, queueSize int) *Writer {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Writer{
		encoder: encoder,
		fs:      fs,
		log:     log.WithComponent("writer"),
		cmds:    make(chan command, queueSize),
		done:    make(chan struct{}),
	}
}

// Begin starts the writer goroutine. Returns once the command loop is
// accepting commands. Calling Begin twice is a no-op.
func (w *Writer) Begin() {
	if w.began {
		return
	}
	w.began = true
	ready := make(chan struct{})
	go w.run(ready)
	<-ready
}

// Open starts a new recording at path. Blocks until the encoder is
// initialized; codec and open failures propagate to the caller.
// A recording already open on this writer must be closed first.
func (w *Writer) Open(path string, opts media.WriterOptions) error {
	done := make(chan error, 1)
	w.pendingCtl.Add(1)
	if err := w.submit(command{op: opOpen, path: path, opts: opts, done: done}); err != nil {
		w.pendingCtl.Add(-1)
		return err
	}
	return <-done
}

// WriteFrame appends one frame at pts seconds into the recording.
//
// With blocking=false the call returns once the frame is enqueued, the
// common case that keeps the capture side from stalling on disk I/O;
// when the queue is full the oldest queued frame is dropped and
// counted. With blocking=true the call waits until the frame has been
// handed to the encoder, used for the final frame of a recording.
func (w *Writer) WriteFrame(frame *media.FrameBuffer, pts float64, blocking bool) error {
	if blocking {
		done := make(chan error, 1)
		if err := w.submit(command{op: opWrite, frame: frame, pts: pts, done: done}); err != nil {
			return err
		}
		return <-done
	}

	cmd := command{op: opWrite, frame: frame, pts: pts}
	if w.closed.Load() {
		return media.ErrWriterClosed
	}
	select {
	case w.cmds <- cmd:
		return nil
	default:
	}
	// Queue full: drop rather than stall. With a control command in
	// the queue the incoming frame is discarded outright, keeping
	// Open and Close at their enqueued position; otherwise the oldest
	// queued write is evicted in favor of the newer frame.
	if w.pendingCtl.Load() > 0 {
		w.dropped.Add(1)
		return nil
	}
	select {
	case evicted := <-w.cmds:
		if evicted.op != opWrite {
			// A control command raced in behind the counter check;
			// it keeps its slot and the incoming frame is dropped.
			w.cmds <- evicted
			w.dropped.Add(1)
			return nil
		}
		w.dropped.Add(1)
	default:
	}
	select {
	case w.cmds <- cmd:
	default:
		w.dropped.Add(1)
	}
	return nil
}

// Close finishes the current recording: flushes all pending frames,
// finalizes the container and writes it to the path given to Open.
// Returns media.ErrEncodingFailed (wrapped) if any frame failed on the
// way. The writer stays hot for a subsequent Open.
func (w *Writer) Close() error {
	done := make(chan error, 1)
	w.pendingCtl.Add(1)
	if err := w.submit(command{op: opClose, done: done}); err != nil {
		w.pendingCtl.Add(-1)
		return err
	}
	return <-done
}

// Shutdown stops the writer goroutine after the commands already
// queued have been processed. Idempotent. After shutdown any further
// command returns media.ErrWriterClosed.
func (w *Writer) Shutdown() error {
	w.once.Do(func() {
		// Refuse new commands first so the shutdown command is the
		// last one the loop ever sees.
		w.closed.Store(true)
		done := make(chan error, 1)
		select {
		case w.cmds <- command{op: opShutdown, done: done}:
			select {
			case <-done:
			case <-w.done:
			}
		case <-w.done:
		}
	})
	return nil
}

// Written returns the number of frames handed to the encoder.
func (w *Writer) Written() uint64 { return w.written.Load() }

// Dropped returns the number of frames lost to queue backpressure.
func (w *Writer) Dropped() uint64 { return w.dropped.Load() }

// Bytes returns the size of the last finished recording.
func (w *Writer) Bytes() int64 { return w.bytes.Load() }

// Done is closed when the writer goroutine has exited.
func (w *Writer) Done() <-chan struct{} { return w.done }

func (w *Writer) submit(cmd command) error {
	if w.closed.Load() {
		return media.ErrWriterClosed
	}
	select {
	case w.cmds <- cmd:
		return nil
	case <-w.done:
		return media.ErrWriterClosed
	case <-time.After(30 * time.Second):
		return fmt.Errorf("writer: command queue stalled")
	}
}
