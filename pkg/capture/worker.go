// Package capture implements the frame acquisition worker.
//
// One worker goroutine owns one video source. It runs a tight read
// loop, stamps frames with monotonically increasing indices, publishes
// them into a bounded drop-oldest queue, and forwards clones to an
// optional record sink. Control commands and status events travel over
// channels; the queue and those channels are the only synchronization
// boundaries with the rest of the pipeline.
package capture

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/framequeue"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultMaxTimeouts    = 8
	DefaultWarmupTimeout  = 5 * time.Second
	DefaultBarrierTimeout = time.Second
	defaultPollInterval   = 16 * time.Millisecond
)

// Options configures a capture worker.
type Options struct {
	// QueueCapacity is the display queue depth. Defaults to 1, which
	// gives "always latest frame" semantics.
	QueueCapacity int

	// PollInterval overrides the frame polling interval. Zero derives
	// it from the stream frame rate: half the frame period, so frames
	// are not missed without busy-spinning. Tests inject a near-zero
	// value to run fast.
	PollInterval time.Duration

	// Loop rewinds the source at end of stream instead of finishing.
	Loop bool

	// MaxTimeouts is the number of consecutive decode timeouts
	// tolerated before the worker escalates to a fatal error.
	MaxTimeouts int

	// WarmupTimeout bounds the wait for the first valid frame.
	WarmupTimeout time.Duration

	// BarrierTimeout bounds record barrier crossings. On timeout the
	// worker logs and proceeds in degraded mode.
	BarrierTimeout time.Duration

	Logger ports.Logger
}

type opcode int

const (
	opPlay opcode = iota
	opPause
	opSeek
	opRecordOn
	opRecordOff
	opShutdown
)

type command struct {
	op     opcode
	seekTo float64
	sink   RecordSink
	bar    *barrier.Barrier
}

// PausableSource is an optional capability of video sources that can
// suspend their internal clock, so that pausing a movie does not
// advance it. Live sources have no use for it.
type PausableSource interface {
	SetPaused(paused bool) error
}

// Worker pulls frames from one video source on its own goroutine.
type Worker struct {
	source ports.VideoSource
	opts   Options
	log    ports.Logger
	queue  *framequeue.Queue

	cmds   chan command
	events chan Event
	done   chan struct{}

	metaMu sync.Mutex
	meta   media.StreamMetadata

	frameCount atomic.Int64
	streamBits atomic.Uint64 // float64 bits of the current stream time
	loops      atomic.Int32

	started      bool
	shutdownOnce sync.Once
}

// New creates a capture worker for the given source. The worker does
// not touch the source until Start.
func New(source ports.VideoSource, opts Options) *Worker {
	if opts.QueueCapacity < 1 {
		opts.QueueCapacity = 1
	}
	if opts.MaxTimeouts <= 0 {
		opts.MaxTimeouts = DefaultMaxTimeouts
	}
	if opts.WarmupTimeout <= 0 {
		opts.WarmupTimeout = DefaultWarmupTimeout
	}
	if opts.BarrierTimeout <= 0 {
		opts.BarrierTimeout = DefaultBarrierTimeout
	}
	log := opts.Logger
	if log == nil {
		log = ports.NopLogger{}
	}

	w := &Worker{
		source: source,
		opts:   opts,
		log:    log.WithComponent("capture"),
		queue:  framequeue.New(opts.QueueCapacity),
		cmds:   make(chan command, 64),
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
	w.frameCount.Store(media.NoFrameIndex)
	return w
}

// Start opens the source, spawns the worker goroutine and blocks until
// the warm-up barrier releases, i.e. the first valid frame and
// metadata exist. Open failures are returned synchronously before any
// goroutine is spawned, so the caller never waits on a worker that
// cannot make progress.
func (w *Worker) Start(ctx context.Context, src media.Source) (media.StreamMetadata, error) {
	if w.started {
		return media.StreamMetadata{}, fmt.Errorf("capture: worker already started")
	}

	meta, err := w.source.Open(ctx, src)
	if err != nil {
		return media.StreamMetadata{}, fmt.Errorf("open %s: %w", src, err)
	}
	w.setMetadata(meta)
	w.started = true

	warmup := barrier.New(2)
	go w.run(warmup)

	if err := warmup.Wait(w.opts.WarmupTimeout); err != nil {
		w.log.Warn("Warm-up barrier timed out, continuing without first frame")
	}
	return w.Metadata(), nil
}

// Queue returns the display frame queue. Dequeuing transfers frame
// ownership to the caller.
func (w *Worker) Queue() *framequeue.Queue {
	return w.queue
}

// Events returns the status event channel drained by the controller.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Done is closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Metadata returns the current stream metadata value.
func (w *Worker) Metadata() media.StreamMetadata {
	w.metaMu.Lock()
	defer w.metaMu.Unlock()
	return w.meta
}

// FrameCount returns the index of the most recently decoded frame,
// media.NoFrameIndex before the first one.
func (w *Worker) FrameCount() int64 {
	return w.frameCount.Load()
}

// StreamTime returns the presentation timestamp of the most recent
// frame in seconds.
func (w *Worker) StreamTime() float64 {
	return math.Float64frombits(w.streamBits.Load())
}

// Loops returns how many times the stream has wrapped around.
func (w *Worker) Loops() int {
	return int(w.loops.Load())
}

// Play resumes frame retention for display.
func (w *Worker) Play() { w.send(command{op: opPlay}) }

// Pause suspends frame retention; decoding bookkeeping continues so
// resuming does not lose sync.
func (w *Worker) Pause() { w.send(command{op: opPause}) }

// Seek repositions the stream to t seconds. The worker returns to the
// state that preceded the seek once a frame at t has been acquired.
func (w *Worker) Seek(t float64) { w.send(command{op: opSeek, seekTo: t}) }

// EnableRecord starts forwarding cloned frames to sink. The worker
// crosses bar before the first frame is forwarded, so the audio
// collaborator starts within one frame interval.
func (w *Worker) EnableRecord(sink RecordSink, bar *barrier.Barrier) {
	w.send(command{op: opRecordOn, sink: sink, bar: bar})
}

// DisableRecord stops forwarding frames, crossing bar first.
func (w *Worker) DisableRecord(bar *barrier.Barrier) {
	w.send(command{op: opRecordOff, bar: bar})
}

// Shutdown stops the worker, closes the source and drains the queue.
// Idempotent; blocks until the goroutine exits or a bounded grace
// period elapses. Safe to call even while the worker is blocked inside
// the source, because source reads are timeout-bounded.
func (w *Worker) Shutdown() {
	if !w.started {
		return
	}
	w.shutdownOnce.Do(func() {
		w.send(command{op: opShutdown})
	})
	select {
	case <-w.done:
	case <-time.After(w.opts.WarmupTimeout + 2*time.Second):
		w.log.Error("Capture worker did not exit in time")
	}
}

func (w *Worker) send(cmd command) {
	select {
	case <-w.done:
	case w.cmds <- cmd:
	}
}

func (w *Worker) post(ev Event) {
	select {
	case w.events <- ev:
		return
	default:
	}
	// Channel full: evict the oldest event so the newest one wins.
	select {
	case <-w.events:
	default:
	}
	select {
	case w.events <- ev:
	default:
	}
}

func (w *Worker) setMetadata(meta media.StreamMetadata) {
	w.metaMu.Lock()
	w.meta = meta
	w.metaMu.Unlock()
}

func (w *Worker) pollInterval() time.Duration {
	if w.opts.PollInterval > 0 {
		return w.opts.PollInterval
	}
	interval := w.Metadata().FrameRate.Interval()
	if interval <= 0 {
		return defaultPollInterval
	}
	// Half the frame period: no missed frames, no busy-spinning.
	return time.Duration(interval * float64(time.Second) / 2)
}
