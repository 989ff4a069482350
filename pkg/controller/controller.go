// Package controller exposes the public playback state machine.
//
// A Controller owns one capture worker and, while recording, one
// writer. Its control methods are non-blocking: they post a command
// and return, and the effect becomes visible within one capture-loop
// iteration. The controller is the only owner of PlaybackState;
// workers report back over a status channel that the controller drains
// on every query.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/camstream/pkg/capture"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Options configures a playback controller.
type Options struct {
	// QueueCapacity is the display queue depth, default 1.
	QueueCapacity int

	// Loop rewinds the stream at end instead of finishing.
	Loop bool

	// PollInterval overrides the capture poll interval. Zero derives
	// it from the stream frame rate.
	PollInterval time.Duration

	// MaxTimeouts bounds consecutive decode timeouts before the
	// capture worker escalates to fatal.
	MaxTimeouts int

	// WarmupTimeout bounds the wait for the first frame on Open.
	WarmupTimeout time.Duration

	// BarrierTimeout bounds record barrier crossings.
	BarrierTimeout time.Duration

	// WriterQueueSize bounds writer backpressure loss, default
	// writer.DefaultQueueSize.
	WriterQueueSize int

	// NewEncoder builds a fresh encoder for each recording. Required
	// for Record.
	NewEncoder func() ports.VideoEncoder

	// Audio is the optional audio collaborator recorded in lockstep
	// with video.
	Audio ports.AudioRecorder

	// Merger combines audio and video tracks after a recording.
	// Required when Audio is set.
	Merger ports.TrackMerger

	// FS is used for recording output. Required for Record.
	FS ports.FileSystem

	// Sink optionally receives copies of displayed frames for
	// diagnostics.
	Sink ports.FrameSink

	Logger ports.Logger
}

// Controller drives one video source through open, play, pause, seek,
// record and save. Safe for use from a single caller goroutine (the
// render/UI thread); internal workers run on their own goroutines.
type Controller struct {
	source ports.VideoSource
	opts   Options
	log    ports.Logger

	mu        sync.Mutex
	worker    *capture.Worker
	state     media.PlaybackState
	meta      media.StreamMetadata
	lastErr   error
	lastFrame *media.FrameBuffer
	rec       *Recording
	lastClip  *media.SavedFile
	src       media.Source
	isOpen    bool
}

// New creates a controller for the given source.
func New(source ports.VideoSource, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Controller{
		source: source,
		opts:   opts,
		log:    log.WithComponent("playback"),
		state:  media.StateNotStarted,
	}
}

// Open starts the capture worker and blocks until the first valid
// frame and metadata are available. The playback state stays
// NOT_STARTED; call Play to begin retaining frames for display.
func (c *Controller) Open(ctx context.Context, src media.Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isOpen {
		return fmt.Errorf("playback: already open")
	}

	worker := capture.New(c.source, capture.Options{
		QueueCapacity:  c.opts.QueueCapacity,
		PollInterval:   c.opts.PollInterval,
		Loop:           c.opts.Loop,
		MaxTimeouts:    c.opts.MaxTimeouts,
		WarmupTimeout:  c.opts.WarmupTimeout,
		BarrierTimeout: c.opts.BarrierTimeout,
		Logger:         c.opts.Logger,
	})
	meta, err := worker.Start(ctx, src)
	if err != nil {
		return err
	}

	c.worker = worker
	c.meta = meta
	c.src = src
	c.state = media.StateNotStarted
	c.lastErr = nil
	c.lastFrame = nil
	c.isOpen = true
	c.log.Info("Opened %s: %dx%d at %s fps", src, meta.Width, meta.Height, meta.FrameRate)
	return nil
}

// Metadata returns the current stream metadata.
func (c *Controller) Metadata() media.StreamMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainEventsLocked()
	return c.meta
}

// State returns the playback state after draining pending worker
// events.
func (c *Controller) State() media.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainEventsLocked()
	return c.state
}

// LastError returns the most recent fatal capture error, if any.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainEventsLocked()
	return c.lastErr
}

// Play begins or resumes playback. Non-blocking.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return media.ErrNotOpen
	}
	c.worker.Play()
	c.state = media.StatePlaying
	return nil
}

// Pause suspends frame retention without losing stream sync.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return media.ErrNotOpen
	}
	c.worker.Pause()
	c.state = media.StatePaused
	return nil
}

// Seek repositions the stream to t seconds. Playback returns to the
// state that preceded the seek once the frame at t is acquired.
func (c *Controller) Seek(t float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return media.ErrNotOpen
	}
	c.worker.Seek(t)
	c.state = media.StateSeeking
	return nil
}

// Stop tears down the capture worker and any active recording.
// Terminal until Open or Replay is called again.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Controller) stopLocked() error {
	if !c.isOpen {
		return media.ErrNotOpen
	}
	if c.rec != nil {
		c.abortRecordingLocked()
	}
	c.worker.Shutdown()
	c.state = media.StateStopped
	c.isOpen = false
	c.log.Info("Playback stopped")
	return nil
}

// Replay reopens the most recent source and starts playing from the
// beginning.
func (c *Controller) Replay(ctx context.Context) error {
	c.mu.Lock()
	src := c.src
	open := c.isOpen
	c.mu.Unlock()

	if open {
		if err := c.Stop(); err != nil {
			return err
		}
	}
	if err := c.Open(ctx, src); err != nil {
		return err
	}
	return c.Play()
}

// GetRecentFrame returns the newest available frame, or the previously
// returned frame unchanged when no new frame has arrived, so the
// render host can redraw a static image without special cases. Never
// blocks. The caller must copy pixels out before its next call if it
// needs to retain them.
func (c *Controller) GetRecentFrame() *media.FrameBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainEventsLocked()

	if c.worker == nil {
		return c.lastFrame
	}
	if f, ok := c.worker.Queue().Newest(); ok {
		c.lastFrame = f
		if c.opts.Sink != nil && c.opts.Sink.Enabled() {
			if err := c.opts.Sink.SaveFrame(f.FrameIndex, f); err != nil {
				c.log.Warn("Frame sink failed: %s", err)
			}
		}
	}
	return c.lastFrame
}

// Update drains worker status and gives the audio recorder a chance to
// move samples out of device buffers. Call it once per render frame.
func (c *Controller) Update() {
	c.mu.Lock()
	recording := c.rec != nil
	c.drainEventsLocked()
	c.mu.Unlock()

	if recording && c.opts.Audio != nil {
		if err := c.opts.Audio.Poll(); err != nil {
			c.log.Warn("Audio poll failed: %s", err)
		}
	}
}

// StreamTime returns the presentation timestamp of the newest decoded
// frame in seconds.
func (c *Controller) StreamTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.worker == nil {
		return 0
	}
	return c.worker.StreamTime()
}

// FrameCount returns the index of the newest decoded frame,
// media.NoFrameIndex before the first.
func (c *Controller) FrameCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.worker == nil {
		return media.NoFrameIndex
	}
	return c.worker.FrameCount()
}

// Loops returns how many times a looping stream has wrapped around.
func (c *Controller) Loops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.worker == nil {
		return 0
	}
	return c.worker.Loops()
}

// DroppedFrames returns frames evicted from the display queue.
func (c *Controller) DroppedFrames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.worker == nil {
		return 0
	}
	return c.worker.Queue().Dropped()
}

// LastClip returns the most recently saved recording, if any.
func (c *Controller) LastClip() (media.SavedFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastClip == nil {
		return media.SavedFile{}, false
	}
	return *c.lastClip, true
}

// Close shuts everything down. Idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	return c.stopLocked()
}

// drainEventsLocked applies all pending worker status events to the
// controller state. Must be called with c.mu held.
func (c *Controller) drainEventsLocked() {
	if c.worker == nil {
		return
	}
	for {
		select {
		case ev := <-c.worker.Events():
			switch ev.Kind {
			case capture.EventState:
				if c.state != media.StateStopped {
					c.state = ev.State
				}
			case capture.EventError:
				c.lastErr = ev.Err
				c.state = media.StateFinished
				c.log.Error("Capture error: %s", ev.Err)
			case capture.EventFormat:
				if ev.Meta != nil {
					c.meta = *ev.Meta
				}
			case capture.EventLooped:
				c.log.Debug("Looped playback (%d)", ev.Loops)
			}
		default:
			return
		}
	}
}
