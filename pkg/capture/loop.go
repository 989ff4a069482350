package capture

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
)

// loopState is the worker goroutine's private state. It never leaves
// the goroutine; other threads observe it only through atomics, the
// frame queue and the event channel.
type loopState struct {
	mode       media.PlaybackState
	resume     media.PlaybackState
	seeking    bool
	recording  bool
	sink       RecordSink
	recStart   float64
	lastQueued float64
	timeouts   int
}

func (w *Worker) run(warmup *barrier.Barrier) {
	defer w.cleanup()

	st := &loopState{
		mode:       media.StateNotStarted,
		lastQueued: math.Inf(-1),
	}

	if !w.warmUp(warmup, st) {
		return
	}

	poll := w.pollInterval()
	for {
		if !w.drainCommands(st) {
			return
		}

		// End of stream without looping: idle until a command
		// arrives rather than spinning on the closed source.
		if st.mode == media.StateFinished {
			cmd, ok := <-w.cmds
			if !ok || !w.handleCommand(cmd, st) {
				return
			}
			continue
		}

		frame, err := w.source.NextFrame(poll)
		switch {
		case err == nil:
			st.timeouts = 0
			w.handleFrame(st, frame)

		case errors.Is(err, media.ErrEndOfStream):
			if w.opts.Loop {
				if serr := w.source.Seek(0); serr != nil {
					w.fatal(st, fmt.Errorf("rewind: %w", serr))
					continue
				}
				w.loops.Add(1)
				st.lastQueued = math.Inf(-1)
				w.streamBits.Store(0)
				w.post(Event{Kind: EventLooped, Loops: w.Loops()})
				w.log.Debug("Stream looped (%d)", w.Loops())
				continue
			}
			st.mode = media.StateFinished
			w.post(Event{Kind: EventState, State: media.StateFinished})
			w.log.Debug("End of stream after %d frames", w.FrameCount()+1)

		default:
			// Transient failures are retried up to a bounded count
			// before escalating; unbounded silent retry is not
			// allowed.
			st.timeouts++
			if st.timeouts >= w.opts.MaxTimeouts {
				w.fatal(st, fmt.Errorf("%w: %d consecutive read failures: %v",
					media.ErrDecodeFatal, st.timeouts, err))
			}
		}
	}
}

// warmUp polls the source until the first valid frame exists, then
// releases the warm-up barrier. Returns false if the worker should
// exit. The first frame is pushed to the queue so consumers have an
// image to show before playback starts.
func (w *Worker) warmUp(warmup *barrier.Barrier, st *loopState) bool {
	deadline := time.Now().Add(w.opts.WarmupTimeout)
	poll := w.pollInterval()

	for {
		if !w.drainCommands(st) {
			warmup.Wait(w.opts.BarrierTimeout)
			return false
		}

		frame, err := w.source.NextFrame(poll)
		if err == nil {
			w.handleFrame(st, frame)
			break
		}
		if errors.Is(err, media.ErrEndOfStream) {
			// Zero-frame stream: report finished, keep the worker
			// alive so shutdown stays orderly.
			st.mode = media.StateFinished
			w.post(Event{Kind: EventState, State: media.StateFinished})
			break
		}
		if time.Now().After(deadline) {
			w.fatal(st, fmt.Errorf("%w: no frame within warm-up window", media.ErrDecodeFatal))
			warmup.Wait(w.opts.BarrierTimeout)
			return false
		}
	}

	if err := warmup.Wait(w.opts.WarmupTimeout); err != nil {
		w.log.Warn("Nobody waiting on warm-up barrier")
	}
	w.log.Debug("Warm-up complete, %dx%d at %s fps",
		w.Metadata().Width, w.Metadata().Height, w.Metadata().FrameRate)
	return true
}

func (w *Worker) handleFrame(st *loopState, frame *media.FrameBuffer) {
	idx := w.frameCount.Add(1)
	frame.FrameIndex = idx
	w.streamBits.Store(math.Float64bits(frame.AbsTime))

	// Mid-stream format renegotiation is rare; treat it as a new
	// stream by publishing a fresh metadata value.
	meta := w.Metadata()
	if frame.Width != meta.Width || frame.Height != meta.Height {
		next := meta
		next.Width = frame.Width
		next.Height = frame.Height
		next.PixelFormat = frame.PixelFormat
		w.setMetadata(next)
		w.post(Event{Kind: EventFormat, Meta: &next})
		w.log.Warn("Stream format changed to %dx%d", next.Width, next.Height)
	}

	if st.seeking {
		st.seeking = false
		st.mode = st.resume
		st.lastQueued = math.Inf(-1)
		w.post(Event{Kind: EventState, State: st.mode})
	}

	// Never queue frames older than what has been seen; the queue's
	// drop-oldest policy may skip indices downstream but must never
	// reorder them.
	if frame.AbsTime < st.lastQueued {
		return
	}
	st.lastQueued = frame.AbsTime

	if st.recording && st.sink != nil {
		st.sink(frame.Clone(), frame.AbsTime-st.recStart)
	}
	if st.mode == media.StatePlaying || st.mode == media.StateNotStarted && idx == 0 {
		w.queue.Push(frame)
	}
}

// drainCommands processes all pending commands without blocking.
// Returns false when the worker should exit.
func (w *Worker) drainCommands(st *loopState) bool {
	for {
		select {
		case cmd := <-w.cmds:
			if !w.handleCommand(cmd, st) {
				return false
			}
		default:
			return true
		}
	}
}

func (w *Worker) handleCommand(cmd command, st *loopState) bool {
	switch cmd.op {
	case opPlay:
		if st.mode == media.StateFinished {
			// Replay from the start.
			if err := w.source.Seek(0); err != nil {
				w.log.Warn("Replay seek failed: %s", err)
			}
			st.lastQueued = math.Inf(-1)
			w.streamBits.Store(0)
		}
		st.mode = media.StatePlaying
		w.setSourcePaused(false)
		w.post(Event{Kind: EventState, State: media.StatePlaying})

	case opPause:
		st.mode = media.StatePaused
		w.setSourcePaused(true)
		w.post(Event{Kind: EventState, State: media.StatePaused})

	case opSeek:
		switch st.mode {
		case media.StatePlaying, media.StatePaused:
			st.resume = st.mode
		default:
			st.resume = media.StatePaused
		}
		st.seeking = true
		st.mode = st.resume
		w.post(Event{Kind: EventState, State: media.StateSeeking})
		if err := w.source.Seek(cmd.seekTo); err != nil {
			w.log.Warn("Seek to %.3fs failed: %s", cmd.seekTo, err)
		}
		st.lastQueued = math.Inf(-1)
		w.streamBits.Store(math.Float64bits(cmd.seekTo))

	case opRecordOn:
		w.crossRecordBarrier(cmd.bar, "start")
		st.recording = true
		st.sink = cmd.sink
		st.recStart = w.StreamTime()
		w.log.Debug("Recording enabled at stream time %.3fs", st.recStart)

	case opRecordOff:
		w.crossRecordBarrier(cmd.bar, "stop")
		st.recording = false
		st.sink = nil
		w.log.Debug("Recording disabled")

	case opShutdown:
		return false
	}
	return true
}

func (w *Worker) crossRecordBarrier(bar *barrier.Barrier, what string) {
	if bar == nil {
		return
	}
	if err := bar.Wait(w.opts.BarrierTimeout); err != nil {
		w.log.Warn("Record %s barrier timed out, continuing unsynchronized", what)
	}
}

func (w *Worker) setSourcePaused(paused bool) {
	if ps, ok := w.source.(PausableSource); ok {
		if err := ps.SetPaused(paused); err != nil {
			w.log.Warn("Source pause toggle failed: %s", err)
		}
	}
}

func (w *Worker) fatal(st *loopState, err error) {
	st.mode = media.StateFinished
	w.post(Event{Kind: EventError, State: media.StateFinished, Err: err})
	w.log.Error("Capture failed: %s", err)
	// Drop into idle; the controller decides what happens next.
}

func (w *Worker) cleanup() {
	if err := w.source.Close(); err != nil {
		w.log.Warn("Source close failed: %s", err)
	}
	w.queue.Clear()
	close(w.done)
}
