package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/mocks"
)

// fastOptions keeps the worker loop responsive in tests.
func fastOptions() Options {
	return Options{
		QueueCapacity: 4,
		PollInterval:  time.Millisecond,
		MaxTimeouts:   4,
		WarmupTimeout: 2 * time.Second,
	}
}

// awaitEvent drains the worker's event channel until pred matches or
// the timeout expires.
func awaitEvent(t *testing.T, w *Worker, timeout time.Duration, pred func(Event) bool) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-w.Events():
			if pred(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("expected event did not arrive")
			return Event{}
		}
	}
}

func TestWorker_StartDeliversFirstFrame(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	meta, err := w.Start(context.Background(), media.DeviceSource(0))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	if meta.Width != 640 || meta.Height != 480 {
		t.Errorf("unexpected metadata %dx%d", meta.Width, meta.Height)
	}
	if !src.OpenCalled() {
		t.Error("source was not opened")
	}

	// Warm-up decoded the first frame and queued it for display.
	if w.FrameCount() < 0 {
		t.Errorf("expected a decoded frame after warm-up, count %d", w.FrameCount())
	}
	f, ok := w.Queue().Newest()
	if !ok {
		t.Fatal("expected the first frame in the display queue")
	}
	if f.FrameIndex != 0 {
		t.Errorf("expected first frame index 0, got %d", f.FrameIndex)
	}
}

func TestWorker_OpenFailureIsSynchronous(t *testing.T) {
	src := &mocks.VideoSource{
		OpenFunc: func(ctx context.Context, s media.Source) (media.StreamMetadata, error) {
			return media.StreamMetadata{}, media.ErrSourceNotFound
		},
	}
	w := New(src, fastOptions())

	_, err := w.Start(context.Background(), media.FileSource("missing.mp4"))
	if !errors.Is(err, media.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	if src.CloseCalls() != 0 {
		t.Error("no worker goroutine should exist after a failed open")
	}
}

func TestWorker_MonotonicRecordedIndexes(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	var mu sync.Mutex
	var indexes []int64
	var stamps []float64
	w.Play()
	w.EnableRecord(func(f *media.FrameBuffer, pts float64) {
		mu.Lock()
		indexes = append(indexes, f.FrameIndex)
		stamps = append(stamps, pts)
		mu.Unlock()
	}, nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(indexes)
		mu.Unlock()
		if n >= 20 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("collected only %d recorded frames", n)
		}
		time.Sleep(time.Millisecond)
	}
	w.DisableRecord(nil)

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(indexes); i++ {
		if indexes[i] <= indexes[i-1] {
			t.Fatalf("frame index went backwards: %d after %d", indexes[i], indexes[i-1])
		}
		if stamps[i] < stamps[i-1] {
			t.Fatalf("recording pts went backwards: %f after %f", stamps[i], stamps[i-1])
		}
	}
	if stamps[0] < 0 || stamps[0] > 1 {
		t.Errorf("first recorded pts should be near the recording start, got %f", stamps[0])
	}
}

func TestWorker_TimeoutEscalatesToFatal(t *testing.T) {
	var calls atomic.Int64
	src := &mocks.VideoSource{}
	src.NextFrameFunc = func(timeout time.Duration) (*media.FrameBuffer, error) {
		n := calls.Add(1)
		if n == 1 {
			return mocks.NewFrame(0, 640, 480), nil
		}
		return nil, media.ErrDecodeTimeout
	}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	ev := awaitEvent(t, w, 2*time.Second, func(ev Event) bool {
		return ev.Kind == EventError
	})
	if !errors.Is(ev.Err, media.ErrDecodeFatal) {
		t.Errorf("expected ErrDecodeFatal, got %v", ev.Err)
	}
	if ev.State != media.StateFinished {
		t.Errorf("expected finished state after fatal error, got %s", ev.State)
	}
}

func TestWorker_TransientTimeoutRecovers(t *testing.T) {
	// Two timeouts between good frames stay below MaxTimeouts and
	// must never surface as an error.
	var calls atomic.Int64
	src := &mocks.VideoSource{}
	src.NextFrameFunc = func(timeout time.Duration) (*media.FrameBuffer, error) {
		n := calls.Add(1)
		if n%3 != 0 {
			return nil, media.ErrDecodeTimeout
		}
		return mocks.NewFrame(n/3-1, 640, 480), nil
	}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()
	w.Play()

	deadline := time.Now().Add(2 * time.Second)
	for w.FrameCount() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("decoded only %d frames", w.FrameCount()+1)
		}
		time.Sleep(time.Millisecond)
	}

	select {
	case ev := <-w.Events():
		if ev.Kind == EventError {
			t.Fatalf("unexpected fatal error: %v", ev.Err)
		}
	default:
	}
}

func TestWorker_EndOfStream(t *testing.T) {
	const total = 5
	var calls atomic.Int64
	src := &mocks.VideoSource{}
	src.NextFrameFunc = func(timeout time.Duration) (*media.FrameBuffer, error) {
		n := calls.Add(1)
		if n > total {
			return nil, media.ErrEndOfStream
		}
		return mocks.NewFrame(n-1, 640, 480), nil
	}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	w.Play()

	ev := awaitEvent(t, w, 2*time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StateFinished
	})
	if ev.State != media.StateFinished {
		t.Errorf("expected finished, got %s", ev.State)
	}
	if w.FrameCount() != total-1 {
		t.Errorf("expected final frame index %d, got %d", total-1, w.FrameCount())
	}

	// The worker idles after end of stream and still shuts down cleanly.
	w.Shutdown()
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after shutdown")
	}
	if src.CloseCalls() != 1 {
		t.Errorf("expected source closed once, got %d", src.CloseCalls())
	}
}

func TestWorker_ZeroFrameStream(t *testing.T) {
	src := &mocks.VideoSource{}
	src.NextFrameFunc = func(timeout time.Duration) (*media.FrameBuffer, error) {
		return nil, media.ErrEndOfStream
	}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.FileSource("empty.mp4")); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	awaitEvent(t, w, 2*time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StateFinished
	})
	if w.FrameCount() != media.NoFrameIndex {
		t.Errorf("expected no decoded frames, count %d", w.FrameCount())
	}
}

func TestWorker_Loop(t *testing.T) {
	const clipFrames = 5
	var pos atomic.Int64
	src := &mocks.VideoSource{}
	src.NextFrameFunc = func(timeout time.Duration) (*media.FrameBuffer, error) {
		n := pos.Add(1)
		if n > clipFrames {
			return nil, media.ErrEndOfStream
		}
		return mocks.NewFrame(n-1, 640, 480), nil
	}
	src.SeekFunc = func(seconds float64) error {
		pos.Store(int64(seconds * 30))
		return nil
	}

	opts := fastOptions()
	opts.Loop = true
	w := New(src, opts)

	if _, err := w.Start(context.Background(), media.FileSource("clip.mp4")); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()
	w.Play()

	ev := awaitEvent(t, w, 2*time.Second, func(ev Event) bool {
		return ev.Kind == EventLooped
	})
	if ev.Loops < 1 {
		t.Errorf("expected at least one loop, got %d", ev.Loops)
	}
	if w.Loops() < 1 {
		t.Errorf("expected loop counter >= 1, got %d", w.Loops())
	}

	seeks := src.SeekCalls()
	if len(seeks) == 0 || seeks[0] != 0 {
		t.Errorf("expected rewind seek to 0, got %v", seeks)
	}
}

func TestWorker_PauseSuspendsQueueing(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	w.Play()
	awaitEvent(t, w, time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StatePlaying
	})

	w.Pause()
	awaitEvent(t, w, time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StatePaused
	})

	w.Queue().Clear()
	before := w.FrameCount()
	time.Sleep(50 * time.Millisecond)

	if w.Queue().Len() != 0 {
		t.Errorf("paused worker queued %d frames", w.Queue().Len())
	}
	// Decoding bookkeeping continues while paused so resuming does not
	// lose stream sync.
	if w.FrameCount() <= before {
		t.Error("expected decoding to continue while paused")
	}
}

func TestWorker_PausePropagatesToSource(t *testing.T) {
	src := &mocks.PausableVideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.FileSource("clip.mp4")); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	w.Play()
	w.Pause()
	awaitEvent(t, w, time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StatePaused
	})

	calls := src.PauseCalls()
	if len(calls) < 2 {
		t.Fatalf("expected pause toggles for play and pause, got %v", calls)
	}
	if calls[0] != false || calls[len(calls)-1] != true {
		t.Errorf("expected [false ... true], got %v", calls)
	}
}

func TestWorker_SeekRestoresPriorState(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.FileSource("clip.mp4")); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	w.Play()
	awaitEvent(t, w, time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StatePlaying
	})

	w.Seek(2.0)
	awaitEvent(t, w, time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StateSeeking
	})
	// The worker returns to the pre-seek state once a frame at the
	// target position has been acquired.
	awaitEvent(t, w, time.Second, func(ev Event) bool {
		return ev.Kind == EventState && ev.State == media.StatePlaying
	})

	seeks := src.SeekCalls()
	if len(seeks) != 1 || seeks[0] != 2.0 {
		t.Errorf("expected one seek to 2.0, got %v", seeks)
	}
}

func TestWorker_RecordBarrierAlignsCollaborator(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()
	w.Play()

	var got atomic.Int64
	bar := barrier.New(2)
	crossed := make(chan error, 1)
	go func() {
		crossed <- bar.Wait(time.Second)
	}()

	w.EnableRecord(func(f *media.FrameBuffer, pts float64) {
		got.Add(1)
	}, bar)

	if err := <-crossed; err != nil {
		t.Fatalf("collaborator barrier wait failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for got.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no frames forwarded after barrier crossing")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWorker_ShutdownIdempotent(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	w.Shutdown()
	w.Shutdown()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not exit")
	}
	if src.CloseCalls() != 1 {
		t.Errorf("expected exactly one source close, got %d", src.CloseCalls())
	}
	if w.Queue().Len() != 0 {
		t.Errorf("expected queue cleared on shutdown, got %d frames", w.Queue().Len())
	}
}

func TestWorker_StartTwice(t *testing.T) {
	src := &mocks.VideoSource{}
	w := New(src, fastOptions())

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Shutdown()

	if _, err := w.Start(context.Background(), media.DeviceSource(0)); err == nil {
		t.Error("expected second start to fail")
	}
}
