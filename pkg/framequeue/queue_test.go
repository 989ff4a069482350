package framequeue

import (
	"sync"
	"testing"

	"github.com/user/camstream/pkg/media"
)

func frame(index int64) *media.FrameBuffer {
	return &media.FrameBuffer{
		FrameIndex:  index,
		AbsTime:     float64(index) / 30,
		Width:       4,
		Height:      4,
		PixelFormat: media.FormatRGBA32,
		ColorData:   make([]byte, 4*4*4),
	}
}

func TestQueue_PushPop(t *testing.T) {
	q := New(3)

	for i := int64(0); i < 3; i++ {
		q.Push(frame(i))
	}
	if q.Len() != 3 {
		t.Fatalf("expected 3 queued frames, got %d", q.Len())
	}

	for i := int64(0); i < 3; i++ {
		f, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d: queue unexpectedly empty", i)
		}
		if f.FrameIndex != i {
			t.Errorf("pop %d: expected index %d, got %d", i, i, f.FrameIndex)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Error("expected empty queue after draining")
	}
	if q.Dropped() != 0 {
		t.Errorf("expected 0 dropped frames, got %d", q.Dropped())
	}
}

func TestQueue_DropOldestWhenFull(t *testing.T) {
	q := New(2)

	for i := int64(0); i < 5; i++ {
		q.Push(frame(i))
	}

	if q.Len() != 2 {
		t.Fatalf("expected queue at capacity 2, got %d", q.Len())
	}
	if q.Dropped() != 3 {
		t.Errorf("expected 3 dropped frames, got %d", q.Dropped())
	}

	// Survivors are the newest frames, still in order.
	f, _ := q.Pop()
	if f.FrameIndex != 3 {
		t.Errorf("expected oldest survivor index 3, got %d", f.FrameIndex)
	}
	f, _ = q.Pop()
	if f.FrameIndex != 4 {
		t.Errorf("expected newest survivor index 4, got %d", f.FrameIndex)
	}
}

func TestQueue_CapacityOneKeepsLatest(t *testing.T) {
	q := New(1)

	for i := int64(0); i < 10; i++ {
		q.Push(frame(i))
	}

	f, ok := q.Pop()
	if !ok {
		t.Fatal("expected one frame in the queue")
	}
	if f.FrameIndex != 9 {
		t.Errorf("expected latest frame index 9, got %d", f.FrameIndex)
	}
	if q.Dropped() != 9 {
		t.Errorf("expected 9 dropped frames, got %d", q.Dropped())
	}
}

func TestQueue_MinimumCapacity(t *testing.T) {
	q := New(0)
	if q.Cap() != 1 {
		t.Errorf("expected capacity raised to 1, got %d", q.Cap())
	}
	q = New(-5)
	if q.Cap() != 1 {
		t.Errorf("expected capacity raised to 1, got %d", q.Cap())
	}
}

func TestQueue_Newest(t *testing.T) {
	q := New(4)

	if _, ok := q.Newest(); ok {
		t.Error("expected Newest to report empty queue")
	}

	for i := int64(0); i < 4; i++ {
		q.Push(frame(i))
	}

	f, ok := q.Newest()
	if !ok {
		t.Fatal("expected a frame from Newest")
	}
	if f.FrameIndex != 3 {
		t.Errorf("expected newest index 3, got %d", f.FrameIndex)
	}
	if q.Len() != 0 {
		t.Errorf("expected queue drained by Newest, got %d", q.Len())
	}
	if q.Dropped() != 3 {
		t.Errorf("expected 3 skipped frames counted as dropped, got %d", q.Dropped())
	}
}

func TestQueue_Drain(t *testing.T) {
	q := New(4)
	for i := int64(0); i < 3; i++ {
		q.Push(frame(i))
	}

	frames := q.Drain()
	if len(frames) != 3 {
		t.Fatalf("expected 3 drained frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.FrameIndex != int64(i) {
			t.Errorf("drained frame %d: expected index %d, got %d", i, i, f.FrameIndex)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after Drain, got %d", q.Len())
	}
}

func TestQueue_OrderNeverInverts(t *testing.T) {
	// A fast producer against a slow consumer may skip frames but the
	// consumer must never observe an index going backwards.
	q := New(2)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := int64(0); i < 1000; i++ {
			q.Push(frame(i))
		}
	}()

	last := int64(media.NoFrameIndex)
	for {
		f, ok := q.Pop()
		if !ok {
			select {
			case <-done:
				for {
					f, ok := q.Pop()
					if !ok {
						return
					}
					if f.FrameIndex <= last {
						t.Fatalf("index went backwards: %d after %d", f.FrameIndex, last)
					}
					last = f.FrameIndex
				}
			default:
				continue
			}
		}
		if f.FrameIndex <= last {
			t.Fatalf("index went backwards: %d after %d", f.FrameIndex, last)
		}
		last = f.FrameIndex
	}
}

func TestQueue_ConcurrentConsumers(t *testing.T) {
	q := New(8)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := int64(0); i < 500; i++ {
			q.Push(frame(i))
		}
	}()

	var mu sync.Mutex
	var popped int
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, ok := q.Pop(); ok {
					mu.Lock()
					popped++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	total := uint64(popped) + q.Dropped() + uint64(q.Len())
	if total != 500 {
		t.Errorf("expected popped+dropped+queued to account for 500 frames, got %d", total)
	}
}
