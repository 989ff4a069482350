// Package framequeue provides the bounded frame queue between the
// capture worker and its consumers.
//
// The queue never blocks the producer: when full, the oldest frame is
// evicted to make room. Capture must not stall on a slow consumer, so
// backpressure is expressed as counted frame drops instead of blocking.
package framequeue

import (
	"sync"

	"github.com/user/camstream/pkg/media"
)

// Queue is a bounded drop-oldest queue of frames.
//
// The queue owns the frames it holds; Pop and Drain transfer ownership
// to the caller. Safe for concurrent use by one producer and any number
// of consumers.
type Queue struct {
	mu      sync.Mutex
	frames  []*media.FrameBuffer
	cap     int
	dropped uint64
}

// New creates a queue with the given capacity. Capacity below 1 is
// raised to 1, which gives "always latest frame" semantics.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{cap: capacity}
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return q.cap
}

// Len returns the number of queued frames.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// Push enqueues a frame, evicting the oldest queued frame when full.
// Never blocks.
func (q *Queue) Push(f *media.FrameBuffer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.frames) >= q.cap {
		n := len(q.frames) - q.cap + 1
		q.frames = q.frames[n:]
		q.dropped += uint64(n)
	}
	q.frames = append(q.frames, f)
}

// Pop dequeues the oldest frame. Returns false when the queue is empty.
func (q *Queue) Pop() (*media.FrameBuffer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.frames) == 0 {
		return nil, false
	}
	f := q.frames[0]
	q.frames = q.frames[1:]
	return f, true
}

// Newest drains the queue and returns only the most recent frame.
// Returns false when the queue is empty. Frames skipped over are
// counted as dropped.
func (q *Queue) Newest() (*media.FrameBuffer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.frames)
	if n == 0 {
		return nil, false
	}
	f := q.frames[n-1]
	if n > 1 {
		q.dropped += uint64(n - 1)
	}
	q.frames = q.frames[:0]
	return f, true
}

// Drain removes and returns all queued frames in order.
func (q *Queue) Drain() []*media.FrameBuffer {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.frames
	q.frames = nil
	return out
}

// Clear discards all queued frames.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.frames = nil
}

// Dropped returns the total number of frames evicted or skipped since
// the queue was created.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
