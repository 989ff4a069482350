// Package barrier provides a reusable rendezvous point for a fixed
// number of goroutines.
//
// The pipeline uses two barrier instances per capture session: one to
// hold the controller until the first valid frame and metadata exist
// (warm-up), and one to align the capture worker with the audio
// recorder when recording starts or stops.
package barrier

import (
	"sync"
	"time"

	"github.com/user/camstream/pkg/media"
)

// Barrier blocks each arriving party until all parties have arrived,
// then releases them together. After a release the barrier resets and
// can be crossed again.
type Barrier struct {
	mu      sync.Mutex
	parties int
	waiting int
	gen     chan struct{}
}

// New creates a barrier for the given number of parties. Fewer than
// two parties is raised to two.
func New(parties int) *Barrier {
	if parties < 2 {
		parties = 2
	}
	return &Barrier{
		parties: parties,
		gen:     make(chan struct{}),
	}
}

// Parties returns the number of participating goroutines.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have arrived or the timeout elapses.
//
// On timeout it returns media.ErrBarrierTimeout and withdraws this
// party, so a stalled partner can never permanently freeze the caller.
// Callers are expected to log the timeout and proceed in degraded mode.
func (b *Barrier) Wait(timeout time.Duration) error {
	b.mu.Lock()
	gen := b.gen
	b.waiting++
	if b.waiting >= b.parties {
		b.waiting = 0
		b.gen = make(chan struct{})
		close(gen)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-gen:
		return nil
	case <-timer.C:
		b.mu.Lock()
		defer b.mu.Unlock()
		select {
		case <-gen:
			// Released while the timer fired.
			return nil
		default:
		}
		if b.waiting > 0 {
			b.waiting--
		}
		return media.ErrBarrierTimeout
	}
}
