// Package synthmic provides a synthetic audio recorder that produces a
// sine tone. It stands in for a microphone during development and in
// tests, and exercises the same start/stop synchronization as a real
// device would.
package synthmic

import (
	"math"
	"sync"
	"time"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Options configures a synthetic recorder.
type Options struct {
	// SampleRate in Hz. Defaults to 48000.
	SampleRate int

	// Channels is the interleaved channel count. Defaults to 1.
	Channels int

	// Frequency of the tone in Hz. Defaults to 440.
	Frequency float64

	// BarrierTimeout bounds the wait for the video side at start and
	// stop. Defaults to 5 seconds.
	BarrierTimeout time.Duration
}

// Recorder implements ports.AudioRecorder with generated samples.
type Recorder struct {
	opts Options

	mu        sync.Mutex
	recording bool
	start     time.Time
	generated int64
	samples   []int16
}

// New creates a synthetic audio recorder.
func New(opts Options) *Recorder {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 48000
	}
	if opts.Channels <= 0 {
		opts.Channels = 1
	}
	if opts.Frequency <= 0 {
		opts.Frequency = 440
	}
	if opts.BarrierTimeout <= 0 {
		opts.BarrierTimeout = 5 * time.Second
	}
	return &Recorder{opts: opts}
}

// Start begins generating audio, then crosses the barrier so the
// video side starts stamping frames at the same instant.
func (r *Recorder) Start(bar *barrier.Barrier) error {
	r.mu.Lock()
	r.recording = true
	r.start = time.Now()
	r.generated = 0
	r.samples = nil
	r.mu.Unlock()

	if bar != nil {
		return bar.Wait(r.opts.BarrierTimeout)
	}
	return nil
}

// Stop finishes the track up to now, then crosses the barrier.
func (r *Recorder) Stop(bar *barrier.Barrier) error {
	r.mu.Lock()
	if r.recording {
		r.generateLocked(time.Now())
		r.recording = false
	}
	r.mu.Unlock()

	if bar != nil {
		return bar.Wait(r.opts.BarrierTimeout)
	}
	return nil
}

// Poll appends the samples accumulated since the previous call. A real
// device would drain its ring buffer here.
func (r *Recorder) Poll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return media.ErrNotRecording
	}
	r.generateLocked(time.Now())
	return nil
}

// GetRecording returns the captured track.
func (r *Recorder) GetRecording() (media.AudioTrack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int16, len(r.samples))
	copy(out, r.samples)
	return media.AudioTrack{
		SampleRate: r.opts.SampleRate,
		Channels:   r.opts.Channels,
		Samples:    out,
	}, nil
}

// generateLocked extends the tone to cover the wall clock up to now.
func (r *Recorder) generateLocked(now time.Time) {
	elapsed := now.Sub(r.start).Seconds()
	target := int64(elapsed * float64(r.opts.SampleRate))

	const amplitude = 0.3 * 32767
	step := 2 * math.Pi * r.opts.Frequency / float64(r.opts.SampleRate)

	for i := r.generated; i < target; i++ {
		v := int16(amplitude * math.Sin(step*float64(i)))
		for c := 0; c < r.opts.Channels; c++ {
			r.samples = append(r.samples, v)
		}
	}
	r.generated = target
}

// Ensure Recorder implements ports.AudioRecorder
var _ ports.AudioRecorder = (*Recorder)(nil)
