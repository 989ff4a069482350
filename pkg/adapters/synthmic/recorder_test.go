package synthmic

import (
	"errors"
	"testing"
	"time"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
)

func TestRecorder_CapturesTone(t *testing.T) {
	r := New(Options{SampleRate: 8000, Channels: 1})

	if err := r.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := r.Poll(); err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if err := r.Stop(nil); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	track, err := r.GetRecording()
	if err != nil {
		t.Fatalf("get recording failed: %v", err)
	}
	if track.Empty() {
		t.Fatal("expected captured samples")
	}
	if track.SampleRate != 8000 || track.Channels != 1 {
		t.Errorf("unexpected track format %d/%d", track.SampleRate, track.Channels)
	}
	if track.Duration() < 0.02 {
		t.Errorf("expected at least 20ms of audio, got %f s", track.Duration())
	}

	// A sine tone is not silence.
	var nonzero bool
	for _, s := range track.Samples {
		if s != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("expected non-silent samples")
	}
}

func TestRecorder_Stereo(t *testing.T) {
	r := New(Options{SampleRate: 8000, Channels: 2})

	if err := r.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := r.Stop(nil); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	track, err := r.GetRecording()
	if err != nil {
		t.Fatalf("get recording failed: %v", err)
	}
	if len(track.Samples)%2 != 0 {
		t.Error("interleaved stereo sample count must be even")
	}
	// Both channels carry the same tone sample.
	if len(track.Samples) >= 2 && track.Samples[0] != track.Samples[1] {
		t.Error("expected identical samples across channels")
	}
}

func TestRecorder_PollRequiresRecording(t *testing.T) {
	r := New(Options{})
	if err := r.Poll(); !errors.Is(err, media.ErrNotRecording) {
		t.Errorf("expected ErrNotRecording, got %v", err)
	}
}

func TestRecorder_CrossesBarrier(t *testing.T) {
	r := New(Options{SampleRate: 8000, BarrierTimeout: time.Second})
	bar := barrier.New(2)

	done := make(chan error, 1)
	go func() {
		done <- r.Start(bar)
	}()

	if err := bar.Wait(time.Second); err != nil {
		t.Fatalf("video side barrier wait failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("recorder barrier crossing failed: %v", err)
	}
	r.Stop(nil)
}

func TestRecorder_RestartDiscardsPreviousTrack(t *testing.T) {
	r := New(Options{SampleRate: 8000})

	r.Start(nil)
	time.Sleep(10 * time.Millisecond)
	r.Stop(nil)
	first, _ := r.GetRecording()

	r.Start(nil)
	r.Stop(nil)
	second, _ := r.GetRecording()

	if len(second.Samples) >= len(first.Samples) && len(first.Samples) > 0 {
		t.Error("restart should reset the captured track")
	}
}
