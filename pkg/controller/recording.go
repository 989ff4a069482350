package controller

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/user/camstream/pkg/barrier"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/writer"
)

// Recording is the handle for one in-flight recording.
type Recording struct {
	// ID uniquely identifies this recording session.
	ID string

	writer      *writer.Writer
	outPath     string
	videoPath   string
	startStream float64
	hasAudio    bool
}

// DroppedFrames returns frames lost to writer backpressure so far.
func (r *Recording) DroppedFrames() uint64 {
	return r.writer.Dropped()
}

// WrittenFrames returns frames handed to the encoder so far.
func (r *Recording) WrittenFrames() uint64 {
	return r.writer.Written()
}

// Record starts forwarding frames to a newly opened writer targeting
// outPath. Valid only while playing or paused; recording is orthogonal
// to the playback state and does not change it. Fails with
// media.ErrAlreadyRecording when a recording is in progress.
func (c *Controller) Record(outPath string, opts media.WriterOptions) (*Recording, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainEventsLocked()

	if !c.isOpen {
		return nil, media.ErrNotOpen
	}
	if c.rec != nil {
		return nil, media.ErrAlreadyRecording
	}
	if c.state != media.StatePlaying && c.state != media.StatePaused {
		return nil, fmt.Errorf("playback: cannot record in state %s", c.state)
	}
	if c.opts.NewEncoder == nil || c.opts.FS == nil {
		return nil, fmt.Errorf("playback: recording not configured")
	}

	if opts.Width == 0 || opts.Height == 0 {
		opts.Width = c.meta.Width
		opts.Height = c.meta.Height
	}
	if opts.FPS == 0 {
		opts.FPS = c.meta.FrameRate.Float()
	}

	hasAudio := c.opts.Audio != nil
	videoPath := outPath
	if hasAudio {
		// The video track goes to a temporary file first; the merge
		// step produces outPath.
		tmp, err := c.opts.FS.TempFile("camstream_video_*" + filepath.Ext(outPath))
		if err != nil {
			return nil, fmt.Errorf("temp video file: %w", err)
		}
		videoPath = tmp
	}

	wr := writer.New(c.opts.NewEncoder(), c.opts.FS, c.opts.Logger, c.opts.WriterQueueSize)
	wr.Begin()
	if err := wr.Open(videoPath, opts); err != nil {
		wr.Shutdown()
		return nil, err
	}

	rec := &Recording{
		ID:          uuid.NewString(),
		writer:      wr,
		outPath:     outPath,
		videoPath:   videoPath,
		startStream: c.worker.StreamTime(),
		hasAudio:    hasAudio,
	}

	// The record barrier aligns the capture worker with the audio
	// recorder; both cross before the first frame or sample is
	// retained.
	var bar *barrier.Barrier
	if hasAudio {
		bar = barrier.New(2)
		audio := c.opts.Audio
		go func() {
			if err := audio.Start(bar); err != nil {
				c.log.Warn("Audio start failed: %s", err)
			}
		}()
	}
	c.worker.EnableRecord(func(f *media.FrameBuffer, pts float64) {
		_ = wr.WriteFrame(f, pts, false)
	}, bar)

	c.rec = rec
	c.log.Info("Recording started: %s", outPath)
	return rec, nil
}

// StopRecording stops frame forwarding, flushes the writer and, when
// an audio collaborator is active, merges both tracks into the final
// output. Blocks the caller, never the capture worker, until the
// writer confirms the close. A writer failure does not stop playback;
// it is reported here.
func (c *Controller) StopRecording(ctx context.Context) (media.SavedFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainEventsLocked()

	if c.rec == nil {
		return media.SavedFile{}, media.ErrNotRecording
	}
	rec := c.rec
	c.rec = nil

	var bar *barrier.Barrier
	if rec.hasAudio {
		bar = barrier.New(2)
		audio := c.opts.Audio
		go func() {
			if err := audio.Stop(bar); err != nil {
				c.log.Warn("Audio stop failed: %s", err)
			}
		}()
	}
	c.worker.DisableRecord(bar)

	closeErr := rec.writer.Close()
	rec.writer.Shutdown()

	saved := media.SavedFile{
		Path:          rec.outPath,
		DroppedFrames: rec.writer.Dropped(),
		HasAudio:      rec.hasAudio,
	}

	if closeErr != nil {
		return saved, closeErr
	}

	if rec.hasAudio {
		if err := c.mergeAudioLocked(ctx, rec); err != nil {
			return saved, err
		}
	}

	if size, err := c.opts.FS.Size(rec.outPath); err == nil {
		saved.Bytes = size
	}
	c.lastClip = &saved
	c.log.Info("Recording saved: %s (%d bytes, %d dropped)",
		saved.Path, saved.Bytes, saved.DroppedFrames)
	return saved, nil
}

// mergeAudioLocked writes the captured audio track to a temporary WAV
// file and muxes it with the recorded video. Runs on the caller's
// goroutine, off the capture path.
func (c *Controller) mergeAudioLocked(ctx context.Context, rec *Recording) error {
	track, err := c.opts.Audio.GetRecording()
	if err != nil {
		return fmt.Errorf("get audio recording: %w", err)
	}

	if track.Empty() || c.opts.Merger == nil {
		// Nothing to merge; carry the video over as-is.
		if err := c.opts.FS.Rename(rec.videoPath, rec.outPath); err != nil {
			return fmt.Errorf("move recording: %w", err)
		}
		return nil
	}

	audioPath, err := c.opts.FS.TempFile("camstream_audio_*.wav")
	if err != nil {
		return fmt.Errorf("temp audio file: %w", err)
	}
	defer func() {
		_ = c.opts.FS.Remove(audioPath)
	}()

	if err := c.opts.FS.WriteFile(audioPath, media.EncodeWAV(track)); err != nil {
		return fmt.Errorf("write audio track: %w", err)
	}
	if err := c.opts.Merger.Merge(ctx, rec.videoPath, audioPath, rec.outPath); err != nil {
		return fmt.Errorf("merge tracks: %w", err)
	}
	_ = c.opts.FS.Remove(rec.videoPath)
	return nil
}

// abortRecordingLocked tears down an in-flight recording during Stop
// or Close without producing an output file.
func (c *Controller) abortRecordingLocked() {
	rec := c.rec
	c.rec = nil
	c.worker.DisableRecord(nil)
	if err := rec.writer.Close(); err != nil {
		c.log.Warn("Recording discarded with error: %s", err)
	}
	rec.writer.Shutdown()
	if rec.hasAudio {
		_ = c.opts.FS.Remove(rec.videoPath)
	}
	c.log.Info("Recording aborted")
}
