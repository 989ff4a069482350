// Package orchestrator coordinates a complete capture session: open a
// source, play it, optionally record a clip, and produce a summary.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/camstream/pkg/controller"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
	"github.com/user/camstream/pkg/summarizer"
)

// Config contains all configuration for one session.
type Config struct {
	// Source to open.
	Source media.Source

	// SourceBackend names the selected backend for the summary.
	SourceBackend string

	// OutputPath is the recording destination. Empty disables
	// recording and the session just plays.
	OutputPath string

	// Duration bounds the session. Zero runs until the stream
	// finishes, which for live sources means until ctx is canceled.
	Duration time.Duration

	// Encoding
	Codec   string
	Quality int
	Bitrate int

	// Audio enables the audio track when the controller carries an
	// audio recorder.
	Audio bool

	// SummaryPath, when set, receives a Markdown session summary.
	SummaryPath string

	// UpdateInterval is the housekeeping cadence. Defaults to the
	// render-loop rate of 33ms.
	UpdateInterval time.Duration
}

// RunResult reports what the session did.
type RunResult struct {
	FramesDecoded int64
	FramesDropped uint64
	Loops         int
	StreamTime    float64
	WallDuration  time.Duration
	Saved         *media.SavedFile
}

// Orchestrator drives one controller through a session.
type Orchestrator struct {
	ctrl   *controller.Controller
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a new Orchestrator.
func New(ctrl *controller.Controller, fs ports.FileSystem, logger ports.Logger) *Orchestrator {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Orchestrator{
		ctrl:   ctrl,
		fs:     fs,
		logger: logger,
	}
}

// Run executes the session.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	started := time.Now()
	result := RunResult{}

	o.logger.Info(l10n.T("Opening source %s"), config.Source)
	if err := o.ctrl.Open(ctx, config.Source); err != nil {
		return result, fmt.Errorf("open source: %w", err)
	}
	defer o.ctrl.Close()

	meta := o.ctrl.Metadata()

	if err := o.ctrl.Play(); err != nil {
		return result, fmt.Errorf("start playback: %w", err)
	}

	var recording bool
	if config.OutputPath != "" {
		opts := media.DefaultWriterOptions(meta)
		if config.Codec != "" {
			opts.Codec = config.Codec
		}
		if config.Quality > 0 {
			opts.Quality = config.Quality
		}
		if config.Bitrate > 0 {
			opts.Bitrate = config.Bitrate
		}

		o.logger.Info(l10n.T("Recording to %s"), config.OutputPath)
		if _, err := o.ctrl.Record(config.OutputPath, opts); err != nil {
			return result, fmt.Errorf("start recording: %w", err)
		}
		recording = true
	}

	interval := config.UpdateInterval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if config.Duration > 0 {
		timer := time.NewTimer(config.Duration)
		defer timer.Stop()
		deadline = timer.C
	}

loop:
	for {
		select {
		case <-ctx.Done():
			o.logger.Warn(l10n.T("Session canceled"))
			break loop
		case <-deadline:
			break loop
		case <-ticker.C:
			o.ctrl.Update()
			o.ctrl.GetRecentFrame()
			if o.ctrl.State() == media.StateFinished {
				o.logger.Info(l10n.T("Stream finished"))
				break loop
			}
		}
	}

	if recording {
		saved, err := o.ctrl.StopRecording(context.Background())
		if err != nil {
			return result, fmt.Errorf("stop recording: %w", err)
		}
		result.Saved = &saved
		o.logger.Info(l10n.T("Saved %s (%d bytes)"), saved.Path, saved.Bytes)
	}

	result.FramesDecoded = o.ctrl.FrameCount() + 1
	result.FramesDropped = o.ctrl.DroppedFrames()
	result.Loops = o.ctrl.Loops()
	result.StreamTime = o.ctrl.StreamTime()
	result.WallDuration = time.Since(started)

	if err := o.ctrl.Stop(); err != nil && err != media.ErrNotOpen {
		return result, err
	}

	if config.SummaryPath != "" {
		if err := o.writeSummary(config, meta, result); err != nil {
			o.logger.Warn(l10n.T("Summary write failed: %s"), err)
		}
	}

	return result, nil
}

// writeSummary renders the session summary as Markdown.
func (o *Orchestrator) writeSummary(config Config, meta media.StreamMetadata, result RunResult) error {
	builder := summarizer.NewBuilder().
		WithSource(summarizer.SourceInfo{
			Descriptor: config.Source.String(),
			Backend:    config.SourceBackend,
			Width:      meta.Width,
			Height:     meta.Height,
			FPS:        meta.FrameRate.Float(),
		}).
		WithCapture(summarizer.CaptureInfo{
			FramesDecoded:   result.FramesDecoded,
			FramesDropped:   result.FramesDropped,
			Loops:           result.Loops,
			StreamTimeSec:   result.StreamTime,
			WallDurationSec: result.WallDuration.Seconds(),
		}).
		WithSettings(summarizer.Settings{
			Codec:   config.Codec,
			Quality: config.Quality,
			Bitrate: config.Bitrate,
			Audio:   config.Audio,
		})

	if result.Saved != nil {
		builder.WithVideo(summarizer.VideoInfo{
			Path:          result.Saved.Path,
			FileSize:      result.Saved.Bytes,
			FramesDropped: result.Saved.DroppedFrames,
			HasAudio:      result.Saved.HasAudio,
		})
	}

	writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), o.fs)
	return writer.Write(config.SummaryPath, builder.Build())
}
