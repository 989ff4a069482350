// Package summarizer provides summary generation for capture and
// recording sessions.
package summarizer

import "time"

// Summary contains all data collected during a capture session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source information
	Source SourceInfo

	// Capture statistics
	Capture CaptureInfo

	// Recording settings
	Settings Settings

	// Video output details
	Video VideoInfo
}

// SourceInfo describes the opened source.
type SourceInfo struct {
	Descriptor string
	Backend    string
	Width      int
	Height     int
	FPS        float64
}

// CaptureInfo contains capture loop statistics.
type CaptureInfo struct {
	FramesDecoded   int64
	FramesDropped   uint64
	Loops           int
	StreamTimeSec   float64
	WallDurationSec float64
}

// Settings contains the recording configuration.
type Settings struct {
	Codec   string
	Quality int
	Bitrate int
	Audio   bool
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path          string
	FileSize      int64
	FramesWritten uint64
	FramesDropped uint64
	HasAudio      bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the source information.
func (b *Builder) WithSource(src SourceInfo) *Builder {
	b.summary.Source = src
	return b
}

// WithCapture sets the capture statistics.
func (b *Builder) WithCapture(capture CaptureInfo) *Builder {
	b.summary.Capture = capture
	return b
}

// WithSettings sets the recording settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithVideo sets the video output details.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
