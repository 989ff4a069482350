// Package smartsource provides a video source factory that picks the
// right backend for a given source descriptor.
package smartsource

import (
	"strings"

	"github.com/user/camstream/pkg/adapters/chromesource"
	"github.com/user/camstream/pkg/adapters/ffmpeg"
	"github.com/user/camstream/pkg/adapters/synthsource"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// Backend represents the decoding backend used.
type Backend string

const (
	// BackendFFmpeg represents FFmpeg-based decoding.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendChrome represents Chrome screencast capture.
	BackendChrome Backend = "chrome"
	// BackendSynth represents the synthetic test-pattern source.
	BackendSynth Backend = "synth"
)

// Info contains information about the selected source.
type Info struct {
	// Backend is the decoding backend being used.
	Backend Backend
}

// Options configures the smart source selection.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string

	// ChromePath is an optional custom path to the Chrome binary.
	ChromePath string

	// Width, Height, and FPS are passed through to the selected
	// backend as its preferred output format.
	Width  int
	Height int
	FPS    float64

	// Realtime paces file decoding to the source rate.
	Realtime bool
}

// New picks a backend for the source descriptor.
//
// The selection flow:
//   - "synth:" URIs use the synthetic test-pattern source
//   - http and https URIs use Chrome screencast capture
//   - everything else (devices, files, stream URIs) uses ffmpeg
func New(src media.Source, opts Options) (ports.VideoSource, Info, error) {
	if opts.FFmpegPath != "" {
		ffmpeg.SetPath(opts.FFmpegPath)
	}

	if src.Kind == media.SourceURI {
		uri := strings.ToLower(src.URI)
		switch {
		case strings.HasPrefix(uri, "synth:"):
			return synthsource.New(synthsource.Options{
				Width:    opts.Width,
				Height:   opts.Height,
				FPS:      opts.FPS,
				Realtime: opts.Realtime,
			}), Info{Backend: BackendSynth}, nil

		case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
			return chromesource.New(chromesource.Options{
				Width:      opts.Width,
				Height:     opts.Height,
				ChromePath: opts.ChromePath,
				Headless:   true,
			}), Info{Backend: BackendChrome}, nil
		}
	}

	source := ffmpeg.NewSource(ffmpeg.SourceOptions{
		Width:    opts.Width,
		Height:   opts.Height,
		FPS:      opts.FPS,
		Realtime: opts.Realtime,
	})
	return source, Info{Backend: BackendFFmpeg}, nil
}
