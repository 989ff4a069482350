// Package smartencoder provides a video encoder factory that selects
// the best available backend with fallback support.
package smartencoder

import (
	"errors"

	"github.com/user/camstream/pkg/adapters/ffmpeg"
	"github.com/user/camstream/pkg/adapters/mp4encoder"
	"github.com/user/camstream/pkg/ports"
)

// Codec represents the video codec type.
type Codec string

const (
	// CodecH264 represents H.264/AVC codec.
	CodecH264 Codec = "h264"
	// CodecMJPEG represents Motion JPEG.
	CodecMJPEG Codec = "mjpeg"
)

// Backend represents the encoding backend used.
type Backend string

const (
	// BackendFFmpeg represents FFmpeg-based encoding.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendNative represents the pure-Go MJPEG/MP4 encoder.
	BackendNative Backend = "native"
)

// Info contains information about the selected encoder.
type Info struct {
	// Codec is the actual codec being used.
	Codec Codec
	// Backend is the encoding backend being used.
	Backend Backend
	// RequestedCodec is the codec that was originally requested.
	RequestedCodec Codec
	// FallbackUsed indicates whether a fallback occurred.
	FallbackUsed bool
}

// Options configures the smart encoder behavior.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// AllowFallback enables fallback to MJPEG when H.264 is not
	// available.
	AllowFallback bool
	// Logger is used to log fallback warnings.
	Logger ports.Logger
}

// ErrNoEncoderAvailable is returned when no encoder matches the
// request and fallback is disabled.
var ErrNoEncoderAvailable = errors.New("smartencoder: no encoder available")

// New creates a video encoder with automatic backend selection.
//
// The selection flow for H.264:
//  1. Try the FFmpeg encoder
//  2. If AllowFallback is true, fall back to MJPEG in MP4 (pure Go)
//
// For MJPEG the pure-Go encoder is always used.
func New(preferred Codec, opts Options) (ports.VideoEncoder, Info, error) {
	if opts.FFmpegPath != "" {
		ffmpeg.SetPath(opts.FFmpegPath)
	}

	info := Info{RequestedCodec: preferred}

	switch preferred {
	case CodecMJPEG:
		info.Codec = CodecMJPEG
		info.Backend = BackendNative
		return mp4encoder.New(), info, nil

	default:
		if ffmpeg.IsAvailable() {
			info.Codec = CodecH264
			info.Backend = BackendFFmpeg
			return ffmpeg.NewEncoder(), info, nil
		}

		if !opts.AllowFallback {
			return nil, Info{}, ErrNoEncoderAvailable
		}

		if opts.Logger != nil {
			opts.Logger.Warn("H.264 encoder not available, falling back to MJPEG")
		}

		info.Codec = CodecMJPEG
		info.Backend = BackendNative
		info.FallbackUsed = true
		return mp4encoder.New(), info, nil
	}
}

// IsH264Available checks if H.264 encoding is available.
func IsH264Available() bool {
	return ffmpeg.IsAvailable()
}

// IsMJPEGAvailable always returns true (the pure-Go encoder needs
// nothing from the system).
func IsMJPEGAvailable() bool {
	return true
}
