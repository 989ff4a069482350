package media

// WriterOptions configures one recording opened on a writer.
//
// Codec, Quality and Container map to the recognized option keys of the
// encoder backends; zero values take backend defaults.
type WriterOptions struct {
	// Width and Height are the frame dimensions of the recording.
	Width  int
	Height int

	// FPS is the nominal frame rate of the recording.
	FPS float64

	// Codec identifies the video codec ("h264", "mjpeg", ...).
	Codec string

	// Quality is 0..100, higher is better. Zero takes the backend
	// default.
	Quality int

	// Bitrate is the target bitrate in kbps. Zero lets the encoder
	// decide.
	Bitrate int

	// Container identifies the output container ("mp4", ...).
	Container string
}

// DefaultWriterOptions returns writer options with backend defaults
// filled in for a stream of the given metadata.
func DefaultWriterOptions(meta StreamMetadata) WriterOptions {
	return WriterOptions{
		Width:     meta.Width,
		Height:    meta.Height,
		FPS:       meta.FrameRate.Float(),
		Codec:     "h264",
		Quality:   75,
		Container: "mp4",
	}
}

// AudioTrack holds a recorded audio clip as interleaved PCM samples.
type AudioTrack struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Duration returns the track length in seconds.
func (t AudioTrack) Duration() float64 {
	if t.SampleRate <= 0 || t.Channels <= 0 {
		return 0
	}
	return float64(len(t.Samples)) / float64(t.SampleRate*t.Channels)
}

// Empty reports whether the track holds no samples.
func (t AudioTrack) Empty() bool {
	return len(t.Samples) == 0
}

// SavedFile describes a finished recording on disk.
type SavedFile struct {
	// Path is the location of the final container file.
	Path string

	// Bytes is the size of the file.
	Bytes int64

	// DroppedFrames counts frames lost to writer backpressure during
	// the recording.
	DroppedFrames uint64

	// HasAudio reports whether an audio track was merged in.
	HasAudio bool
}
