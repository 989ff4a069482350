package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/ports"
)

// ErrEncoderNotInitialized is returned when encoder methods are called
// before Begin or after End.
var ErrEncoderNotInitialized = errors.New("ffmpeg: encoder not initialized")

// Encoder implements ports.VideoEncoder by piping raw RGBA frames to
// an ffmpeg process encoding H.264.
type Encoder struct {
	ffmpegPath string
	width      int
	height     int
	fps        float64
	opts       media.WriterOptions

	mu         sync.Mutex
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	tempPath   string
	frameCount int
	closed     bool
}

// NewEncoder creates a new ffmpeg-based H.264 encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Begin initializes the encoder and starts the ffmpeg process.
func (e *Encoder) Begin(width, height int, fps float64, opts media.WriterOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ffmpegPath, err := Find()
	if err != nil {
		return err
	}
	e.ffmpegPath = ffmpegPath

	e.width = width
	e.height = height
	e.fps = fps
	e.opts = opts
	e.frameCount = 0
	e.closed = false

	tmpFile, err := os.CreateTemp("", "camstream_enc_*.mp4")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	e.tempPath = tmpFile.Name()
	tmpFile.Close()

	codec := "libx264"
	if opts.Codec == "mjpeg" {
		codec = "mjpeg"
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.2f", fps),
		"-i", "pipe:0",
		"-c:v", codec,
	}

	if codec == "libx264" {
		args = append(args, "-preset", "fast", "-pix_fmt", "yuv420p")

		// Quality runs 0..100 with 100 best; x264 CRF runs 0..51
		// with 0 best.
		crf := 23
		if opts.Quality > 0 && opts.Quality <= 100 {
			crf = (100 - opts.Quality) * 51 / 100
		}
		args = append(args, "-crf", fmt.Sprintf("%d", crf))

		args = append(args,
			"-profile:v", "baseline",
			"-level", "3.1",
		)
	}

	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	}

	args = append(args, "-movflags", "+faststart", e.tempPath)

	e.cmd = exec.Command(e.ffmpegPath, args...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		os.Remove(e.tempPath)
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		os.Remove(e.tempPath)
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return nil
}

// EncodeFrame writes one frame to the ffmpeg process.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return ErrEncoderNotInitialized
	}

	// Convert image to RGBA at the negotiated size, rescaling when
	// the source geometry differs.
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	if bounds.Dx() == e.width && bounds.Dy() == e.height {
		draw.Copy(rgba, image.Point{}, img, bounds, draw.Src, nil)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	_, err := e.stdin.Write(rgba.Pix)
	if err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	e.frameCount++
	return nil
}

// End finalizes encoding and returns the MP4 data.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return nil, ErrEncoderNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil
	e.closed = true

	if err := e.cmd.Wait(); err != nil {
		os.Remove(e.tempPath)
		return nil, fmt.Errorf("ffmpeg encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}

	data, err := os.ReadFile(e.tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w", err)
	}

	os.Remove(e.tempPath)
	e.tempPath = ""

	return data, nil
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
