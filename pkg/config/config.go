// Package config provides configuration loading and management.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/camstream/pkg/adapters/smartsource"
	"github.com/user/camstream/pkg/controller"
)

// Config represents the full configuration for camstream.
type Config struct {
	// Input/Output
	Source     string `yaml:"source"`
	OutputPath string `yaml:"output"`

	// Capture
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	FPS            float64 `yaml:"fps"`
	QueueCapacity  int     `yaml:"queue_capacity"`
	Loop           bool    `yaml:"loop"`
	Realtime       bool    `yaml:"realtime"`
	MaxTimeouts    int     `yaml:"max_timeouts"`
	WarmupMs       int     `yaml:"warmup_ms"`
	BarrierMs      int     `yaml:"barrier_ms"`
	PollIntervalMs int     `yaml:"poll_interval_ms"`

	// Encoding
	Codec           string `yaml:"codec"`
	Quality         int    `yaml:"quality"`
	Bitrate         int    `yaml:"bitrate"`
	WriterQueueSize int    `yaml:"writer_queue_size"`

	// Audio
	Audio AudioConfig `yaml:"audio"`

	// Tool paths
	FFmpegPath string `yaml:"ffmpeg_path"`
	ChromePath string `yaml:"chrome_path"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// AudioConfig represents audio recording settings.
type AudioConfig struct {
	Enabled    bool `yaml:"enabled"`
	SampleRate int  `yaml:"sample_rate"`
	Channels   int  `yaml:"channels"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Source:     "device:0",
		OutputPath: "./recording.mp4",

		// Capture
		QueueCapacity: 1,
		Realtime:      true,
		MaxTimeouts:   8,
		WarmupMs:      5000,
		BarrierMs:     1000,

		// Encoding
		Codec:           "h264",
		Quality:         75,
		WriterQueueSize: 64,

		// Audio
		Audio: AudioConfig{
			SampleRate: 48000,
			Channels:   1,
		},

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ToSourceOptions converts Config to smartsource.Options.
func (c Config) ToSourceOptions() smartsource.Options {
	return smartsource.Options{
		FFmpegPath: c.FFmpegPath,
		ChromePath: c.ChromePath,
		Width:      c.Width,
		Height:     c.Height,
		FPS:        c.FPS,
		Realtime:   c.Realtime,
	}
}

// ToControllerOptions converts Config to controller.Options. The
// adapter fields (encoder factory, filesystem, audio, merger, sink,
// logger) are left for the caller to fill in.
func (c Config) ToControllerOptions() controller.Options {
	return controller.Options{
		QueueCapacity:   c.QueueCapacity,
		Loop:            c.Loop,
		PollInterval:    time.Duration(c.PollIntervalMs) * time.Millisecond,
		MaxTimeouts:     c.MaxTimeouts,
		WarmupTimeout:   time.Duration(c.WarmupMs) * time.Millisecond,
		BarrierTimeout:  time.Duration(c.BarrierMs) * time.Millisecond,
		WriterQueueSize: c.WriterQueueSize,
	}
}
