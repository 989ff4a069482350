// Package main provides the CLI entry point for camstream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/camstream/pkg/adapters/ffmpeg"
	"github.com/user/camstream/pkg/adapters/filesink"
	"github.com/user/camstream/pkg/adapters/logger"
	"github.com/user/camstream/pkg/adapters/nullsink"
	"github.com/user/camstream/pkg/adapters/osfilesystem"
	"github.com/user/camstream/pkg/adapters/smartencoder"
	"github.com/user/camstream/pkg/adapters/smartsource"
	"github.com/user/camstream/pkg/adapters/synthmic"
	"github.com/user/camstream/pkg/config"
	"github.com/user/camstream/pkg/controller"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/orchestrator"
	"github.com/user/camstream/pkg/ports"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "camstream",
		Usage:   l10n.T("Asynchronous camera and movie capture, playback, and recording"),
		Version: version,
		Commands: []*cli.Command{
			playCommand(),
			recordCommand(),
			devicesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are shared by play and record.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Frame width")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Frame height")},
		&cli.Float64Flag{Name: "fps", Usage: l10n.T("Frame rate")},
		&cli.BoolFlag{Name: "loop", Usage: l10n.T("Loop file playback")},
		&cli.DurationFlag{Name: "duration", Aliases: []string{"t"}, Usage: l10n.T("Session length (0 = until the stream ends)")},
		&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to the ffmpeg binary")},
		&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to the Chrome binary")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Dump captured frames as JPEG files")},
		&cli.StringFlag{Name: "debug-dir", Value: "./debug", Usage: l10n.T("Directory for debug output")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play a source without recording"),
		ArgsUsage: "SOURCE",
		Flags:     commonFlags(),
		Action: func(cctx *cli.Context) error {
			return runSession(cctx, false)
		},
	}
}

func recordCommand() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output MP4 file path")},
		&cli.StringFlag{Name: "codec", Value: "h264", Usage: l10n.T("Video codec (h264 or mjpeg)")},
		&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Value: 75, Usage: l10n.T("Video quality (1-100, higher is better)")},
		&cli.IntFlag{Name: "bitrate", Usage: l10n.T("Video bitrate in kbit/s")},
		&cli.BoolFlag{Name: "audio", Usage: l10n.T("Record an audio track")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a Markdown session summary to this path")},
	)
	return &cli.Command{
		Name:      "record",
		Usage:     l10n.T("Record a source to an MP4 file"),
		ArgsUsage: "SOURCE",
		Flags:     flags,
		Action: func(cctx *cli.Context) error {
			return runSession(cctx, true)
		},
	}
}

func devicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: l10n.T("List video capture devices"),
		Action: func(cctx *cli.Context) error {
			devices, err := ffmpeg.ListDevices()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println(l10n.T("No capture devices found"))
				return nil
			}
			for _, d := range devices {
				fmt.Printf("device:%d\t%s\n", d.Index, d.Name)
			}
			return nil
		},
	}
}

// buildConfig merges the config file, defaults, and flag overrides.
func buildConfig(cctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := cctx.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cctx.Args().Len() > 0 {
		cfg.Source = cctx.Args().First()
	}
	if cctx.IsSet("width") {
		cfg.Width = cctx.Int("width")
	}
	if cctx.IsSet("height") {
		cfg.Height = cctx.Int("height")
	}
	if cctx.IsSet("fps") {
		cfg.FPS = cctx.Float64("fps")
	}
	if cctx.IsSet("loop") {
		cfg.Loop = cctx.Bool("loop")
	}
	if cctx.IsSet("ffmpeg-path") {
		cfg.FFmpegPath = cctx.String("ffmpeg-path")
	}
	if cctx.IsSet("chrome-path") {
		cfg.ChromePath = cctx.String("chrome-path")
	}
	if cctx.IsSet("output") {
		cfg.OutputPath = cctx.String("output")
	}
	if cctx.IsSet("codec") {
		cfg.Codec = cctx.String("codec")
	}
	if cctx.IsSet("quality") {
		cfg.Quality = cctx.Int("quality")
	}
	if cctx.IsSet("bitrate") {
		cfg.Bitrate = cctx.Int("bitrate")
	}
	if cctx.IsSet("audio") {
		cfg.Audio.Enabled = cctx.Bool("audio")
	}
	if cctx.IsSet("debug") {
		cfg.Debug = cctx.Bool("debug")
	}
	if cctx.IsSet("debug-dir") {
		cfg.DebugDir = cctx.String("debug-dir")
	}
	return cfg, nil
}

// runSession wires the adapters and executes one play or record
// session.
func runSession(cctx *cli.Context, record bool) error {
	cfg, err := buildConfig(cctx)
	if err != nil {
		return err
	}

	var log ports.Logger
	if cctx.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cctx.String("log-level")))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	src := media.ParseSource(cfg.Source)
	source, info, err := smartsource.New(src, cfg.ToSourceOptions())
	if err != nil {
		return fmt.Errorf("select source: %w", err)
	}

	fs := osfilesystem.New()

	var sink ports.FrameSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, cfg.Quality, fs)
	} else {
		sink = nullsink.New()
	}

	ctrlOpts := cfg.ToControllerOptions()
	ctrlOpts.Logger = log
	ctrlOpts.FS = fs
	ctrlOpts.Sink = sink
	ctrlOpts.NewEncoder = func() ports.VideoEncoder {
		enc, encInfo, err := smartencoder.New(smartencoder.Codec(cfg.Codec), smartencoder.Options{
			FFmpegPath:    cfg.FFmpegPath,
			AllowFallback: true,
			Logger:        log,
		})
		if err != nil {
			return nil
		}
		if encInfo.FallbackUsed {
			log.Warn(l10n.T("Using %s via %s"), encInfo.Codec, encInfo.Backend)
		}
		return enc
	}
	if record && cfg.Audio.Enabled {
		ctrlOpts.Audio = synthmic.New(synthmic.Options{
			SampleRate: cfg.Audio.SampleRate,
			Channels:   cfg.Audio.Channels,
		})
		ctrlOpts.Merger = ffmpeg.NewMerger()
	}

	ctrl := controller.New(source, ctrlOpts)
	orch := orchestrator.New(ctrl, fs, log)

	sessionCfg := orchestrator.Config{
		Source:        src,
		SourceBackend: string(info.Backend),
		Duration:      cctx.Duration("duration"),
		Codec:         cfg.Codec,
		Quality:       cfg.Quality,
		Bitrate:       cfg.Bitrate,
		Audio:         cfg.Audio.Enabled,
		SummaryPath:   cctx.String("summary"),
	}
	if record {
		sessionCfg.OutputPath = cfg.OutputPath
	}
	if record && sessionCfg.Duration == 0 {
		sessionCfg.Duration = 10 * time.Second
	}

	result, err := orch.Run(ctx, sessionCfg)
	if err != nil {
		return err
	}

	log.Info(l10n.T("Session done: %d frames decoded, %d dropped"), result.FramesDecoded, result.FramesDropped)
	return nil
}
