// Package main provides localization for the camstream CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Asynchronous camera and movie capture, playback, and recording": "カメラと動画の非同期キャプチャ・再生・録画",

		// Commands
		"Play a source without recording": "録画せずにソースを再生",
		"Record a source to an MP4 file":  "ソースをMP4ファイルに録画",
		"List video capture devices":      "ビデオキャプチャデバイスを一覧表示",

		// Flags
		"YAML configuration file":                      "YAML設定ファイル",
		"Frame width":                                  "フレームの幅",
		"Frame height":                                 "フレームの高さ",
		"Frame rate":                                   "フレームレート",
		"Loop file playback":                           "ファイル再生をループ",
		"Session length (0 = until the stream ends)":   "セッションの長さ（0 = ストリーム終了まで）",
		"Path to the ffmpeg binary":                    "ffmpegバイナリのパス",
		"Path to the Chrome binary":                    "Chromeバイナリのパス",
		"Dump captured frames as JPEG files":           "キャプチャしたフレームをJPEGファイルとして保存",
		"Directory for debug output":                   "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error)":         "ログレベル (debug, info, warn, error)",
		"Suppress all log output":                      "すべてのログ出力を抑制",
		"Output MP4 file path":                         "出力MP4ファイルパス",
		"Video codec (h264 or mjpeg)":                  "ビデオコーデック (h264 または mjpeg)",
		"Video quality (1-100, higher is better)":      "ビデオ品質（1-100、大きいほど高品質）",
		"Video bitrate in kbit/s":                      "ビデオビットレート (kbit/s)",
		"Record an audio track":                        "オーディオトラックを録音",
		"Write a Markdown session summary to this path": "Markdownのセッションサマリーをこのパスに書き込む",

		// Messages
		"No capture devices found":                      "キャプチャデバイスが見つかりません",
		"Interrupted, shutting down...":                 "中断されました。シャットダウンしています...",
		"Using %s via %s":                               "%s を %s 経由で使用します",
		"Session done: %d frames decoded, %d dropped":   "セッション完了: %dフレームをデコード、%dフレームをドロップ",
	})
}
