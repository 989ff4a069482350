package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Session level messages (info)
		"Opened %s: %dx%d at %s fps": "%s を開きました: %dx%d, %s fps",
		"Playback stopped":           "再生を停止しました",
		"Recording started: %s":      "録画を開始しました: %s",
		"Recording aborted":          "録画を破棄しました",
		"Recording saved: %s (%d bytes, %d dropped)": "録画を保存しました: %s (%d バイト, %d ドロップ)",

		// Capture worker
		"Warm-up complete, %dx%d at %s fps":       "ウォームアップ完了: %dx%d, %s fps",
		"End of stream after %d frames":           "ストリーム終端に到達しました (%d フレーム)",
		"Stream looped (%d)":                      "ストリームをループしました (%d 回目)",
		"Stream format changed to %dx%d":          "ストリームのフォーマットが %dx%d に変わりました",
		"Recording enabled at stream time %.3fs":  "ストリーム時刻 %.3fs で録画を有効化しました",
		"Recording disabled":                      "録画を無効化しました",
		"Capture failed: %s":                      "キャプチャに失敗しました: %s",
		"Capture worker did not exit in time":     "キャプチャワーカーが時間内に終了しませんでした",

		// Writer
		"Recording opened: %s (%dx%d %s/%s)":        "録画ファイルを開きました: %s (%dx%d %s/%s)",
		"Recording closed: %s, %d frames, %d bytes": "録画ファイルを閉じました: %s, %d フレーム, %d バイト",
		"Frame at %.3fs failed to encode: %s":       "%.3fs のフレームのエンコードに失敗しました: %s",
		"Final flush failed: %s":                    "最終フラッシュに失敗しました: %s",

		// Barriers and synchronization
		"Warm-up barrier timed out, continuing without first frame": "ウォームアップバリアがタイムアウトしました。最初のフレームなしで続行します",
		"Record %s barrier timed out, continuing unsynchronized":    "録画 %s バリアがタイムアウトしました。非同期で続行します",

		// Warnings
		"Seek to %.3fs failed: %s": "%.3fs へのシークに失敗しました: %s",
		"Audio start failed: %s":   "音声キャプチャの開始に失敗しました: %s",
		"Audio stop failed: %s":    "音声キャプチャの停止に失敗しました: %s",
		"Audio poll failed: %s":    "音声のポーリングに失敗しました: %s",
		"Frame sink failed: %s":    "フレームシンクへの保存に失敗しました: %s",
		"Source close failed: %s":  "ソースのクローズに失敗しました: %s",

		// Errors
		"Capture error: %s": "キャプチャエラー: %s",
	})
}
