package orchestrator

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for session messages.
	l10n.Register("ja", l10n.LexiconMap{
		"Opening source %s":        "ソース %s を開いています",
		"Recording to %s":          "%s に録画しています",
		"Session canceled":         "セッションが中断されました",
		"Stream finished":          "ストリームが終了しました",
		"Saved %s (%d bytes)":      "%s を保存しました（%dバイト）",
		"Summary write failed: %s": "サマリーの書き込みに失敗しました: %s",
	})
}
