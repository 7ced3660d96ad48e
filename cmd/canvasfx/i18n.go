// Package main provides localization for the canvasfx CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Compose images with shadows, glows, outlines and backgrounds.": "シャドウ、グロー、アウトライン、背景で画像を合成します。",

		// Version command
		"canvasfx version %s": "canvasfx バージョン %s",

		// Flag validation
		"Unknown format %q":    "不明な出力形式 %q",
		"Unknown log level %q": "不明なログレベル %q",
		"Output path is required (-o or output in the config file)": "出力パスが必要です（-o または設定ファイルの output）",

		// Runtime messages
		"Rendering %s":                  "%s をレンダリング中",
		"Output saved to %s":            "出力を %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Template commands
		"Template %s saved as %s": "テンプレート %s を %s として保存しました",
		"Template %s is now %s":   "テンプレート %s のステータスを %s に変更しました",
		"Template %s deleted":     "テンプレート %s を削除しました",
		"No templates saved":      "保存されたテンプレートはありません",
		"a name is required":      "名前が必要です",
		"ID":                      "ID",
		"Status":                  "ステータス",
		"Name":                    "名前",
		"Created":                 "作成日時",

		// Summary output flag
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Render Summary": "レンダリングサマリー",
		"Item":           "項目",
		"Value":          "値",
		"Generated by":   "生成:",

		// Image section
		"Image":       "画像",
		"Source":      "元画像",
		"Source Size": "元画像サイズ",
		"Canvas Size": "キャンバスサイズ",
		"None":        "なし",

		// Look section
		"Look":               "ルック",
		"Preset":             "プリセット",
		"Template":           "テンプレート",
		"Background":         "背景",
		"No effects applied": "エフェクトは適用されていません",

		// Layers section
		"Layers":           "レイヤー",
		"Drawn":            "描画済み",
		"Skipped":          "スキップ",
		"Background Image": "背景画像",
		"Not loaded":       "未読み込み",

		// Output section
		"Output":      "出力",
		"File":        "ファイル",
		"Format":      "形式",
		"File Size":   "ファイルサイズ",
		"Render Time": "レンダリング時間",
	})
}
