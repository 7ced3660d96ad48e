package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting render":               "レンダリングを開始します",
		"Render completed successfully": "レンダリングが正常に完了しました",
		"Loading source image %s":       "元画像 %s を読み込み中",
		"Canvas size: %dx%d":            "キャンバスサイズ: %dx%d",
		"Image encoded: %d bytes":       "画像をエンコードしました: %d バイト",
		"Waiting for background image":  "背景画像の読み込みを待機中",

		// Orchestration level messages (warn/error)
		"Background image is not ready, writing without it": "背景画像の準備ができていないため、背景画像なしで書き出します",
		"Failed to load source image: %s":                   "元画像の読み込みに失敗しました: %s",
		"Failed to calculate layout: %s":                    "レイアウトの計算に失敗しました: %s",
		"Failed to composite layers: %s":                    "レイヤーの合成に失敗しました: %s",
		"Failed to encode image: %s":                        "画像のエンコードに失敗しました: %s",
		"Failed to write output: %s":                        "出力の書き込みに失敗しました: %s",

		// Composite stage
		"Compositing %dx%d canvas":          "%dx%d キャンバスを合成中",
		"Composited %d layers, skipped %d":  "%d レイヤーを合成しました (スキップ %d)",
		"Layer %s skipped: %s":              "レイヤー %s をスキップしました: %s",
		"Failed to save debug layer %s: %s": "デバッグレイヤー %s の保存に失敗しました: %s",
		"Failed to save debug parameters: %s": "デバッグパラメータの保存に失敗しました: %s",

		// Adjust stage
		"Applying %d filters":                "%d 個のフィルターを適用中",
		"Running pixel stage with %d workers": "%d ワーカーでピクセル処理を実行中",

		// Layer stages
		"Drawing %s shadow (blur %.1f, spread %.1f)": "%s シャドウを描画中 (ぼかし %.1f, 広がり %.1f)",
		"Drawing %s glow with %d passes":             "%s グローを %d パスで描画中",
		"Drawing %s outline (width %.1f)":            "%s アウトラインを描画中 (幅 %.1f)",
		"Outline rectangle is empty, skipping":       "アウトラインの矩形が空のためスキップします",
		"Unparsable color %q, painting transparent":  "色 %q を解析できないため透明で描画します",

		// Background stage
		"Unknown background type %q, skipping":       "不明な背景タイプ %q のためスキップします",
		"Unknown pattern %q, skipping":               "不明なパターン %q のためスキップします",
		"No image cache, skipping image background":  "画像キャッシュがないため画像背景をスキップします",
		"Background image not loaded yet, deferring": "背景画像が未読み込みのため描画を保留します",

		// Image cache
		"Loading background image %s":            "背景画像 %s を読み込み中",
		"Background image %s loaded":             "背景画像 %s を読み込みました",
		"Failed to load background image %s: %s": "背景画像 %s の読み込みに失敗しました: %s",

		// Encode stage
		"Encoded %d bytes": "%d バイトにエンコードしました",

		// Session
		"Applied preset %s":     "プリセット %s を適用しました",
		"Applied template %s":   "テンプレート %s を適用しました",
		"Redraw after loading %s": "%s の読み込み後に再描画します",
		"Render failed: %s":     "レンダリングに失敗しました: %s",
	})
}
