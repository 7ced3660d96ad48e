package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// Option configures a MarkdownFormatter.
type Option func(*MarkdownFormatter)

// WithTranslator translates labels and headings.
func WithTranslator(fn func(string) string) Option {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) Option {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter. Labels are English unless a
// translator is given.
func NewMarkdownFormatter(opts ...Option) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Render Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Image"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Source.Path != "" {
		row(&b, t("Source"), s.Source.Path)
		row(&b, t("Source Size"), size(s.Source.Width, s.Source.Height))
	} else {
		row(&b, t("Source"), t("None"))
	}
	row(&b, t("Canvas Size"), size(s.Canvas.Width, s.Canvas.Height))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Look"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Look.Preset != "" {
		row(&b, t("Preset"), s.Look.Preset)
	}
	if s.Look.Template != "" {
		row(&b, t("Template"), s.Look.Template)
	}
	row(&b, t("Background"), orDash(s.Look.Background))
	b.WriteString("\n")
	if len(s.Look.Effects) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("No effects applied"))
	} else {
		for _, e := range s.Look.Effects {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## %s\n\n", t("Layers"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	row(&b, t("Drawn"), orDash(strings.Join(s.Layers.Drawn, ", ")))
	row(&b, t("Skipped"), orDash(strings.Join(s.Layers.Skipped, ", ")))
	if s.Layers.Pending {
		row(&b, t("Background Image"), t("Not loaded"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	row(&b, t("File"), orDash(s.Output.Path))
	row(&b, t("Format"), orDash(s.Output.Format))
	row(&b, t("File Size"), formatBytes(s.Output.FileSize))
	row(&b, t("Render Time"), fmt.Sprintf("%d ms", s.Output.Duration.Milliseconds()))
	b.WriteString("\n")

	b.WriteString("---\n\n")
	generated := s.GeneratedAt.Format("2006-01-02 15:04:05 MST")
	if f.version != "" {
		fmt.Fprintf(&b, "%s canvasfx %s, %s\n", t("Generated by"), f.version, generated)
	} else {
		fmt.Fprintf(&b, "%s canvasfx, %s\n", t("Generated by"), generated)
	}

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

func size(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
