package summarizer

import (
	"fmt"
	"strings"
)

// Translator converts display strings to the user's language. The
// default passes strings through unchanged.
type Translator func(s string) string

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the string translator.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion includes the application version in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders the summary.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Capture Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), summary.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	fmt.Fprintf(&b, "- %s: %s\n", t("Descriptor"), summary.Source.Descriptor)
	if summary.Source.Backend != "" {
		fmt.Fprintf(&b, "- %s: %s\n", t("Backend"), summary.Source.Backend)
	}
	fmt.Fprintf(&b, "- %s: %dx%d\n", t("Dimensions"), summary.Source.Width, summary.Source.Height)
	fmt.Fprintf(&b, "- %s: %.2f\n\n", t("Frame rate"), summary.Source.FPS)

	fmt.Fprintf(&b, "## %s\n\n", t("Capture"))
	fmt.Fprintf(&b, "- %s: %d\n", t("Frames decoded"), summary.Capture.FramesDecoded)
	fmt.Fprintf(&b, "- %s: %d\n", t("Frames dropped"), summary.Capture.FramesDropped)
	if summary.Capture.Loops > 0 {
		fmt.Fprintf(&b, "- %s: %d\n", t("Loops"), summary.Capture.Loops)
	}
	fmt.Fprintf(&b, "- %s: %.2f s\n", t("Stream time"), summary.Capture.StreamTimeSec)
	fmt.Fprintf(&b, "- %s: %.2f s\n\n", t("Wall duration"), summary.Capture.WallDurationSec)

	if summary.Video.Path != "" {
		fmt.Fprintf(&b, "## %s\n\n", t("Recording"))
		fmt.Fprintf(&b, "- %s: %s\n", t("Output"), summary.Video.Path)
		fmt.Fprintf(&b, "- %s: %d %s\n", t("File size"), summary.Video.FileSize, t("bytes"))
		fmt.Fprintf(&b, "- %s: %d\n", t("Frames written"), summary.Video.FramesWritten)
		fmt.Fprintf(&b, "- %s: %d\n", t("Frames dropped"), summary.Video.FramesDropped)
		fmt.Fprintf(&b, "- %s: %s\n", t("Codec"), summary.Settings.Codec)
		if summary.Settings.Quality > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", t("Quality"), summary.Settings.Quality)
		}
		if summary.Video.HasAudio {
			fmt.Fprintf(&b, "- %s: %s\n", t("Audio"), t("yes"))
		}
		b.WriteString("\n")
	}

	if f.version != "" {
		fmt.Fprintf(&b, "---\n%s %s\n", t("camstream version"), f.version)
	}

	return b.String()
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
