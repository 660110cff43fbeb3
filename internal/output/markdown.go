package output

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter outputs RunReport as human-readable Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the RunReport as Markdown.
func (f *MarkdownFormatter) Format(report *RunReport) ([]byte, error) {
	var b strings.Builder

	title := "Generation Summary"
	if report.DryRun {
		title = "Generation Plan (dry run)"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)

	if report.Framework != "" {
		fmt.Fprintf(&b, "- Framework: %s\n", report.Framework)
	}
	fmt.Fprintf(&b, "- Files scanned: %d\n", report.FileCount)
	if len(report.SkippedFiles) > 0 {
		fmt.Fprintf(&b, "- Files skipped: %d\n", len(report.SkippedFiles))
	}
	fmt.Fprintf(&b, "- Features detected: %d\n", report.Features)
	fmt.Fprintf(&b, "- Articles created: %d, updated: %d, skipped: %d, failed: %d\n",
		report.Created, report.Updated, report.Skipped, report.Failed)
	if report.InputTokens > 0 || report.OutputTokens > 0 {
		fmt.Fprintf(&b, "- Tokens: %d in, %d out\n", report.InputTokens, report.OutputTokens)
	}

	if len(report.Failures) > 0 {
		b.WriteString("\n### Failures\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- **%s**: %s\n", f.Topic, f.Error)
		}
	}

	duration := time.Duration(report.DurationMs) * time.Millisecond
	fmt.Fprintf(&b, "\n---\n*Completed in %s*\n", duration.Round(100*time.Millisecond))

	return []byte(b.String()), nil
}
