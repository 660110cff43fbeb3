// Package output formats run reports for terminal and machine consumption.
package output

// RunReport holds the collected outcome of a scan or generation run.
type RunReport struct {
	Framework    string       `json:"framework,omitempty"`
	FileCount    int          `json:"file_count"`
	SkippedFiles []string     `json:"skipped_files,omitempty"`
	DurationMs   int64        `json:"duration_ms"`
	Features     int          `json:"features"`
	Created      int          `json:"created"`
	Updated      int          `json:"updated"`
	Skipped      int          `json:"skipped"`
	Failed       int          `json:"failed"`
	InputTokens  int          `json:"input_tokens,omitempty"`
	OutputTokens int          `json:"output_tokens,omitempty"`
	Failures     []FailureLog `json:"failures,omitempty"`
	DryRun       bool         `json:"dry_run,omitempty"`
}

// FailureLog records one topic whose generation failed.
type FailureLog struct {
	Topic string `json:"topic"`
	Error string `json:"error"`
}

// Formatter formats a RunReport into output bytes.
type Formatter interface {
	Format(report *RunReport) ([]byte, error)
}

// NewFormatter returns the formatter for the given format name, defaulting
// to Markdown.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return NewJSONFormatter()
	}
	return NewMarkdownFormatter()
}
