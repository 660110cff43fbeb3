// Package scan implements the code-scanning core of helpgen: it walks a web
// application's source tree, extracts routes, UI components and user-facing
// strings, detects feature evidence against a topic catalog, and assembles
// the results into a CodeMap.
package scan

import "time"

// Route is a URL-path entry derived from one routing construct in one file.
// The same file may yield routes from several conventions; they are unioned,
// not deduplicated.
type Route struct {
	Path       string   `json:"path"`
	SourceFile string   `json:"sourceFile"`
	Component  string   `json:"component,omitempty"`
	Line       int      `json:"line,omitempty"`
	Params     []string `json:"params"`
}

// Component is a UI-component definition found in a source file. Children
// lists other components from the same file whose tags appear in this
// component's body; cross-file usage is not tracked.
type Component struct {
	Name       string   `json:"name"`
	SourceFile string   `json:"sourceFile"`
	Line       int      `json:"line"`
	Exported   bool     `json:"exported"`
	PropsType  string   `json:"propsType,omitempty"`
	Children   []string `json:"children"`
}

// StringType classifies an extracted string by its enclosing markup.
type StringType string

const (
	StringHeading     StringType = "heading"
	StringLabel       StringType = "label"
	StringButton      StringType = "button"
	StringError       StringType = "error"
	StringPlaceholder StringType = "placeholder"
	StringOther       StringType = "other"
)

// ExtractedString is one user-facing text fragment. Strings are never
// deduplicated: repeated values are independent evidence.
type ExtractedString struct {
	Value      string     `json:"value"`
	SourceFile string     `json:"sourceFile"`
	Line       int        `json:"line"`
	Type       StringType `json:"type"`
	Component  string     `json:"component,omitempty"`
}

// Evidence records a single pattern match supporting a detected feature.
type Evidence struct {
	Pattern    string `json:"pattern"`
	SourceFile string `json:"sourceFile"`
	Line       int    `json:"line"`
}

// DetectedFeature is the per-topic result of feature detection. After the
// cross-file merge there is exactly one DetectedFeature per topic id per
// scan, with evidence unioned over all matching files.
type DetectedFeature struct {
	ID         string     `json:"id"` // "<category>.<topic>"
	Confidence float64    `json:"confidence"`
	Evidence   []Evidence `json:"evidence"`
}

// Category returns the text before the first "." of the feature id.
func (f DetectedFeature) Category() string {
	for i := 0; i < len(f.ID); i++ {
		if f.ID[i] == '.' {
			return f.ID[:i]
		}
	}
	return f.ID
}

// APIEndpoint is an imperative HTTP registration (app.get, router.post, ...)
// recorded alongside the Route it also yields.
type APIEndpoint struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	SourceFile string `json:"sourceFile"`
	Line       int    `json:"line"`
}

// Page aggregates a route with the components, files and strings that make
// up one user-visible page. Features is left empty: feature-to-page mapping
// is an explicit placeholder, not yet populated by the scanner.
type Page struct {
	Path        string            `json:"path"`
	Components  []string          `json:"components"`
	SourceFiles []string          `json:"sourceFiles"`
	Strings     []ExtractedString `json:"strings"`
	Features    []string          `json:"features"`
}

// Metadata describes a single scan run.
type Metadata struct {
	ScannedAt    time.Time     `json:"scannedAt"`
	FileCount    int           `json:"fileCount"`
	SkippedFiles []string      `json:"skippedFiles,omitempty"`
	Duration     time.Duration `json:"duration"`
	Framework    string        `json:"framework,omitempty"`
}

// CodeMap is the aggregate result of one scan run. It is produced fresh per
// scan, immutable once returned, and disposable between runs.
type CodeMap struct {
	Routes       []Route           `json:"routes"`
	Components   []Component       `json:"components"`
	Pages        []Page            `json:"pages"`
	Strings      []ExtractedString `json:"strings"`
	APIEndpoints []APIEndpoint     `json:"apiEndpoints"`
	Features     []DetectedFeature `json:"features"`
	Metadata     Metadata          `json:"metadata"`
}
