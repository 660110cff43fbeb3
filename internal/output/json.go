package output

import "encoding/json"

// JSONFormatter outputs RunReport as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format marshals the RunReport as indented JSON.
func (f *JSONFormatter) Format(report *RunReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
