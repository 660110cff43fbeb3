package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCodeMap serializes a CodeMap to a cache file for inspection and
// reuse between runs.
func WriteCodeMap(path string, cm *CodeMap) error {
	data, err := json.MarshalIndent(cm, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding code map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing code map: %w", err)
	}
	return nil
}

// ReadCodeMap loads a previously cached CodeMap. Returns nil without error
// when no cache file exists.
func ReadCodeMap(path string) (*CodeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading code map: %w", err)
	}
	var cm CodeMap
	if err := json.Unmarshal(data, &cm); err != nil {
		return nil, fmt.Errorf("decoding code map: %w", err)
	}
	return &cm, nil
}
