package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const schemaVersion = 1

// Load reads the knowledge base file. A missing file yields an empty base
// so a first run starts from nothing; any other error is returned as-is
// since generating against a half-read base would clobber items.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Base{SchemaVersion: schemaVersion}, nil
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var base Base
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	if base.SchemaVersion == 0 {
		base.SchemaVersion = schemaVersion
	}
	return &base, nil
}

// Save writes the whole base atomically via a temp file rename.
func Save(path string, base *Base) error {
	data, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return fmt.Errorf("encode knowledge base: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create knowledge base dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write knowledge base: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write knowledge base: %w", err)
	}
	return nil
}

// WriteMarkdown renders every item into dir as one Markdown file per topic,
// with a metadata front matter block ahead of the generated content.
func WriteMarkdown(dir string, base *Base) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create docs dir: %w", err)
	}
	for _, item := range base.Items {
		path := filepath.Join(dir, topicFilename(item.Topic))
		if err := os.WriteFile(path, []byte(renderMarkdown(item)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// topicFilename maps a topic id to a stable file name, e.g.
// "authentication.two-factor-auth" -> "authentication-two-factor-auth.md".
func topicFilename(topic string) string {
	return strings.ReplaceAll(topic, ".", "-") + ".md"
}

func renderMarkdown(item Item) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", item.ID)
	fmt.Fprintf(&b, "topic: %s\n", item.Topic)
	fmt.Fprintf(&b, "status: %s\n", item.Status)
	fmt.Fprintf(&b, "confidence: %.2f\n", item.Confidence)
	if !item.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "generated: %s\n", item.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if len(item.Pages) > 0 {
		fmt.Fprintf(&b, "pages: %s\n", strings.Join(item.Pages, ", "))
	}
	if item.HumanEdited {
		b.WriteString("humanEdited: true\n")
	}
	if item.Pinned {
		b.WriteString("pinned: true\n")
	}
	b.WriteString("---\n\n")
	title := item.Title
	if title == "" {
		title = item.Topic
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString(strings.TrimRight(item.Content, "\n"))
	b.WriteString("\n")
	return b.String()
}
