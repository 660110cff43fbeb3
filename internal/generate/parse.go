package generate

import (
	"encoding/json"
	"strings"

	"github.com/julianshen/helpgen/internal/knowledge"
)

// articleResponse is the JSON shape the prompt asks the model for.
type articleResponse struct {
	Title   string   `json:"title"`
	Pages   []string `json:"pages"`
	Content string   `json:"content"`
}

// ParseResponse extracts a generation result from the raw model output.
// Fenced code blocks around the JSON are tolerated. When the output is not
// valid JSON at all, the whole text becomes the article body under the topic
// display name, so a sloppy model response degrades instead of failing.
func ParseResponse(topicName, response string) knowledge.GenResult {
	text := stripFences(strings.TrimSpace(response))

	var parsed articleResponse
	if err := json.Unmarshal([]byte(text), &parsed); err == nil && parsed.Content != "" {
		title := parsed.Title
		if title == "" {
			title = topicName
		}
		return knowledge.GenResult{
			Title:   title,
			Pages:   parsed.Pages,
			Content: parsed.Content,
		}
	}

	return knowledge.GenResult{
		Title:   topicName,
		Content: strings.TrimSpace(response),
	}
}

// stripFences removes a surrounding Markdown code fence, with or without a
// language tag.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	rest := text[3:]
	if idx := strings.Index(rest, "\n"); idx >= 0 {
		rest = rest[idx+1:]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}
