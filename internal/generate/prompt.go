// Package generate turns planner decisions into help articles by prompting
// an LLM once per topic and folding the results back into the knowledge base.
package generate

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/julianshen/helpgen/internal/knowledge"
)

const systemPrompt = `You are a technical writer producing end-user help documentation for a web application. Write for non-technical users. Describe what the user sees and does, never the implementation. Base everything strictly on the provided context; do not invent UI elements or behavior.`

var articleTmpl = template.Must(template.New("article").Parse(
	`Write a help article for the feature "{{.TopicName}}" (detection confidence {{printf "%.2f" .Confidence}}).

{{if .Pages}}The feature appears on these pages:
{{range .Pages}}- {{.Path}}{{if .Strings}} (visible text: {{range $i, $s := .Strings}}{{if $i}}, {{end}}"{{$s}}"{{end}}){{end}}
{{end}}{{end}}
{{- if .Evidence}}
Code evidence:
{{range .Evidence}}- {{.SourceFile}}:{{.Line}} matched "{{.Pattern}}"
{{end}}{{end}}
Respond with a single JSON object and nothing else:
{"title": "<article title>", "pages": ["<route path>", ...], "content": "<Markdown article body>"}`))

// RenderPrompt renders the per-topic user prompt from the generation context.
func RenderPrompt(gc *knowledge.GenContext) (string, error) {
	var buf bytes.Buffer
	if err := articleTmpl.Execute(&buf, gc); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
